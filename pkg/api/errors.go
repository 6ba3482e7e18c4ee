package api

// Error kinds surfaced by the core, modeled as small typed error values
// (teacher: pkg/batch/error.go's SafeError/UnsafeError) rather than
// ad-hoc wrapped strings.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrNotASharedCache means the file's magic did not match a DSC; the
	// recursion driver retries the file as a plain Mach-O.
	ErrNotASharedCache Error = "not a dyld shared cache"

	// ErrOtherError means DSC container parsing failed for a reason other
	// than a magic mismatch. This also covers the open-question decision
	// in spec.md §9: a magic-prefetch read failure is modeled as this
	// deterministic variant rather than the original's raw boolean.
	ErrOtherError Error = "failed to parse dyld shared cache"

	// ErrCloseCombineFileFail means the combine-file trailer write failed.
	ErrCloseCombineFileFail Error = "failed to write combine-file trailer"

	// ErrAlreadyExists means a destination path exists and NoOverwrite is set.
	ErrAlreadyExists Error = "destination already exists"

	// ErrWriteFail means opening or writing a destination failed for a
	// reason other than a pre-existing file under NoOverwrite.
	ErrWriteFail Error = "failed to write destination"

	// ErrNotLargeEnough means fewer than 16 bytes were available to prefetch.
	ErrNotLargeEnough Error = "file not large enough to contain a DSC magic"
)

// ParseResult is the outcome of parsing one image's Mach-O content. The
// core treats every value beyond ParseOK/ParseNoExports as opaque, routed
// through the caller-supplied parse-result handler.
type ParseResult int

const (
	ParseOK ParseResult = iota
	ParseNoExports
	ParseCorrupt
	ParseUnsupportedCPU
)

func (r ParseResult) String() string {
	switch r {
	case ParseOK:
		return "ok"
	case ParseNoExports:
		return "no exports"
	case ParseCorrupt:
		return "corrupt Mach-O"
	case ParseUnsupportedCPU:
		return "unsupported CPU type"
	default:
		return "unknown parse result"
	}
}
