// Package api holds the data model shared across the DSC extraction
// pipeline: image records, filters, selection specs, and iteration state.
package api

// FilterKind identifies one of the three filter predicate shapes a caller
// can select images by.
type FilterKind int

const (
	FilterPathEqual FilterKind = iota
	FilterDirComponent
	FilterFileName
)

func (k FilterKind) String() string {
	switch k {
	case FilterPathEqual:
		return "path"
	case FilterDirComponent:
		return "directory"
	case FilterFileName:
		return "file"
	default:
		return "unknown"
	}
}

// FilterStatus tracks a filter's match lifecycle across a single
// extraction pass. See the three-phase protocol in DESIGN.md.
type FilterStatus int

const (
	StatusNotFound FilterStatus = iota
	StatusHappening
	StatusFound
	StatusOK
)

// Filter is a single selection predicate plus its mutable match state.
// Filters are always referenced by pointer: their Status and MatchOffset
// fields are the one piece of intentionally shared mutable state in this
// design (spec.md Design Note: "Filter status three-phase protocol").
type Filter struct {
	Kind   FilterKind
	Value  string
	Status FilterStatus

	// MatchOffset is the byte offset within the most recently matched
	// image path that the router needs to reuse: for FilterFileName, the
	// start of the matched basename; for FilterDirComponent, the first
	// byte after the matched component's trailing slash. Unused for
	// FilterPathEqual.
	MatchOffset int
}

// WasParsed reports whether a filter has already produced at least one
// match in the current pass (successful or not).
func (f *Filter) WasParsed() bool {
	return f.Status == StatusFound || f.Status == StatusOK
}

// OutputFlags is a bit set of rendering/routing toggles threaded through
// the selection spec, mirroring the C original's F_TBD_FOR_MAIN_* flags.
type OutputFlags uint32

const (
	FlagWritePathIsFile OutputFlags = 1 << iota
	FlagCombineTBDs
	FlagNoOverwrite
	FlagIgnoreWarnings
	FlagRecurseDirectories
	FlagIgnoreUUIDs
	FlagIgnoreFooter
	// FlagShowPathFilterFoundDiagnostic is an open-question decision
	// (see SPEC_FULL.md §9): the original silently suppresses the
	// FOUND-status summary line for PathEqual filters. This flag makes
	// that suppression a configuration knob instead of a hard silence.
	FlagShowPathFilterFoundDiagnostic
	FlagVerifyWritePath
)

func (f OutputFlags) Has(bit OutputFlags) bool { return f&bit != 0 }

// RenderOptions groups the options passed down to the Mach-O parser and
// the .tbd serializer; the core treats their contents as opaque.
type RenderOptions struct {
	MachOOptions MachOOptions
	ParseOptions ParseOptions
	WriteOptions WriteOptions
}

// MachOOptions configures the Mach-O parser's traversal of an image.
type MachOOptions struct {
	AllowPrivateSymbols   bool
	AllowPrivateObjC      bool
	IgnoreUnsupportedArch bool
}

// ParseOptions configures DSC/Mach-O container parsing.
type ParseOptions struct {
	ZeroImagePads bool
}

// WriteOptions configures the .tbd serializer.
type WriteOptions struct {
	IgnoreUUIDs  bool
	IgnoreFooter bool
}

// SelectionSpec is the user's selection of which images to extract.
type SelectionSpec struct {
	Filters         []*Filter
	Numbers         []uint32 // 1-based, user order preserved
	FilterPathCount int      // denormalized count of FilterPathEqual filters
	Render          RenderOptions
	Flags           OutputFlags
	WritePath       string // "" means stdout / not yet known
}

// RenderState is the render-state export the Mach-O parser populates and
// the .tbd serializer reads. Exports is carried across the per-image
// snapshot/restore cycle because in combine-mode it accumulates rather
// than being replaced (spec.md §4.5 step 5).
type RenderState struct {
	Exports        []ExportSymbol
	Archs          []string
	Platform       string
	ObjCConstraint string
	SwiftVersion   string
	UUID           [16]byte
	HasUUID        bool
}

// ExportSymbol is one exported symbol surfaced by the Mach-O parser.
type ExportSymbol struct {
	Name      string
	Weak      bool
	ObjCClass bool
}

// Snapshot returns a copy of the Exports slice header (not a deep copy of
// its contents) suitable for later restoration via Restore.
func (r *RenderState) Snapshot() []ExportSymbol {
	return r.Exports
}

// Restore clears every field except Exports, then reinstates the exports
// slice captured by an earlier Snapshot call. This mirrors clear_create_info
// in the original source: everything is cleared except the accumulated
// exports array.
func (r *RenderState) Restore(exports []ExportSymbol) {
	*r = RenderState{Exports: exports}
}

// CombineFile is the shared output handle used in combine-mode. It may be
// owned by the current call (stand-alone mode) or lent by a recursion
// driver and handed back via an output parameter (spec.md §9).
type CombineFile struct {
	Writer WriteCloserNamer
}

// WriteCloserNamer is the minimal surface the combine-file needs: writable,
// closeable, and able to report its own destination for diagnostics.
type WriteCloserNamer interface {
	Write(p []byte) (int, error)
	Close() error
	Name() string
}

// IterationState is the per-invocation state threaded through C3-C6.
type IterationState struct {
	View          *DSCView
	Spec          *SelectionSpec
	WriteDir      *string // nil means stdout
	Combine       *CombineFile
	Render        *RenderState // shared across images; snapshot/restore owns its lifecycle
	PathLen       int          // lazily cached length of the current image's path
	PrintPaths    bool
	PrintedHeader bool
	DSCLocation   string // for diagnostics when PrintPaths is true
}

// ResetForImage clears the per-image scratch fields before processing the
// next candidate image.
func (s *IterationState) ResetForImage() {
	s.PathLen = 0
}
