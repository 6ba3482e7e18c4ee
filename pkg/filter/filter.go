// Package filter implements the C2 selection-filter engine: matching an
// image path against the PathEqual/DirComponent/FileName filter kinds and
// driving their three-phase status transitions (spec.md §4.2), ported from
// should_parse_image/image_path_passes_through_filter in the original tool.
package filter

import (
	"strings"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// Matches reports whether path satisfies f's matching rule. On a FileName or
// DirComponent match it also records f.MatchOffset (the byte offset the
// router needs to isolate the matched sub-path, spec.md §4.2/§4.3.1).
func Matches(path string, f *api.Filter) bool {
	switch f.Kind {
	case api.FilterPathEqual:
		return path == f.Value

	case api.FilterFileName:
		off, ok := fileNameOffset(path, f.Value)
		if ok {
			f.MatchOffset = off
		}
		return ok

	case api.FilterDirComponent:
		off, ok := dirComponentOffset(path, f.Value)
		if ok {
			f.MatchOffset = off
		}
		return ok

	default:
		return false
	}
}

// fileNameOffset reports the starting byte offset of path's final component
// when it equals name.
func fileNameOffset(path, name string) (int, bool) {
	i := strings.LastIndexByte(path, '/')
	start := 0
	if i >= 0 {
		start = i + 1
	}
	if path[start:] == name {
		return start, true
	}
	return 0, false
}

// dirComponentOffset reports the offset of the first byte after the first
// "/"-separated component of path that equals dir.
func dirComponentOffset(path, dir string) (int, bool) {
	rest := path
	consumed := 0
	for len(rest) > 0 {
		trimmedLeading := strings.TrimPrefix(rest, "/")
		consumed += len(rest) - len(trimmedLeading)
		rest = trimmedLeading

		end := strings.IndexByte(rest, '/')
		var part string
		if end < 0 {
			part = rest
		} else {
			part = rest[:end]
		}

		if part == dir {
			consumed += len(part)
			if end >= 0 {
				consumed++ // include the trailing '/'
			}
			return consumed, true
		}

		if end < 0 {
			break
		}
		consumed += len(part) + 1
		rest = rest[end+1:]
	}
	return 0, false
}

// ShouldParseImage evaluates every filter in filters against path, updating
// each filter's Status in place (NotFound -> Happening on first match, left
// untouched once already Found/OK) and reports whether the image should be
// parsed: true if ANY filter matched, matching should_parse_image's
// "keep scanning every filter even after one has matched" behavior, since
// later filters still need their own Happening transition recorded.
func ShouldParseImage(filters []*api.Filter, path string) bool {
	shouldParse := false

	for _, f := range filters {
		parsed := f.WasParsed()
		if parsed && shouldParse {
			continue
		}

		if Matches(path, f) {
			if !parsed {
				f.Status = api.StatusHappening
			}
			shouldParse = true
		}
	}

	return shouldParse
}

// UnmarkHappeningFilters resets every filter still in StatusHappening back
// to StatusNotFound. Called when an image's filters matched but the parse
// itself failed or produced nothing: the match was provisional, not final.
func UnmarkHappeningFilters(filters []*api.Filter) {
	for _, f := range filters {
		if f.Status == api.StatusHappening {
			f.Status = api.StatusNotFound
		}
	}
}

// FoundEntireFilterList reports whether every filter has reached a terminal
// (parsed) state.
func FoundEntireFilterList(filters []*api.Filter) bool {
	for _, f := range filters {
		if !f.WasParsed() {
			return false
		}
	}
	return true
}
