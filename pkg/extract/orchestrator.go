package extract

import (
	"fmt"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/dsc"
	"github.com/tagliamonte-labs/dsctbd/pkg/filter"
)

// Run implements C6, the DSC iteration orchestrator: picks one of the three
// entry modes from spec.md §4.6, drains the image table, and prints the
// post-iteration diagnostics before returning.
func Run(state *api.IterationState, deps Deps, recurseDirectories bool) error {
	spec := state.Spec
	hasNumbers := len(spec.Numbers) > 0
	hasFilters := len(spec.Filters) > 0

	var outOfRange []uint32

	switch {
	case hasNumbers && !hasFilters:
		outOfRange = runNumbersPass(state, deps, recurseDirectories)
		printDiagnostics(state, deps, outOfRange)
		return nil

	case hasNumbers && hasFilters:
		outOfRange = runNumbersPass(state, deps, recurseDirectories)
		runMainLoop(state, deps, recurseDirectories, false)

	default:
		runMainLoop(state, deps, recurseDirectories, !hasFilters)
	}

	printDiagnostics(state, deps, outOfRange)
	return nil
}

// runNumbersPass extracts the spec's 1-based image numbers in the order
// the user supplied them, marking ALREADY_EXTRACTED on success. Out-of-range
// numbers are collected for the post-iteration diagnostic.
func runNumbersPass(state *api.IterationState, deps Deps, recurseDirectories bool) []uint32 {
	view := state.View
	var outOfRange []uint32

	for _, n := range state.Spec.Numbers {
		if n == 0 || int(n) > len(view.Images) {
			outOfRange = append(outOfRange, n)
			continue
		}

		idx := int(n) - 1
		img := &view.Images[idx]
		if img.IsAlreadyExtracted() {
			continue
		}

		path := view.PathAt(idx)
		if path == "" {
			continue
		}

		state.ResetForImage()
		// A numbered image has no filter to route by: it goes to
		// WriteDir/<image path>.tbd, or to stdout when WriteDir is nil.
		extracted := extractImage(state, deps, idx, path, recurseDirectories, state.WriteDir != nil)
		if extracted {
			img.MarkExtracted()
		}
	}

	return outOfRange
}

// runMainLoop implements the main loop described in spec.md §4.6: index
// order 0..N-1, skipping already-extracted or pathless records, consulting
// the filter engine unless allImages is set.
func runMainLoop(state *api.IterationState, deps Deps, recurseDirectories bool, allImages bool) {
	view := state.View

	for i := range view.Images {
		img := &view.Images[i]
		if img.IsAlreadyExtracted() {
			continue
		}

		path := view.PathAt(i)
		if path == "" {
			continue
		}

		state.ResetForImage()

		if !allImages {
			if !filter.ShouldParseImage(state.Spec.Filters, path) {
				continue
			}
		}

		extracted := extractImage(state, deps, i, path, recurseDirectories, allImages)
		if extracted {
			img.MarkExtracted()
		} else {
			filter.UnmarkHappeningFilters(state.Spec.Filters)
		}
	}
}

func extractImage(state *api.IterationState, deps Deps, idx int, path string, recurseDirectories, allImages bool) bool {
	img := &state.View.Images[idx]
	r := dsc.MachOReaderAt(state.View, idx)
	size := int64(len(state.View.Data)) - int64(img.MachOOffset)

	extracted, err := ExtractOne(state, deps, r, size, path, state.DSCLocation, allImages, recurseDirectories)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return false
	}
	return extracted
}
