package extract

import (
	"fmt"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// printDiagnostics implements the C6-diagnostics pass from spec.md §7:
// a per-DSC banner followed by a summary line per filter that never
// reached OK, plus a line for every out-of-range image number.
func printDiagnostics(state *api.IterationState, deps Deps, outOfRange []uint32) {
	ignoreWarnings := state.Spec.Flags.Has(api.FlagIgnoreWarnings)

	lines := missingFilterLines(state.Spec.Filters, state.Spec.Flags)
	for _, n := range outOfRange {
		lines = append(lines, fmt.Sprintf("Image number %d is out of range", n))
	}

	if len(lines) == 0 {
		return
	}
	if ignoreWarnings {
		return
	}

	printBanner(state, deps)
	for _, line := range lines {
		fmt.Fprintln(deps.Stderr, line)
	}
}

func printBanner(state *api.IterationState, deps Deps) {
	if state.PrintedHeader {
		return
	}
	fmt.Fprintf(deps.Stderr, "Parsing dyld_shared_cache file (at %s) resulted in the following warnings and errors:\n", state.DSCLocation)
	state.PrintedHeader = true
}

// missingFilterLines builds the per-filter summary described in spec.md §7:
// a "no images found" line for anything never parsed, and an "at least one
// image matched but was not successfully parsed" line for anything stuck
// at FOUND — except PathEqual filters in FOUND, which the original
// silently suppresses. FlagShowPathFilterFoundDiagnostic (an open-question
// decision, SPEC_FULL.md §9) turns that suppression into a choice.
func missingFilterLines(filters []*api.Filter, flags api.OutputFlags) []string {
	var lines []string

	for _, f := range filters {
		switch f.Status {
		case api.StatusNotFound:
			lines = append(lines, notFoundLine(f))

		case api.StatusFound:
			if f.Kind == api.FilterPathEqual && !flags.Has(api.FlagShowPathFilterFoundDiagnostic) {
				continue
			}
			lines = append(lines, foundButUnwrittenLine(f))
		}
	}

	return lines
}

func notFoundLine(f *api.Filter) string {
	switch f.Kind {
	case api.FilterFileName:
		return fmt.Sprintf("No images were found that passed the provided filter (a file named: %s)", f.Value)
	case api.FilterDirComponent:
		return fmt.Sprintf("No images were found that passed the provided filter (a directory named: %s)", f.Value)
	default:
		return fmt.Sprintf("No images were found that passed the provided filter (path: %s)", f.Value)
	}
}

func foundButUnwrittenLine(f *api.Filter) string {
	switch f.Kind {
	case api.FilterFileName:
		return fmt.Sprintf("At least one image matching the filter (a file named: %s) was not successfully parsed", f.Value)
	case api.FilterDirComponent:
		return fmt.Sprintf("At least one image matching the filter (a directory named: %s) was not successfully parsed", f.Value)
	default:
		return fmt.Sprintf("At least one image matching the filter (path: %s) was not successfully parsed", f.Value)
	}
}
