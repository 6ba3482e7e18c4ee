package router

import (
	"path/filepath"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// Destination is one place the current image's .tbd rendering must be
// written. Most images produce exactly one; a per-filter write (§4.3.1)
// can produce several when more than one filter is HAPPENING for the same
// image. Filters lists every filter this single write satisfies — for a
// per-filter destination that's one filter, but a stdout write satisfies
// every currently-HAPPENING filter at once without writing more than once
// (mirrors write_out_tbd_info's single stdout write followed by
// write_out_tbd_info_for_filter_list's HAPPENING -> OK sweep).
type Destination struct {
	Opened     *Opened
	Filters    []*api.Filter
	DestPath   string
	PrintPaths bool
}

const tbdExt = ".tbd"

// CreatedAncestor returns the ancestor directory C4 created for this
// destination, or "" for stdout / a reused combine-file.
func (d Destination) CreatedAncestor() string {
	if d.Opened == nil {
		return ""
	}
	return d.Opened.CreatedAncestor
}

// Route implements C3: the write-path decision table. dscLocation and
// imagePath are used to tag stdout output. parseAllImages mirrors the
// orchestrator's all-images mode (spec.md §4.6).
func Route(state *api.IterationState, imagePath, dscLocation string, parseAllImages bool) ([]Destination, error) {
	spec := state.Spec

	if spec.Flags.Has(api.FlagWritePathIsFile) {
		opened, err := Open(state, spec.WritePath, spec.Flags.Has(api.FlagCombineTBDs), spec.Flags.Has(api.FlagNoOverwrite))
		if err != nil {
			return nil, err
		}
		return []Destination{{Opened: opened, DestPath: spec.WritePath}}, nil
	}

	if parseAllImages {
		dest := filepath.Join(*state.WriteDir, imagePath) + tbdExt
		opened, err := Open(state, dest, spec.Flags.Has(api.FlagCombineTBDs), spec.Flags.Has(api.FlagNoOverwrite))
		if err != nil {
			return nil, err
		}
		return []Destination{{Opened: opened, DestPath: dest}}, nil
	}

	if state.WriteDir == nil {
		var happening []*api.Filter
		for _, f := range spec.Filters {
			if f.Status == api.StatusHappening {
				happening = append(happening, f)
			}
		}
		return []Destination{{DestPath: "", PrintPaths: true, Filters: happening}}, nil
	}

	var dests []Destination
	for _, f := range spec.Filters {
		if f.Status != api.StatusHappening {
			continue
		}

		sub := perFilterSubPath(imagePath, f)
		dest := filepath.Join(*state.WriteDir, sub) + tbdExt

		opened, err := Open(state, dest, spec.Flags.Has(api.FlagCombineTBDs), spec.Flags.Has(api.FlagNoOverwrite))
		if err != nil {
			return dests, err
		}

		dests = append(dests, Destination{Opened: opened, Filters: []*api.Filter{f}, DestPath: dest})
	}

	return dests, nil
}

// perFilterSubPath computes the sub-path written beneath the write
// directory for a single HAPPENING filter (spec.md §4.3.1).
func perFilterSubPath(imagePath string, f *api.Filter) string {
	switch f.Kind {
	case api.FilterDirComponent, api.FilterFileName:
		if f.MatchOffset > 0 && f.MatchOffset <= len(imagePath) {
			return imagePath[f.MatchOffset:]
		}
		return imagePath
	default: // PathEqual
		return imagePath
	}
}
