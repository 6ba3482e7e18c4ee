// Package common holds ExtractOptions, the CLI-facing options struct
// threaded through every package, modeled on the teacher's
// pkg/common.MirrorOptions.
package common

import (
	"github.com/google/uuid"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// ExtractOptions carries every flag that can influence a single `dsctbd
// extract` invocation.
type ExtractOptions struct {
	Path                 string // DSC (or Mach-O) file to read
	Output               string // write-path: file, directory, or "" for stdout
	Recurse              string // "", "once", "all"
	Combine              bool
	NoOverwrite          bool
	PreserveSubdirs      bool
	ReplacePathExtension bool

	FilterDirectories []string
	FilterFilenames   []string
	FilterNumbers     []uint32
	FilterPaths       []string

	IgnoreWarnings bool
	Quiet          bool
	LogLevel       string

	SkipUnchanged bool // gates the ledger enrichment (SPEC_FULL.md §9)
	LedgerDir     string

	ConfigPath string // optional YAML rendering-profile (pkg/config)

	ListDSCImages bool
	Ordered       bool

	InvocationID uuid.UUID
}

// BuildSelectionSpec assembles an api.SelectionSpec from the flat CLI
// options. Filters are grouped by kind: paths, then directories, then
// filenames; within each kind they keep their command-line order.
func (o *ExtractOptions) BuildSelectionSpec() *api.SelectionSpec {
	spec := &api.SelectionSpec{
		Numbers: append([]uint32(nil), o.FilterNumbers...),
	}

	for _, p := range o.FilterPaths {
		spec.Filters = append(spec.Filters, &api.Filter{Kind: api.FilterPathEqual, Value: p})
		spec.FilterPathCount++
	}
	for _, d := range o.FilterDirectories {
		spec.Filters = append(spec.Filters, &api.Filter{Kind: api.FilterDirComponent, Value: d})
	}
	for _, f := range o.FilterFilenames {
		spec.Filters = append(spec.Filters, &api.Filter{Kind: api.FilterFileName, Value: f})
	}

	var flags api.OutputFlags
	if o.Combine {
		flags |= api.FlagCombineTBDs
	}
	if o.NoOverwrite {
		flags |= api.FlagNoOverwrite
	}
	if o.IgnoreWarnings {
		flags |= api.FlagIgnoreWarnings
	}
	if o.Recurse != "" {
		flags |= api.FlagRecurseDirectories
	}
	// IgnoreUUIDs is always set; IgnoreFooter only in combine mode, where
	// Finalize writes the single trailer.
	flags |= api.FlagIgnoreUUIDs
	if o.Combine {
		flags |= api.FlagIgnoreFooter
	}

	spec.Flags = flags
	spec.WritePath = o.Output
	spec.Render.WriteOptions.IgnoreUUIDs = true
	spec.Render.WriteOptions.IgnoreFooter = o.Combine
	spec.Render.ParseOptions.ZeroImagePads = true

	return spec
}

// IsRecursing reports whether this invocation runs inside the directory
// recursion driver (pkg/walk), as opposed to a stand-alone single-file run.
func (o *ExtractOptions) IsRecursing() bool { return o.Recurse != "" }
