package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/common"
	"github.com/tagliamonte-labs/dsctbd/pkg/config"
	"github.com/tagliamonte-labs/dsctbd/pkg/dsc"
	"github.com/tagliamonte-labs/dsctbd/pkg/extract"
	"github.com/tagliamonte-labs/dsctbd/pkg/ledger"
	"github.com/tagliamonte-labs/dsctbd/pkg/log"
	"github.com/tagliamonte-labs/dsctbd/pkg/macho"
	"github.com/tagliamonte-labs/dsctbd/pkg/progress"
	"github.com/tagliamonte-labs/dsctbd/pkg/tbd"
	"github.com/tagliamonte-labs/dsctbd/pkg/walk"
)

// ExtractFlowController drives the `extract` subcommand: apply the
// configured rendering profile, dispatch a single file or an entire
// directory tree, and finalize any open combine-file.
type ExtractFlowController struct {
	Options *common.ExtractOptions
	Log     log.PluggableLoggerInterface
}

func NewExtractFlowController(options *common.ExtractOptions, logger log.PluggableLoggerInterface) *ExtractFlowController {
	return &ExtractFlowController{Options: options, Log: logger}
}

// Run implements the extract flow: builds the selection spec, applies an
// optional rendering profile, runs write-path verification, then walks or
// single-shots the target path.
func (c *ExtractFlowController) Run() error {
	spec := c.Options.BuildSelectionSpec()

	if c.Options.ConfigPath != "" {
		profile, err := (config.Loader{}).Read(c.Options.ConfigPath)
		if err != nil {
			return fmt.Errorf("%w", err)
		}
		toggles := profile.MachOToggles()
		spec.Render.MachOOptions.AllowPrivateSymbols = toggles.AllowPrivateSymbols
		spec.Render.MachOOptions.AllowPrivateObjC = toggles.AllowPrivateObjC
		spec.Render.MachOOptions.IgnoreUnsupportedArch = toggles.IgnoreUnsupportedArch
	}

	// The real CLI entry points always verify the write path (the flag
	// exists for library-style callers that pre-validate it themselves).
	spec.Flags |= api.FlagVerifyWritePath
	if err := extract.VerifyWritePath(spec); err != nil {
		return fmt.Errorf("%w", err)
	}

	var writeDir *string
	if spec.WritePath != "" && !spec.Flags.Has(api.FlagWritePathIsFile) {
		writeDir = &spec.WritePath
	}

	deps := extract.Deps{
		MachO:  macho.GoMachoParser{},
		TBD:    tbd.TextWriter{},
		Log:    c.Log,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	if c.Options.SkipUnchanged {
		dir := c.Options.LedgerDir
		if dir == "" {
			dir = "."
		}
		led, err := ledger.New(dir, c.Log, ledger.OSFileCreator{})
		if err != nil {
			return fmt.Errorf("%w", err)
		}
		entries, err := led.Read()
		if err != nil {
			return fmt.Errorf("%w", err)
		}
		deps.Ledger = led
		deps.LedgerEntries = entries
		deps.LedgerUpdates = make(map[string]string)
	}

	visit := func(path string, state *api.IterationState) (*api.IterationState, error) {
		return processOneFile(path, spec, writeDir, state, deps)
	}

	initial := &api.IterationState{Spec: spec, WriteDir: writeDir, Render: &api.RenderState{}}

	var final *api.IterationState
	var err error
	if c.Options.Recurse != "" {
		mode := walk.ModeOnce
		if c.Options.Recurse == "all" {
			mode = walk.ModeAll
		}

		reporter := progress.NewReporter(c.Options.Path, countWalkTargets(c.Options.Path, mode), c.Options.Quiet)
		counting := func(path string, state *api.IterationState) (*api.IterationState, error) {
			next, visitErr := visit(path, state)
			reporter.Advance()
			return next, visitErr
		}

		final, err = walk.Walk(c.Options.Path, mode, initial, c.Log, counting)
		reporter.Done()
	} else {
		final, err = visit(c.Options.Path, initial)
	}
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	if err := extract.Finalize(final, deps); err != nil {
		return err
	}

	if deps.Ledger != nil && len(deps.LedgerUpdates) > 0 {
		if _, err := deps.Ledger.Append(deps.LedgerUpdates); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

// countWalkTargets pre-counts regular files the walk will visit, so the
// progress bar can show a determinate total instead of a spinner.
func countWalkTargets(root string, mode walk.Mode) int {
	n := 0
	_, _ = walk.Walk(root, mode, &api.IterationState{}, nopLogger{}, func(path string, state *api.IterationState) (*api.IterationState, error) {
		n++
		return state, nil
	})
	return n
}

type nopLogger struct{}

func (nopLogger) Trace(string, ...any) {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// processOneFile dispatches a single file as either a DSC (running the
// full orchestrator) or, when its magic doesn't match, a bare Mach-O image
// (the external fallback spec.md §6 describes for NOT_A_SHARED_CACHE).
func processOneFile(path string, spec *api.SelectionSpec, writeDir *string, state *api.IterationState, deps extract.Deps) (*api.IterationState, error) {
	f, err := os.Open(path)
	if err != nil {
		return state, fmt.Errorf("%w", err)
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return state, fmt.Errorf("%w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return state, fmt.Errorf("%w", err)
	}

	buf := make([]byte, dsc.MagicSize)
	if _, err := dsc.PrefetchMagic(buf, 0, f); err != nil && err != api.ErrNotLargeEnough {
		return state, fmt.Errorf("%w", err)
	}

	var magic [dsc.MagicSize]byte
	copy(magic[:], buf)

	view, parseErr := (dsc.FileParser{}).ParseFromFile(f, size, magic, spec.Render.ParseOptions)
	if parseErr == api.ErrNotASharedCache {
		return state, extractSingleMachO(path, f, size, spec, writeDir, state, deps)
	}
	if parseErr != nil {
		return state, parseErr
	}

	state.View = view
	state.DSCLocation = path
	extract.Run(state, deps, spec.Flags.Has(api.FlagRecurseDirectories))
	return state, nil
}

// extractSingleMachO handles the Mach-O-fallback path: the file is treated
// as exactly one image at path, routed the same way C5 would route it.
func extractSingleMachO(path string, f *os.File, size int64, spec *api.SelectionSpec, writeDir *string, state *api.IterationState, deps extract.Deps) error {
	state.View = &api.DSCView{Data: make([]byte, 0)}
	state.Spec = spec
	state.WriteDir = writeDir
	state.DSCLocation = path
	state.ResetForImage()

	parseAllImages := len(spec.Filters) == 0 && writeDir != nil
	_, err := extract.ExtractOne(state, deps, f, size, path, path, parseAllImages, spec.Flags.Has(api.FlagRecurseDirectories))
	return err
}
