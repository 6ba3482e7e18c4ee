// Package extract implements the per-image driver (C5), the DSC iteration
// orchestrator (C6), the combine-file finalizer (C7), the image-list
// printer (C8), and write-path verification (§4.9) — the top half of the
// pipeline that ties the filter engine, router, Mach-O parser, and .tbd
// serializer together (spec.md §4.5-§4.9).
package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/ledger"
	"github.com/tagliamonte-labs/dsctbd/pkg/log"
	"github.com/tagliamonte-labs/dsctbd/pkg/macho"
	"github.com/tagliamonte-labs/dsctbd/pkg/router"
	"github.com/tagliamonte-labs/dsctbd/pkg/tbd"
)

// ParseResultHandler decides whether a non-OK, non-NoExports parse result
// is recoverable for the current run (spec.md §4.5 step 2). The default
// treats everything as unrecoverable.
type ParseResultHandler func(result api.ParseResult) (recoverable bool)

// DefaultParseResultHandler never tolerates a parse failure beyond
// ParseNoExports, which ExtractOne handles as a warning regardless.
func DefaultParseResultHandler(api.ParseResult) bool { return false }

// Deps bundles the collaborators ExtractOne needs, so callers don't thread
// half a dozen separate values through every call.
type Deps struct {
	MachO    macho.Parser
	TBD      tbd.Writer
	Log      log.PluggableLoggerInterface
	OnResult ParseResultHandler
	Stdout   io.Writer
	Stderr   io.Writer

	// Ledger, when set (--skip-unchanged), makes writeDestination render
	// to a buffer first and skip the real write when the digest matches
	// LedgerEntries. LedgerUpdates accumulates digests for paths actually
	// written, for the caller to Append once the run finishes.
	Ledger        ledger.Ledger
	LedgerEntries map[string]string
	LedgerUpdates map[string]string
}

// ExtractOne implements C5: extract a single selected image, routing its
// .tbd rendering to the destination(s) C3 picks. Returns whether the image
// was actually extracted (the caller sets ALREADY_EXTRACTED on true, and
// unmarks HAPPENING filters back to NOT_FOUND on false).
func ExtractOne(
	state *api.IterationState,
	deps Deps,
	machoReader io.ReaderAt,
	machoSize int64,
	imagePath, dscLocation string,
	parseAllImages bool,
	recurseDirectories bool,
) (bool, error) {
	// The exports are snapshotted at restore time, after parsing, so the
	// symbols this image added are carried into the next image.
	defer func() {
		state.Render.Restore(state.Render.Snapshot())
	}()

	onResult := deps.OnResult
	if onResult == nil {
		onResult = DefaultParseResultHandler
	}

	result := deps.MachO.ParseImage(state.Render, machoReader, machoSize, state.Spec.Render.MachOOptions)

	switch result {
	case api.ParseOK:
		// fall through to routing below

	case api.ParseNoExports:
		if !(state.Spec.Flags.Has(api.FlagIgnoreWarnings) && recurseDirectories) {
			fmt.Fprintf(deps.Stderr, "warning: %s has no exported symbols\n", imagePath)
		}

	default:
		if !onResult(result) {
			fmt.Fprintf(deps.Stderr, "error: failed to parse %s: %s\n", imagePath, result)
			return false, nil
		}
	}

	if state.PathLen == 0 {
		state.PathLen = len(imagePath)
	}

	dests, err := router.Route(state, imagePath, dscLocation, parseAllImages)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to open destination for %s: %v\n", imagePath, err)
		return false, nil
	}

	wrote := false
	for _, dest := range dests {
		wrote = writeDestination(state, deps, dest, imagePath, dscLocation) || wrote
	}

	return wrote, nil
}

func writeDestination(state *api.IterationState, deps Deps, dest router.Destination, imagePath, dscLocation string) bool {
	var w io.Writer
	target := dest.DestPath
	closeAfter := false

	if dest.Opened == nil {
		w = deps.Stdout
		target = dscLocation + ": " + imagePath
	} else {
		w = dest.Opened.Writer
		// The combine-file handle is shared across every image; only
		// Finalize closes it, after the trailer is written.
		closeAfter = !dest.Opened.Combine
	}

	// --skip-unchanged: render to a buffer first so the digest can be
	// compared against the ledger before touching the real destination.
	if dest.Opened != nil && deps.Ledger != nil {
		var buf bytes.Buffer
		if err := deps.TBD.WriteToFile(state.Render, dest.DestPath, dest.CreatedAncestor(), &buf, dest.PrintPaths, state.Spec.Render.WriteOptions); err != nil {
			if closeAfter {
				dest.Opened.Writer.Close()
			}
			fmt.Fprintf(deps.Stderr, "error: failed to render %s: %v\n", target, err)
			setFilterStatus(dest.Filters, api.StatusFound)
			return false
		}

		sum := ledger.Digest(buf.Bytes())
		if deps.LedgerEntries[dest.DestPath] == sum {
			if closeAfter {
				dest.Opened.Writer.Close()
			}
			setFilterStatus(dest.Filters, api.StatusOK)
			return true
		}

		_, err := w.Write(buf.Bytes())
		if closeAfter {
			dest.Opened.Writer.Close()
		}
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: failed to write %s: %v\n", target, err)
			setFilterStatus(dest.Filters, api.StatusFound)
			return false
		}
		if deps.LedgerUpdates != nil {
			deps.LedgerUpdates[dest.DestPath] = sum
		}
		setFilterStatus(dest.Filters, api.StatusOK)
		return true
	}

	err := deps.TBD.WriteToFile(state.Render, dest.DestPath, dest.CreatedAncestor(), w, dest.PrintPaths, state.Spec.Render.WriteOptions)
	if closeAfter {
		dest.Opened.Writer.Close()
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write %s: %v\n", target, err)
		setFilterStatus(dest.Filters, api.StatusFound)
		return false
	}
	setFilterStatus(dest.Filters, api.StatusOK)
	return true
}

// setFilterStatus applies status to every filter this destination's write
// satisfied — a stdout write can satisfy more than one simultaneously
// HAPPENING filter with a single write (spec.md §4.3.1).
func setFilterStatus(filters []*api.Filter, status api.FilterStatus) {
	for _, f := range filters {
		f.Status = status
	}
}
