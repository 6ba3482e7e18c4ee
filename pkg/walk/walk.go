// Package walk implements the recursion driver external to the core
// (spec.md §1/§9): recursively visiting a directory, handing the core one
// candidate file at a time, and carrying a combine-file handle across
// files so multiple DSCs/Mach-Os can fold into one .tbd. Modeled on the
// teacher's filepath.Walk usage in pkg/imagebuilder.
package walk

import (
	"os"
	"path/filepath"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/log"
)

// Visitor is invoked once per regular file found during the walk. It
// receives and returns the shared iteration state so a combine-file
// handle can be carried from one file to the next.
type Visitor func(path string, state *api.IterationState) (*api.IterationState, error)

// Mode mirrors the CLI's -r/--recurse values.
type Mode int

const (
	ModeNone Mode = iota
	ModeOnce      // recurse into immediate children only
	ModeAll       // recurse the full subtree
)

// Walk drives visit over root according to mode. root itself is visited
// first when it is a regular file.
func Walk(root string, mode Mode, state *api.IterationState, logger log.PluggableLoggerInterface, visit Visitor) (*api.IterationState, error) {
	info, err := os.Stat(root)
	if err != nil {
		return state, err
	}

	if !info.IsDir() {
		return visit(root, state)
	}

	if mode == ModeNone {
		return state, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return state, err
	}

	for _, e := range entries {
		full := filepath.Join(root, e.Name())

		if e.IsDir() {
			if mode == ModeAll {
				state, err = Walk(full, ModeAll, state, logger, visit)
				if err != nil {
					logger.Warn("skipping %s: %s", full, err.Error())
				}
			}
			continue
		}

		state, err = visit(full, state)
		if err != nil {
			logger.Warn("skipping %s: %s", full, err.Error())
		}
	}

	return state, nil
}
