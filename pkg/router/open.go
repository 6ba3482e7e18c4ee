// Package router implements the write-path router (C3) and file opener
// (C4): picking an output destination from the iteration state and a
// filter's match, then opening it with ancestor-directory creation and an
// overwrite policy (spec.md §4.3/§4.4), ported from write_to_path and
// open_file_for_path in the original tool.
package router

import (
	"os"
	"path/filepath"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// Opened is the result of a C4 open: the writable destination, plus the
// topmost ancestor directory this call created (empty if none), so a
// caller can roll back the whole created subtree on a later failure.
type Opened struct {
	Writer          api.WriteCloserNamer
	CreatedAncestor string
	ReusedCombine   bool
	// Combine is true whenever Writer is the shared combine-file handle
	// (freshly opened or reused) — the only handle a caller must NOT
	// close after a single image's write, since later images still
	// write to it and Finalize owns closing it exactly once.
	Combine bool
}

// Open implements C4. combine reports whether combine-mode is active;
// noOverwrite is the spec's NO_OVERWRITE flag.
func Open(state *api.IterationState, path string, combine bool, noOverwrite bool) (*Opened, error) {
	if combine && state.Combine != nil {
		return &Opened{Writer: state.Combine.Writer, ReusedCombine: true, Combine: true}, nil
	}

	createdAncestor := ""
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		createdAncestor = shallowestMissingAncestor(dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	if noOverwrite {
		if _, err := os.Stat(path); err == nil {
			rollback(createdAncestor)
			return nil, api.ErrAlreadyExists
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		rollback(createdAncestor)
		return nil, err
	}

	opened := &Opened{Writer: f, CreatedAncestor: createdAncestor, Combine: combine}
	if combine {
		state.Combine = &api.CombineFile{Writer: f}
	}
	return opened, nil
}

// shallowestMissingAncestor walks up from dir and returns the topmost
// directory that does not yet exist — the root of the subtree Open is
// about to create, and thus the unit of rollback.
func shallowestMissingAncestor(dir string) string {
	cur := dir
	shallowest := dir
	for {
		if _, err := os.Stat(cur); err == nil {
			break
		}
		shallowest = cur
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return shallowest
}

// rollback best-effort removes the subtree Open created. Errors are
// ignored: another writer may have already populated it concurrently.
func rollback(createdAncestor string) {
	if createdAncestor == "" {
		return
	}
	_ = os.RemoveAll(createdAncestor)
}
