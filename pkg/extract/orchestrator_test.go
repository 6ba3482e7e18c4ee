package extract_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/extract"
)

func newView(paths []string) *api.DSCView {
	data := []byte{}
	images := make([]api.ImageRecord, len(paths))
	for i, p := range paths {
		images[i] = api.ImageRecord{PathOffset: uint32(len(data))}
		data = append(data, []byte(p)...)
		data = append(data, 0)
	}
	// pad so MachOOffset-derived sizes in extractImage never go negative
	data = append(data, make([]byte, 64)...)
	for i := range images {
		images[i].MachOOffset = uint32(len(data))
	}
	return &api.DSCView{Data: data, Images: images}
}

func TestRunAllImagesMode(t *testing.T) {
	tmp := t.TempDir()
	view := newView([]string{"/usr/lib/libA.dylib", "/usr/lib/libB.dylib", "/System/libC.dylib"})
	spec := &api.SelectionSpec{}
	state := &api.IterationState{View: view, Spec: spec, WriteDir: &tmp, Render: &api.RenderState{}, DSCLocation: "test.dsc"}

	deps := extract.Deps{MachO: fakeMachO{result: api.ParseOK}, TBD: &fakeTBD{}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	require.NoError(t, extract.Run(state, deps, false))

	for _, p := range []string{"usr/lib/libA.dylib.tbd", "usr/lib/libB.dylib.tbd", "System/libC.dylib.tbd"} {
		_, err := os.Stat(filepath.Join(tmp, p))
		assert.NoError(t, err)
	}
	for i := range view.Images {
		assert.True(t, view.Images[i].IsAlreadyExtracted())
	}
}

func TestRunNumbersOnlyFastPath(t *testing.T) {
	tmp := t.TempDir()
	view := newView([]string{"/usr/lib/libA.dylib", "/usr/lib/libB.dylib", "/System/libC.dylib"})
	spec := &api.SelectionSpec{Numbers: []uint32{2}}
	state := &api.IterationState{View: view, Spec: spec, WriteDir: &tmp, Render: &api.RenderState{}, DSCLocation: "test.dsc"}

	deps := extract.Deps{MachO: fakeMachO{result: api.ParseOK}, TBD: &fakeTBD{}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	require.NoError(t, extract.Run(state, deps, false))

	assert.True(t, view.Images[1].IsAlreadyExtracted())
	assert.False(t, view.Images[0].IsAlreadyExtracted())
	assert.False(t, view.Images[2].IsAlreadyExtracted())
}

func TestRunFilteredModeUnmarksHappeningOnFailure(t *testing.T) {
	tmp := t.TempDir()
	view := newView([]string{"/usr/lib/libA.dylib"})
	f := &api.Filter{Kind: api.FilterFileName, Value: "libA.dylib"}
	spec := &api.SelectionSpec{Filters: []*api.Filter{f}}
	state := &api.IterationState{View: view, Spec: spec, WriteDir: &tmp, Render: &api.RenderState{}, DSCLocation: "test.dsc"}

	deps := extract.Deps{MachO: fakeMachO{result: api.ParseCorrupt}, TBD: &fakeTBD{}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	require.NoError(t, extract.Run(state, deps, false))

	assert.Equal(t, api.StatusNotFound, f.Status)
	assert.False(t, view.Images[0].IsAlreadyExtracted())
}

func TestRunFilteredModeTransitionsOKOnSuccess(t *testing.T) {
	tmp := t.TempDir()
	view := newView([]string{"/usr/lib/libA.dylib"})
	f := &api.Filter{Kind: api.FilterFileName, Value: "libA.dylib"}
	spec := &api.SelectionSpec{Filters: []*api.Filter{f}}
	state := &api.IterationState{View: view, Spec: spec, WriteDir: &tmp, Render: &api.RenderState{}, DSCLocation: "test.dsc"}

	deps := extract.Deps{MachO: fakeMachO{result: api.ParseOK}, TBD: &fakeTBD{}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	require.NoError(t, extract.Run(state, deps, false))

	assert.Equal(t, api.StatusOK, f.Status)
	assert.True(t, view.Images[0].IsAlreadyExtracted())
}
