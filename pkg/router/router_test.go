package router_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/router"
)

func newState(t *testing.T, writeDir *string, spec *api.SelectionSpec) *api.IterationState {
	t.Helper()
	return &api.IterationState{WriteDir: writeDir, Spec: spec}
}

func TestOpenCreatesAncestorsAndRemembersRollbackRoot(t *testing.T) {
	tmp := t.TempDir()
	dest := filepath.Join(tmp, "a", "b", "c", "out.tbd")

	state := newState(t, nil, &api.SelectionSpec{})
	opened, err := router.Open(state, dest, false, false)
	require.NoError(t, err)
	defer opened.Writer.Close()

	assert.Equal(t, filepath.Join(tmp, "a"), opened.CreatedAncestor)

	_, statErr := os.Stat(dest)
	assert.NoError(t, statErr)
}

func TestOpenNoOverwriteFailsOnExistingFile(t *testing.T) {
	tmp := t.TempDir()
	dest := filepath.Join(tmp, "out.tbd")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0644))

	state := newState(t, nil, &api.SelectionSpec{})
	_, err := router.Open(state, dest, false, true)
	assert.ErrorIs(t, err, api.ErrAlreadyExists)

	contents, _ := os.ReadFile(dest)
	assert.Equal(t, "old", string(contents))
}

func TestOpenCombineModeReusesHandle(t *testing.T) {
	tmp := t.TempDir()
	dest := filepath.Join(tmp, "out.tbd")

	state := newState(t, nil, &api.SelectionSpec{})
	first, err := router.Open(state, dest, true, false)
	require.NoError(t, err)
	defer first.Writer.Close()

	second, err := router.Open(state, filepath.Join(tmp, "other.tbd"), true, false)
	require.NoError(t, err)
	assert.True(t, second.ReusedCombine)
	assert.Equal(t, first.Writer.Name(), second.Writer.Name())
}

func TestRouteWritePathIsFile(t *testing.T) {
	tmp := t.TempDir()
	dest := filepath.Join(tmp, "out.tbd")
	spec := &api.SelectionSpec{WritePath: dest, Flags: api.FlagWritePathIsFile}
	state := newState(t, nil, spec)

	dests, err := router.Route(state, "/usr/lib/libA.dylib", "cache.dsc", false)
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.Equal(t, dest, dests[0].DestPath)
	dests[0].Opened.Writer.Close()
}

func TestRouteParseAllImages(t *testing.T) {
	tmp := t.TempDir()
	spec := &api.SelectionSpec{}
	state := newState(t, &tmp, spec)

	dests, err := router.Route(state, "/usr/lib/libA.dylib", "cache.dsc", true)
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.Equal(t, filepath.Join(tmp, "/usr/lib/libA.dylib")+".tbd", dests[0].DestPath)
	dests[0].Opened.Writer.Close()
}

func TestRouteStdoutWhenNoWriteDir(t *testing.T) {
	spec := &api.SelectionSpec{}
	state := newState(t, nil, spec)

	dests, err := router.Route(state, "/usr/lib/libA.dylib", "cache.dsc", false)
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.True(t, dests[0].PrintPaths)
	assert.Nil(t, dests[0].Opened)
}

func TestRoutePerFilterWriteLeavesStatusHappening(t *testing.T) {
	tmp := t.TempDir()
	dirFilter := &api.Filter{Kind: api.FilterDirComponent, Value: "private", Status: api.StatusHappening, MatchOffset: len("/private/")}
	spec := &api.SelectionSpec{Filters: []*api.Filter{dirFilter}}
	state := newState(t, &tmp, spec)

	dests, err := router.Route(state, "/private/usr/lib/libA.dylib", "cache.dsc", false)
	require.NoError(t, err)
	require.Len(t, dests, 1)
	require.Len(t, dests[0].Filters, 1)
	assert.Same(t, dirFilter, dests[0].Filters[0])
	assert.Equal(t, api.StatusHappening, dirFilter.Status)
	assert.Equal(t, filepath.Join(tmp, "usr/lib/libA.dylib")+".tbd", dests[0].DestPath)
	dests[0].Opened.Writer.Close()
}
