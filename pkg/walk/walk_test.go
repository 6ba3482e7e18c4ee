package walk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/log"
	"github.com/tagliamonte-labs/dsctbd/pkg/walk"
)

func TestWalkAllVisitsEveryFile(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "a.dylib"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "sub", "b.dylib"), []byte("y"), 0644))

	var visited []string
	_, err := walk.Walk(tmp, walk.ModeAll, &api.IterationState{}, log.New("error"), func(path string, state *api.IterationState) (*api.IterationState, error) {
		visited = append(visited, filepath.Base(path))
		return state, nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.dylib", "b.dylib"}, visited)
}

func TestWalkOnceSkipsSubdirectories(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "a.dylib"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "sub", "b.dylib"), []byte("y"), 0644))

	var visited []string
	_, err := walk.Walk(tmp, walk.ModeOnce, &api.IterationState{}, log.New("error"), func(path string, state *api.IterationState) (*api.IterationState, error) {
		visited = append(visited, filepath.Base(path))
		return state, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.dylib"}, visited)
}

func TestWalkCarriesStateAcrossFiles(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "a.dylib"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "b.dylib"), []byte("y"), 0644))

	calls := 0
	final, err := walk.Walk(tmp, walk.ModeAll, &api.IterationState{}, log.New("error"), func(path string, state *api.IterationState) (*api.IterationState, error) {
		calls++
		state.PathLen = calls
		return state, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, final.PathLen)
}
