package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagliamonte-labs/dsctbd/pkg/ledger"
)

func TestAppendThenReadRoundTrips(t *testing.T) {
	tmp := t.TempDir()
	l, err := ledger.New(tmp, nil, ledger.OSFileCreator{})
	require.NoError(t, err)

	sum := ledger.Digest([]byte("rendered content"))
	merged, err := l.Append(map[string]string{"out/usr/lib/libA.dylib.tbd": sum})
	require.NoError(t, err)
	assert.Equal(t, sum, merged["out/usr/lib/libA.dylib.tbd"])

	entries, err := l.Read()
	require.NoError(t, err)
	assert.Equal(t, sum, entries["out/usr/lib/libA.dylib.tbd"])
}

func TestAppendMergesAcrossCalls(t *testing.T) {
	tmp := t.TempDir()
	l, err := ledger.New(tmp, nil, ledger.OSFileCreator{})
	require.NoError(t, err)

	_, err = l.Append(map[string]string{"a.tbd": "sum-a"})
	require.NoError(t, err)
	merged, err := l.Append(map[string]string{"b.tbd": "sum-b"})
	require.NoError(t, err)

	assert.Equal(t, "sum-a", merged["a.tbd"])
	assert.Equal(t, "sum-b", merged["b.tbd"])
}

func TestDigestIsStable(t *testing.T) {
	a := ledger.Digest([]byte("same"))
	b := ledger.Digest([]byte("same"))
	assert.Equal(t, a, b)
}
