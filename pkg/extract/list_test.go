package extract_test

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/dsc"
	"github.com/tagliamonte-labs/dsctbd/pkg/extract"
)

// buildDSCBuffer assembles a minimal container matching pkg/dsc/doc.go's
// layout, for exercising the list printer without a real capture.
func buildDSCBuffer(t *testing.T, paths []string) []byte {
	t.Helper()

	const headerSize = 24
	const recordSize = 9

	tableOffset := uint32(headerSize)
	pool := headerSize + len(paths)*recordSize

	var buf bytes.Buffer
	buf.Write(dsc.CacheMagic[:])
	binary.Write(&buf, binary.LittleEndian, uint32(len(paths)))
	binary.Write(&buf, binary.LittleEndian, tableOffset)

	offsets := make([]uint32, len(paths))
	poolBuf := bytes.Buffer{}
	for i, p := range paths {
		offsets[i] = uint32(pool) + uint32(poolBuf.Len())
		poolBuf.WriteString(p)
		poolBuf.WriteByte(0)
	}

	for _, off := range offsets {
		binary.Write(&buf, binary.LittleEndian, off)
		binary.Write(&buf, binary.LittleEndian, uint32(0))
		buf.WriteByte(0)
	}

	buf.Write(poolBuf.Bytes())
	return buf.Bytes()
}

func TestListImagesFlatOrder(t *testing.T) {
	data := buildDSCBuffer(t, []string{"/usr/lib/libB.dylib", "/usr/lib/libA.dylib"})
	r := bytes.NewReader(data)

	var out bytes.Buffer
	require.NoError(t, extract.ListImages(r, int64(len(data)), dsc.FileParser{}, api.ParseOptions{}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2 images", lines[0])
	assert.Contains(t, lines[1], "1. /usr/lib/libB.dylib")
	assert.Contains(t, lines[2], "2. /usr/lib/libA.dylib")
}

func TestListImagesOrderedSortsLexicographically(t *testing.T) {
	data := buildDSCBuffer(t, []string{"/usr/lib/libB.dylib", "/usr/lib/libA.dylib"})
	r := bytes.NewReader(data)

	var out bytes.Buffer
	require.NoError(t, extract.ListImagesOrdered(r, int64(len(data)), dsc.FileParser{}, api.ParseOptions{}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "1. /usr/lib/libA.dylib")
	assert.Contains(t, lines[2], "2. /usr/lib/libB.dylib")
}
