package dsc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// CacheMagic is the fixed 16-byte prefix identifying a dsctbd DSC
// container. Real dyld shared caches carry one of several versioned
// "dyld_v*" magics; this module defines its own since the real container
// parser is out of scope (spec.md §1) and no importable library in the
// pack exposes that parser standalone (DESIGN.md).
var CacheMagic = [MagicSize]byte{'d', 's', 'c', 't', 'b', 'd', '-', 'd', 's', 'c', '-', 'c', 'a', 'c', 'h', 'e'}

// Parser is the contract the extraction core depends on (spec.md §6,
// parse_from_file).
type Parser interface {
	ParseFromFile(r io.ReaderAt, size int64, magic [MagicSize]byte, opts api.ParseOptions) (*api.DSCView, error)
}

// FileParser is the concrete default Parser implementation.
type FileParser struct{}

const imageRecordSize = 9 // uint32 + uint32 + byte

// ParseFromFile reads the container header and image directory described
// in doc.go. magic must already contain the first MagicSize bytes (the
// caller is expected to have called PrefetchMagic first, per spec.md §6).
func (FileParser) ParseFromFile(r io.ReaderAt, size int64, magic [MagicSize]byte, opts api.ParseOptions) (*api.DSCView, error) {
	if magic != CacheMagic {
		return nil, api.ErrNotASharedCache
	}

	data := make([]byte, size)
	if _, err := r.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", api.ErrOtherError, err)
	}

	if len(data) < 24 {
		return nil, fmt.Errorf("%w: header truncated", api.ErrOtherError)
	}

	imageCount := binary.LittleEndian.Uint32(data[16:20])
	tableOffset := binary.LittleEndian.Uint32(data[20:24])

	need := int64(tableOffset) + int64(imageCount)*imageRecordSize
	if need > int64(len(data)) {
		return nil, fmt.Errorf("%w: image table out of range", api.ErrOtherError)
	}

	images := make([]api.ImageRecord, imageCount)
	for i := uint32(0); i < imageCount; i++ {
		rec := data[int64(tableOffset)+int64(i)*imageRecordSize:]
		img := api.ImageRecord{
			PathOffset:  binary.LittleEndian.Uint32(rec[0:4]),
			MachOOffset: binary.LittleEndian.Uint32(rec[4:8]),
			Pad:         rec[8],
		}
		if opts.ZeroImagePads {
			img.Pad = 0
		}
		images[i] = img
	}

	return &api.DSCView{Data: data, Images: images}, nil
}

// MachOReaderAt returns an io.ReaderAt positioned at image i's embedded
// Mach-O blob, for handoff to the Mach-O parser contract.
func MachOReaderAt(view *api.DSCView, i int) io.ReaderAt {
	off := view.Images[i].MachOOffset
	if int(off) > len(view.Data) {
		return bytes.NewReader(nil)
	}
	return bytes.NewReader(view.Data[off:])
}
