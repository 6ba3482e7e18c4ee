package dsc

import (
	"errors"
	"fmt"
	"io"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// MagicSize is the number of leading bytes the container parser needs
// buffered before it can decide whether a file is a DSC (spec.md §4.1).
const MagicSize = 16

// PrefetchMagic ensures buf[:MagicSize] is filled, reading the delta from r
// if fewer than MagicSize bytes are already present. filled is the number
// of valid bytes already in buf; PrefetchMagic returns the new filled
// count (always MagicSize on success).
//
// Returns api.ErrNotLargeEnough when r is exhausted before MagicSize bytes
// could be read (the original's "this isn't a DSC, fall through to Mach-O
// parsing" signal), or the read error wrapped in api.ErrOtherError for any
// other failure.
func PrefetchMagic(buf []byte, filled int, r io.Reader) (int, error) {
	if len(buf) < MagicSize {
		return filled, errors.New("dsc: magic buffer too small")
	}
	if filled >= MagicSize {
		return filled, nil
	}

	n, err := io.ReadFull(r, buf[filled:MagicSize])
	filled += n
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return filled, api.ErrNotLargeEnough
		}
		return filled, fmt.Errorf("%w: %v", api.ErrOtherError, err)
	}
	return MagicSize, nil
}
