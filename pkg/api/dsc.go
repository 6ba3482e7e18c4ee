package api

import "bytes"

// AlreadyExtracted is bit 0 of an ImageRecord's Pad scratch byte, set by
// the orchestrator when the per-image driver reports a successful
// extraction and consulted by it to skip the image on a later pass
// (spec.md §3).
const AlreadyExtracted uint8 = 1 << 0

// ImageRecord is one entry in a DSC's image directory.
type ImageRecord struct {
	PathOffset  uint32
	MachOOffset uint32
	Pad         uint8
}

func (r *ImageRecord) IsAlreadyExtracted() bool { return r.Pad&AlreadyExtracted != 0 }
func (r *ImageRecord) MarkExtracted()           { r.Pad |= AlreadyExtracted }

// DSCView is an immutable view over a mapped DSC file: a base byte slice
// plus the image directory. Path offsets point inside Data and are
// NUL-terminated, per the invariant in spec.md §3.
type DSCView struct {
	Data   []byte
	Images []ImageRecord
}

// PathAt reads the NUL-terminated path string for image i.
func (v *DSCView) PathAt(i int) string {
	off := v.Images[i].PathOffset
	if int(off) >= len(v.Data) {
		return ""
	}
	rest := v.Data[off:]
	if nul := bytes.IndexByte(rest, 0); nul >= 0 {
		return string(rest[:nul])
	}
	return string(rest)
}

// Close releases resources owned by the view. The current in-memory
// implementation holds no external resources, but Close exists so callers
// needn't care whether a future implementation memory-maps the file.
func (v *DSCView) Close() error { return nil }
