// Package dsc implements the DSC container parser contract (spec.md §6):
// magic prefetch (C1) plus parsing of the cache's image directory into an
// api.DSCView.
//
// Container layout (FileParser's own compact format; there is no
// independently importable Go module for Apple's real dyld_cache_header in
// the retrieval pack — see DESIGN.md):
//
//	offset 0                 [16]byte  magic ("dsctbd-dsc-cache")
//	offset 16  uint32 LE     image count N
//	offset 20  uint32 LE     image table offset
//	...
//	image table: N * record { uint32 pathOffset, uint32 machoOffset, byte pad }
//	...
//	path string pool (NUL-terminated strings)
//	...
//	embedded Mach-O blobs, one per image, addressed by machoOffset
package dsc
