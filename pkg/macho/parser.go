// Package macho implements the Mach-O parser contract (spec.md §6,
// parse_image) backed by github.com/blacktop/go-macho, the de-facto
// ecosystem library for Mach-O/dyld-cache introspection in Go (grounded on
// other_examples' blacktop-go-macho and ipsw dyld_extract.go files).
package macho

import (
	"io"

	gomacho "github.com/blacktop/go-macho"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// Parser is the contract the extraction core depends on.
type Parser interface {
	ParseImage(state *api.RenderState, r io.ReaderAt, size int64, opts api.MachOOptions) api.ParseResult
}

// GoMachoParser is the default Parser, backed by go-macho.
type GoMachoParser struct{}

// ParseImage decodes the Mach-O at r and populates state.Exports and the
// other RenderState fields the .tbd serializer reads. It never returns an
// error directly (per the contract in spec.md §6): corruption and
// unsupported-CPU conditions are reported through the ParseResult enum,
// leaving the caller's parse-result handler to decide recoverability.
func (GoMachoParser) ParseImage(state *api.RenderState, r io.ReaderAt, size int64, opts api.MachOOptions) api.ParseResult {
	f, err := gomacho.NewFile(r)
	if err != nil {
		return api.ParseCorrupt
	}
	defer f.Close()

	state.Archs = append(state.Archs, f.FileHeader.Cpu.String())
	state.Platform = platformFromFileHeader(f)

	for _, lib := range f.ImportedLibraries() {
		_ = lib // re-exports/sub-libraries feed tbd reexport fields in a fuller renderer
	}

	var exports []api.ExportSymbol
	if f.Symtab != nil {
		for _, sym := range f.Symtab.Syms {
			if !isExportedSymbol(sym, opts) {
				continue
			}
			exports = append(exports, api.ExportSymbol{
				Name:      sym.Name,
				Weak:      sym.Desc&weakDefMask != 0,
				ObjCClass: isObjCClassSymbol(sym.Name),
			})
		}
	}

	if f.UUID() != nil {
		state.HasUUID = true
		copy(state.UUID[:], f.UUID().UUID[:])
	}

	state.Exports = append(state.Exports, exports...)

	if len(exports) == 0 {
		return api.ParseNoExports
	}
	return api.ParseOK
}

const weakDefMask = 0x0080 // N_WEAK_DEF, mirrors debug/macho's nlist descriptor bit

func isExportedSymbol(sym gomacho.Symbol, opts api.MachOOptions) bool {
	const (
		nType    = 0x0e // N_TYPE mask
		nSect    = 0x0e // N_SECT
		nExt     = 0x01 // N_EXT: external symbol
		nPrivate = 0x10 // N_PEXT: private external
	)
	if sym.Type&nExt == 0 {
		return false
	}
	if sym.Type&nPrivate != 0 && !opts.AllowPrivateSymbols {
		return false
	}
	if sym.Name == "" {
		return false
	}
	return sym.Type&nType == nSect
}

func isObjCClassSymbol(name string) bool {
	const prefix = "_OBJC_CLASS_$_"
	return len(name) > len(prefix) && name[:len(prefix)] == prefix
}

func platformFromFileHeader(f *gomacho.File) string {
	for _, lc := range f.Loads {
		if bv, ok := lc.(*gomacho.BuildVersion); ok {
			return bv.Platform.String()
		}
	}
	return ""
}
