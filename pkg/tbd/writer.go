// Package tbd implements the .tbd serializer contract (spec.md §6):
// WriteToFile and WriteFooter. The default TextWriter formats a minimal
// tapi-tbd-v3-shaped YAML document directly with fmt.Fprintf, the same
// plain-formatting style the teacher uses for its own JSON/text artifacts
// (pkg/manifest) rather than reaching for a templating library.
package tbd

import (
	"fmt"
	"io"
	"sort"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// Writer is the contract the extraction core depends on.
type Writer interface {
	WriteToFile(state *api.RenderState, writePath string, createdAncestor string, w io.Writer, printPaths bool, opts api.WriteOptions) error
	WriteFooter(w io.Writer) error
}

// TextWriter is the default Writer.
type TextWriter struct{}

const docHeader = "--- !tapi-tbd-v3\n"
const docFooter = "...\n"

func (TextWriter) WriteToFile(state *api.RenderState, writePath string, createdAncestor string, w io.Writer, printPaths bool, opts api.WriteOptions) error {
	if _, err := io.WriteString(w, docHeader); err != nil {
		return err
	}

	if len(state.Archs) > 0 {
		fmt.Fprintf(w, "archs: %s\n", formatList(state.Archs))
	}
	if state.Platform != "" {
		fmt.Fprintf(w, "platform: %s\n", state.Platform)
	}
	if state.ObjCConstraint != "" {
		fmt.Fprintf(w, "objc-constraint: %s\n", state.ObjCConstraint)
	}
	if state.SwiftVersion != "" {
		fmt.Fprintf(w, "swift-abi-version: %s\n", state.SwiftVersion)
	}
	if !opts.IgnoreUUIDs && state.HasUUID {
		fmt.Fprintf(w, "uuids:\n  - %x\n", state.UUID)
	}

	names := make([]string, 0, len(state.Exports))
	for _, e := range state.Exports {
		names = append(names, e.Name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		fmt.Fprintf(w, "exports:\n  - archs: %s\n    symbols: %s\n", formatList(state.Archs), formatList(names))
	}

	if !opts.IgnoreFooter {
		_, err := io.WriteString(w, docFooter)
		return err
	}
	return nil
}

func (TextWriter) WriteFooter(w io.Writer) error {
	_, err := io.WriteString(w, docFooter)
	return err
}

func formatList(items []string) string {
	out := "["
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += it
	}
	return out + "]"
}
