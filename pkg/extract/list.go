package extract

import (
	"fmt"
	"io"
	"sort"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/dsc"
)

// ListImages implements C8's flat variant: prefetch magic, parse the
// container, print the image count, then each path in image-table order
// with a 1-based index.
func ListImages(r io.ReaderAt, size int64, parser dsc.Parser, opts api.ParseOptions, w io.Writer) error {
	view, err := parseForList(r, size, parser, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%d images\n", len(view.Images))
	for i := range view.Images {
		path := view.PathAt(i)
		if path == "" {
			continue
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, path)
	}
	return nil
}

// ListImagesOrdered implements C8's ordered variant: same as ListImages but
// sorts paths lexicographically by byte value before printing (spec.md §4.8,
// R2's invariant that this is a permutation of the flat listing).
func ListImagesOrdered(r io.ReaderAt, size int64, parser dsc.Parser, opts api.ParseOptions, w io.Writer) error {
	view, err := parseForList(r, size, parser, opts)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(view.Images))
	for i := range view.Images {
		if p := view.PathAt(i); p != "" {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	fmt.Fprintf(w, "%d images\n", len(paths))
	for i, path := range paths {
		fmt.Fprintf(w, "%d. %s\n", i+1, path)
	}
	return nil
}

func parseForList(r io.ReaderAt, size int64, parser dsc.Parser, opts api.ParseOptions) (*api.DSCView, error) {
	buf := make([]byte, dsc.MagicSize)
	if _, err := dsc.PrefetchMagic(buf, 0, io.NewSectionReader(r, 0, size)); err != nil {
		return nil, err
	}

	var magic [dsc.MagicSize]byte
	copy(magic[:], buf)

	return parser.ParseFromFile(r, size, magic, opts)
}
