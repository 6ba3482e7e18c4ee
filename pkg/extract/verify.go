package extract

import (
	"errors"
	"os"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// VerifyWritePath implements §4.9: validate and normalize the selection
// spec's write path before iteration starts, when FlagVerifyWritePath is
// set. It may set FlagWritePathIsFile and/or FlagIgnoreFooter on spec.
func VerifyWritePath(spec *api.SelectionSpec) error {
	if spec.WritePath == "" {
		if isSingleImageSelection(spec) {
			return nil // stdout
		}
		return errors.New("a write path is required unless selecting exactly one image")
	}

	info, err := os.Stat(spec.WritePath)
	switch {
	case err == nil && info.Mode().IsRegular():
		if spec.Flags.Has(api.FlagCombineTBDs) || isSingleImageSelection(spec) {
			spec.Flags |= api.FlagWritePathIsFile
			return nil
		}
		return errors.New("write path is a regular file but selection matches more than one image")

	case err == nil:
		return nil // directory: per-image/per-filter routing applies

	case os.IsNotExist(err):
		if spec.Flags.Has(api.FlagCombineTBDs) {
			spec.Flags |= api.FlagWritePathIsFile
			spec.Flags |= api.FlagIgnoreFooter
		}
		return nil

	default:
		return err
	}
}

// isSingleImageSelection reports whether the spec unambiguously selects
// exactly one image: either one path-filter and no numbers, or one number
// and no path-filters.
func isSingleImageSelection(spec *api.SelectionSpec) bool {
	onePathNoNumbers := spec.FilterPathCount == 1 && len(spec.Filters) == 1 && len(spec.Numbers) == 0
	oneNumberNoPaths := len(spec.Numbers) == 1 && spec.FilterPathCount == 0
	return onePathNoNumbers || oneNumberNoPaths
}
