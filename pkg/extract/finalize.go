package extract

import (
	"fmt"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
)

// Finalize implements C7: if state owns an open combine-file, write the
// .tbd trailer and close it. In recursion mode the caller should instead
// read state.Combine back out and hand it to the next DSC, skipping
// Finalize until the walk completes (spec.md §4.7).
func Finalize(state *api.IterationState, deps Deps) error {
	if state.Combine == nil {
		return nil
	}

	if err := deps.TBD.WriteFooter(state.Combine.Writer); err != nil {
		return fmt.Errorf("%w: %v", api.ErrCloseCombineFileFail, err)
	}

	if err := state.Combine.Writer.Close(); err != nil {
		return fmt.Errorf("%w: %v", api.ErrCloseCombineFileFail, err)
	}

	state.Combine = nil
	return nil
}
