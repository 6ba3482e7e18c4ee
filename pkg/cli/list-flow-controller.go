package cli

import (
	"fmt"
	"os"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/common"
	"github.com/tagliamonte-labs/dsctbd/pkg/dsc"
	"github.com/tagliamonte-labs/dsctbd/pkg/extract"
)

// ListFlowController drives the `list-dsc-images` subcommand.
type ListFlowController struct {
	Options *common.ExtractOptions
}

func NewListFlowController(options *common.ExtractOptions) *ListFlowController {
	return &ListFlowController{Options: options}
}

func (c *ListFlowController) Run() error {
	f, err := os.Open(c.Options.Path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	opts := api.ParseOptions{ZeroImagePads: true}
	if c.Options.Ordered {
		return extract.ListImagesOrdered(f, info.Size(), dsc.FileParser{}, opts, os.Stdout)
	}
	return extract.ListImages(f, info.Size(), dsc.FileParser{}, opts, os.Stdout)
}
