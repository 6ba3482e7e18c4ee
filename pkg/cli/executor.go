package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/tagliamonte-labs/dsctbd/pkg/common"
	"github.com/tagliamonte-labs/dsctbd/pkg/log"
)

// Execute is cmd/dsctbd's entire main body: pick the subcommand, parse its
// flags into common.ExtractOptions, and dispatch to a flow controller.
// Mirrors the teacher's pkg/cli.Execute shape: one flag.FlagSet per
// subcommand, stdlib flag rather than a CLI framework.
func Execute() error {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: dsctbd <extract|list-dsc-images> [flags]")
		os.Exit(1)
	}

	options := common.ExtractOptions{
		LogLevel:     "info",
		InvocationID: uuid.New(),
	}

	switch os.Args[1] {
	case extractCmd:
		cmd := flag.NewFlagSet(extractCmd, flag.ExitOnError)
		registerExtractFlags(cmd, &options)
		cmd.Parse(os.Args[2:])

		logger := log.New(options.LogLevel)
		return NewExtractFlowController(&options, logger).Run()

	case listDSCImagesCmd:
		cmd := flag.NewFlagSet(listDSCImagesCmd, flag.ExitOnError)
		cmd.StringVar(&options.Path, "p", "", "Path to the dyld shared cache file")
		cmd.BoolVar(&options.Ordered, "ordered", false, "Sort image paths lexicographically before printing")
		cmd.Parse(os.Args[2:])

		return NewListFlowController(&options).Run()

	default:
		return fmt.Errorf("unknown subcommand %q", os.Args[1])
	}
}

func registerExtractFlags(cmd *flag.FlagSet, options *common.ExtractOptions) {
	cmd.StringVar(&options.Path, "p", "", "Path to the dyld shared cache or Mach-O file")
	cmd.StringVar(&options.Output, "o", "", "Write path: a file, a directory, or empty for stdout")
	cmd.StringVar(&options.Recurse, "r", "", "Recurse into a directory: \"once\" or \"all\"")
	cmd.BoolVar(&options.PreserveSubdirs, "preserve-subdirs", false, "Accepted but ignored: output paths do not depend on it")
	cmd.BoolVar(&options.NoOverwrite, "no-overwrite", false, "Never overwrite an existing .tbd file")
	cmd.BoolVar(&options.ReplacePathExtension, "replace-path-extension", false, "Accepted but ignored: .tbd is always appended to the image path")
	cmd.BoolVar(&options.Combine, "combine", false, "Append every rendered .tbd into one output file")
	cmd.BoolVar(&options.IgnoreWarnings, "ignore-warnings", false, "Suppress per-image warning diagnostics")
	cmd.BoolVar(&options.Quiet, "quiet", false, "Suppress progress output")
	cmd.StringVar(&options.LogLevel, "log-level", "info", "Log level: one of trace, debug, info, warn, error")
	cmd.BoolVar(&options.SkipUnchanged, "skip-unchanged", false, "Skip re-writing artifacts whose content digest is unchanged since the last run")
	cmd.StringVar(&options.LedgerDir, "ledger-dir", "", "Directory holding the extraction ledger (default: working directory)")
	cmd.StringVar(&options.ConfigPath, "config", "", "Path to a rendering-profile YAML file")

	cmd.Func("filter-image-directory", "Select images under a directory component (repeatable)", func(v string) error {
		options.FilterDirectories = append(options.FilterDirectories, v)
		return nil
	})
	cmd.Func("filter-image-filename", "Select images by basename (repeatable)", func(v string) error {
		options.FilterFilenames = append(options.FilterFilenames, v)
		return nil
	})
	cmd.Func("image-path", "Select one image by its exact path (repeatable)", func(v string) error {
		options.FilterPaths = append(options.FilterPaths, v)
		return nil
	})
	cmd.Func("filter-image-number", "Select one image by its 1-based index (repeatable)", func(v string) error {
		var n uint32
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return fmt.Errorf("invalid image number %q: %w", v, err)
		}
		options.FilterNumbers = append(options.FilterNumbers, n)
		return nil
	})
}
