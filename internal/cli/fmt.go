package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmark/pkg/codec"
)

// fmtOpts holds the command-line flags for the fmt command.
type fmtOpts struct {
	write         bool // rewrite the input file in place
	check         bool // exit non-zero when the file is not canonical
	sortNodes     bool // order node statements alphabetically
	compactChains bool // merge linear link runs into chain statements
	inlineClasses bool // emit :::class suffixes instead of class statements
	indent        int  // spaces per indent level
	tabs          bool // indent with tabs
}

// newFmtCmd creates the fmt command for canonical reformatting.
//
// Decoding and re-encoding is idempotent: formatting already-canonical
// text yields the same bytes, which makes --check usable in CI.
func newFmtCmd() *cobra.Command {
	var opts fmtOpts

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat flowchart text into canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runFmt(cmd, path, &opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "rewrite the file in place")
	cmd.Flags().BoolVar(&opts.check, "check", false, "exit non-zero if the file is not canonical")
	cmd.Flags().BoolVar(&opts.sortNodes, "sort", false, "order node statements alphabetically")
	cmd.Flags().BoolVar(&opts.compactChains, "compact", false, "merge linear link runs into chains")
	cmd.Flags().BoolVar(&opts.inlineClasses, "inline-classes", false, "emit :::class suffixes for single-class nodes")
	cmd.Flags().IntVar(&opts.indent, "indent", 0, "spaces per indent level (default 4)")
	cmd.Flags().BoolVar(&opts.tabs, "tabs", false, "indent with tabs")

	return cmd
}

func runFmt(cmd *cobra.Command, path string, opts *fmtOpts) error {
	logger := loggerFromContext(cmd.Context())

	g, src, err := loadGraph(path)
	if err != nil {
		return err
	}

	out := codec.Encode(g, codec.Options{
		Indent:        opts.indent,
		Tabs:          opts.tabs,
		SortNodes:     opts.sortNodes,
		CompactChains: opts.compactChains,
		InlineClasses: opts.inlineClasses,
	})

	if opts.check {
		if out != src {
			printError("%s is not canonical", displayPath(path))
			return fmt.Errorf("not canonical")
		}
		printSuccess("%s is canonical", displayPath(path))
		return nil
	}

	if opts.write && path != "" && path != "-" {
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return err
		}
		logger.Debugf("Rewrote %s", path)
		printSuccess("Formatted %s", path)
		return nil
	}

	fmt.Print(out)
	return nil
}

func displayPath(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}
