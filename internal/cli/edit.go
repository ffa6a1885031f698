package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmark/pkg/codec"
	"github.com/matzehuels/flowmark/pkg/flow"
	"github.com/matzehuels/flowmark/pkg/flow/surgery"
)

// newEditCmd creates the edit command group for graph surgery. Every
// subcommand reads flowchart text, rewires the graph, and emits the
// result in canonical form.
func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Rewire flowchart structure",
	}

	cmd.PersistentFlags().BoolP("write", "w", false, "rewrite the file in place")

	cmd.AddCommand(newInsertCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newYankCmd())
	cmd.AddCommand(newSpliceCmd())
	cmd.AddCommand(newReverseCmd())
	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newRebaseCmd())

	return cmd
}

func newInsertCmd() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "insert <new-node> <source> <target> [file]",
		Short: "Insert a node between two nodes",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyEdit(cmd, fileArg(args, 3), func(g *flow.Graph) error {
				surgery.InsertBetween(g, args[0], args[1], args[2], text)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "label for the inserted node")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <node> [file]",
		Short: "Remove a node, reconnecting its neighbors",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyEdit(cmd, fileArg(args, 1), func(g *flow.Graph) error {
				if _, ok := g.Node(args[0]); !ok {
					return fmt.Errorf("node %q not found", args[0])
				}
				surgery.RemoveAndReconnect(g, args[0])
				return nil
			})
		},
	}
}

func newYankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "yank <node>... -- [file]",
		Short: "Remove a run of nodes, bridging around it",
		Long:  "Remove the named nodes and connect every external predecessor of the first to every external successor of the last. Use -- before the file argument to separate it from node ids.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, file := splitIDsAndFile(cmd, args)
			return applyEdit(cmd, file, func(g *flow.Graph) error {
				surgery.YankChain(g, ids)
				return nil
			})
		},
	}
}

func newSpliceCmd() *cobra.Command {
	var source, target string
	cmd := &cobra.Command{
		Use:   "splice <node>... -- [file]",
		Short: "Replace direct source-to-target links with a detour",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" || target == "" {
				return fmt.Errorf("--source and --target are required")
			}
			ids, file := splitIDsAndFile(cmd, args)
			return applyEdit(cmd, file, func(g *flow.Graph) error {
				surgery.SpliceChain(g, ids, source, target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "link source to detour from")
	cmd.Flags().StringVar(&target, "target", "", "link target to detour to")
	return cmd
}

func newReverseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reverse <node>... -- [file]",
		Short: "Reverse the links along a chain of nodes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, file := splitIDsAndFile(cmd, args)
			return applyEdit(cmd, file, func(g *flow.Graph) error {
				surgery.ReverseChain(g, ids)
				return nil
			})
		},
	}
}

func newExtractCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "extract <node>... -- [file]",
		Short: "Extract nodes into a standalone flowchart",
		Long:  "Remove the named nodes from the diagram, bridging around them, and emit the extracted nodes with their internal links as an independent flowchart.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, file := splitIDsAndFile(cmd, args)

			g, _, err := loadGraph(file)
			if err != nil {
				return err
			}
			extracted := surgery.ExtractChain(g, ids)

			out := codec.Encode(extracted, codec.Options{})
			if err := writeOutput(output, []byte(out)); err != nil {
				return err
			}
			if output != "" && output != "-" {
				printFile(output)
			}

			// The remainder goes back to the source file when -w is set.
			return writeEdited(cmd, file, g)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file for the extracted flowchart (default stdout)")
	return cmd
}

func newRebaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebase <new-parent> <node>... -- [file]",
		Short: "Reparent nodes under a new parent",
		Long:  "Delete links into the named nodes from outside the group and attach internally-rootless ones to new-parent instead.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, file := splitIDsAndFile(cmd, args)
			if len(ids) < 2 {
				return fmt.Errorf("rebase needs a parent and at least one node")
			}
			return applyEdit(cmd, file, func(g *flow.Graph) error {
				surgery.RebaseNodes(g, ids[1:], ids[0])
				return nil
			})
		},
	}
	return cmd
}

// splitIDsAndFile separates node ids from the optional trailing file
// argument. With an ArgsLenAtDash marker everything after -- is the
// file; otherwise all args are ids and input comes from stdin.
func splitIDsAndFile(cmd *cobra.Command, args []string) ([]string, string) {
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		file := ""
		if at < len(args) {
			file = args[at]
		}
		return args[:at], file
	}
	return args, ""
}

// applyEdit loads the graph, applies fn, and writes the canonical
// result to stdout or back to the file with -w.
func applyEdit(cmd *cobra.Command, file string, fn func(*flow.Graph) error) error {
	g, _, err := loadGraph(file)
	if err != nil {
		return err
	}
	if err := fn(g); err != nil {
		return err
	}
	return writeEdited(cmd, file, g)
}

func writeEdited(cmd *cobra.Command, file string, g *flow.Graph) error {
	out := codec.Encode(g, codec.Options{})

	write, _ := cmd.Flags().GetBool("write")
	if write && file != "" && file != "-" {
		if err := os.WriteFile(file, []byte(out), 0644); err != nil {
			return err
		}
		printSuccess("Updated %s", file)
		printStats(g.NodeCount(), g.LinkCount(), false)
		return nil
	}

	fmt.Print(out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Println()
	}
	return nil
}
