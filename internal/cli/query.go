package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmark/pkg/flow/surgery"
)

// newQueryCmd creates the query command group for graph structure
// queries.
func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query flowchart structure",
	}

	cmd.AddCommand(newReachableCmd())
	cmd.AddCommand(newAncestorsCmd())
	cmd.AddCommand(newPathCmd())
	cmd.AddCommand(newChainCmd())

	return cmd
}

func newReachableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reachable <node> [file]",
		Short: "List all nodes reachable from a node",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGraph(fileArg(args, 1))
			if err != nil {
				return err
			}
			if _, ok := g.Node(args[0]); !ok {
				return fmt.Errorf("node %q not found", args[0])
			}
			printIDSet(surgery.Reachable(g, args[0]))
			return nil
		},
	}
}

func newAncestorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ancestors <node> [file]",
		Short: "List all nodes that can reach a node",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGraph(fileArg(args, 1))
			if err != nil {
				return err
			}
			if _, ok := g.Node(args[0]); !ok {
				return fmt.Errorf("node %q not found", args[0])
			}
			printIDSet(surgery.Ancestors(g, args[0]))
			return nil
		},
	}
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <source> <target> [file]",
		Short: "Print the shortest path between two nodes",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGraph(fileArg(args, 2))
			if err != nil {
				return err
			}
			path := surgery.ShortestPath(g, args[0], args[1])
			if path == nil {
				printWarning("no path from %s to %s", args[0], args[1])
				return nil
			}
			fmt.Println(strings.Join(path, " "+iconArrow+" "))
			return nil
		},
	}
}

func newChainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chain <start> <end> [file]",
		Short: "Walk the linear chain between two nodes",
		Long:  "Walk forward from start to end, requiring exactly one outgoing link at every step. Prints the visited nodes in order.",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGraph(fileArg(args, 2))
			if err != nil {
				return err
			}
			chain := surgery.LinearChain(g, args[0], args[1])
			if chain == nil {
				printWarning("no linear chain from %s to %s", args[0], args[1])
				return nil
			}
			fmt.Println(strings.Join(chain, " "+iconArrow+" "))
			return nil
		},
	}
}

// fileArg returns the optional trailing file argument, or "" for stdin.
func fileArg(args []string, idx int) string {
	if len(args) > idx {
		return args[idx]
	}
	return ""
}

func printIDSet(ids map[string]bool) {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	for _, id := range out {
		fmt.Println(id)
	}
}
