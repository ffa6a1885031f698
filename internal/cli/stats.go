package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStatsCmd creates the stats command for printing diagram
// statistics.
func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file]",
		Short: "Print flowchart statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGraph(fileArg(args, 0))
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(displayPath(fileArg(args, 0))))
			printKeyValue("direction", string(g.Direction()))
			printKeyValue("nodes", fmt.Sprintf("%d", g.NodeCount()))
			printKeyValue("links", fmt.Sprintf("%d", g.LinkCount()))
			printKeyValue("subgraphs", fmt.Sprintf("%d", len(g.Subgraphs())))
			printKeyValue("classes", fmt.Sprintf("%d", len(g.ClassDefs())))
			if title := g.AccTitle(); title != "" {
				printKeyValue("title", title)
			}

			roots, leaves := 0, 0
			for _, id := range g.NodeIDs() {
				if g.InDegree(id) == 0 {
					roots++
				}
				if g.OutDegree(id) == 0 {
					leaves++
				}
			}
			printKeyValue("roots", fmt.Sprintf("%d", roots))
			printKeyValue("leaves", fmt.Sprintf("%d", leaves))
			return nil
		},
	}
}
