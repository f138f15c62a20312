package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/squaremap/pkg/data"
	"github.com/matzehuels/squaremap/pkg/treemap"
)

// inspectCommand creates the command that prints the tally and layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var leaves bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the category counts and treemap rectangles",
		Long: `Inspect loads the data file, computes the treemap layout for the configured
canvas and prints every category with its count, share and rectangle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, leaves)
		},
	}

	cmd.Flags().BoolVar(&leaves, "leaves", false, "list sub-category rectangles too")
	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, leaves bool) error {
	ctx := cmd.Context()
	opts := c.flags.options()
	opts.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(c.flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	tbl, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	tm, err := runner.Layout(ctx, tbl, opts)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if err := tm.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styleTitle.Render(opts.DataPath))
	printKeyValue("Canvas", fmt.Sprintf("%dx%d", tm.Width, tm.Height))
	printKeyValue("Records", strconv.Itoa(tbl.Total()))

	fmt.Fprintln(out, inspectTable(tbl, tm, leaves))

	if tm.ColorsWrap() {
		printWarning("%d categories share 3 color channels; colors repeat", len(tm.Nodes))
	}
	printNextStep("Render it", "squaremap --data-path "+opts.DataPath)
	return nil
}

// inspectTable lays out one row per category and, with leaves, one
// indented row per sub-category.
func inspectTable(tbl data.Table, tm treemap.Treemap, leaves bool) string {
	total := tbl.Total()
	var rows [][]string
	for _, n := range tm.Nodes {
		rows = append(rows, []string{n.Name, strconv.Itoa(n.Count), share(n.Count, total), n.Rect.String()})
		if !leaves {
			continue
		}
		for _, l := range n.Leaves {
			rows = append(rows, []string{"  " + l.Name, strconv.Itoa(l.Count), share(l.Count, n.Count), l.Rect.String()})
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Category", "Count", "Share", "Rect").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return styleHeader
			}
			if col == 1 || col == 2 {
				return styleCell.Align(lipgloss.Right)
			}
			return styleCell
		})
	return t.String()
}

func share(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}
