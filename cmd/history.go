package cmd

import (
	"fmt"

	"github.com/theirongolddev/brewburn/internal/budget"
	"github.com/theirongolddev/brewburn/internal/cli"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show spend per month against the monthly budget",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	svc, _, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	l, err := svc.LoadLedger()
	if err != nil {
		return err
	}
	months := budget.MonthlyHistory(l.All())
	if len(months) == 0 {
		fmt.Println("\n  No spend history yet.")
		fmt.Println()
		return nil
	}

	limit := svc.Monthly.InexactFloat64()
	maxSpend := limit * 1.25
	values := make([]float64, 0, len(months))
	for _, m := range months {
		v := m.Spent.InexactFloat64()
		values = append(values, v)
		maxSpend = max(maxSpend, v)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MONTHLY SPEND"))
	fmt.Println()
	fmt.Printf("  %s  %s\n\n", cli.RenderSparkline(values), cli.Muted("budget "+cli.FormatYen(svc.Monthly)+" marked │"))

	for i, m := range months {
		label := fmt.Sprintf("%s %3d", m.Month.Format("2006-01"), m.Entries)
		valueText := cli.FormatYen(m.Spent)
		if i > 0 {
			valueText += " " + cli.Muted(cli.FormatDelta(m.Spent, months[i-1].Spent))
		}
		fmt.Println(cli.RenderHorizontalBar(label, valueText, values[i], maxSpend, limit, 40))
	}
	fmt.Println()
	return nil
}
