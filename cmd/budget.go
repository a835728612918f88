package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/brewburn/internal/budget"
	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagBudgetMonthly bool
	flagBudgetWeekly  bool
	flagBudgetAmount  string
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show spend and what the remaining budget buys",
	Args:  cobra.NoArgs,
	RunE:  runBudget,
}

func init() {
	budgetCmd.Flags().BoolVar(&flagBudgetMonthly, "monthly", false, "Only the monthly budget")
	budgetCmd.Flags().BoolVar(&flagBudgetWeekly, "weekly", false, "Only the weekly budget")
	budgetCmd.Flags().StringVar(&flagBudgetAmount, "budget", "", "Override the budget amount in yen (needs --monthly or --weekly)")
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	if flagBudgetMonthly && flagBudgetWeekly {
		return errors.New("--monthly and --weekly are mutually exclusive")
	}
	if flagBudgetAmount != "" && !flagBudgetMonthly && !flagBudgetWeekly {
		return errors.New("--budget needs --monthly or --weekly")
	}

	svc, _, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	if flagBudgetAmount != "" {
		amount, perr := decimal.NewFromString(flagBudgetAmount)
		if perr != nil || !amount.IsPositive() {
			return fmt.Errorf("--budget must be a positive amount, got %q", flagBudgetAmount)
		}
		if flagBudgetMonthly {
			if err := budget.CheckMonthly(amount); err != nil {
				return err
			}
			svc.Monthly = amount
		} else {
			svc.Weekly = amount
		}
	}

	l, err := svc.LoadLedger()
	if err != nil {
		return err
	}
	monthly, weekly := svc.Budgets(l.All())

	fmt.Println()
	fmt.Println(cli.RenderTitle("BEER BUDGET"))
	fmt.Println()
	if !flagBudgetWeekly {
		printPeriod("This month", monthly)
	}
	if !flagBudgetMonthly {
		printPeriod("This week", weekly)
	}
	return nil
}

func printPeriod(title string, p model.BudgetPeriod) {
	fmt.Printf("  %s  %s\n", cli.Header(title), cli.Muted(p.Label))
	fmt.Printf("  %-14s %s  %s\n", "Drank", cli.FormatNumber(int64(p.Entries)), strings.Repeat("🍺", min(p.Entries, 30)))
	fmt.Printf("  %-14s %s of %s\n", "Spent", cli.FormatYen(p.Spent), cli.FormatYen(p.Budget))
	fmt.Printf("  %-14s %s\n", "Used", cli.RenderBudgetBar(p.UsedPercent(), 30))

	if p.Exhausted {
		fmt.Printf("  %-14s %s\n", "Remaining", cli.Warn("no budget left ("+cli.FormatYen(p.Remaining)+")"))
		fmt.Println()
		return
	}
	fmt.Printf("  %-14s %s\n", "Remaining", cli.FormatYen(p.Remaining))
	fmt.Println()

	rows := make([][]string, 0, len(p.TierCounts))
	for _, tc := range p.TierCounts {
		rows = append(rows, []string{
			tc.Name,
			cli.FormatYen(tc.Price),
			cli.FormatNumber(tc.Count),
			strings.Repeat("🍺", int(min(tc.Count, 20))),
		})
	}
	if len(rows) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Tier", "Price", "Still affordable", ""},
			Rows:    rows,
		}))
		fmt.Println()
	}
}

// printPeriodLine is the one-line form used after logging.
func printPeriodLine(p model.BudgetPeriod) {
	if p.Exhausted {
		fmt.Printf("  %-24s %s spent, %s\n", p.Label, cli.FormatYen(p.Spent), cli.Warn("no budget left"))
		return
	}
	fmt.Printf("  %-24s %s spent, %s left\n", p.Label, cli.FormatYen(p.Spent), cli.FormatYen(p.Remaining))
}
