package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/brewburn/internal/cli"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// maxPlanDays is how far ahead the forecast provider reaches.
const maxPlanDays = 16

var (
	flagPlanDate   string
	flagPlanPrice  string
	flagPlanBudget string
	flagPlanDays   int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Spread a budget over the coming days, more on hot days",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&flagPlanDate, "date", "", "First day of the plan (YYYY-MM-DD, default today)")
	planCmd.Flags().StringVar(&flagPlanPrice, "price", "", "Unit price in yen (default: the first budget tier)")
	planCmd.Flags().StringVar(&flagPlanBudget, "budget", "", "Amount to spread in yen (default: the weekly budget)")
	planCmd.Flags().IntVar(&flagPlanDays, "days", 7, "Number of days to plan")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	if flagPlanDays < 1 || flagPlanDays > maxPlanDays {
		return fmt.Errorf("--days must be between 1 and %d", maxPlanDays)
	}
	start, err := parseDateFlag(flagPlanDate)
	if err != nil {
		return err
	}

	svc, cfg, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	total := svc.Weekly
	if flagPlanBudget != "" {
		if total, err = decimal.NewFromString(flagPlanBudget); err != nil {
			return fmt.Errorf("--budget: %w", err)
		}
	}

	var price decimal.Decimal
	switch {
	case flagPlanPrice != "":
		if price, err = decimal.NewFromString(flagPlanPrice); err != nil {
			return fmt.Errorf("--price: %w", err)
		}
	case len(cfg.Budget.Tiers) > 0:
		price = decimal.NewFromInt(cfg.Budget.Tiers[0].Price)
	default:
		return errors.New("no unit price: pass --price or configure a budget tier")
	}

	progress("Fetching %d days of forecast from %s...", flagPlanDays, cli.FormatDate(start))
	plan, err := svc.Plan(cmdContext(cmd), start, flagPlanDays, price, total)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PLAN  %s over %d days at %s",
		cli.FormatYen(plan.Budget), len(plan.Days), cli.FormatYen(plan.UnitPrice))))
	fmt.Println()

	rows := make([][]string, 0, len(plan.Days)+2)
	for _, a := range plan.Days {
		rows = append(rows, []string{
			cli.FormatDate(a.Date),
			cli.FormatDayOfWeek(int(a.Weekday)),
			cli.FormatTemp(a.TempMax),
			"×" + a.Weight.String(),
			a.Units.StringFixed(2),
			cli.FormatYen(a.Cost),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", "", "", "", plan.TotalUnits.StringFixed(2), cli.FormatYen(plan.TotalCost)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Date", "Day", "Max", "Weight", "Units", "Cost"},
		Rows:     rows,
		LeftCols: 2,
	}))
	if left := plan.Budget.Sub(plan.TotalCost); left.IsPositive() {
		fmt.Printf("\n  %s\n", cli.Muted("Unallocated: "+cli.FormatYen(left)))
	}
	fmt.Println()
	return nil
}
