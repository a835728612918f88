package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/ledger"
	"github.com/theirongolddev/brewburn/internal/retail"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagLogDate  string
	flagLogYes   bool
	flagLogName  string
	flagLogPrice string
)

var logCmd = &cobra.Command{
	Use:   "log [keyword]",
	Short: "Record a beer you drank, with that day's weather",
	Long: "Search for the beer (or describe it with --name and --price), pair it with the\n" +
		"weather and recommendation for --date, and append it to the ledger.",
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&flagLogDate, "date", "", "Day it was drunk (YYYY-MM-DD, default today)")
	logCmd.Flags().BoolVarP(&flagLogYes, "yes", "y", false, "Skip the confirmation prompt")
	logCmd.Flags().StringVar(&flagLogName, "name", "", "Item name, instead of searching")
	logCmd.Flags().StringVar(&flagLogPrice, "price", "", "Item price in yen, used with --name")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	date, err := parseDateFlag(flagLogDate)
	if err != nil {
		return err
	}
	keyword := strings.Join(args, " ")
	if keyword == "" && flagLogName == "" {
		return errors.New("give a keyword to search for, or --name and --price")
	}

	svc, _, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	l, err := svc.LoadLedger()
	if err != nil {
		return err
	}

	ctx := cmdContext(cmd)
	var sel ledger.Selection
	if flagLogName != "" {
		price, perr := decimal.NewFromString(flagLogPrice)
		if perr != nil || !price.IsPositive() {
			return fmt.Errorf("--price must be a positive amount, got %q", flagLogPrice)
		}
		progress("Fetching weather for %s...", cli.FormatDate(date))
		sel, err = svc.StageItem(ctx, date, retail.Parse(flagLogName, price))
	} else {
		progress("Searching for %q and fetching weather for %s...", keyword, cli.FormatDate(date))
		sel, err = svc.Stage(ctx, date, keyword)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	printSelection(sel)
	fmt.Println()

	if !flagLogYes {
		confirmed := true
		prompt := huh.NewConfirm().
			Title("Add this to the ledger?").
			Affirmative("Drank it!").
			Negative("Cancel").
			Value(&confirmed)
		if err := huh.NewForm(huh.NewGroup(prompt)).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("  Cancelled.")
				return nil
			}
			return err
		}
		if !confirmed {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	entry := l.Confirm(sel)
	if err := svc.SaveLedger(l); err != nil {
		return err
	}

	fmt.Printf("  Logged %s  (%d entries)\n", cli.Info(cli.ShortID(entry.ID)), l.Len())
	monthly, weekly := svc.Budgets(l.All())
	fmt.Println()
	printPeriodLine(monthly)
	printPeriodLine(weekly)
	fmt.Println()
	return nil
}

func printSelection(sel ledger.Selection) {
	printItem(sel.Item)
	fmt.Printf("  %-12s %s (%s)\n", "Date", cli.FormatDate(sel.Day.Date), cli.FormatDayOfWeek(int(sel.Day.Weekday)))
	fmt.Printf("  %-12s %s, %s\n", "Weather", sel.Day.Description, cli.FormatTemp(sel.Day.TempMax))
	if r := sel.Recommendation; r != nil {
		fmt.Printf("  %-12s %s, %d suggested\n", "Day type", cli.FormatTier(r.Tier), r.SuggestedCount)
	}
}
