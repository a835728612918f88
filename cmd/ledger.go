package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagLedgerTail int
	flagRmAt       int
	flagRmLast     bool
)

var ledgerCmd = &cobra.Command{
	Use:     "ledger",
	Aliases: []string{"ls"},
	Short:   "List logged beers",
	Args:    cobra.NoArgs,
	RunE:    runLedgerList,
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged beers",
	Args:  cobra.NoArgs,
	RunE:  runLedgerList,
}

var ledgerRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove an entry by ID (or unique prefix), position or the last one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLedgerRm,
}

func init() {
	ledgerCmd.PersistentFlags().IntVarP(&flagLedgerTail, "tail", "n", 0, "Show only the last N entries")
	ledgerRmCmd.Flags().IntVar(&flagRmAt, "at", 0, "Remove the entry at this position, as numbered by `ledger`")
	ledgerRmCmd.Flags().BoolVar(&flagRmLast, "last", false, "Remove the most recent entry")
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerRmCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func runLedgerList(_ *cobra.Command, _ []string) error {
	svc, _, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	l, err := svc.LoadLedger()
	if err != nil {
		return err
	}

	entries := l.All()
	if len(entries) == 0 {
		fmt.Println("\n  Nothing logged yet. Try: brewburn log <keyword>")
		fmt.Println()
		return nil
	}

	offset := 0
	if flagLedgerTail > 0 && flagLedgerTail < len(entries) {
		offset = len(entries) - flagLedgerTail
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("LEDGER  %d entries", len(entries))))
	fmt.Println()
	fmt.Print(renderLedger(entries[offset:], offset))
	fmt.Println()
	return nil
}

func renderLedger(entries []model.LedgerEntry, offset int) string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		suggested := "-"
		if e.Suggested != nil {
			suggested = strconv.Itoa(*e.Suggested)
		}
		rows = append(rows, []string{
			strconv.Itoa(offset + i + 1),
			cli.ShortID(e.ID),
			cli.FormatDate(e.Date),
			cli.FormatDayOfWeek(int(e.Weekday)),
			e.WeatherDescription,
			truncate(e.ItemName, 36),
			cli.FormatTemp(e.TempMax),
			cli.FormatNullYen(e.UnitPrice),
			cli.FormatVolume(e.VolumeMl),
			cli.FormatTier(e.Tier),
			suggested,
		})
	}
	return cli.RenderTable(cli.Table{
		Headers:  []string{"#", "ID", "Date", "Day", "Weather", "Item", "Max", "Per unit", "Volume", "Day type", "Sugg."},
		Rows:     rows,
		LeftCols: 6,
	})
}

func runLedgerRm(_ *cobra.Command, args []string) error {
	chosen := 0
	if len(args) == 1 {
		chosen++
	}
	if flagRmAt != 0 {
		chosen++
	}
	if flagRmLast {
		chosen++
	}
	if chosen != 1 {
		return errors.New("pass exactly one of: an ID, --at N, --last")
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

	var removed model.LedgerEntry
	switch {
	case flagRmLast:
		removed, err = l.RemoveLast()
	case flagRmAt != 0:
		removed, err = l.RemoveAt(flagRmAt - 1)
	default:
		var e model.LedgerEntry
		if e, err = l.Lookup(args[0]); err == nil {
			removed, err = l.Remove(e.ID)
		}
	}
	if err != nil {
		return err
	}

	if err := svc.SaveLedger(l); err != nil {
		return err
	}
	fmt.Printf("  Removed %s  %s %s (%s)\n",
		cli.Info(cli.ShortID(removed.ID)), cli.FormatDate(removed.Date),
		removed.ItemName, cli.FormatNullYen(removed.UnitPrice))
	return nil
}
