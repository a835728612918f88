package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/model"

	"github.com/spf13/cobra"
)

var flagForecastDate string

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show the week's weather and drinking-day recommendations",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().StringVar(&flagForecastDate, "date", "", "First day of the week (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	start, err := parseDateFlag(flagForecastDate)
	if err != nil {
		return err
	}

	svc, _, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	progress("Fetching forecast from %s...", cli.FormatDate(start))
	_, week, err := svc.Forecast(cmdContext(cmd), start)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DRINKING DAYS  " + cli.FormatDate(start)))
	fmt.Println()
	fmt.Print(renderWeek(week))
	fmt.Println()
	fmt.Printf("  Forecast for the week: %s drinks  %s\n",
		cli.Header(strconv.Itoa(week.Total)), strings.Repeat("🍺", week.Total))
	fmt.Println()
	return nil
}

func renderWeek(week model.Week) string {
	rows := make([][]string, 0, len(week.Entries))
	for _, e := range week.Entries {
		rows = append(rows, []string{
			cli.FormatDate(e.Date),
			cli.FormatDayOfWeek(int(e.Weekday)),
			e.Description,
			cli.FormatTemp(e.TempMax),
			cli.FormatTier(e.Tier),
			strconv.Itoa(e.SuggestedCount),
		})
	}
	return cli.RenderTable(cli.Table{
		Headers:  []string{"Date", "Day", "Weather", "Max", "Day type", "Drinks"},
		Rows:     rows,
		LeftCols: 3,
	})
}

// cmdContext returns the command's context, or Background when run outside
// Execute (tests).
func cmdContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
