package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/model"
	"github.com/theirongolddev/brewburn/internal/retail"

	"github.com/spf13/cobra"
)

var flagSearchAll bool

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Find a beer and work out its unit price",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVarP(&flagSearchAll, "all", "a", false, "List every hit on the first page, not just the top one")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword := strings.Join(args, " ")

	svc, _, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	progress("Searching for %q...", keyword)
	hits, err := svc.Retail.Hits(cmdContext(cmd), keyword)
	if err != nil {
		return err
	}
	if !flagSearchAll {
		hits = hits[:1]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SEARCH  " + keyword))
	fmt.Println()

	if len(hits) == 1 {
		printItem(retail.Parse(hits[0].Name, hits[0].Price))
		if hits[0].Shop != "" {
			fmt.Printf("  %-12s %s\n", "Shop", hits[0].Shop)
		}
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(hits))
	for i, h := range hits {
		item := retail.Parse(h.Name, h.Price)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncate(item.Name, 48),
			cli.FormatYen(item.Price),
			packSize(item),
			cli.FormatYen(item.UnitPrice),
			cli.FormatVolume(item.VolumeMl),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"#", "Item", "Price", "Pack", "Per unit", "Volume"},
		Rows:     rows,
		LeftCols: 2,
	}))
	fmt.Println()
	return nil
}

func printItem(item model.RetailItem) {
	fmt.Printf("  %-12s %s\n", "Item", item.Name)
	fmt.Printf("  %-12s %s\n", "Price", cli.FormatYen(item.Price))
	fmt.Printf("  %-12s %s\n", "Pack", packSize(item))
	fmt.Printf("  %-12s %s\n", "Per unit", cli.Header(cli.FormatYen(item.UnitPrice)))
	fmt.Printf("  %-12s %s\n", "Volume", cli.FormatVolume(item.VolumeMl))
}

func packSize(item model.RetailItem) string {
	if !item.CountFound {
		return cli.Muted("1 (assumed)")
	}
	return strconv.Itoa(item.UnitCount)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
