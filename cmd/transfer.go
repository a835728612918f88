package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/ledger"

	"github.com/spf13/cobra"
)

var flagImportAppend bool

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Load a ledger CSV, replacing the current ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [file.csv]",
	Short: "Write the ledger as CSV (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportAppend, "append", false, "Append to the ledger instead of replacing it")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0]) //nolint:gosec // path is given by the user
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := ledger.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	svc, _, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	l := ledger.New()
	if flagImportAppend {
		if l, err = svc.LoadLedger(); err != nil {
			return err
		}
		for _, r := range rows {
			l.Append(r)
		}
	} else {
		l.LoadFromSnapshot(rows)
	}

	if err := svc.SaveLedger(l); err != nil {
		return err
	}
	fmt.Printf("  Imported %s entries from %s (ledger now holds %s)\n",
		cli.FormatNumber(int64(len(rows))), args[0], cli.FormatNumber(int64(l.Len())))
	return nil
}

func runExport(_ *cobra.Command, args []string) error {
	svc, _, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	l, err := svc.LoadLedger()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0]) //nolint:gosec // path is given by the user
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := ledger.WriteCSV(w, l.ToSnapshot()); err != nil {
		return err
	}
	if len(args) == 1 {
		progress("Wrote %s entries to %s", cli.FormatNumber(int64(l.Len())), args[0])
	}
	return nil
}
