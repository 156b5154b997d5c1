// Export command writes a search result to a spreadsheet.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alwitt/fleetledger/history"
	"github.com/alwitt/fleetledger/sheet"
	"github.com/spf13/cobra"
)

var (
	exportOpts searchFlags
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full version history of a search to a spreadsheet",
	Long: `Export every version matching a search to an xlsx spreadsheet, one row per version.

Without --out the file is written to export.dir as
Fleet_Full_Version_History_<YYYYMMDD_HHMMSS>.xlsx.

Example:
  fleetledger export --broker "Acme Logistics"
  fleetledger export --from 01-05-2024 --to 31-05-2024 --out may.xlsx`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportOpts.install(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file")
}

func runExport(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	result, err := exportOpts.run(cmd)
	if err != nil {
		return err
	}
	if len(result.All) == 0 {
		printNotice(out, result.Notice)
		return nil
	}

	target := exportOut
	if target == "" {
		target = filepath.Join(env.cfg.Export.Dir, sheet.ExportFileName(time.Now()))
	}

	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create export file '%s' [%w]", target, err)
	}
	defer file.Close()

	if err := sheet.Export(file, history.Columns(), history.Project(result.All)); err != nil {
		return fmt.Errorf("failed to export to '%s' [%w]", target, err)
	}

	fmt.Fprintf(out, "Exported %d versions to %s\n", len(result.All), target)
	return nil
}
