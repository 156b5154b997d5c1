// Import command creates fleet records from a spreadsheet.
package main

import (
	"fmt"
	"os"

	"github.com/alwitt/fleetledger/models"
	"github.com/alwitt/fleetledger/sheet"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Create fleet records from a spreadsheet",
	Long: `Create one new fleet record per data row of the first sheet of an xlsx file.

Header cells are matched against field labels. Unknown columns are ignored. Each row
gets a fresh fleet number in row order; bookkeeping columns such as Fleet Number or
Record ID are not carried over.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open '%s' [%w]", args[0], err)
	}
	defer file.Close()

	rows, err := sheet.Import(file)
	if err != nil {
		return err
	}

	failed := 0
	payloads := []models.FleetPayload{}
	lines := []int{}
	for _, row := range rows {
		payload, err := row.Payload()
		if err != nil {
			fmt.Fprintf(out, "row %d: %s\n", row.Line, err)
			failed++
			continue
		}
		payloads = append(payloads, payload)
		lines = append(lines, row.Line)
	}

	instance, err := openLedger(ctx)
	if err != nil {
		return err
	}

	report := instance.ImportPayloads(ctx, payloads, currentActor(ctx))
	for _, item := range report.Items {
		if item.Err != nil {
			fmt.Fprintf(out, "row %d: %s\n", lines[item.Index], item.Err)
		} else {
			fmt.Fprintf(out, "row %d: created fleet number %d\n", lines[item.Index], item.FleetNumber)
		}
	}
	failed += report.Failed

	fmt.Fprintf(out, "Imported %d of %d rows\n", report.Succeeded, len(rows))
	if failed > 0 {
		return fmt.Errorf("%d of %d rows could not be imported", failed, len(rows))
	}
	return nil
}
