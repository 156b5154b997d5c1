// Package sheet - spreadsheet import / export of fleet records
package sheet

import (
	"fmt"
	"io"
	"time"

	"github.com/alwitt/fleetledger/history"
	"github.com/alwitt/fleetledger/models"
	"github.com/xuri/excelize/v2"
)

// HistorySheet name of the exported worksheet
const HistorySheet = "History"

// ExportFileName export file name carrying the export timestamp
func ExportFileName(ts time.Time) string {
	return fmt.Sprintf("Fleet_Full_Version_History_%s.xlsx", ts.Format("20060102_150405"))
}

/*
Export write projected history rows as a spreadsheet

The header row carries the column labels. Every row renders every column, empty when
the version has no value.

	@param w io.Writer - output
	@param columns []models.Column - the columns, in order
	@param rows []history.Row - the rows, in order
*/
func Export(w io.Writer, columns []models.Column, rows []history.Row) error {
	book := excelize.NewFile()
	defer func() {
		_ = book.Close()
	}()

	if err := book.SetSheetName(book.GetSheetName(0), HistorySheet); err != nil {
		return fmt.Errorf("failed to name history sheet [%w]", err)
	}

	header := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		header = append(header, col.Label)
	}
	if err := book.SetSheetRow(HistorySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row [%w]", err)
	}
	if headerStyle, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = book.SetRowStyle(HistorySheet, 1, 1, headerStyle)
	}

	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		values := row.Values(columns)
		line := make([]interface{}, 0, len(values))
		for _, value := range values {
			line = append(line, value)
		}
		if err := book.SetSheetRow(HistorySheet, cell, &line); err != nil {
			return fmt.Errorf("failed to write row %d [%w]", idx+2, err)
		}
	}

	if err := book.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet [%w]", err)
	}
	return nil
}
