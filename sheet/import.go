package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alwitt/fleetledger/models"
	"github.com/xuri/excelize/v2"
)

// Accepted textual date layouts
var dateLayouts = []string{
	"02-01-2006 15:04:05",
	"02-01-2006",
}

// ImportedRow one data row of an imported spreadsheet
type ImportedRow struct {
	// Line spreadsheet row number, starting at 1 for the header
	Line int
	// Fields mapped cell values keyed by field key
	Fields map[string]any
	// Err why a cell of this row could not be parsed
	Err error
}

// Payload build the fleet payload from the row's payload fields
func (r ImportedRow) Payload() (models.FleetPayload, error) {
	if r.Err != nil {
		return models.FleetPayload{}, r.Err
	}
	values := map[string]any{}
	for _, col := range models.PayloadColumns() {
		if value, ok := r.Fields[col.Key]; ok {
			values[col.Key] = value
		}
	}
	payload, err := models.UnflattenPayload(values)
	if err != nil {
		return models.FleetPayload{}, fmt.Errorf("row %d [%w]", r.Line, err)
	}
	return payload, nil
}

/*
ParseDate parse a date cell

Accepts DD-MM-YYYY, DD-MM-YYYY HH:MM:SS, or a spreadsheet date serial.

	@param raw string - the cell value
	@returns the date, or nil for an empty cell
*/
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &parsed, nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil, fmt.Errorf("cell '%s' is not a valid date serial [%w]", raw, err)
		}
		// Serials carry no zone: read the wall clock as local time
		local := time.Date(
			parsed.Year(), parsed.Month(), parsed.Day(),
			parsed.Hour(), parsed.Minute(), parsed.Second(), 0, time.Local,
		)
		return &local, nil
	}
	return nil, fmt.Errorf("cell '%s' is not a DD-MM-YYYY date", raw)
}

func parseCell(col models.Column, raw string) (any, error) {
	switch col.Kind {
	case models.FieldKindDate:
		parsed, err := ParseDate(raw)
		if err != nil || parsed == nil {
			return nil, err
		}
		return *parsed, nil
	case models.FieldKindInteger:
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	case models.FieldKindBool:
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		return strconv.ParseBool(strings.TrimSpace(raw))
	}
	return strings.TrimSpace(raw), nil
}

/*
Import read data rows from the first sheet of a spreadsheet

The header row is mapped to field keys through the column labels; the keys themselves
are also accepted. Columns with unmapped headers are dropped. Blank rows are skipped.

	@param r io.Reader - spreadsheet input
	@returns the data rows
*/
func Import(r io.Reader) ([]ImportedRow, error) {
	book, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet [%w]", err)
	}
	defer func() {
		_ = book.Close()
	}()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	lines, err := book.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s' [%w]", sheets[0], err)
	}
	if len(lines) == 0 {
		return []ImportedRow{}, nil
	}

	// Map header positions to catalog columns
	mapped := map[int]models.Column{}
	for idx, label := range lines[0] {
		key, ok := models.KeyForLabel(label)
		if !ok {
			continue
		}
		col, _ := models.LookupColumn(key)
		mapped[idx] = col
	}

	result := []ImportedRow{}
	for lineIdx, cells := range lines[1:] {
		if isBlank(cells) {
			continue
		}
		row := ImportedRow{Line: lineIdx + 2, Fields: map[string]any{}}
		for idx, raw := range cells {
			col, ok := mapped[idx]
			if !ok {
				continue
			}
			value, err := parseCell(col, raw)
			if err != nil {
				row.Err = fmt.Errorf("row %d column '%s' [%w]", row.Line, col.Label, err)
				break
			}
			row.Fields[col.Key] = value
		}
		result = append(result, row)
	}

	return result, nil
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
