// Package history - fleet record version history projection
package history

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/alwitt/fleetledger/models"
)

// DisplayTimeFormat rendering format of timestamp values
const DisplayTimeFormat = "02-01-2006 15:04:05"

// Row one flattened fleet record version
type Row struct {
	// Record the version this row was projected from
	Record models.FleetRecord
	// Fields flattened fields of the version
	Fields map[string]any
}

// Values render the row's fields in column order
func (r Row) Values(columns []models.Column) []string {
	result := make([]string, 0, len(columns))
	for _, col := range columns {
		result = append(result, Render(r.Fields[col.Key]))
	}
	return result
}

// Columns the fixed display / export column set
func Columns() []models.Column {
	return models.Columns()
}

// expiryOf sort key of a version's expiry, zero when missing
func expiryOf(r models.FleetRecord) int64 {
	if r.ExpiredAt == nil {
		return 0
	}
	return r.ExpiredAt.UnixNano()
}

/*
Order sort versions for display, in place

Current versions sort before all superseded ones. Superseded versions sort by expiry,
most recent first. A superseded version missing its expiry sorts as if it expired at 0.
Ties keep their input order.

	@param versions []models.FleetRecord - the versions
*/
func Order(versions []models.FleetRecord) {
	sort.SliceStable(versions, func(i, j int) bool {
		a, b := versions[i], versions[j]
		if a.IsCurrent != b.IsCurrent {
			return a.IsCurrent
		}
		if a.IsCurrent {
			return false
		}
		return expiryOf(a) > expiryOf(b)
	})
}

/*
Project order then flatten versions into display rows

	@param versions []models.FleetRecord - the versions. The slice is not modified.
	@returns the rows
*/
func Project(versions []models.FleetRecord) []Row {
	ordered := append([]models.FleetRecord{}, versions...)
	Order(ordered)
	return ProjectCurrent(ordered)
}

/*
ProjectCurrent flatten versions into display rows without reordering

This is for the editable current version view, which shares the history column set.

	@param versions []models.FleetRecord - the versions
	@returns the rows
*/
func ProjectCurrent(versions []models.FleetRecord) []Row {
	rows := make([]Row, 0, len(versions))
	for _, version := range versions {
		rows = append(rows, Row{Record: version, Fields: models.FlattenRecord(version)})
	}
	return rows
}

// Render display form of one field value. Missing values render as empty.
func Render(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Local().Format(DisplayTimeFormat)
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return v.Local().Format(DisplayTimeFormat)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return fmt.Sprint(value)
}
