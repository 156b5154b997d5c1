package history_test

import (
	"testing"
	"time"

	"github.com/alwitt/fleetledger/history"
	"github.com/alwitt/fleetledger/models"
	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestHistoryOrdering(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	t1 := time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	versions := []models.FleetRecord{
		{ID: "t1-version", FleetNumber: 1, IsCurrent: false, ExpiredAt: &t1},
		{ID: "no-expiry", FleetNumber: 1, IsCurrent: false},
		{ID: "current", FleetNumber: 1, IsCurrent: true},
		{ID: "t2-version", FleetNumber: 1, IsCurrent: false, ExpiredAt: &t2},
	}

	rows := history.Project(versions)
	ids := []string{}
	for _, row := range rows {
		ids = append(ids, row.Record.ID)
	}
	assert.Equal([]string{"current", "t2-version", "t1-version", "no-expiry"}, ids)

	// Input is left alone
	assert.Equal("t1-version", versions[0].ID)

	// Current view keeps input order
	rows = history.ProjectCurrent(versions)
	assert.Equal("t1-version", rows[0].Record.ID)

	// Ordering in place
	history.Order(versions)
	assert.Equal("current", versions[0].ID)
	assert.Equal("no-expiry", versions[3].ID)
}

func TestHistoryOrderingAcrossFleets(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	t1 := time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)

	versions := []models.FleetRecord{
		{ID: "f2-current", FleetNumber: 2, IsCurrent: true},
		{ID: "f1-old", FleetNumber: 1, IsCurrent: false, ExpiredAt: &t1},
		{ID: "f1-current", FleetNumber: 1, IsCurrent: true},
	}
	history.Order(versions)
	assert.Equal("f2-current", versions[0].ID)
	assert.Equal("f1-current", versions[1].ID)
	assert.Equal("f1-old", versions[2].ID)
}

func TestHistoryRowValues(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	created := time.Date(2024, 5, 17, 9, 30, 5, 0, time.Local)
	version := models.FleetRecord{
		ID:          "rec-1",
		FleetNumber: 12,
		FleetPayload: models.FleetPayload{
			Origin:   "Pune",
			Customer: models.CustomerAddendum{Name: "ACME"},
		},
		IsCurrent:   true,
		CreatedAt:   created,
		CreatedBy:   "alice@example.com",
		VersionDate: created,
	}

	columns := history.Columns()
	rows := history.Project([]models.FleetRecord{version})
	assert.Len(rows, 1)
	values := rows[0].Values(columns)
	assert.Len(values, len(columns))

	byKey := map[string]string{}
	for idx, col := range columns {
		byKey[col.Key] = values[idx]
	}
	assert.Equal("12", byKey[models.KeyFleetNumber])
	assert.Equal("true", byKey[models.KeyIsCurrent])
	assert.Equal("17-05-2024 09:30:05", byKey[models.KeyCreatedAt])
	assert.Equal("", byKey[models.KeyExpiredAt])
	assert.Equal("Pune", byKey["origin"])
	assert.Equal("ACME", byKey["customer.name"])
	assert.Equal("", byKey["vendor.name"])
	assert.Equal("", byKey["indentDate"])

	// Sparse rows still render every column
	empty := history.Row{Fields: map[string]any{"unexpected": "value"}}
	values = empty.Values(columns)
	assert.Len(values, len(columns))
	for _, value := range values {
		assert.Equal("", value)
	}
}

func TestHistoryRender(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	var nilTime *time.Time
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

	assert.Equal("", history.Render(nil))
	assert.Equal("", history.Render(nilTime))
	assert.Equal("", history.Render(time.Time{}))
	assert.Equal("02-01-2024 03:04:05", history.Render(ts))
	assert.Equal("02-01-2024 03:04:05", history.Render(&ts))
	assert.Equal("false", history.Render(false))
	assert.Equal("42", history.Render(int64(42)))
	assert.Equal("x", history.Render("x"))
	assert.Equal("1.5", history.Render(1.5))
}
