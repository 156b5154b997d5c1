package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alwitt/fleetledger/db"
	"github.com/alwitt/fleetledger/models"
	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func newTestVersion(fleetNumber int64, broker string, createdAt time.Time) models.FleetRecord {
	return models.FleetRecord{
		FleetNumber: fleetNumber,
		FleetPayload: models.FleetPayload{
			Broker:    broker,
			Origin:    uuid.NewString(),
			SalesRate: "100",
			Customer:  models.CustomerAddendum{Name: uuid.NewString(), SaleRate: "1,250.50"},
		},
		IsCurrent:   true,
		CreatedAt:   createdAt,
		CreatedBy:   "unit-tester",
		VersionDate: createdAt,
	}
}

// TestDBFleetRecordCRUD verifies the behavior of `Database.InsertFleetRecord`,
// `Database.GetFleetRecord`, `Database.ExpireFleetRecord` and `Database.DeleteFleetRecord`.
func TestDBFleetRecordCRUD(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	testDB := fmt.Sprintf("/tmp/fleetledger_ut_%s.db", ulid.Make().String())
	log.WithField("db", testDB).Debug("Test database")

	uut, err := db.NewConnection(db.GetSqliteDialector(testDB), logger.Error)
	assert.Nil(err)

	assert.Nil(uut.RunSQLInTransaction(utCtx, db.DefineTables))

	currentTime := time.Now().UTC()

	// -------------------------------------------------------------------------
	// 1 – Insert a version
	var ver1 models.FleetRecord
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		var err error
		ver1, err = dbClient.InsertFleetRecord(ctx, newTestVersion(1, "broker-a", currentTime))
		return err
	})
	assert.Nil(err)
	assert.NotEmpty(ver1.ID)

	// 2 – Read it back
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		entry, err := dbClient.GetFleetRecord(ctx, ver1.ID)
		assert.Nil(err)
		assert.Equal(int64(1), entry.FleetNumber)
		assert.Equal(ver1.Origin, entry.Origin)
		assert.Equal(ver1.Customer.Name, entry.Customer.Name)
		assert.True(entry.IsCurrent)
		assert.Nil(entry.ExpiredAt)
		return err
	})
	assert.Nil(err)

	// 3 – Invalid versions are rejected
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		bad := newTestVersion(1, "broker-a", currentTime)
		bad.SalesRate = "one hundred"
		_, err := dbClient.InsertFleetRecord(ctx, bad)
		return err
	})
	assert.NotNil(err)
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		_, err := dbClient.InsertFleetRecord(ctx, newTestVersion(0, "broker-a", currentTime))
		return err
	})
	assert.NotNil(err)

	// -------------------------------------------------------------------------
	// 4 – Expire the version
	expireTime := currentTime.Add(time.Minute)
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		entry, err := dbClient.ExpireFleetRecord(ctx, ver1.ID, "editor", expireTime)
		assert.Nil(err)
		assert.False(entry.IsCurrent)
		assert.NotNil(entry.ExpiredAt)
		assert.Equal("editor", entry.ModifiedBy)
		// Payload is untouched
		assert.Equal(ver1.Origin, entry.Origin)
		return err
	})
	assert.Nil(err)

	// 5 – Expiring again is refused
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		_, err := dbClient.ExpireFleetRecord(ctx, ver1.ID, "editor", expireTime)
		return err
	})
	assert.True(errors.Is(err, db.ErrNotCurrent))

	// 6 – Expiring an unknown version
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		_, err := dbClient.ExpireFleetRecord(ctx, ulid.Make().String(), "editor", expireTime)
		return err
	})
	assert.True(errors.Is(err, db.ErrRecordNotFound))

	// -------------------------------------------------------------------------
	// 7 – Delete the version
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		return dbClient.DeleteFleetRecord(ctx, ver1.ID, "admin")
	})
	assert.Nil(err)

	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		_, err := dbClient.GetFleetRecord(ctx, ver1.ID)
		return err
	})
	assert.True(errors.Is(err, db.ErrRecordNotFound))

	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		return dbClient.DeleteFleetRecord(ctx, ver1.ID, "admin")
	})
	assert.True(errors.Is(err, db.ErrRecordNotFound))
}

// TestDBFleetRecordListing verifies the filters of `Database.ListFleetRecords`
func TestDBFleetRecordListing(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	testDB := fmt.Sprintf("/tmp/fleetledger_ut_%s.db", ulid.Make().String())
	log.WithField("db", testDB).Debug("Test database")

	uut, err := db.NewConnection(db.GetSqliteDialector(testDB), logger.Error)
	assert.Nil(err)

	assert.Nil(uut.RunSQLInTransaction(utCtx, db.DefineTables))

	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	day3 := day2.Add(24 * time.Hour)

	// Fleet 1 has two versions: one expired, one current
	// Fleet 2 has one version
	versions := []models.FleetRecord{
		newTestVersion(1, "broker-a", day1),
		newTestVersion(1, "broker-a", day2),
		newTestVersion(2, "broker-b", day3),
	}
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		for idx, version := range versions {
			stored, err := dbClient.InsertFleetRecord(ctx, version)
			if err != nil {
				return err
			}
			versions[idx] = stored
		}
		_, err := dbClient.ExpireFleetRecord(ctx, versions[0].ID, "editor", day2)
		return err
	})
	assert.Nil(err)

	fleetOne := int64(1)
	brokerB := "broker-b"
	unknownBroker := uuid.NewString()
	rangeStart := day2.Add(-time.Hour)
	rangeEnd := day3.Add(-time.Hour)

	type testCase struct {
		filter   db.FleetRecordQueryFilter
		expected []string
	}
	testCases := []testCase{
		{
			filter:   db.FleetRecordQueryFilter{},
			expected: []string{versions[2].ID, versions[1].ID, versions[0].ID},
		},
		{
			filter:   db.FleetRecordQueryFilter{FleetNumber: &fleetOne},
			expected: []string{versions[1].ID, versions[0].ID},
		},
		{
			filter:   db.FleetRecordQueryFilter{FleetNumber: &fleetOne, CurrentOnly: true},
			expected: []string{versions[1].ID},
		},
		{
			filter:   db.FleetRecordQueryFilter{Broker: &brokerB},
			expected: []string{versions[2].ID},
		},
		{
			filter:   db.FleetRecordQueryFilter{Broker: &unknownBroker},
			expected: []string{},
		},
		{
			filter: db.FleetRecordQueryFilter{
				CreatedAfter: &rangeStart, CreatedBefore: &rangeEnd,
			},
			expected: []string{versions[1].ID},
		},
	}

	for idx, oneTest := range testCases {
		err = uut.UseDatabaseInTransaction(
			utCtx, func(ctx context.Context, dbClient db.Database) error {
				entries, err := dbClient.ListFleetRecords(ctx, oneTest.filter)
				if err != nil {
					return err
				}
				assert.NotNil(entries, "case %d", idx)
				ids := []string{}
				for _, entry := range entries {
					ids = append(ids, entry.ID)
				}
				assert.Equal(oneTest.expected, ids, "case %d", idx)
				return nil
			},
		)
		assert.Nil(err)
	}
}
