package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alwitt/fleetledger/db"
	"github.com/alwitt/fleetledger/models"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestDBChangeEvents(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	testDB := fmt.Sprintf("/tmp/fleetledger_ut_%s.db", ulid.Make().String())
	log.WithField("db", testDB).Debug("Test database")

	uut, err := db.NewConnection(db.GetSqliteDialector(testDB), logger.Error)
	assert.Nil(err)

	assert.Nil(uut.RunSQLInTransaction(utCtx, db.DefineTables))

	validate := validator.New()
	assert.Nil(models.RegisterWithValidator(validate))

	currentTime := time.Now().UTC()

	// Write: create fleet 1, expire it, create fleet 2, delete fleet 2
	var ver1, ver2 models.FleetRecord
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		var err error
		if ver1, err = dbClient.InsertFleetRecord(
			ctx, newTestVersion(1, "broker-a", currentTime),
		); err != nil {
			return err
		}
		if _, err = dbClient.ExpireFleetRecord(ctx, ver1.ID, "editor", currentTime); err != nil {
			return err
		}
		if ver2, err = dbClient.InsertFleetRecord(
			ctx, newTestVersion(2, "broker-b", currentTime),
		); err != nil {
			return err
		}
		return dbClient.DeleteFleetRecord(ctx, ver2.ID, "admin")
	})
	assert.Nil(err)

	// All events
	var events []models.ChangeEvent
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		var err error
		events, err = dbClient.ListChangeEvents(ctx, db.ChangeEventQueryFilter{})
		return err
	})
	assert.Nil(err)
	assert.Len(events, 4)
	{
		expected := []models.ChangeOperationENUMType{
			models.ChangeOperationCreate,
			models.ChangeOperationUpdate,
			models.ChangeOperationCreate,
			models.ChangeOperationDelete,
		}
		for idx, event := range events {
			assert.Equal(expected[idx], event.Operation)
		}
	}

	// CREATE carries only the new document
	{
		before, after, err := events[0].ParseSnapshots(validate)
		assert.Nil(err)
		assert.Nil(before)
		assert.NotNil(after)
		assert.Equal(ver1.ID, after.ID)
		assert.Equal("unit-tester", events[0].Actor)
	}

	// UPDATE carries both
	{
		before, after, err := events[1].ParseSnapshots(validate)
		assert.Nil(err)
		assert.NotNil(before)
		assert.NotNil(after)
		assert.True(before.IsCurrent)
		assert.False(after.IsCurrent)
		assert.NotNil(after.ExpiredAt)
		assert.Equal("editor", events[1].Actor)
	}

	// DELETE carries only the old document
	{
		before, after, err := events[3].ParseSnapshots(validate)
		assert.Nil(err)
		assert.NotNil(before)
		assert.Nil(after)
		assert.Equal(ver2.ID, before.ID)
		assert.Equal("admin", events[3].Actor)
	}

	// Filter by fleet number and operation
	fleetTwo := int64(2)
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		entries, err := dbClient.ListChangeEvents(ctx, db.ChangeEventQueryFilter{
			FleetNumber: &fleetTwo,
		})
		assert.Nil(err)
		assert.Len(entries, 2)

		entries, err = dbClient.ListChangeEvents(ctx, db.ChangeEventQueryFilter{
			FleetNumber: &fleetTwo,
			Operations:  []models.ChangeOperationENUMType{models.ChangeOperationDelete},
		})
		assert.Nil(err)
		assert.Len(entries, 1)
		assert.Equal(ver2.ID, entries[0].DocumentID)
		return err
	})
	assert.Nil(err)

	// A rolled back write leaves no event behind
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		if _, err := dbClient.InsertFleetRecord(
			ctx, newTestVersion(3, "broker-c", currentTime),
		); err != nil {
			return err
		}
		return fmt.Errorf("dummy error")
	})
	assert.NotNil(err)
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		entries, err := dbClient.ListChangeEvents(ctx, db.ChangeEventQueryFilter{})
		assert.Nil(err)
		assert.Len(entries, 4)
		return err
	})
	assert.Nil(err)
}
