package db_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/alwitt/fleetledger/db"
	"github.com/alwitt/fleetledger/models"
	"github.com/apex/log"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestDBFleetCounterMissing(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	testDB := fmt.Sprintf("/tmp/fleetledger_ut_%s.db", ulid.Make().String())
	log.WithField("db", testDB).Debug("Test database")

	uut, err := db.NewConnection(db.GetSqliteDialector(testDB), logger.Error)
	assert.Nil(err)

	assert.Nil(uut.RunSQLInTransaction(utCtx, db.DefineTables))

	// Allocating without a counter fails
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		_, err := dbClient.AllocateFleetNumber(ctx, false)
		return err
	})
	assert.True(errors.Is(err, db.ErrCounterMissing))

	// Nothing was created as a side effect
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		_, err := dbClient.GetFleetCounter(ctx)
		return err
	})
	assert.True(errors.Is(err, db.ErrCounterMissing))

	// Allocating with bootstrap seeds the counter
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		fleetNo, err := dbClient.AllocateFleetNumber(ctx, true)
		assert.Nil(err)
		assert.Equal(int64(1), fleetNo)
		return err
	})
	assert.Nil(err)

	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		counter, err := dbClient.GetFleetCounter(ctx)
		assert.Nil(err)
		assert.Equal(models.FleetCounterID, counter.ID)
		assert.Equal(int64(2), counter.NextFleetNo)
		return err
	})
	assert.Nil(err)

	// Once seeded, bootstrap has no further effect
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		fleetNo, err := dbClient.AllocateFleetNumber(ctx, true)
		assert.Nil(err)
		assert.Equal(int64(2), fleetNo)
		return err
	})
	assert.Nil(err)
}

func TestDBFleetCounterInitialize(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	testDB := fmt.Sprintf("/tmp/fleetledger_ut_%s.db", ulid.Make().String())
	log.WithField("db", testDB).Debug("Test database")

	uut, err := db.NewConnection(db.GetSqliteDialector(testDB), logger.Error)
	assert.Nil(err)

	assert.Nil(uut.RunSQLInTransaction(utCtx, db.DefineTables))

	// Case 0: invalid seed
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		_, err := dbClient.InitializeFleetCounter(ctx, 0)
		return err
	})
	assert.NotNil(err)

	// Case 1: seed the counter
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		counter, err := dbClient.InitializeFleetCounter(ctx, 100)
		assert.Nil(err)
		assert.Equal(int64(100), counter.NextFleetNo)
		return err
	})
	assert.Nil(err)

	// Case 2: seeding again is a NOOP
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		counter, err := dbClient.InitializeFleetCounter(ctx, 5)
		assert.Nil(err)
		assert.Equal(int64(100), counter.NextFleetNo)
		return err
	})
	assert.Nil(err)

	// Case 3: allocate in sequence
	for _, expected := range []int64{100, 101, 102} {
		err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
			fleetNo, err := dbClient.AllocateFleetNumber(ctx, false)
			assert.Nil(err)
			assert.Equal(expected, fleetNo)
			return err
		})
		assert.Nil(err)
	}

	// Case 4: a rolled back allocation leaves a gap-free counter
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		fleetNo, err := dbClient.AllocateFleetNumber(ctx, false)
		assert.Nil(err)
		assert.Equal(int64(103), fleetNo)
		return fmt.Errorf("dummy error")
	})
	assert.NotNil(err)
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		fleetNo, err := dbClient.AllocateFleetNumber(ctx, false)
		assert.Nil(err)
		assert.Equal(int64(103), fleetNo)
		return err
	})
	assert.Nil(err)
}

func TestDBFleetCounterConcurrentAllocation(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	testDB := fmt.Sprintf("/tmp/fleetledger_ut_%s.db", ulid.Make().String())
	log.WithField("db", testDB).Debug("Test database")

	uut, err := db.NewConnection(db.GetSqliteDialector(testDB), logger.Error)
	assert.Nil(err)

	assert.Nil(uut.RunSQLInTransaction(utCtx, db.DefineTables))

	assert.Nil(uut.UseDatabaseInTransaction(
		utCtx, func(ctx context.Context, dbClient db.Database) error {
			_, err := dbClient.InitializeFleetCounter(ctx, 1)
			return err
		},
	))

	const callers = 16

	allocated := make([]int64, callers)
	errs := make([]error, callers)
	wg := sync.WaitGroup{}
	for idx := 0; idx < callers; idx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = uut.UseDatabaseInTransaction(
				utCtx, func(ctx context.Context, dbClient db.Database) error {
					fleetNo, err := dbClient.AllocateFleetNumber(ctx, false)
					allocated[idx] = fleetNo
					return err
				},
			)
		}(idx)
	}
	wg.Wait()

	seen := map[int64]bool{}
	for idx := 0; idx < callers; idx++ {
		assert.Nil(errs[idx])
		assert.False(seen[allocated[idx]], "fleet number %d allocated twice", allocated[idx])
		seen[allocated[idx]] = true
	}
	assert.Len(seen, callers)
	for fleetNo := int64(1); fleetNo <= callers; fleetNo++ {
		assert.True(seen[fleetNo])
	}
}
