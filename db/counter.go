package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alwitt/fleetledger/models"
	"github.com/apex/log"
	"gorm.io/gorm"
)

// getFleetCounterEntry fetch the counter entry
func (d *databaseImpl) getFleetCounterEntry() (FleetCounterDBEntry, error) {
	var entries []FleetCounterDBEntry
	dbErr := d.db.Where("id = ?", models.FleetCounterID).Find(&entries).Error
	if dbErr != nil {
		return FleetCounterDBEntry{}, fmt.Errorf("failed to read counters table [%w]", dbErr)
	}
	if len(entries) == 0 {
		return FleetCounterDBEntry{}, ErrCounterMissing
	}
	return entries[0], nil
}

// createFleetCounterEntry define the singleton counter entry
func (d *databaseImpl) createFleetCounterEntry(nextFleetNo int64) (FleetCounterDBEntry, error) {
	newEntry := FleetCounterDBEntry{
		FleetCounter: models.FleetCounter{ID: models.FleetCounterID, NextFleetNo: nextFleetNo},
	}
	if err := d.validator.Struct(&newEntry); err != nil {
		return FleetCounterDBEntry{}, fmt.Errorf("new fleet counter entry is invalid [%w]", err)
	}
	if dbErr := d.db.Create(&newEntry).Error; dbErr != nil {
		return FleetCounterDBEntry{}, fmt.Errorf("failed to setup fleet counter entry [%w]", dbErr)
	}
	return newEntry, nil
}

/*
InitializeFleetCounter create the fleet number counter entry. NOOP if the entry
already exists.

	@param ctx context.Context - execution context
	@param seed int64 - the first fleet number to hand out
	@returns the counter entry
*/
func (d *databaseImpl) InitializeFleetCounter(
	ctx context.Context, seed int64,
) (models.FleetCounter, error) {
	entry, err := d.getFleetCounterEntry()
	if err == nil {
		return entry.FleetCounter, nil
	}
	if !errors.Is(err, ErrCounterMissing) {
		return models.FleetCounter{}, err
	}

	entry, err = d.createFleetCounterEntry(seed)
	if err != nil {
		return models.FleetCounter{}, err
	}

	log.WithFields(d.GetLogTagsForContext(ctx)).
		WithField("seed", seed).
		Info("Initialized fleet number counter")

	return entry.FleetCounter, nil
}

/*
GetFleetCounter fetch the fleet number counter entry

	@param ctx context.Context - execution context
	@returns the counter entry
*/
func (d *databaseImpl) GetFleetCounter(_ context.Context) (models.FleetCounter, error) {
	entry, err := d.getFleetCounterEntry()
	if err != nil {
		return models.FleetCounter{}, fmt.Errorf("unable to fetch fleet counter entry [%w]", err)
	}
	return entry.FleetCounter, nil
}

/*
AllocateFleetNumber atomically hand out the next fleet number

Must be called within a transaction. If the counter entry is missing, the call fails
with ErrCounterMissing unless `allowBootstrap` is set, in which case the counter is
seeded with 1.

	@param ctx context.Context - execution context
	@param allowBootstrap bool - whether to seed a missing counter
	@returns the allocated fleet number
*/
func (d *databaseImpl) AllocateFleetNumber(
	ctx context.Context, allowBootstrap bool,
) (int64, error) {
	// Increment first. The write lock taken here is held until the transaction ends, so
	// the read back below always observes this caller's own increment.
	tmp := d.db.Model(&FleetCounterDBEntry{}).
		Where("id = ?", models.FleetCounterID).
		Updates(map[string]interface{}{
			"next_fleet_no": gorm.Expr("next_fleet_no + ?", 1),
			"updated_at":    time.Now().UTC(),
		})
	if tmp.Error != nil {
		return 0, fmt.Errorf("fleet counter increment failed [%w]", tmp.Error)
	}

	if tmp.RowsAffected == 0 {
		if !allowBootstrap {
			return 0, ErrCounterMissing
		}
		log.WithFields(d.GetLogTagsForContext(ctx)).
			Warn("Fleet number counter missing, bootstrapping from 1")
		if _, err := d.createFleetCounterEntry(2); err != nil {
			return 0, fmt.Errorf("fleet counter bootstrap failed [%w]", err)
		}
		return 1, nil
	}

	entry, err := d.getFleetCounterEntry()
	if err != nil {
		return 0, fmt.Errorf("unable to read back fleet counter [%w]", err)
	}

	return entry.NextFleetNo - 1, nil
}
