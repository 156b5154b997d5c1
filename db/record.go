package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alwitt/fleetledger/models"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// ======================================================================================
// Fleet record versions

/*
InsertFleetRecord insert a new fleet record version

	@param ctx context.Context - execution context
	@param record models.FleetRecord - the new version. The ID is assigned if empty.
	@returns the stored version
*/
func (d *databaseImpl) InsertFleetRecord(
	_ context.Context, record models.FleetRecord,
) (models.FleetRecord, error) {
	if record.ID == "" {
		record.ID = ulid.Make().String()
	}
	newEntry := FleetRecordDBEntry{FleetRecord: record}

	if err := d.validator.Struct(&newEntry); err != nil {
		return models.FleetRecord{}, fmt.Errorf(
			"new version for fleet number %d is invalid [%w]", record.FleetNumber, err,
		)
	}

	if tmp := d.db.Create(&newEntry); tmp.Error != nil {
		return models.FleetRecord{}, fmt.Errorf(
			"new version for fleet number %d insert failed [%w]", record.FleetNumber, tmp.Error,
		)
	}

	// Record this event
	if _, err := d.defineNewChangeEvent(
		models.ChangeOperationCreate, newEntry.ID, newEntry.FleetNumber, newEntry.CreatedBy,
		nil, &newEntry.FleetRecord,
	); err != nil {
		return models.FleetRecord{}, fmt.Errorf(
			"failed to log new version %s change event [%w]", newEntry.ID, err,
		)
	}

	return newEntry.FleetRecord, nil
}

// getFleetRecordEntry find a fleet record version by ID
func (d *databaseImpl) getFleetRecordEntry(recordID string) (FleetRecordDBEntry, error) {
	var entry FleetRecordDBEntry
	err := d.db.Where("id = ?", recordID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entry, ErrRecordNotFound
	}
	return entry, err
}

/*
GetFleetRecord fetch a fleet record version by ID

	@param ctx context.Context - execution context
	@param recordID string - record version ID
	@returns the version
*/
func (d *databaseImpl) GetFleetRecord(
	_ context.Context, recordID string,
) (models.FleetRecord, error) {
	entry, err := d.getFleetRecordEntry(recordID)
	if err != nil {
		return models.FleetRecord{}, fmt.Errorf(
			"failed to fetch fleet record version %s [%w]", recordID, err,
		)
	}
	return entry.FleetRecord, nil
}

/*
ExpireFleetRecord mark a current fleet record version as superseded

Fails with ErrNotCurrent if the version is no longer current.

	@param ctx context.Context - execution context
	@param recordID string - record version ID
	@param actor string - who superseded the version
	@param timestamp time.Time - the expiry timestamp
	@returns the expired version
*/
func (d *databaseImpl) ExpireFleetRecord(
	_ context.Context, recordID string, actor string, timestamp time.Time,
) (models.FleetRecord, error) {
	oldEntry, err := d.getFleetRecordEntry(recordID)
	if err != nil {
		return models.FleetRecord{}, fmt.Errorf(
			"failed to fetch fleet record version %s [%w]", recordID, err,
		)
	}

	// The is_current guard is the optimistic concurrency check: only one writer can move
	// a version out of current.
	tmp := d.db.Model(&FleetRecordDBEntry{}).
		Where("id = ? AND is_current = ?", recordID, true).
		Updates(map[string]interface{}{
			"is_current":  false,
			"expired_at":  timestamp,
			"modified_by": actor,
		})
	if tmp.Error != nil {
		return models.FleetRecord{}, fmt.Errorf(
			"failed to expire fleet record version %s [%w]", recordID, tmp.Error,
		)
	}
	if tmp.RowsAffected == 0 {
		return models.FleetRecord{}, fmt.Errorf("fleet record version %s [%w]", recordID, ErrNotCurrent)
	}

	newEntry, err := d.getFleetRecordEntry(recordID)
	if err != nil {
		return models.FleetRecord{}, fmt.Errorf(
			"failed to read back fleet record version %s [%w]", recordID, err,
		)
	}

	// Record this event
	if _, err := d.defineNewChangeEvent(
		models.ChangeOperationUpdate, recordID, newEntry.FleetNumber, actor,
		&oldEntry.FleetRecord, &newEntry.FleetRecord,
	); err != nil {
		return models.FleetRecord{}, fmt.Errorf(
			"failed to log expire version %s change event [%w]", recordID, err,
		)
	}

	return newEntry.FleetRecord, nil
}

/*
ListFleetRecords list fleet record versions

	@param ctx context.Context - execution context
	@param filters FleetRecordQueryFilter - entry listing filter
	@return list of versions
*/
func (d *databaseImpl) ListFleetRecords(
	_ context.Context, filters FleetRecordQueryFilter,
) ([]models.FleetRecord, error) {
	query := d.db.Model(&FleetRecordDBEntry{})

	if filters.FleetNumber != nil {
		query = query.Where("fleet_number = ?", *filters.FleetNumber)
	}
	if filters.Broker != nil {
		query = query.Where("broker = ?", *filters.Broker)
	}
	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}
	if filters.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filters.CreatedBefore)
	}
	if filters.CurrentOnly {
		query = query.Where("is_current = ?", true)
	}

	if filters.Limit != nil {
		query = query.Limit(*filters.Limit)
	}
	if filters.Offset != nil {
		query = query.Offset(*filters.Offset)
	}

	query = query.Order("fleet_number desc").Order("created_at desc")

	var entries []FleetRecordDBEntry
	if tmp := query.Find(&entries); tmp.Error != nil {
		return nil, fmt.Errorf("failed to list fleet record versions [%w]", tmp.Error)
	}

	result := []models.FleetRecord{}
	for _, entry := range entries {
		result = append(result, entry.FleetRecord)
	}

	return result, nil
}

/*
DeleteFleetRecord delete one fleet record version

	@param ctx context.Context - execution context
	@param recordID string - record version ID
	@param actor string - who deleted the version
*/
func (d *databaseImpl) DeleteFleetRecord(_ context.Context, recordID string, actor string) error {
	entry, err := d.getFleetRecordEntry(recordID)
	if err != nil {
		return fmt.Errorf("failed to fetch fleet record version %s [%w]", recordID, err)
	}

	if tmp := d.db.Delete(&entry); tmp.Error != nil {
		return fmt.Errorf("failed to delete fleet record version %s [%w]", recordID, tmp.Error)
	}

	// Record this event
	if _, err := d.defineNewChangeEvent(
		models.ChangeOperationDelete, recordID, entry.FleetNumber, actor, &entry.FleetRecord, nil,
	); err != nil {
		return fmt.Errorf("failed to log delete version %s change event [%w]", recordID, err)
	}

	return nil
}
