// Package db - persistence layer
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alwitt/fleetledger/models"
	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"
)

// defineNewChangeEvent record a new fleet record change event
func (d *databaseImpl) defineNewChangeEvent(
	operation models.ChangeOperationENUMType,
	documentID string,
	fleetNumber int64,
	actor string,
	before *models.FleetRecord,
	after *models.FleetRecord,
) (models.ChangeEvent, error) {
	newEntry := ChangeEventDBEntry{
		ChangeEvent: models.ChangeEvent{
			ID:          ulid.Make().String(),
			Operation:   operation,
			DocumentID:  documentID,
			FleetNumber: fleetNumber,
			Actor:       actor,
		},
	}

	if before != nil {
		raw, err := json.Marshal(before)
		if err != nil {
			return models.ChangeEvent{}, fmt.Errorf("failed to serialize old document [%w]", err)
		}
		newEntry.OldData = datatypes.JSON(raw)
	}
	if after != nil {
		raw, err := json.Marshal(after)
		if err != nil {
			return models.ChangeEvent{}, fmt.Errorf("failed to serialize new document [%w]", err)
		}
		newEntry.Data = datatypes.JSON(raw)
	}

	if err := d.validator.Struct(&newEntry); err != nil {
		return models.ChangeEvent{}, fmt.Errorf(
			"new change event '%s' entry is not valid [%w]", operation, err,
		)
	}

	if tmp := d.db.Create(&newEntry); tmp.Error != nil {
		return models.ChangeEvent{}, fmt.Errorf(
			"new change event '%s' insert failed [%w]", operation, tmp.Error,
		)
	}

	return newEntry.ChangeEvent, nil
}

/*
ListChangeEvents list captured fleet record change events

	@param ctx context.Context - execution context
	@param filters ChangeEventQueryFilter - entry listing filter
	@return list of change events
*/
func (d *databaseImpl) ListChangeEvents(
	_ context.Context, filters ChangeEventQueryFilter,
) ([]models.ChangeEvent, error) {
	query := d.db.Model(&ChangeEventDBEntry{})

	if len(filters.Operations) > 0 {
		query = query.Where("operation in ?", filters.Operations)
	}
	if filters.FleetNumber != nil {
		query = query.Where("fleet_number = ?", *filters.FleetNumber)
	}

	if filters.EventsAfter != nil {
		query = query.Where("created_at >= ?", *filters.EventsAfter)
	}
	if filters.EventsBefore != nil {
		query = query.Where("created_at <= ?", *filters.EventsBefore)
	}

	if filters.Limit != nil {
		query = query.Limit(*filters.Limit)
	}
	if filters.Offset != nil {
		query = query.Offset(*filters.Offset)
	}

	// ULIDs sort by creation time, which keeps events written in the same instant ordered
	query = query.Order("created_at").Order("id")

	var entries []ChangeEventDBEntry
	if tmp := query.Find(&entries); tmp.Error != nil {
		return nil, fmt.Errorf("failed to list captured change events [%w]", tmp.Error)
	}

	result := []models.ChangeEvent{}
	for _, entry := range entries {
		result = append(result, entry.ChangeEvent)
	}

	return result, nil
}
