package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// ChangeOperationENUMType fleet record change operation ENUM value type
type ChangeOperationENUMType string

const (
	// ChangeOperationCreate a record version document was written for the first time
	ChangeOperationCreate ChangeOperationENUMType = "CREATE"

	// ChangeOperationUpdate an existing record version document was updated
	ChangeOperationUpdate ChangeOperationENUMType = "UPDATE"

	// ChangeOperationDelete a record version document was removed
	ChangeOperationDelete ChangeOperationENUMType = "DELETE"
)

// ChangeEvent change log entry of one write against the fleet records table
type ChangeEvent struct {
	// ID change event ID
	ID string `json:"id" gorm:"column:id;primaryKey;unique" validate:"required"`
	// Operation the write operation
	Operation ChangeOperationENUMType `json:"operation" gorm:"column:operation;not null" validate:"required,change_operation"`
	// DocumentID the record version written
	DocumentID string `json:"document_id" gorm:"column:document_id;not null;index" validate:"required"`
	// FleetNumber the business key of the record version
	FleetNumber int64 `json:"fleet_number" gorm:"column:fleet_number;not null;index" validate:"min=1"`
	// Actor who performed the write
	Actor string `json:"actor" gorm:"column:actor"`
	// Data the document after the write
	Data datatypes.JSON `json:"data,omitempty" gorm:"column:data;default:null"`
	// OldData the document before the write
	OldData datatypes.JSON `json:"old_data,omitempty" gorm:"column:old_data;default:null"`
	// CreatedAt entry creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt entry update timestamp
	UpdatedAt time.Time `json:"updated_at"`
}

// ParseSnapshots parse the before and after document snapshots of the event
//
// Either snapshot is nil when the event carries none (e.g. no "before" for CREATE).
func (e ChangeEvent) ParseSnapshots(
	validator *validator.Validate,
) (before *FleetRecord, after *FleetRecord, err error) {
	parse := func(raw datatypes.JSON) (*FleetRecord, error) {
		if len(raw) == 0 || string(raw) == "null" {
			return nil, nil
		}
		var parsed FleetRecord
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("change event '%s' snapshot parse failed [%w]", e.Operation, err)
		}
		return &parsed, validator.Struct(&parsed)
	}

	if before, err = parse(e.OldData); err != nil {
		return nil, nil, err
	}
	if after, err = parse(e.Data); err != nil {
		return nil, nil, err
	}
	return before, after, nil
}
