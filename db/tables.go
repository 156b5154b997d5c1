package db

import "github.com/alwitt/fleetledger/models"

// --------------------------------------------------------------------------------------
// Fleet records

// FleetRecordDBEntry fleet record version DB entry
type FleetRecordDBEntry struct {
	models.FleetRecord
}

// TableName hard code table name
func (FleetRecordDBEntry) TableName() string {
	return "fleet_records"
}

// --------------------------------------------------------------------------------------
// Counters

// FleetCounterDBEntry fleet number counter DB entry
type FleetCounterDBEntry struct {
	models.FleetCounter
}

// TableName hard code table name
func (FleetCounterDBEntry) TableName() string {
	return "counters"
}

// --------------------------------------------------------------------------------------
// Change log

// ChangeEventDBEntry fleet record change log DB entry
type ChangeEventDBEntry struct {
	models.ChangeEvent
}

// TableName hard code table name
func (ChangeEventDBEntry) TableName() string {
	return "fleet_change_events"
}
