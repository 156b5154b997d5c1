package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SearchModeENUMType search mode ENUM value type
type SearchModeENUMType string

const (
	// SearchModeFleetNumber exact match on the fleet number
	SearchModeFleetNumber SearchModeENUMType = "FLEET_NUMBER"
	// SearchModeBroker exact match on the broker
	SearchModeBroker SearchModeENUMType = "BROKER"
	// SearchModeDateRange inclusive range on the version creation time
	SearchModeDateRange SearchModeENUMType = "DATE_RANGE"
)

/*
RegisterWithValidator register with the validator this custom validation support

	@param v *validator.Validate - the validator to register against
	@return whether successful
*/
func RegisterWithValidator(v *validator.Validate) error {
	if err := v.RegisterValidation(
		"change_operation", validateChangeOperationType,
	); err != nil {
		return err
	}

	if err := v.RegisterValidation(
		"search_mode", validateSearchModeType,
	); err != nil {
		return err
	}

	if err := v.RegisterValidation(
		"money", validateMoneyAmount,
	); err != nil {
		return err
	}

	return nil
}

func validateChangeOperationType(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	switch ChangeOperationENUMType(fl.Field().String()) {
	case ChangeOperationCreate:
		fallthrough
	case ChangeOperationUpdate:
		fallthrough
	case ChangeOperationDelete:
		return true
	}
	return false
}

func validateSearchModeType(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	switch SearchModeENUMType(fl.Field().String()) {
	case SearchModeFleetNumber:
		fallthrough
	case SearchModeBroker:
		fallthrough
	case SearchModeDateRange:
		return true
	}
	return false
}

// validateMoneyAmount an empty amount is allowed, otherwise it must be a decimal
func validateMoneyAmount(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := ParseMoney(fl.Field().String())
	return err == nil
}

/*
ParseMoney parse a money amount

Thousands separators are accepted. An empty amount parses to zero.

	@param amount string - the amount
	@returns parsed amount
*/
func ParseMoney(amount string) (decimal.Decimal, error) {
	amount = strings.ReplaceAll(strings.TrimSpace(amount), ",", "")
	if amount == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(amount)
}
