package models_test

import (
	"testing"
	"time"

	"github.com/alwitt/fleetledger/models"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestFieldCatalogConsistency(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	flattened := models.FlattenPayload(models.FleetPayload{})

	// Every payload field has a catalog column and vice versa
	assert.Len(models.PayloadColumns(), len(flattened))
	labels := map[string]bool{}
	for _, col := range models.PayloadColumns() {
		_, ok := flattened[col.Key]
		assert.True(ok, col.Key)
		assert.False(labels[col.Label], "duplicate label %s", col.Label)
		labels[col.Label] = true
	}

	// Bookkeeping comes first
	all := models.Columns()
	assert.Equal(models.KeyFleetNumber, all[0].Key)
	assert.Len(all, len(models.BookkeepingColumns())+len(models.PayloadColumns()))

	// Lookups
	assert.Equal("Sales Rate", models.FieldLabel("salesRate"))
	assert.Equal("Sourcing (Vendor)", models.FieldLabel("vendor.name"))
	assert.Equal("not-a-field", models.FieldLabel("not-a-field"))
	{
		key, ok := models.KeyForLabel(" POD Docket No. ")
		assert.True(ok)
		assert.Equal("pod.docketNo", key)
	}
	{
		key, ok := models.KeyForLabel("customer.saleRate")
		assert.True(ok)
		assert.Equal("customer.saleRate", key)
	}
	{
		_, ok := models.KeyForLabel("Favourite Colour")
		assert.False(ok)
	}
	{
		col, ok := models.LookupColumn("pod.recDate")
		assert.True(ok)
		assert.Equal(models.FieldKindDate, col.Kind)
	}
}

func TestFlattenPayload(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	dispatch := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	payload := models.FleetPayload{
		Broker:       "broker-a",
		SalesRate:    "100",
		DispatchDate: &dispatch,
		Customer:     models.CustomerAddendum{Name: "ACME"},
		Vendor:       models.VendorAddendum{BuyRate: "80"},
		POD:          models.PODAddendum{DocketNo: "D-1"},
	}

	flattened := models.FlattenPayload(payload)
	assert.Equal("broker-a", flattened["broker"])
	assert.Equal("100", flattened["salesRate"])
	assert.Equal(dispatch, flattened["dispatchDate"])
	assert.Nil(flattened["deliverDate"])
	assert.Equal("ACME", flattened["customer.name"])
	assert.Equal("80", flattened["vendor.buyRate"])
	assert.Equal("D-1", flattened["pod.docketNo"])
	assert.Equal("", flattened["origin"])

	// Inverse
	rebuilt, err := models.UnflattenPayload(flattened)
	assert.Nil(err)
	assert.Equal(payload, rebuilt)

	// Unknown fields are rejected
	_, err = models.UnflattenPayload(map[string]any{"broker": "b", "zzz": 1, "aaa": 2})
	assert.NotNil(err)
	assert.Contains(err.Error(), "aaa, zzz")

	// Date fields only take dates
	_, err = models.UnflattenPayload(map[string]any{"indentDate": "17-05-2024"})
	assert.NotNil(err)
	{
		parsed, err := models.UnflattenPayload(map[string]any{"indentDate": "", "lrNo": 42})
		assert.Nil(err)
		assert.Nil(parsed.IndentDate)
		assert.Equal("42", parsed.LRNo)
	}

	// Emptiness
	assert.True(models.FleetPayload{}.IsEmpty())
	assert.False(payload.IsEmpty())
	assert.False(models.FleetPayload{IndentDate: &dispatch}.IsEmpty())
	assert.False(models.FleetPayload{POD: models.PODAddendum{RecByCustomer: "yes"}}.IsEmpty())
}

func TestFlattenRecord(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	created := time.Now().UTC()
	record := models.FleetRecord{
		ID:           "rec-1",
		FleetNumber:  7,
		FleetPayload: models.FleetPayload{Origin: "Pune"},
		IsCurrent:    true,
		CreatedAt:    created,
		CreatedBy:    "alice@example.com",
		VersionDate:  created,
	}

	flattened := models.FlattenRecord(record)
	assert.Equal("rec-1", flattened[models.KeyRecordID])
	assert.Equal(int64(7), flattened[models.KeyFleetNumber])
	assert.Equal(true, flattened[models.KeyIsCurrent])
	assert.Nil(flattened[models.KeyExpiredAt])
	assert.Equal("Pune", flattened["origin"])
	assert.Len(flattened, len(models.Columns()))
}

func TestMoneyValidation(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	validate := validator.New()
	assert.Nil(models.RegisterWithValidator(validate))

	type testCase struct {
		amount string
		valid  bool
	}
	testCases := []testCase{
		{amount: "", valid: true},
		{amount: "100", valid: true},
		{amount: " 1,250.50 ", valid: true},
		{amount: "-75.25", valid: true},
		{amount: "one hundred", valid: false},
		{amount: "12.3.4", valid: false},
	}
	for _, oneTest := range testCases {
		payload := models.FleetPayload{SalesRate: oneTest.amount}
		err := validate.Struct(&payload)
		if oneTest.valid {
			assert.Nil(err, oneTest.amount)
		} else {
			assert.NotNil(err, oneTest.amount)
		}
	}

	// Nested sub-group amounts are checked as well
	assert.NotNil(validate.Struct(&models.FleetPayload{
		Vendor: models.VendorAddendum{RemainingAmount: "n/a"},
	}))

	parsed, err := models.ParseMoney("1,250.50")
	assert.Nil(err)
	assert.Equal("1250.5", parsed.String())
}

func TestSearchModeValidation(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	validate := validator.New()
	assert.Nil(models.RegisterWithValidator(validate))

	assert.Nil(validate.Var(string(models.SearchModeBroker), "search_mode"))
	assert.NotNil(validate.Var("BY_COLOUR", "search_mode"))
	assert.Nil(validate.Var(string(models.ChangeOperationDelete), "change_operation"))
	assert.NotNil(validate.Var("UPSERT", "change_operation"))
}
