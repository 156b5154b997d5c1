package models

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// FieldKindENUMType value type of a catalog field
type FieldKindENUMType string

const (
	// FieldKindText free text / numeric text field
	FieldKindText FieldKindENUMType = "TEXT"
	// FieldKindDate date / timestamp field
	FieldKindDate FieldKindENUMType = "DATE"
	// FieldKindBool boolean field
	FieldKindBool FieldKindENUMType = "BOOL"
	// FieldKindInteger integer field
	FieldKindInteger FieldKindENUMType = "INTEGER"
)

// Bookkeeping field keys of a fleet record version
const (
	KeyRecordID          = "recordId"
	KeyFleetNumber       = "fleetNumber"
	KeyIsCurrent         = "isCurrent"
	KeyCreatedAt         = "createdAt"
	KeyCreatedBy         = "createdBy"
	KeyVersionDate       = "versionDate"
	KeyExpiredAt         = "expiredAt"
	KeyModifiedBy        = "modifiedBy"
	KeyUpdateDescription = "updateDescription"
)

// Column one displayable / exportable field
type Column struct {
	// Key flattened field key. Sub-group fields use dotted paths.
	Key string
	// Label display label
	Label string
	// Kind value type
	Kind FieldKindENUMType
}

var bookkeepingColumns = []Column{
	{Key: KeyFleetNumber, Label: "Fleet Number", Kind: FieldKindInteger},
	{Key: KeyRecordID, Label: "Record ID", Kind: FieldKindText},
	{Key: KeyIsCurrent, Label: "isCurrent", Kind: FieldKindBool},
	{Key: KeyCreatedAt, Label: "createdAt", Kind: FieldKindDate},
	{Key: KeyCreatedBy, Label: "createdBy", Kind: FieldKindText},
	{Key: KeyVersionDate, Label: "Version Date", Kind: FieldKindDate},
	{Key: KeyExpiredAt, Label: "Expired At", Kind: FieldKindDate},
	{Key: KeyModifiedBy, Label: "Modified By", Kind: FieldKindText},
	{Key: KeyUpdateDescription, Label: "Update Description", Kind: FieldKindText},
}

var payloadColumns = []Column{
	{Key: "indentNo", Label: "Indent No", Kind: FieldKindText},
	{Key: "indentDate", Label: "Indent Date", Kind: FieldKindDate},
	{Key: "placementDate", Label: "Placement Date", Kind: FieldKindDate},
	{Key: "broker", Label: "Broker", Kind: FieldKindText},
	{Key: "origin", Label: "Origin", Kind: FieldKindText},
	{Key: "destination", Label: "Destination", Kind: FieldKindText},
	{Key: "vehicleNo", Label: "Vehicle No", Kind: FieldKindText},
	{Key: "vehicleType", Label: "Vehicle type", Kind: FieldKindText},
	{Key: "driverNo", Label: "Driver No", Kind: FieldKindText},
	{Key: "dispatchDate", Label: "Dispatch Date", Kind: FieldKindDate},
	{Key: "deliverDate", Label: "Deliver Date", Kind: FieldKindDate},
	{Key: "offloadingDate", Label: "Offloading Date", Kind: FieldKindDate},
	{Key: "ewayBill", Label: "E-way Bill", Kind: FieldKindText},
	{Key: "lrNo", Label: "LR No.", Kind: FieldKindText},
	{Key: "salesRate", Label: "Sales Rate", Kind: FieldKindText},
	{Key: "grossProfit", Label: "Gross Profit", Kind: FieldKindText},
	{Key: "badDebts", Label: "Bad Debts", Kind: FieldKindText},
	{Key: "netProfit", Label: "Net Profit", Kind: FieldKindText},

	{Key: "customer.name", Label: "Customer", Kind: FieldKindText},
	{Key: "customer.type", Label: "Customer Type", Kind: FieldKindText},
	{Key: "customer.billingType", Label: "Customer Billing Type", Kind: FieldKindText},
	{Key: "customer.saleRate", Label: "Customer -Sale rate", Kind: FieldKindText},
	{Key: "customer.advanceToBePaid", Label: "Advance to be Paid", Kind: FieldKindText},
	{Key: "customer.advanceRec", Label: "Advance Rec", Kind: FieldKindText},
	{Key: "customer.advanceUTR", Label: "Advance UTR", Kind: FieldKindText},
	{Key: "customer.advanceRecDate", Label: "Advance Rec-Date", Kind: FieldKindDate},
	{Key: "customer.balancePending", Label: "Balance Pending", Kind: FieldKindText},
	{Key: "customer.detentionCharges", Label: "Detention Charges", Kind: FieldKindText},
	{Key: "customer.loadingUnloadingCharges", Label: "Loading/Unloading Charges", Kind: FieldKindText},
	{Key: "customer.miscCharges", Label: "Miscellaneous Charges.", Kind: FieldKindText},
	{Key: "customer.processingCharges", Label: "Processing Charges", Kind: FieldKindText},
	{Key: "customer.netBalance", Label: "Net Balance", Kind: FieldKindText},
	{Key: "customer.balanceRecAmount", Label: "Balance Rec Amount", Kind: FieldKindText},
	{Key: "customer.balanceUTR", Label: "Balance UTR", Kind: FieldKindText},
	{Key: "customer.balanceRecDate", Label: "Balance Rec Date", Kind: FieldKindDate},
	{Key: "customer.remainingBalance", Label: "Remaining Balance", Kind: FieldKindText},
	{Key: "customer.remainingBalanceUTR", Label: "Remaining Balance UTR", Kind: FieldKindText},
	{Key: "customer.remainingBalanceDate", Label: "Remaining Balance Date", Kind: FieldKindDate},

	{Key: "vendor.name", Label: "Sourcing (Vendor)", Kind: FieldKindText},
	{Key: "vendor.type", Label: "Vendor Type", Kind: FieldKindText},
	{Key: "vendor.billingType", Label: "Vendor Billing Type", Kind: FieldKindText},
	{Key: "vendor.buyRate", Label: "Supplier Buy Rate", Kind: FieldKindText},
	{Key: "vendor.advancePay", Label: "Supplier Advance Pay", Kind: FieldKindText},
	{Key: "vendor.advancePaid", Label: "Supplier Advance Paid", Kind: FieldKindText},
	{Key: "vendor.misCharges", Label: "Supplier Mis Charges", Kind: FieldKindText},
	{Key: "vendor.invoiceNo", Label: "Supplier Invoice No.", Kind: FieldKindText},
	{Key: "vendor.advanceUTR", Label: "Supplier Advance UTR", Kind: FieldKindText},
	{Key: "vendor.advancePayDate", Label: "Supplier Advance Pay-Date", Kind: FieldKindDate},
	{Key: "vendor.balancePending", Label: "Supplier Balance Pending", Kind: FieldKindText},
	{Key: "vendor.balancePaidAmount", Label: "Supplier Balance Paid Amount", Kind: FieldKindText},
	{Key: "vendor.balancePaidUTR", Label: "Supplier Balance Paid UTR", Kind: FieldKindText},
	{Key: "vendor.balancePaidDate", Label: "Supplier Balance Paid Date", Kind: FieldKindDate},
	{Key: "vendor.remainingAmount", Label: "Remaining Supplier Amount", Kind: FieldKindText},

	{Key: "pod.softCopyRec", Label: "Soft Copy POD Rec", Kind: FieldKindText},
	{Key: "pod.hardCopyRec", Label: "Hard Copy POD Rec", Kind: FieldKindText},
	{Key: "pod.recDate", Label: "POD Rec Date", Kind: FieldKindDate},
	{Key: "pod.sendToCustomerDate", Label: "POD Send to Customer Date", Kind: FieldKindDate},
	{Key: "pod.docketNo", Label: "POD Docket No.", Kind: FieldKindText},
	{Key: "pod.recByCustomer", Label: "POD Rec By Customer", Kind: FieldKindText},
	{Key: "pod.deductionIfAny", Label: "POD Deduction If any", Kind: FieldKindText},
}

var (
	columnByKey   map[string]Column
	keyByLabel    map[string]string
	payloadFields map[string][]int
)

func init() {
	columnByKey = make(map[string]Column)
	keyByLabel = make(map[string]string)
	for _, col := range append(append([]Column{}, bookkeepingColumns...), payloadColumns...) {
		columnByKey[col.Key] = col
		keyByLabel[col.Label] = col.Key
	}
	payloadFields = make(map[string][]int)
	indexStructFields(reflect.TypeOf(FleetPayload{}), "", nil, payloadFields)
}

// indexStructFields record the reflect index path of every leaf field, keyed by its
// flattened JSON name
func indexStructFields(t reflect.Type, prefix string, parent []int, out map[string][]int) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		index := append(append([]int{}, parent...), i)
		name := jsonName(field)
		if field.Anonymous {
			indexStructFields(field.Type, prefix, index, out)
			continue
		}
		if name == "" {
			continue
		}
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			indexStructFields(field.Type, prefix+name+".", index, out)
			continue
		}
		out[prefix+name] = index
	}
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" && !field.Anonymous {
		return field.Name
	}
	return name
}

// BookkeepingColumns the fixed version bookkeeping columns
func BookkeepingColumns() []Column {
	return append([]Column{}, bookkeepingColumns...)
}

// PayloadColumns the fixed payload columns, in display order
func PayloadColumns() []Column {
	return append([]Column{}, payloadColumns...)
}

// Columns all displayable columns: bookkeeping followed by payload
func Columns() []Column {
	return append(BookkeepingColumns(), payloadColumns...)
}

// LookupColumn fetch the catalog entry of a field key
func LookupColumn(key string) (Column, bool) {
	col, ok := columnByKey[key]
	return col, ok
}

// FieldLabel display label of a field key. Unknown keys are returned as is.
func FieldLabel(key string) string {
	if col, ok := columnByKey[key]; ok {
		return col.Label
	}
	return key
}

// KeyForLabel map a display label (or a field key) to its field key
func KeyForLabel(label string) (string, bool) {
	label = strings.TrimSpace(label)
	if key, ok := keyByLabel[label]; ok {
		return key, true
	}
	if _, ok := columnByKey[label]; ok {
		return label, true
	}
	return "", false
}

// ======================================================================================
// Flattening

/*
FlattenPayload flatten a payload into a dotted-key field map

Sub-group fields are exposed as `group.field`. Date fields map to a time.Time, or nil
when not set.

	@param p FleetPayload - the payload
	@returns flattened fields
*/
func FlattenPayload(p FleetPayload) map[string]any {
	result := make(map[string]any, len(payloadFields))
	value := reflect.ValueOf(p)
	for key, index := range payloadFields {
		result[key] = leafValue(value.FieldByIndex(index))
	}
	return result
}

/*
FlattenRecord flatten a record version, bookkeeping fields included

	@param r FleetRecord - the record version
	@returns flattened fields
*/
func FlattenRecord(r FleetRecord) map[string]any {
	result := FlattenPayload(r.FleetPayload)
	result[KeyRecordID] = r.ID
	result[KeyFleetNumber] = r.FleetNumber
	result[KeyIsCurrent] = r.IsCurrent
	result[KeyCreatedAt] = r.CreatedAt
	result[KeyCreatedBy] = r.CreatedBy
	result[KeyVersionDate] = r.VersionDate
	if r.ExpiredAt != nil {
		result[KeyExpiredAt] = *r.ExpiredAt
	} else {
		result[KeyExpiredAt] = nil
	}
	result[KeyModifiedBy] = r.ModifiedBy
	result[KeyUpdateDescription] = r.UpdateDescription
	return result
}

func leafValue(v reflect.Value) any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}

/*
UnflattenPayload build a payload from a dotted-key field map

Unknown keys are rejected. Date fields accept time.Time, *time.Time, nil or an empty
string. Text fields accept any value, which is rendered to its string form.

	@param values map[string]any - flattened fields
	@returns the payload
*/
func UnflattenPayload(values map[string]any) (FleetPayload, error) {
	var result FleetPayload
	target := reflect.ValueOf(&result).Elem()

	unknown := []string{}
	for key, raw := range values {
		index, ok := payloadFields[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		field := target.FieldByIndex(index)
		if err := setLeafValue(field, raw); err != nil {
			return FleetPayload{}, fmt.Errorf("field '%s' [%w]", key, err)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return FleetPayload{}, fmt.Errorf("unknown payload fields %s", strings.Join(unknown, ", "))
	}

	return result, nil
}

func setLeafValue(field reflect.Value, raw any) error {
	switch field.Interface().(type) {
	case *time.Time:
		switch v := raw.(type) {
		case nil:
			field.Set(reflect.Zero(field.Type()))
		case time.Time:
			field.Set(reflect.ValueOf(&v))
		case *time.Time:
			field.Set(reflect.ValueOf(v))
		case string:
			if strings.TrimSpace(v) != "" {
				return fmt.Errorf("string '%s' is not a date value", v)
			}
			field.Set(reflect.Zero(field.Type()))
		default:
			return fmt.Errorf("unsupported date value type %T", raw)
		}
	case string:
		if raw == nil {
			field.SetString("")
		} else {
			field.SetString(fmt.Sprint(raw))
		}
	default:
		return fmt.Errorf("unsupported payload field type %s", field.Type())
	}
	return nil
}
