// Package models - fleet ledger data models
package models

import "time"

// CustomerAddendum customer billing details attached to a fleet record
type CustomerAddendum struct {
	// Name customer name
	Name string `json:"name" gorm:"column:name"`
	// Type customer type
	Type string `json:"type" gorm:"column:type"`
	// BillingType customer billing type
	BillingType string `json:"billingType" gorm:"column:billing_type"`
	// SaleRate customer sale rate
	SaleRate string `json:"saleRate" gorm:"column:sale_rate" validate:"money"`
	// AdvanceToBePaid advance the customer is to pay
	AdvanceToBePaid string `json:"advanceToBePaid" gorm:"column:advance_to_be_paid" validate:"money"`
	// AdvanceRec advance received
	AdvanceRec string `json:"advanceRec" gorm:"column:advance_rec" validate:"money"`
	// AdvanceUTR advance payment reference
	AdvanceUTR string `json:"advanceUTR" gorm:"column:advance_utr"`
	// AdvanceRecDate advance received date
	AdvanceRecDate *time.Time `json:"advanceRecDate" gorm:"column:advance_rec_date"`
	// BalancePending balance still pending
	BalancePending string `json:"balancePending" gorm:"column:balance_pending" validate:"money"`
	// DetentionCharges detention charges
	DetentionCharges string `json:"detentionCharges" gorm:"column:detention_charges" validate:"money"`
	// LoadingUnloadingCharges loading / unloading charges
	LoadingUnloadingCharges string `json:"loadingUnloadingCharges" gorm:"column:loading_unloading_charges" validate:"money"`
	// MiscCharges miscellaneous charges
	MiscCharges string `json:"miscCharges" gorm:"column:misc_charges" validate:"money"`
	// ProcessingCharges processing charges
	ProcessingCharges string `json:"processingCharges" gorm:"column:processing_charges" validate:"money"`
	// NetBalance net balance
	NetBalance string `json:"netBalance" gorm:"column:net_balance" validate:"money"`
	// BalanceRecAmount balance received amount
	BalanceRecAmount string `json:"balanceRecAmount" gorm:"column:balance_rec_amount" validate:"money"`
	// BalanceUTR balance payment reference
	BalanceUTR string `json:"balanceUTR" gorm:"column:balance_utr"`
	// BalanceRecDate balance received date
	BalanceRecDate *time.Time `json:"balanceRecDate" gorm:"column:balance_rec_date"`
	// RemainingBalance remaining balance
	RemainingBalance string `json:"remainingBalance" gorm:"column:remaining_balance" validate:"money"`
	// RemainingBalanceUTR remaining balance payment reference
	RemainingBalanceUTR string `json:"remainingBalanceUTR" gorm:"column:remaining_balance_utr"`
	// RemainingBalanceDate remaining balance date
	RemainingBalanceDate *time.Time `json:"remainingBalanceDate" gorm:"column:remaining_balance_date"`
}

// VendorAddendum sourcing vendor / supplier details attached to a fleet record
type VendorAddendum struct {
	// Name sourcing vendor
	Name string `json:"name" gorm:"column:name"`
	// Type vendor type
	Type string `json:"type" gorm:"column:type"`
	// BillingType vendor billing type
	BillingType string `json:"billingType" gorm:"column:billing_type"`
	// BuyRate supplier buy rate
	BuyRate string `json:"buyRate" gorm:"column:buy_rate" validate:"money"`
	// AdvancePay supplier advance to pay
	AdvancePay string `json:"advancePay" gorm:"column:advance_pay" validate:"money"`
	// AdvancePaid supplier advance paid
	AdvancePaid string `json:"advancePaid" gorm:"column:advance_paid" validate:"money"`
	// MisCharges supplier miscellaneous charges
	MisCharges string `json:"misCharges" gorm:"column:mis_charges" validate:"money"`
	// InvoiceNo supplier invoice number
	InvoiceNo string `json:"invoiceNo" gorm:"column:invoice_no"`
	// AdvanceUTR supplier advance payment reference
	AdvanceUTR string `json:"advanceUTR" gorm:"column:advance_utr"`
	// AdvancePayDate supplier advance pay date
	AdvancePayDate *time.Time `json:"advancePayDate" gorm:"column:advance_pay_date"`
	// BalancePending supplier balance pending
	BalancePending string `json:"balancePending" gorm:"column:balance_pending" validate:"money"`
	// BalancePaidAmount supplier balance paid amount
	BalancePaidAmount string `json:"balancePaidAmount" gorm:"column:balance_paid_amount" validate:"money"`
	// BalancePaidUTR supplier balance payment reference
	BalancePaidUTR string `json:"balancePaidUTR" gorm:"column:balance_paid_utr"`
	// BalancePaidDate supplier balance paid date
	BalancePaidDate *time.Time `json:"balancePaidDate" gorm:"column:balance_paid_date"`
	// RemainingAmount remaining supplier amount
	RemainingAmount string `json:"remainingAmount" gorm:"column:remaining_amount" validate:"money"`
}

// PODAddendum proof-of-delivery details attached to a fleet record
type PODAddendum struct {
	// SoftCopyRec soft copy POD received
	SoftCopyRec string `json:"softCopyRec" gorm:"column:soft_copy_rec"`
	// HardCopyRec hard copy POD received
	HardCopyRec string `json:"hardCopyRec" gorm:"column:hard_copy_rec"`
	// RecDate POD received date
	RecDate *time.Time `json:"recDate" gorm:"column:rec_date"`
	// SendToCustomerDate POD sent to customer date
	SendToCustomerDate *time.Time `json:"sendToCustomerDate" gorm:"column:send_to_customer_date"`
	// DocketNo POD docket number
	DocketNo string `json:"docketNo" gorm:"column:docket_no"`
	// RecByCustomer POD received by customer
	RecByCustomer string `json:"recByCustomer" gorm:"column:rec_by_customer"`
	// DeductionIfAny POD deduction
	DeductionIfAny string `json:"deductionIfAny" gorm:"column:deduction_if_any" validate:"money"`
}

// FleetPayload the business fields of one fleet record version
type FleetPayload struct {
	// IndentNo customer indent number
	IndentNo string `json:"indentNo" gorm:"column:indent_no"`
	// IndentDate indent date
	IndentDate *time.Time `json:"indentDate" gorm:"column:indent_date"`
	// PlacementDate vehicle placement date
	PlacementDate *time.Time `json:"placementDate" gorm:"column:placement_date"`
	// Broker booking broker. This is the secondary search key.
	Broker string `json:"broker" gorm:"column:broker;index"`
	// Origin trip origin
	Origin string `json:"origin" gorm:"column:origin"`
	// Destination trip destination
	Destination string `json:"destination" gorm:"column:destination"`
	// VehicleNo vehicle registration
	VehicleNo string `json:"vehicleNo" gorm:"column:vehicle_no"`
	// VehicleType vehicle type
	VehicleType string `json:"vehicleType" gorm:"column:vehicle_type"`
	// DriverNo driver contact number
	DriverNo string `json:"driverNo" gorm:"column:driver_no"`
	// DispatchDate dispatch date
	DispatchDate *time.Time `json:"dispatchDate" gorm:"column:dispatch_date"`
	// DeliverDate delivery date
	DeliverDate *time.Time `json:"deliverDate" gorm:"column:deliver_date"`
	// OffloadingDate offloading date
	OffloadingDate *time.Time `json:"offloadingDate" gorm:"column:offloading_date"`
	// EwayBill e-way bill number
	EwayBill string `json:"ewayBill" gorm:"column:eway_bill"`
	// LRNo lorry receipt number
	LRNo string `json:"lrNo" gorm:"column:lr_no"`
	// SalesRate agreed trip sales rate
	SalesRate string `json:"salesRate" gorm:"column:sales_rate" validate:"money"`
	// GrossProfit gross profit
	GrossProfit string `json:"grossProfit" gorm:"column:gross_profit" validate:"money"`
	// BadDebts bad debts
	BadDebts string `json:"badDebts" gorm:"column:bad_debts" validate:"money"`
	// NetProfit net profit
	NetProfit string `json:"netProfit" gorm:"column:net_profit" validate:"money"`

	// Customer customer addendum
	Customer CustomerAddendum `json:"customer" gorm:"embedded;embeddedPrefix:customer_"`
	// Vendor vendor addendum
	Vendor VendorAddendum `json:"vendor" gorm:"embedded;embeddedPrefix:vendor_"`
	// POD proof-of-delivery addendum
	POD PODAddendum `json:"pod" gorm:"embedded;embeddedPrefix:pod_"`
}

// IsEmpty whether no payload field is filled
func (p FleetPayload) IsEmpty() bool {
	for _, value := range FlattenPayload(p) {
		switch v := value.(type) {
		case nil:
		case string:
			if v != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// FleetRecord one version of a fleet record
//
// All versions of one logical fleet record share the same FleetNumber. Exactly one of
// them is current at any time.
type FleetRecord struct {
	// ID record version ID
	ID string `json:"recordId" gorm:"column:id;primaryKey;unique" validate:"required"`

	// FleetNumber the business key shared by all versions of this record
	FleetNumber int64 `json:"fleetNumber" gorm:"column:fleet_number;not null;index" validate:"required,min=1"`

	FleetPayload

	// IsCurrent whether this is the current version
	IsCurrent bool `json:"isCurrent" gorm:"column:is_current;not null;index"`

	// CreatedAt version creation timestamp
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;not null;index"`
	// CreatedBy actor who created this version
	CreatedBy string `json:"createdBy" gorm:"column:created_by;not null" validate:"required"`
	// VersionDate version timestamp, same as CreatedAt
	VersionDate time.Time `json:"versionDate" gorm:"column:version_date;not null"`

	// ExpiredAt when this version was superseded
	ExpiredAt *time.Time `json:"expiredAt" gorm:"column:expired_at;default:null"`
	// ModifiedBy actor who superseded this version
	ModifiedBy string `json:"modifiedBy" gorm:"column:modified_by"`

	// UpdateDescription which fields changed relative to the prior version
	UpdateDescription string `json:"updateDescription" gorm:"column:update_description"`
}

// FleetCounterID ID of the singleton fleet number counter
const FleetCounterID = "fleet_counter"

// FleetCounter the fleet number sequence counter
type FleetCounter struct {
	// ID counter ID. It must always be fleet_counter
	ID string `json:"id" gorm:"column:id;primaryKey;unique" validate:"required,oneof=fleet_counter"`

	// NextFleetNo the next fleet number to hand out
	NextFleetNo int64 `json:"nextFleetNo" gorm:"column:next_fleet_no;not null" validate:"min=1"`

	// CreatedAt entry creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt entry update timestamp
	UpdatedAt time.Time `json:"updated_at"`
}
