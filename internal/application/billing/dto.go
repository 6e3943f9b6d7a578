package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// BillingRunRequest describes one building billing run
type BillingRunRequest struct {
	BuildingID    uuid.UUID
	PeriodStart   time.Time
	PeriodEnd     time.Time
	OtherCAMCosts decimal.Decimal
	// TaxRatePercent overrides the configured rate when set
	TaxRatePercent *decimal.Decimal
	IncludeVacant  bool
}

// UnitError reports why a single unit could not be billed
type UnitError struct {
	UnitID     uuid.UUID `json:"unit_id"`
	UnitNumber string    `json:"unit_number"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
}

// BillingRunResult is the outcome of a building billing run. Records and Errors are ordered by unit number.
type BillingRunResult struct {
	RunID       uuid.UUID                       `json:"run_id"`
	BuildingID  uuid.UUID                       `json:"building_id"`
	PeriodStart time.Time                       `json:"period_start"`
	PeriodEnd   time.Time                       `json:"period_end"`
	Records     []*billing.UtilityBillingRecord `json:"records"`
	Errors      []UnitError                     `json:"errors"`
	CAMSummary  *billing.BuildingCAMSummary     `json:"cam_summary"`
}

// UnitPreviewRequest asks for a single unit's bill
type UnitPreviewRequest struct {
	BuildingID     uuid.UUID
	UnitID         uuid.UUID
	PeriodStart    time.Time
	PeriodEnd      time.Time
	OtherCAMCosts  decimal.Decimal
	TaxRatePercent *decimal.Decimal
}

// IssueInvoicesRequest runs billing for a building and submits one invoice per record
type IssueInvoicesRequest struct {
	BillingRunRequest
	// DueDate defaults to the period end plus the configured number of due days
	DueDate time.Time
	Notes   string
}

// IssuedInvoice pairs a billed unit with the invoice service's receipt
type IssuedInvoice struct {
	UnitID     uuid.UUID               `json:"unit_id"`
	UnitNumber string                  `json:"unit_number"`
	Request    *billing.InvoiceRequest `json:"request"`
	Receipt    *billing.InvoiceReceipt `json:"receipt"`
}

// IssueInvoicesResult is the outcome of an invoice dispatch
type IssueInvoicesResult struct {
	RunID      uuid.UUID                   `json:"run_id"`
	BuildingID uuid.UUID                   `json:"building_id"`
	Issued     []IssuedInvoice             `json:"issued"`
	Errors     []UnitError                 `json:"errors"`
	CAMSummary *billing.BuildingCAMSummary `json:"cam_summary"`
}
