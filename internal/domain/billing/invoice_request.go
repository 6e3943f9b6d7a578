package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceItem is one line on an invoice request
type InvoiceItem struct {
	Description string            `json:"description"`
	Method      CalculationMethod `json:"method"`
	Quantity    decimal.Decimal   `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Amount      valueobject.Money `json:"amount"`
	Formula     string            `json:"formula,omitempty"`
	IsCAM       bool              `json:"is_cam"`
}

// InvoiceRequest is the payload accepted by the invoice-generation service
type InvoiceRequest struct {
	BuildingID     uuid.UUID         `json:"building_id"`
	UnitID         uuid.UUID         `json:"unit_id"`
	UnitNumber     string            `json:"unit_number"`
	TenantName     string            `json:"tenant_name,omitempty"`
	PeriodStart    time.Time         `json:"period_start"`
	PeriodEnd      time.Time         `json:"period_end"`
	DueDate        time.Time         `json:"due_date"`
	Notes          string            `json:"notes,omitempty"`
	Items          []InvoiceItem     `json:"items"`
	TaxRatePercent decimal.Decimal   `json:"tax_rate_percent"`
	Subtotal       valueobject.Money `json:"subtotal"`
	TaxAmount      valueobject.Money `json:"tax_amount"`
	Total          valueobject.Money `json:"total"`
}

// InvoiceReceipt is what the invoice service returns for an accepted request
type InvoiceReceipt struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
}

// InvoiceRequestBuilder maps billing records to invoice requests.
//
// When StripCAMItems is set, line items flagged as CAM are left out because the
// invoice service computes them itself; subtotal and tax are then recomputed from
// the remaining items with the record's tax rate.
type InvoiceRequestBuilder struct {
	Currency      valueobject.Currency
	StripCAMItems bool
}

// NewInvoiceRequestBuilder creates a builder for a currency
func NewInvoiceRequestBuilder(currency valueobject.Currency, stripCAMItems bool) *InvoiceRequestBuilder {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &InvoiceRequestBuilder{Currency: currency, StripCAMItems: stripCAMItems}
}

// ValidateDueDate rejects a missing due date and one before the billing period ends
func ValidateDueDate(periodEnd, dueDate time.Time) error {
	if dueDate.IsZero() {
		return shared.NewValidationError("due date is required")
	}
	if dueDate.Before(periodEnd) {
		return shared.NewValidationError(fmt.Sprintf(
			"due date %s is before the billing period ends on %s",
			dueDate.Format(time.DateOnly), periodEnd.Format(time.DateOnly)))
	}
	return nil
}

// Build converts a billing record into an invoice request
func (b *InvoiceRequestBuilder) Build(buildingID uuid.UUID, record *UtilityBillingRecord, dueDate time.Time, notes string) (*InvoiceRequest, error) {
	if record == nil {
		return nil, shared.NewValidationError("billing record is required")
	}
	if err := ValidateDueDate(record.PeriodEnd, dueDate); err != nil {
		return nil, err
	}

	items := make([]InvoiceItem, 0, len(record.LineItems))
	subtotal := valueobject.Zero(b.Currency)
	for _, li := range record.LineItems {
		if b.StripCAMItems && li.IsCAM {
			continue
		}
		item := b.item(li)
		sum, err := subtotal.Add(item.Amount)
		if err != nil {
			return nil, err
		}
		subtotal = sum
		items = append(items, item)
	}

	tax := valueobject.MustMoney(record.TaxAmount, b.Currency)
	if len(items) != len(record.LineItems) {
		tax = valueobject.MustMoney(TaxOn(subtotal.Amount(), record.TaxRatePercent), b.Currency)
	} else if !subtotal.Equals(valueobject.MustMoney(record.TotalAmount, b.Currency)) {
		return nil, shared.NewValidationError(fmt.Sprintf(
			"billing record of unit %s totals %s but its line items sum to %s",
			record.UnitNumber, record.TotalAmount.StringFixed(valueobject.MoneyPlaces), subtotal))
	}
	total, err := subtotal.Add(tax)
	if err != nil {
		return nil, err
	}

	return &InvoiceRequest{
		BuildingID:     buildingID,
		UnitID:         record.UnitID,
		UnitNumber:     record.UnitNumber,
		TenantName:     record.TenantName,
		PeriodStart:    record.PeriodStart,
		PeriodEnd:      record.PeriodEnd,
		DueDate:        dueDate,
		Notes:          notes,
		Items:          items,
		TaxRatePercent: record.TaxRatePercent,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		Total:          total,
	}, nil
}

func (b *InvoiceRequestBuilder) item(li UtilityLineItem) InvoiceItem {
	quantity := decimal.NewFromInt(1)
	if li.Quantity != nil {
		quantity = *li.Quantity
	}
	unitPrice := li.Amount
	if li.RatePerUnit != nil {
		unitPrice = *li.RatePerUnit
	} else if li.Quantity != nil && li.Quantity.IsPositive() {
		unitPrice = li.Amount.Div(*li.Quantity).Round(RatePlaces)
	}
	return InvoiceItem{
		Description: li.UtilityName,
		Method:      li.CalculationMethod,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      valueobject.MustMoney(li.Amount, b.Currency),
		Formula:     li.FormulaDescription,
		IsCAM:       li.IsCAM,
	}
}
