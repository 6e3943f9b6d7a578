package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UtilityBillingRecord is the computed bill of one unit for one period
type UtilityBillingRecord struct {
	UnitID         uuid.UUID         `json:"unit_id"`
	UnitNumber     string            `json:"unit_number"`
	UnitSpace      decimal.Decimal   `json:"unit_space"`
	IsOccupied     bool              `json:"is_occupied"`
	TenantName     string            `json:"tenant_name,omitempty"`
	PeriodStart    time.Time         `json:"period_start"`
	PeriodEnd      time.Time         `json:"period_end"`
	LineItems      []UtilityLineItem `json:"line_items"`
	TaxRatePercent decimal.Decimal   `json:"tax_rate_percent"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	GrandTotal     decimal.Decimal   `json:"grand_total"`
}

// CAMLineItems turns a unit's CAM share into line items: generator, transformer,
// then other CAM, each only when it is above zero.
func CAMLineItems(share CAMShare) []UtilityLineItem {
	pct := share.PercentageOfBuilding.StringFixed(2)
	parts := []struct {
		name   string
		amount decimal.Decimal
		source string
	}{
		{CAMItemGenerator, share.GeneratorShare, "generator fee"},
		{CAMItemTransformer, share.TransformerShare, "transformer fee"},
		{CAMItemOther, share.OtherCAMShare, "other CAM costs"},
	}

	items := make([]UtilityLineItem, 0, len(parts))
	for _, p := range parts {
		if !p.amount.IsPositive() {
			continue
		}
		items = append(items, UtilityLineItem{
			UtilityName:        p.name,
			CalculationMethod:  CalculationMethodAllocated,
			Quantity:           decimalPtr(share.UnitSpace),
			Amount:             p.amount,
			FormulaDescription: fmt.Sprintf("%s%% of building %s (area share)", pct, p.source),
			IsCAM:              true,
		})
	}
	return items
}

// Aggregate combines a unit's metered line items and its CAM share into a billing record.
// Metered items keep their order and come first, CAM items follow. camShare may be nil
// when the unit carries no CAM. taxRatePercent is a percentage (5 means 5%).
//
// Aggregate performs no I/O and reads no clock, so equal inputs give equal records.
func Aggregate(
	unit UnitInfo,
	period BillingPeriod,
	meteredItems []UtilityLineItem,
	camShare *CAMShare,
	taxRatePercent decimal.Decimal,
) (*UtilityBillingRecord, error) {
	if err := unit.Validate(); err != nil {
		return nil, err
	}
	if taxRatePercent.IsNegative() {
		return nil, shared.NewValidationError("tax rate cannot be negative")
	}
	if camShare != nil && camShare.UnitID != unit.ID {
		return nil, shared.NewValidationError(
			fmt.Sprintf("CAM share for unit %s cannot be applied to unit %s", camShare.UnitID, unit.ID))
	}

	items := make([]UtilityLineItem, 0, len(meteredItems)+3)
	for _, item := range meteredItems {
		if item.Amount.IsNegative() {
			return nil, shared.NewValidationError(
				fmt.Sprintf("line item %q has a negative amount", item.UtilityName))
		}
		items = append(items, item)
	}
	if camShare != nil {
		items = append(items, CAMLineItems(*camShare)...)
	}

	total := SumAmounts(items)
	tax := TaxOn(total, taxRatePercent)

	return &UtilityBillingRecord{
		UnitID:         unit.ID,
		UnitNumber:     unit.UnitNumber,
		UnitSpace:      unit.UnitSpace,
		IsOccupied:     unit.IsOccupied,
		TenantName:     unit.TenantName,
		PeriodStart:    period.Start,
		PeriodEnd:      period.End,
		LineItems:      items,
		TaxRatePercent: taxRatePercent,
		TotalAmount:    total,
		TaxAmount:      tax,
		GrandTotal:     total.Add(tax),
	}, nil
}

// SumAmounts totals line item amounts
func SumAmounts(items []UtilityLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// TaxOn applies a percentage tax rate, rounded to money precision
func TaxOn(amount, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.IsZero() {
		return decimal.Zero
	}
	return valueobject.RoundMoney(amount.Mul(ratePercent).Div(decimal.NewFromInt(100)))
}
