package handler

import (
	"time"

	"github.com/google/uuid"
	billingapp "github.com/propertyhub/backend/internal/application/billing"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BillingRunRequest is the body of a building billing run
type BillingRunRequest struct {
	PeriodStart    string           `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd      string           `json:"period_end" binding:"required,datetime=2006-01-02"`
	OtherCAMCosts  decimal.Decimal  `json:"other_cam_costs"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent"`
	IncludeVacant  bool             `json:"include_vacant"`
}

// IssueInvoicesRequest is the body of an invoice dispatch
type IssueInvoicesRequest struct {
	BillingRunRequest
	DueDate string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Notes   string `json:"notes" binding:"max=500"`
}

// UnitBillingQuery holds the query parameters of a single-unit preview
type UnitBillingQuery struct {
	PeriodStart    string `form:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd      string `form:"period_end" binding:"required,datetime=2006-01-02"`
	OtherCAMCosts  string `form:"other_cam_costs" binding:"omitempty,numeric"`
	TaxRatePercent string `form:"tax_rate_percent" binding:"omitempty,numeric"`
}

// CAMSummaryQuery holds the query parameters of a CAM summary
type CAMSummaryQuery struct {
	AsOf          string `form:"as_of" binding:"omitempty,datetime=2006-01-02"`
	OtherCAMCosts string `form:"other_cam_costs" binding:"omitempty,numeric"`
}

func (r BillingRunRequest) toApp(buildingID uuid.UUID) (billingapp.BillingRunRequest, error) {
	start, end, err := parsePeriod(r.PeriodStart, r.PeriodEnd)
	if err != nil {
		return billingapp.BillingRunRequest{}, err
	}
	return billingapp.BillingRunRequest{
		BuildingID:     buildingID,
		PeriodStart:    start,
		PeriodEnd:      end,
		OtherCAMCosts:  r.OtherCAMCosts,
		TaxRatePercent: r.TaxRatePercent,
		IncludeVacant:  r.IncludeVacant,
	}, nil
}

func (r IssueInvoicesRequest) toApp(buildingID uuid.UUID) (billingapp.IssueInvoicesRequest, error) {
	run, err := r.BillingRunRequest.toApp(buildingID)
	if err != nil {
		return billingapp.IssueInvoicesRequest{}, err
	}
	req := billingapp.IssueInvoicesRequest{BillingRunRequest: run, Notes: r.Notes}
	if r.DueDate != "" {
		if req.DueDate, err = parseDate("due_date", r.DueDate); err != nil {
			return billingapp.IssueInvoicesRequest{}, err
		}
	}
	return req, nil
}

func (q UnitBillingQuery) toApp(buildingID, unitID uuid.UUID) (billingapp.UnitPreviewRequest, error) {
	start, end, err := parsePeriod(q.PeriodStart, q.PeriodEnd)
	if err != nil {
		return billingapp.UnitPreviewRequest{}, err
	}
	otherCAM, err := parseAmount("other_cam_costs", q.OtherCAMCosts)
	if err != nil {
		return billingapp.UnitPreviewRequest{}, err
	}
	req := billingapp.UnitPreviewRequest{
		BuildingID:    buildingID,
		UnitID:        unitID,
		PeriodStart:   start,
		PeriodEnd:     end,
		OtherCAMCosts: otherCAM,
	}
	if q.TaxRatePercent != "" {
		rate, err := parseAmount("tax_rate_percent", q.TaxRatePercent)
		if err != nil {
			return billingapp.UnitPreviewRequest{}, err
		}
		req.TaxRatePercent = &rate
	}
	return req, nil
}

func parsePeriod(start, end string) (time.Time, time.Time, error) {
	from, err := parseDate("period_start", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate("period_end", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError(shared.CodeInvalidInput, field+" must be a YYYY-MM-DD date")
	}
	return t, nil
}

// parseAmount reads an optional decimal; empty means zero
func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidInput, field+" must be a decimal number")
	}
	return d, nil
}
