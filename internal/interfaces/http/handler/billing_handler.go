package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/propertyhub/backend/internal/application/billing"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// BillingRunner computes bills and CAM allocations
type BillingRunner interface {
	AggregateForBuilding(ctx context.Context, req billingapp.BillingRunRequest) (*billingapp.BillingRunResult, error)
	PreviewUnit(ctx context.Context, req billingapp.UnitPreviewRequest) (*billing.UtilityBillingRecord, error)
	CAMSummary(ctx context.Context, buildingID uuid.UUID, asOf time.Time, otherCAMCosts decimal.Decimal) (*billing.BuildingCAMSummary, error)
}

// InvoiceIssuer turns a billing run into submitted invoices
type InvoiceIssuer interface {
	IssueForBuilding(ctx context.Context, req billingapp.IssueInvoicesRequest) (*billingapp.IssueInvoicesResult, error)
}

// BillingHandler serves the billing endpoints of a building
type BillingHandler struct {
	BaseHandler
	billing  BillingRunner
	invoices InvoiceIssuer
	now      func() time.Time
}

// NewBillingHandler creates a BillingHandler. invoices may be nil when no
// invoice service is configured; the dispatch endpoint then answers 503.
func NewBillingHandler(runner BillingRunner, invoices InvoiceIssuer) *BillingHandler {
	return &BillingHandler{
		billing:  runner,
		invoices: invoices,
		now:      time.Now,
	}
}

// RegisterRoutes mounts the billing routes under /buildings
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	buildings := rg.Group("/buildings/:id")
	buildings.GET("/cam-summary", h.CAMSummary)
	buildings.POST("/billing-runs", h.RunBilling)
	buildings.GET("/units/:unitId/billing", h.PreviewUnit)
	buildings.POST("/invoices", h.IssueInvoices)
}

// CAMSummary godoc
// GET /api/v1/buildings/:id/cam-summary?as_of=YYYY-MM-DD&other_cam_costs=N
func (h *BillingHandler) CAMSummary(c *gin.Context) {
	buildingID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var q CAMSummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	asOf := h.now().UTC().Truncate(24 * time.Hour)
	if q.AsOf != "" {
		if asOf, err = parseDate("as_of", q.AsOf); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	otherCAM, err := parseAmount("other_cam_costs", q.OtherCAMCosts)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	summary, err := h.billing.CAMSummary(c.Request.Context(), buildingID, asOf, otherCAM)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RunBilling godoc
// POST /api/v1/buildings/:id/billing-runs
func (h *BillingHandler) RunBilling(c *gin.Context) {
	buildingID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req BillingRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	appReq, err := req.toApp(buildingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.billing.AggregateForBuilding(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PreviewUnit godoc
// GET /api/v1/buildings/:id/units/:unitId/billing?period_start=...&period_end=...
func (h *BillingHandler) PreviewUnit(c *gin.Context) {
	buildingID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	unitID, err := parseUUIDParam(c, "unitId")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var q UnitBillingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	appReq, err := q.toApp(buildingID, unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	record, err := h.billing.PreviewUnit(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// IssueInvoices godoc
// POST /api/v1/buildings/:id/invoices
func (h *BillingHandler) IssueInvoices(c *gin.Context) {
	if h.invoices == nil {
		h.ServiceUnavailable(c, "Invoice dispatch is not configured")
		return
	}
	buildingID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req IssueInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	appReq, err := req.toApp(buildingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.invoices.IssueForBuilding(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
