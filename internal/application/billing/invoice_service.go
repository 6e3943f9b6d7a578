package billing

import (
	"context"
	"sort"
	"time"

	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/propertyhub/backend/internal/infrastructure/logger"
	"github.com/propertyhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InvoiceService turns a building billing run into invoice requests and submits them
type InvoiceService struct {
	billing *BillingService
	gateway billing.InvoiceGateway
	builder *billing.InvoiceRequestBuilder
	dueDays int
	limit   int
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewInvoiceService creates an invoice service. dueDays sets the default due date
// relative to the period end.
func NewInvoiceService(
	billingService *BillingService,
	gateway billing.InvoiceGateway,
	builder *billing.InvoiceRequestBuilder,
	dueDays, limit int,
	logger *zap.Logger,
) *InvoiceService {
	if limit <= 0 {
		limit = 1
	}
	return &InvoiceService{
		billing: billingService,
		gateway: gateway,
		builder: builder,
		dueDays: dueDays,
		limit:   limit,
		logger:  logger,
	}
}

// SetMetrics sets the Prometheus collectors for submission counters
func (s *InvoiceService) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

type submission struct {
	issued *IssuedInvoice
	err    error
}

// IssueForBuilding runs billing for the building and submits one invoice per billed unit.
// A due date before the period end is rejected before any billing happens. Billing and submission failures of single units are reported in the result; only
// building-level failures return an error.
func (s *InvoiceService) IssueForBuilding(ctx context.Context, req IssueInvoicesRequest) (result *IssueInvoicesResult, err error) {
	started := time.Now()
	ctx, span := telemetry.StartSpan(ctx, spanComponent, "issue_invoices", "building_id", req.BuildingID.String())
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
		s.metrics.ObserveRun("issue_invoices", time.Since(started), err)
	}()

	dueDate := req.DueDate
	if dueDate.IsZero() {
		dueDate = req.PeriodEnd.AddDate(0, 0, s.dueDays)
	}
	if err := billing.ValidateDueDate(req.PeriodEnd, dueDate); err != nil {
		return nil, err
	}

	run, err := s.billing.AggregateForBuilding(ctx, req.BillingRunRequest)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithRunID(logger.WithBuildingID(ctx, req.BuildingID.String()), run.RunID.String())
	log := logger.WithLogger(ctx, s.logger)

	submissions := make([]submission, len(run.Records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, record := range run.Records {
		g.Go(func() error {
			submissions[i] = s.submit(gctx, req, record, dueDate)
			return nil
		})
	}
	_ = g.Wait()

	result = &IssueInvoicesResult{
		RunID:      run.RunID,
		BuildingID: run.BuildingID,
		Issued:     make([]IssuedInvoice, 0, len(run.Records)),
		Errors:     append(make([]UnitError, 0, len(run.Errors)), run.Errors...),
		CAMSummary: run.CAMSummary,
	}
	for i, sub := range submissions {
		s.metrics.InvoiceSubmitted(sub.err)
		if sub.err != nil {
			record := run.Records[i]
			unitErr := newUnitError(billing.UnitInfo{ID: record.UnitID, UnitNumber: record.UnitNumber}, sub.err)
			log.Warn("Invoice submission failed",
				zap.String("unit_id", record.UnitID.String()),
				zap.String("code", unitErr.Code),
				zap.Error(sub.err),
			)
			result.Errors = append(result.Errors, unitErr)
			continue
		}
		result.Issued = append(result.Issued, *sub.issued)
	}
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].UnitNumber < result.Errors[j].UnitNumber
	})

	log.Info("Invoices issued",
		zap.Int("issued", len(result.Issued)),
		zap.Int("unit_errors", len(result.Errors)),
	)
	return result, nil
}

func (s *InvoiceService) submit(ctx context.Context, req IssueInvoicesRequest, record *billing.UtilityBillingRecord, dueDate time.Time) submission {
	invoiceReq, err := s.builder.Build(req.BuildingID, record, dueDate, req.Notes)
	if err != nil {
		return submission{err: err}
	}
	receipt, err := s.gateway.SubmitInvoice(ctx, invoiceReq)
	if err != nil {
		return submission{err: err}
	}
	return submission{issued: &IssuedInvoice{
		UnitID:     record.UnitID,
		UnitNumber: record.UnitNumber,
		Request:    invoiceReq,
		Receipt:    receipt,
	}}
}
