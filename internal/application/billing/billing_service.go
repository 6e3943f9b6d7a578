// Package billing orchestrates utility and CAM billing runs over the domain calculators.
package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/infrastructure/logger"
	"github.com/propertyhub/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const spanComponent = "billing"

// Stores groups the data sources a billing run reads from
type Stores struct {
	Buildings billing.BuildingConfigStore
	Units     billing.UnitStore
	Contracts billing.ContractStore
	Readings  billing.MeterReadingStore
	Catalog   billing.UtilityTypeCatalog
}

// BillingService computes per-unit billing records for a building and period
type BillingService struct {
	buildings   billing.BuildingConfigStore
	units       billing.UnitStore
	catalog     billing.UtilityTypeCatalog
	occupancy   *OccupancyResolver
	consumption *ConsumptionResolver
	taxRate     decimal.Decimal
	limit       int
	logger      *zap.Logger
	metrics     *telemetry.Metrics
}

// NewBillingService creates a billing service. taxRatePercent is the default rate,
// limit bounds concurrent per-unit lookups.
func NewBillingService(stores Stores, taxRatePercent decimal.Decimal, limit int, logger *zap.Logger) *BillingService {
	if limit <= 0 {
		limit = 1
	}
	return &BillingService{
		buildings:   stores.Buildings,
		units:       stores.Units,
		catalog:     stores.Catalog,
		occupancy:   NewOccupancyResolver(stores.Units, stores.Contracts, logger, limit),
		consumption: NewConsumptionResolver(stores.Readings),
		taxRate:     taxRatePercent,
		limit:       limit,
		logger:      logger,
	}
}

// SetMetrics sets the Prometheus collectors for run and unit counters
func (s *BillingService) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

type unitOutcome struct {
	record *billing.UtilityBillingRecord
	err    error
	billed bool
}

// AggregateForBuilding bills every unit of a building for a period.
//
// Building-level problems (unknown building, unusable configuration, CAM allocation
// failure) abort the run. Per-unit problems are collected in the result and never
// stop sibling units. Vacant units are billed only when IncludeVacant is set; their
// CAM share always counts toward the owner total of the summary.
func (s *BillingService) AggregateForBuilding(ctx context.Context, req BillingRunRequest) (result *BillingRunResult, err error) {
	started := time.Now()
	runID := uuid.New()
	ctx = logger.WithRunID(logger.WithBuildingID(ctx, req.BuildingID.String()), runID.String())
	ctx, span := telemetry.StartSpan(ctx, spanComponent, "aggregate_building",
		"building_id", req.BuildingID.String(),
		"include_vacant", req.IncludeVacant,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
		s.metrics.ObserveRun("aggregate_building", time.Since(started), err)
	}()
	log := logger.WithLogger(ctx, s.logger)

	period, err := billing.NewBillingPeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	taxRate, err := s.resolveTaxRate(req.TaxRatePercent)
	if err != nil {
		return nil, err
	}

	config, err := s.buildings.GetBuildingConfig(ctx, req.BuildingID)
	if err != nil {
		return nil, err
	}
	types, err := s.activeTypes(ctx)
	if err != nil {
		return nil, err
	}

	listed, err := s.units.ListUnitsByBuilding(ctx, req.BuildingID)
	if err != nil {
		return nil, err
	}
	seen := billing.NewSeenSet()
	units := make([]billing.Unit, 0, len(listed))
	for _, u := range listed {
		if !seen.MarkUnit(u.ID) {
			log.Warn("Duplicate unit in building listing skipped", zap.String("unit_id", u.ID.String()))
			continue
		}
		units = append(units, u)
	}

	infos := s.occupancy.ResolveUnits(ctx, units, period.End)

	summary, err := billing.AllocateCAM(infos, *config, req.OtherCAMCosts)
	if err != nil {
		return nil, err
	}
	shares := summary.SharesByUnit()

	outcomes := make([]unitOutcome, len(infos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, info := range infos {
		if !info.IsOccupied && !req.IncludeVacant {
			continue
		}
		g.Go(func() error {
			share := shares[info.ID]
			record, err := s.billUnit(gctx, info, *config, types, period, &share, taxRate, seen)
			outcomes[i] = unitOutcome{record: record, err: err, billed: true}
			return nil
		})
	}
	_ = g.Wait()

	result = &BillingRunResult{
		RunID:       runID,
		BuildingID:  req.BuildingID,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		Records:     make([]*billing.UtilityBillingRecord, 0, len(infos)),
		Errors:      make([]UnitError, 0),
		CAMSummary:  summary,
	}
	for i, outcome := range outcomes {
		if !outcome.billed {
			continue
		}
		if outcome.err != nil {
			unitErr := newUnitError(infos[i], outcome.err)
			log.Warn("Unit billing failed",
				zap.String("unit_id", unitErr.UnitID.String()),
				zap.String("unit_number", unitErr.UnitNumber),
				zap.String("code", unitErr.Code),
				zap.Error(outcome.err),
			)
			s.metrics.UnitFailed(unitErr.Code)
			result.Errors = append(result.Errors, unitErr)
			continue
		}
		result.Records = append(result.Records, outcome.record)
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i].UnitNumber < result.Records[j].UnitNumber
	})
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].UnitNumber < result.Errors[j].UnitNumber
	})
	s.metrics.UnitsBilled(len(result.Records))

	telemetry.SetAttributes(span,
		"units", len(infos),
		"records", len(result.Records),
		"unit_errors", len(result.Errors),
	)
	distinctUnits, distinctReadings := seen.Counts()
	log.Info("Billing run completed",
		zap.Int("units", len(infos)),
		zap.Int("duplicate_units", len(listed)-distinctUnits),
		zap.Int("readings", distinctReadings),
		zap.Int("records", len(result.Records)),
		zap.Int("unit_errors", len(result.Errors)),
		zap.String("tenants_cam_total", summary.TenantsCAMTotal.StringFixed(2)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// PreviewUnit computes the billing record of one unit. Errors are returned to the caller.
func (s *BillingService) PreviewUnit(ctx context.Context, req UnitPreviewRequest) (record *billing.UtilityBillingRecord, err error) {
	started := time.Now()
	ctx = logger.WithBuildingID(ctx, req.BuildingID.String())
	ctx, span := telemetry.StartSpan(ctx, spanComponent, "preview_unit",
		"building_id", req.BuildingID.String(),
		"unit_id", req.UnitID.String(),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
		s.metrics.ObserveRun("preview_unit", time.Since(started), err)
	}()

	period, err := billing.NewBillingPeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	taxRate, err := s.resolveTaxRate(req.TaxRatePercent)
	if err != nil {
		return nil, err
	}

	config, err := s.buildings.GetBuildingConfig(ctx, req.BuildingID)
	if err != nil {
		return nil, err
	}
	unit, err := s.units.GetUnit(ctx, req.BuildingID, req.UnitID)
	if err != nil {
		return nil, err
	}
	types, err := s.activeTypes(ctx)
	if err != nil {
		return nil, err
	}

	info := s.occupancy.ResolveUnit(ctx, *unit, period.End)

	// Shares depend only on the unit's own area, so allocating this unit alone gives its building share.
	summary, err := billing.AllocateCAM([]billing.UnitInfo{info}, *config, req.OtherCAMCosts)
	if err != nil {
		return nil, err
	}
	share, _ := summary.ShareFor(info.ID)

	return s.billUnit(ctx, info, *config, types, period, &share, taxRate, billing.NewSeenSet())
}

// CAMSummary allocates the building's CAM costs by occupancy at asOf
func (s *BillingService) CAMSummary(ctx context.Context, buildingID uuid.UUID, asOf time.Time, otherCAMCosts decimal.Decimal) (summary *billing.BuildingCAMSummary, err error) {
	started := time.Now()
	ctx = logger.WithBuildingID(ctx, buildingID.String())
	ctx, span := telemetry.StartSpan(ctx, spanComponent, "cam_summary", "building_id", buildingID.String())
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
		s.metrics.ObserveRun("cam_summary", time.Since(started), err)
	}()

	config, err := s.buildings.GetBuildingConfig(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	infos, err := s.occupancy.Resolve(ctx, buildingID, asOf)
	if err != nil {
		return nil, err
	}
	return billing.AllocateCAM(infos, *config, otherCAMCosts)
}

// billUnit computes the utility line items of one unit and aggregates them with its CAM share.
// FIXED types apply to every unit, METERED types only to units with a meter, ALLOCATED types
// need a building pool.
func (s *BillingService) billUnit(
	ctx context.Context,
	info billing.UnitInfo,
	config billing.BuildingConfig,
	types []billing.UtilityTypeDef,
	period billing.BillingPeriod,
	share *billing.CAMShare,
	taxRate decimal.Decimal,
	seen *billing.SeenSet,
) (*billing.UtilityBillingRecord, error) {
	items := make([]billing.UtilityLineItem, 0, len(types))
	for _, def := range types {
		var (
			item billing.UtilityLineItem
			err  error
		)
		switch def.CalculationMethod {
		case billing.CalculationMethodMetered:
			if !info.HasMeter {
				continue
			}
			consumption, cerr := s.consumption.Resolve(ctx, info.ID, def.ID, period, seen)
			if cerr != nil {
				return nil, fmt.Errorf("%s: %w", def.Name, cerr)
			}
			item, err = billing.Calculate(def, &consumption.Consumption)
		case billing.CalculationMethodAllocated:
			item, err = billing.AllocatePool(def, info, config)
		default:
			item, err = billing.Calculate(def, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", def.Name, err)
		}
		items = append(items, item)
	}
	return billing.Aggregate(info, period, items, share, taxRate)
}

func (s *BillingService) activeTypes(ctx context.Context) ([]billing.UtilityTypeDef, error) {
	defs, err := s.catalog.ListUtilityTypes(ctx)
	if err != nil {
		return nil, err
	}
	return billing.ActiveTypes(defs), nil
}

func (s *BillingService) resolveTaxRate(override *decimal.Decimal) (decimal.Decimal, error) {
	rate := s.taxRate
	if override != nil {
		rate = *override
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, shared.NewValidationError(fmt.Sprintf("tax rate %s%% is outside 0-100", rate))
	}
	return rate, nil
}

func newUnitError(info billing.UnitInfo, err error) UnitError {
	code := shared.ErrorCode(err)
	if code == "" {
		code = shared.CodeUpstream
	}
	return UnitError{
		UnitID:     info.ID,
		UnitNumber: info.UnitNumber,
		Code:       code,
		Message:    err.Error(),
	}
}
