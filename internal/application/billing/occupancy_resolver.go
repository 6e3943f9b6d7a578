package billing

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/billing"
	"github.com/propertyhub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OccupancyResolver classifies the units of a building as occupied or vacant
// from their lease contracts.
type OccupancyResolver struct {
	units     billing.UnitStore
	contracts billing.ContractStore
	logger    *zap.Logger
	limit     int
}

// NewOccupancyResolver creates a resolver that issues at most limit contract lookups at once
func NewOccupancyResolver(units billing.UnitStore, contracts billing.ContractStore, logger *zap.Logger, limit int) *OccupancyResolver {
	if limit <= 0 {
		limit = 1
	}
	return &OccupancyResolver{units: units, contracts: contracts, logger: logger, limit: limit}
}

// Resolve lists the building's units and resolves each one's occupancy at asOf
func (r *OccupancyResolver) Resolve(ctx context.Context, buildingID uuid.UUID, asOf time.Time) ([]billing.UnitInfo, error) {
	units, err := r.units.ListUnitsByBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	return r.ResolveUnits(ctx, units, asOf), nil
}

// ResolveUnits resolves occupancy for the given units, keeping their order.
// A failed contract lookup leaves that unit vacant and is logged; the other units are unaffected.
func (r *OccupancyResolver) ResolveUnits(ctx context.Context, units []billing.Unit, asOf time.Time) []billing.UnitInfo {
	infos := make([]billing.UnitInfo, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i := range units {
		g.Go(func() error {
			infos[i] = r.ResolveUnit(gctx, units[i], asOf)
			return nil
		})
	}
	_ = g.Wait()

	return infos
}

// ResolveUnit resolves one unit. Several active contracts are tolerated: the one
// with the latest start date names the tenant.
func (r *OccupancyResolver) ResolveUnit(ctx context.Context, unit billing.Unit, asOf time.Time) billing.UnitInfo {
	info := billing.NewVacantUnitInfo(unit)
	log := logger.WithLogger(ctx, r.logger).With(
		zap.String("unit_id", unit.ID.String()),
		zap.String("unit_number", unit.UnitNumber),
	)

	contracts, err := r.contracts.ListContractsByUnit(ctx, unit.ID)
	if err != nil {
		log.Warn("Contract lookup failed, treating unit as vacant", zap.Error(err))
		return info
	}

	active := make([]billing.Contract, 0, 1)
	for _, c := range contracts {
		if c.IsActiveAt(asOf) {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return info
	}
	if len(active) > 1 {
		log.Warn("Unit has several active contracts, using the most recent",
			zap.Int("active_contracts", len(active)))
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].StartDate.After(active[j].StartDate)
		})
	}

	info.IsOccupied = true
	info.TenantName = active[0].TenantName
	return info
}
