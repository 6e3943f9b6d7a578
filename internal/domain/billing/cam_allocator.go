package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CAMShare is one unit's part of the building's common-area costs
type CAMShare struct {
	UnitID               uuid.UUID       `json:"unit_id"`
	UnitNumber           string          `json:"unit_number"`
	UnitSpace            decimal.Decimal `json:"unit_space"`
	IsOccupied           bool            `json:"is_occupied"`
	GeneratorShare       decimal.Decimal `json:"generator_share"`
	TransformerShare     decimal.Decimal `json:"transformer_share"`
	OtherCAMShare        decimal.Decimal `json:"other_cam_share"`
	TotalCAMShare        decimal.Decimal `json:"total_cam_share"`
	PercentageOfBuilding decimal.Decimal `json:"percentage_of_building"`
}

// BuildingCAMSummary is the building-wide result of a CAM allocation
type BuildingCAMSummary struct {
	BuildingID         uuid.UUID       `json:"building_id"`
	TotalLeasableArea  decimal.Decimal `json:"total_leasable_area"`
	TotalOccupiedArea  decimal.Decimal `json:"total_occupied_area"`
	TotalVacantArea    decimal.Decimal `json:"total_vacant_area"`
	OccupiedPercentage decimal.Decimal `json:"occupied_percentage"`
	VacantPercentage   decimal.Decimal `json:"vacant_percentage"`
	GeneratorFee       decimal.Decimal `json:"generator_fee"`
	TransformerFee     decimal.Decimal `json:"transformer_fee"`
	OtherCAMCosts      decimal.Decimal `json:"other_cam_costs"`
	TotalCAMCosts      decimal.Decimal `json:"total_cam_costs"`
	TenantsCAMTotal    decimal.Decimal `json:"tenants_cam_total"`
	OwnerCAMTotal      decimal.Decimal `json:"owner_cam_total"`
	Shares             []CAMShare      `json:"shares"`
}

// ShareFor returns the share allocated to a unit
func (s *BuildingCAMSummary) ShareFor(unitID uuid.UUID) (CAMShare, bool) {
	for _, share := range s.Shares {
		if share.UnitID == unitID {
			return share, true
		}
	}
	return CAMShare{}, false
}

// SharesByUnit indexes the shares by unit id
func (s *BuildingCAMSummary) SharesByUnit() map[uuid.UUID]CAMShare {
	byUnit := make(map[uuid.UUID]CAMShare, len(s.Shares))
	for _, share := range s.Shares {
		byUnit[share.UnitID] = share
	}
	return byUnit
}

// AllocateCAM splits the generator fee, transformer fee and other CAM costs across
// units in proportion to their floor area. Each component share is rounded to money
// precision as it is computed and every total is a sum of those rounded values.
//
// The allocation is all-or-nothing: an unusable configuration or any negative unit
// area fails the whole call and no partial summary is returned.
func AllocateCAM(units []UnitInfo, config BuildingConfig, otherCAMCosts decimal.Decimal) (*BuildingCAMSummary, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if otherCAMCosts.IsNegative() {
		return nil, shared.NewValidationError("other CAM costs cannot be negative")
	}
	for _, u := range units {
		if err := u.Validate(); err != nil {
			return nil, err
		}
	}

	area := config.TotalLeasableArea
	summary := &BuildingCAMSummary{
		BuildingID:        config.ID,
		TotalLeasableArea: area,
		TotalOccupiedArea: decimal.Zero,
		TotalVacantArea:   decimal.Zero,
		GeneratorFee:      config.GeneratorFee,
		TransformerFee:    config.TransformerFee,
		OtherCAMCosts:     otherCAMCosts,
		TotalCAMCosts:     decimal.Zero,
		TenantsCAMTotal:   decimal.Zero,
		OwnerCAMTotal:     decimal.Zero,
		Shares:            make([]CAMShare, 0, len(units)),
	}

	for _, u := range units {
		share := CAMShare{
			UnitID:               u.ID,
			UnitNumber:           u.UnitNumber,
			UnitSpace:            u.UnitSpace,
			IsOccupied:           u.IsOccupied,
			GeneratorShare:       valueobject.Share(u.UnitSpace, area, config.GeneratorFee),
			TransformerShare:     valueobject.Share(u.UnitSpace, area, config.TransformerFee),
			OtherCAMShare:        valueobject.Share(u.UnitSpace, area, otherCAMCosts),
			PercentageOfBuilding: valueobject.Percentage(u.UnitSpace, area),
		}
		share.TotalCAMShare = share.GeneratorShare.Add(share.TransformerShare).Add(share.OtherCAMShare)

		if u.IsOccupied {
			summary.TotalOccupiedArea = summary.TotalOccupiedArea.Add(u.UnitSpace)
			summary.TenantsCAMTotal = summary.TenantsCAMTotal.Add(share.TotalCAMShare)
		} else {
			summary.TotalVacantArea = summary.TotalVacantArea.Add(u.UnitSpace)
			summary.OwnerCAMTotal = summary.OwnerCAMTotal.Add(share.TotalCAMShare)
		}
		summary.Shares = append(summary.Shares, share)
	}

	summary.TotalCAMCosts = summary.TenantsCAMTotal.Add(summary.OwnerCAMTotal)
	summary.OccupiedPercentage = valueobject.Percentage(summary.TotalOccupiedArea, area)
	summary.VacantPercentage = valueobject.Percentage(summary.TotalVacantArea, area)

	if summary.TotalOccupiedArea.Add(summary.TotalVacantArea).GreaterThan(area) {
		return nil, shared.NewConfigurationError(fmt.Sprintf(
			"units of building %s cover %s, more than the total leasable area %s",
			config.ID, summary.TotalOccupiedArea.Add(summary.TotalVacantArea), area))
	}
	return summary, nil
}
