package billing

import (
	"fmt"

	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Calculate computes the line item for a FIXED or METERED utility type.
// consumption is required for METERED and ignored for FIXED. ALLOCATED types
// need building-wide context and go through CalculateAllocated instead.
func Calculate(def UtilityTypeDef, consumption *decimal.Decimal) (UtilityLineItem, error) {
	if err := checkDefinition(def); err != nil {
		return UtilityLineItem{}, err
	}

	typeID := def.ID
	rate := def.RatePerUnit

	switch def.CalculationMethod {
	case CalculationMethodFixed:
		return UtilityLineItem{
			UtilityTypeID:      &typeID,
			UtilityName:        def.Name,
			CalculationMethod:  CalculationMethodFixed,
			RatePerUnit:        decimalPtr(rate),
			Quantity:           decimalPtr(decimal.NewFromInt(1)),
			Amount:             valueobject.RoundMoney(rate),
			FormulaDescription: "Fixed rate",
		}, nil

	case CalculationMethodMetered:
		if consumption == nil {
			return UtilityLineItem{}, shared.NewValidationError(
				fmt.Sprintf("utility type %q is metered but no consumption was supplied", def.Name))
		}
		if consumption.IsNegative() {
			return UtilityLineItem{}, shared.NewValidationError(
				fmt.Sprintf("consumption for %q cannot be negative: %s", def.Name, consumption))
		}
		return UtilityLineItem{
			UtilityTypeID:      &typeID,
			UtilityName:        def.Name,
			CalculationMethod:  CalculationMethodMetered,
			RatePerUnit:        decimalPtr(rate),
			Quantity:           decimalPtr(*consumption),
			Amount:             valueobject.RoundMoney(rate.Mul(*consumption)),
			FormulaDescription: fmt.Sprintf("%s × %s (rate × consumption)", rate, consumption),
		}, nil

	case CalculationMethodAllocated:
		return UtilityLineItem{}, shared.NewValidationError(
			fmt.Sprintf("utility type %q is allocated; its amount must be supplied as a pre-computed share", def.Name))
	}

	return UtilityLineItem{}, shared.NewUnsupportedMethodError(
		fmt.Sprintf("unsupported calculation method %q", def.CalculationMethod))
}

// CalculateAllocated wraps a pre-computed proportional share into a line item
func CalculateAllocated(def UtilityTypeDef, share decimal.Decimal, formula string) (UtilityLineItem, error) {
	if err := checkDefinition(def); err != nil {
		return UtilityLineItem{}, err
	}
	if def.CalculationMethod != CalculationMethodAllocated {
		return UtilityLineItem{}, shared.NewValidationError(
			fmt.Sprintf("utility type %q is %s, not allocated", def.Name, def.CalculationMethod))
	}
	if share.IsNegative() {
		return UtilityLineItem{}, shared.NewValidationError(
			fmt.Sprintf("allocated share for %q cannot be negative", def.Name))
	}
	if formula == "" {
		formula = "Allocated share"
	}

	typeID := def.ID
	return UtilityLineItem{
		UtilityTypeID:      &typeID,
		UtilityName:        def.Name,
		CalculationMethod:  CalculationMethodAllocated,
		Amount:             valueobject.RoundMoney(share),
		FormulaDescription: formula,
	}, nil
}

// AllocatePool splits a building-wide pool for an ALLOCATED utility type onto one unit by area
func AllocatePool(def UtilityTypeDef, unit UnitInfo, config BuildingConfig) (UtilityLineItem, error) {
	if !config.TotalLeasableArea.IsPositive() {
		return UtilityLineItem{}, shared.NewConfigurationError(
			fmt.Sprintf("building %s has no total leasable area configured", config.ID))
	}
	if err := unit.Validate(); err != nil {
		return UtilityLineItem{}, err
	}
	pool, ok := config.AllocatedPools[def.ID]
	if !ok {
		return UtilityLineItem{}, shared.NewConfigurationError(
			fmt.Sprintf("no allocation pool configured for utility type %q", def.Name))
	}
	share := valueobject.Share(unit.UnitSpace, config.TotalLeasableArea, pool)
	pct := valueobject.Percentage(unit.UnitSpace, config.TotalLeasableArea)
	return CalculateAllocated(def, share, fmt.Sprintf("%s%% of %s", pct.StringFixed(2), pool.StringFixed(2)))
}

func checkDefinition(def UtilityTypeDef) error {
	if !def.CalculationMethod.IsValid() {
		return shared.NewUnsupportedMethodError(
			fmt.Sprintf("utility type %q has unsupported calculation method %q", def.Name, def.CalculationMethod))
	}
	if !def.Active {
		return shared.NewConfigurationError(fmt.Sprintf("utility type %q is not active", def.Name))
	}
	return def.Validate()
}
