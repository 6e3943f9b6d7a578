package billing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RatePlaces is the maximum number of decimal places accepted on a rate
const RatePlaces int32 = 4

// CalculationMethod determines how a utility type turns into a charge
type CalculationMethod string

const (
	// CalculationMethodFixed charges the rate once per period
	CalculationMethodFixed CalculationMethod = "FIXED"

	// CalculationMethodMetered charges rate × consumption
	CalculationMethodMetered CalculationMethod = "METERED"

	// CalculationMethodAllocated charges a pre-computed, area-proportional share
	CalculationMethodAllocated CalculationMethod = "ALLOCATED"
)

// String returns the string representation of CalculationMethod
func (m CalculationMethod) String() string {
	return string(m)
}

// IsValid returns true if the calculation method is known
func (m CalculationMethod) IsValid() bool {
	switch m {
	case CalculationMethodFixed, CalculationMethodMetered, CalculationMethodAllocated:
		return true
	}
	return false
}

// ParseCalculationMethod parses a stored method name, ignoring case and surrounding space
func ParseCalculationMethod(s string) (CalculationMethod, error) {
	m := CalculationMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", shared.NewUnsupportedMethodError(fmt.Sprintf("unsupported calculation method: %q", s))
	}
	return m, nil
}

// UtilityTypeDef is an entry of the rate catalog. It is immutable reference data.
type UtilityTypeDef struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	CalculationMethod CalculationMethod `json:"calculation_method"`
	RatePerUnit       decimal.Decimal   `json:"rate_per_unit"`
	Active            bool              `json:"active"`
}

// Validate checks the definition's method and rate
func (d UtilityTypeDef) Validate() error {
	if !d.CalculationMethod.IsValid() {
		return shared.NewUnsupportedMethodError(
			fmt.Sprintf("utility type %q has unsupported calculation method %q", d.Name, d.CalculationMethod))
	}
	if d.RatePerUnit.IsNegative() {
		return shared.NewValidationError(fmt.Sprintf("utility type %q has a negative rate", d.Name))
	}
	if !d.RatePerUnit.Equal(d.RatePerUnit.Round(RatePlaces)) {
		return shared.NewValidationError(
			fmt.Sprintf("utility type %q rate has more than %d decimal places", d.Name, RatePlaces))
	}
	return nil
}

// ActiveTypes filters a catalog down to its active entries, keeping order
func ActiveTypes(defs []UtilityTypeDef) []UtilityTypeDef {
	active := make([]UtilityTypeDef, 0, len(defs))
	for _, d := range defs {
		if d.Active {
			active = append(active, d)
		}
	}
	return active
}
