package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Names of the CAM line items appended to every billing record
const (
	CAMItemGenerator   = "Generator Fee"
	CAMItemTransformer = "Transformer Fee"
	CAMItemOther       = "Other CAM"
)

// UtilityLineItem is one charge on a unit's bill
type UtilityLineItem struct {
	UtilityTypeID      *uuid.UUID        `json:"utility_type_id,omitempty"`
	UtilityName        string            `json:"utility_name"`
	CalculationMethod  CalculationMethod `json:"calculation_method"`
	RatePerUnit        *decimal.Decimal  `json:"rate_per_unit,omitempty"`
	Quantity           *decimal.Decimal  `json:"quantity,omitempty"`
	Amount             decimal.Decimal   `json:"amount"`
	FormulaDescription string            `json:"formula_description"`
	IsCAM              bool              `json:"is_cam"`
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
