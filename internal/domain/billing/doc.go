// Package billing provides the domain model for utility and common-area-maintenance
// (CAM) billing of leased building units.
//
// This package implements the billing bounded context, which is responsible for:
//   - Deriving meter consumption from previous and current readings
//   - Computing FIXED, METERED and ALLOCATED utility charges
//   - Splitting building-level CAM costs across units by leasable floor area
//   - Aggregating line items into a per-unit billing record with tax and totals
//   - Mapping billing records into requests for the external invoice service
//
// Everything in this package is pure: functions take plain records and return
// computed values. Lookups against contract, unit and meter-reading stores go
// through the interfaces in repository.go and are driven by the application layer.
//
// Value Objects:
//   - UtilityTypeDef: rate catalog entry with its calculation method
//   - MeterReadingRecord / ConsumptionResult: raw readings and derived consumption
//   - CAMShare / BuildingCAMSummary: area-proportional cost split
//   - UtilityLineItem / UtilityBillingRecord: the billing output
//   - InvoiceRequest: boundary shape for the invoice-generation service
package billing
