package model

// DeductibleCategory is the tax classification assigned to an invoice.
type DeductibleCategory string

// Deductible category constants.
const (
	CategoryFull    DeductibleCategory = "full"
	CategoryPartial DeductibleCategory = "partial"
	CategoryNone    DeductibleCategory = "none"
	CategoryUnclear DeductibleCategory = "unclear"
)

// Classification is the externally produced category assignment for one
// invoice, as handed to anomaly detection. Amounts are integral cents so
// threshold comparisons never suffer float rounding. AmountCents is nil when
// extraction found no amount; VendorProduct is empty when unknown.
type Classification struct {
	AmountCents    *int64
	VendorProduct  string
	Category       DeductibleCategory
	VATRecoverable bool
}
