package model

// FlagType identifies one of the fixed anomaly checks.
type FlagType string

// Anomaly flag type constants.
const (
	FlagHighAmountPersonal   FlagType = "high_amount_personal"
	FlagFirstTimeHighAmount  FlagType = "first_time_high_amount"
	FlagCategoryChange       FlagType = "category_change"
	FlagUnusualVAT           FlagType = "unusual_vat"
	FlagRoundAmountHighValue FlagType = "round_amount_high_value"
)

// Severity grades an anomaly flag.
type Severity string

// Severity constants.
const (
	SeverityWarning        Severity = "warning"
	SeverityReviewRequired Severity = "review_required"
)

// AnomalyFlag is an additive signal attached to a classification result. It
// never rejects the classification; review_required flags are expected to
// route the invoice into a manual-review queue.
type AnomalyFlag struct {
	Context  map[string]any
	Type     FlagType
	Severity Severity
	Message  string
}

// AnomalyResult is the outcome of running all anomaly checks on one invoice.
type AnomalyResult struct {
	Flags          []AnomalyFlag
	RequiresReview bool
}
