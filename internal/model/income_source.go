package model

import "time"

// IncomeSource is an income-generating activity with its own validity
// interval, independent of situations. Several sources may be active at the
// same time. Percentage overrides, when set, take precedence over the owning
// situation's defaults; a nil override means "inherit". An explicit zero is a
// real override, not an absent value.
type IncomeSource struct {
	ValidFrom               time.Time
	ValidTo                 *time.Time // nil means open-ended
	TelecomPercentOverride  *float64
	InternetPercentOverride *float64
	VehiclePercentOverride  *float64
	ID                      string
	Name                    string
}
