// Package model defines the core domain models used throughout the application.
package model

import "time"

// Situation is a time-bounded business context carrying the default
// business-use percentages that apply while it is active. Within a valid
// configuration at most one situation covers any given date.
type Situation struct {
	From            time.Time
	To              *time.Time // nil means still ongoing
	ID              string
	TelecomPercent  float64
	InternetPercent float64
	VehiclePercent  float64
}

// Open reports whether the situation has no end date.
func (s *Situation) Open() bool {
	return s.To == nil
}
