package model

import "time"

// InvoiceContext is the resolved tax context for a single invoice date:
// which situation was active, which income sources were active, and whether
// the date falls into a coverage gap. It is derived fresh per invoice and
// never persisted.
type InvoiceContext struct {
	Date          time.Time
	Situation     *Situation // nil when no situation covers the date
	Jurisdiction  string
	ActiveSources []IncomeSource
	HasGap        bool
}
