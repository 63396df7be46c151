// Package resolver derives the active tax context for an invoice date: the
// situation covering the date, the income sources active on it, and the
// effective business-use percentages after override resolution.
package resolver

import (
	"fmt"
	"time"

	"github.com/kraxler/kraxler/internal/dates"
	"github.com/kraxler/kraxler/internal/model"
)

// SituationForDate returns the first situation in configuration order whose
// interval contains date, or nil when none does. Valid configurations have
// non-overlapping situations, so at most one can match; the scan does not
// assume the list is sorted.
func SituationForDate(cfg *model.Config, date time.Time) *model.Situation {
	for i := range cfg.Situations {
		s := &cfg.Situations[i]
		if dates.InRange(date, s.From, s.To) {
			return s
		}
	}
	return nil
}

// ActiveIncomeSources returns every income source active on date, preserving
// configuration order. Unlike situations, concurrent sources are expected.
func ActiveIncomeSources(cfg *model.Config, date time.Time) []model.IncomeSource {
	var active []model.IncomeSource
	for _, src := range cfg.IncomeSources {
		if dates.InRange(date, src.ValidFrom, src.ValidTo) {
			active = append(active, src)
		}
	}
	return active
}

// IncomeSourceByID looks up an income source by id regardless of validity
// interval. Returns nil when the id is not configured.
func IncomeSourceByID(cfg *model.Config, id string) *model.IncomeSource {
	for i := range cfg.IncomeSources {
		if cfg.IncomeSources[i].ID == id {
			return &cfg.IncomeSources[i]
		}
	}
	return nil
}

// BuildInvoiceContext resolves the full context for one invoice date string.
// HasGap is set when no situation covers the date; that is a reportable
// condition for the caller, not an error.
func BuildInvoiceContext(cfg *model.Config, invoiceDate string) (*model.InvoiceContext, error) {
	date, err := dates.Parse(invoiceDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice date: %w", err)
	}

	situation := SituationForDate(cfg, date)

	return &model.InvoiceContext{
		Date:          date,
		Jurisdiction:  cfg.Jurisdiction,
		Situation:     situation,
		ActiveSources: ActiveIncomeSources(cfg, date),
		HasGap:        situation == nil,
	}, nil
}

// EffectiveTelecomPercent resolves the telecom business-use percentage for a
// (situation, source) pair. Presence of an override governs precedence, not
// its value: an explicit zero override wins over the situation default.
func EffectiveTelecomPercent(s *model.Situation, src *model.IncomeSource) float64 {
	if src != nil && src.TelecomPercentOverride != nil {
		return *src.TelecomPercentOverride
	}
	if s != nil {
		return s.TelecomPercent
	}
	return 0
}

// EffectiveInternetPercent resolves the internet business-use percentage,
// with the same override precedence as EffectiveTelecomPercent.
func EffectiveInternetPercent(s *model.Situation, src *model.IncomeSource) float64 {
	if src != nil && src.InternetPercentOverride != nil {
		return *src.InternetPercentOverride
	}
	if s != nil {
		return s.InternetPercent
	}
	return 0
}

// EffectiveVehiclePercent resolves the vehicle business-use percentage,
// with the same override precedence as EffectiveTelecomPercent.
func EffectiveVehiclePercent(s *model.Situation, src *model.IncomeSource) float64 {
	if src != nil && src.VehiclePercentOverride != nil {
		return *src.VehiclePercentOverride
	}
	if s != nil {
		return s.VehiclePercent
	}
	return 0
}
