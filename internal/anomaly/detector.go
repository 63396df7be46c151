// Package anomaly evaluates finalized invoice classifications against vendor
// history and fixed heuristics, emitting flags for results that look wrong.
// Flags are additive signals: they never reject a classification, but
// review_required severities are expected to gate automated pipelines into a
// manual-review queue.
package anomaly

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kraxler/kraxler/internal/model"
)

// Thresholds, in cents. Amounts arrive as integral cents so these
// comparisons never suffer float rounding.
const (
	// HighPersonalAmountCents flags non-deductible invoices above €200.
	HighPersonalAmountCents int64 = 20_000
	// FirstTimeHighAmountCents flags first-ever fully deductible invoices above €500.
	FirstTimeHighAmountCents int64 = 50_000
	// VeryHighAmountCents is the floor for the suspiciously-round check (€2000).
	VeryHighAmountCents int64 = 200_000
	// RoundAmountStepCents marks exact multiples of €100 as suspiciously round.
	RoundAmountStepCents int64 = 10_000
)

// minHistoryForCategoryChange is how many prior invoices a vendor needs
// before a category switch is worth flagging.
const minHistoryForCategoryChange = 2

// ErrNilHistoryProvider indicates the detector was built without a history source.
var ErrNilHistoryProvider = errors.New("history provider cannot be nil")

// HistoryProvider supplies vendor history aggregates.
type HistoryProvider interface {
	VendorHistory(ctx context.Context, account, senderDomain string) (model.VendorHistory, error)
}

// Detector runs the fixed battery of anomaly checks. It holds no mutable
// state beyond the compiled pattern table and is safe for concurrent use.
type Detector struct {
	history  HistoryProvider
	patterns []compiledVendorPattern
}

// NewDetector creates a detector using the default no-VAT vendor patterns.
func NewDetector(history HistoryProvider) (*Detector, error) {
	return NewDetectorWithPatterns(history, DefaultNoVATPatterns())
}

// NewDetectorWithPatterns creates a detector with a custom pattern table.
func NewDetectorWithPatterns(history HistoryProvider, patterns []VendorPattern) (*Detector, error) {
	if history == nil {
		return nil, ErrNilHistoryProvider
	}
	compiled, err := compileVendorPatterns(patterns)
	if err != nil {
		return nil, err
	}
	return &Detector{history: history, patterns: compiled}, nil
}

// Check evaluates all five anomaly checks for one classified invoice. The
// vendor history is queried exactly once. Missing optional data (amount,
// sender domain, product text) skips the checks that need it; only the
// history query itself can fail.
func (d *Detector) Check(ctx context.Context, c model.Classification, account, senderDomain string) (model.AnomalyResult, error) {
	hist, err := d.history.VendorHistory(ctx, account, senderDomain)
	if err != nil {
		return model.AnomalyResult{}, fmt.Errorf("failed to load vendor history: %w", err)
	}
	return d.CheckWithHistory(c, senderDomain, hist), nil
}

// CheckWithHistory runs the same battery against a caller-supplied vendor
// history. Batch audits over stored invoices use this with a history scoped
// to the rows preceding each invoice, since the invoice under check is
// already persisted and must not count as its own history.
func (d *Detector) CheckWithHistory(c model.Classification, senderDomain string, hist model.VendorHistory) model.AnomalyResult {
	var flags []model.AnomalyFlag

	if flag := d.checkHighPersonalAmount(c); flag != nil {
		flags = append(flags, *flag)
	}
	if flag := d.checkFirstTimeHighAmount(c, hist); flag != nil {
		flags = append(flags, *flag)
	}
	if flag := d.checkCategoryChange(c, hist); flag != nil {
		flags = append(flags, *flag)
	}
	if flag := d.checkUnusualVAT(c, senderDomain); flag != nil {
		flags = append(flags, *flag)
	}
	if flag := d.checkRoundHighValue(c); flag != nil {
		flags = append(flags, *flag)
	}

	requiresReview := false
	for _, flag := range flags {
		if flag.Severity == model.SeverityReviewRequired {
			requiresReview = true
			break
		}
	}

	return model.AnomalyResult{Flags: flags, RequiresReview: requiresReview}
}

// Check 1: a non-deductible invoice this large deserves human eyes.
func (d *Detector) checkHighPersonalAmount(c model.Classification) *model.AnomalyFlag {
	if c.Category != model.CategoryNone || c.AmountCents == nil || *c.AmountCents <= HighPersonalAmountCents {
		return nil
	}
	return &model.AnomalyFlag{
		Type:     model.FlagHighAmountPersonal,
		Severity: model.SeverityReviewRequired,
		Message:  fmt.Sprintf("non-deductible invoice over €%s: €%s", euros(HighPersonalAmountCents), euros(*c.AmountCents)),
		Context: map[string]any{
			"amount_cents":    *c.AmountCents,
			"threshold_cents": HighPersonalAmountCents,
		},
	}
}

// Check 2: a vendor we have never seen, immediately fully deductible and
// expensive.
func (d *Detector) checkFirstTimeHighAmount(c model.Classification, hist model.VendorHistory) *model.AnomalyFlag {
	if hist.InvoiceCount != 0 || c.Category != model.CategoryFull {
		return nil
	}
	if c.AmountCents == nil || *c.AmountCents <= FirstTimeHighAmountCents {
		return nil
	}
	return &model.AnomalyFlag{
		Type:     model.FlagFirstTimeHighAmount,
		Severity: model.SeverityWarning,
		Message:  fmt.Sprintf("first invoice from this vendor is fully deductible at €%s", euros(*c.AmountCents)),
		Context: map[string]any{
			"amount_cents":    *c.AmountCents,
			"threshold_cents": FirstTimeHighAmountCents,
		},
	}
}

// Check 3: an established vendor suddenly classified differently. Switches
// from or to "unclear" are routine and stay quiet.
func (d *Detector) checkCategoryChange(c model.Classification, hist model.VendorHistory) *model.AnomalyFlag {
	if hist.InvoiceCount < minHistoryForCategoryChange || hist.LastCategory == "" {
		return nil
	}
	if hist.LastCategory == c.Category {
		return nil
	}
	if hist.LastCategory == model.CategoryUnclear || c.Category == model.CategoryUnclear {
		return nil
	}
	return &model.AnomalyFlag{
		Type:     model.FlagCategoryChange,
		Severity: model.SeverityWarning,
		Message:  fmt.Sprintf("vendor was classified %q on %d prior invoices, now %q", hist.LastCategory, hist.InvoiceCount, c.Category),
		Context: map[string]any{
			"previous_category": string(hist.LastCategory),
			"current_category":  string(c.Category),
			"invoice_count":     hist.InvoiceCount,
		},
	}
}

// Check 4: recoverable VAT claimed against a vendor class that normally
// issues VAT-free invoices.
func (d *Detector) checkUnusualVAT(c model.Classification, senderDomain string) *model.AnomalyFlag {
	if !c.VATRecoverable {
		return nil
	}

	searchText := strings.ToLower(strings.TrimSpace(senderDomain + " " + c.VendorProduct))
	if searchText == "" {
		return nil
	}

	for _, pattern := range d.patterns {
		if pattern.compiledRegex.MatchString(searchText) {
			return &model.AnomalyFlag{
				Type:     model.FlagUnusualVAT,
				Severity: model.SeverityReviewRequired,
				Message:  fmt.Sprintf("VAT marked recoverable but vendor looks like %s", pattern.Name),
				Context: map[string]any{
					"pattern": pattern.Name,
				},
			}
		}
	}
	return nil
}

// Check 5: very large amounts that are exact multiples of €100 smell like
// estimates rather than real invoices.
func (d *Detector) checkRoundHighValue(c model.Classification) *model.AnomalyFlag {
	if c.AmountCents == nil || *c.AmountCents <= VeryHighAmountCents {
		return nil
	}
	if *c.AmountCents%RoundAmountStepCents != 0 {
		return nil
	}
	return &model.AnomalyFlag{
		Type:     model.FlagRoundAmountHighValue,
		Severity: model.SeverityWarning,
		Message:  fmt.Sprintf("suspiciously round high-value amount: €%s", euros(*c.AmountCents)),
		Context: map[string]any{
			"amount_cents": *c.AmountCents,
		},
	}
}

// euros formats cents as a two-decimal euro amount.
func euros(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
