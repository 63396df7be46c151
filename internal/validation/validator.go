// Package validation checks a tax configuration for structural and
// cross-cutting problems: jurisdiction rule violations, dangling references,
// overlapping situations and coverage gaps. Validation is total: every
// independent check runs and all findings are aggregated, so a user can fix
// everything in one pass. Only an unknown jurisdiction short-circuits,
// because no structural check is meaningful without known rules.
package validation

import (
	"fmt"
	"sort"

	"github.com/kraxler/kraxler/internal/dates"
	"github.com/kraxler/kraxler/internal/jurisdiction"
	"github.com/kraxler/kraxler/internal/model"
)

// Issue codes emitted by the cross-cutting checks.
const (
	CodeInvalidJurisdiction = "INVALID_JURISDICTION"
	CodeInvalidSourceID     = "INVALID_SOURCE_ID"
	CodeSituationOverlap    = "SITUATION_OVERLAP"
	CodeSituationGap        = "SITUATION_GAP"
	CodeDuplicateStartDate  = "DUPLICATE_START_DATE"
)

// Report is the aggregated outcome of validating one configuration. Errors
// and warnings are independent channels: warnings never affect Valid.
type Report struct {
	Errors   []model.ValidationIssue
	Warnings []model.ValidationIssue
	Valid    bool
}

// ValidateConfig runs every configuration check and returns the full report.
func ValidateConfig(cfg *model.Config) Report {
	rules, err := jurisdiction.Lookup(cfg.Jurisdiction)
	if err != nil {
		return Report{
			Errors: []model.ValidationIssue{{
				Field:   "jurisdiction",
				Code:    CodeInvalidJurisdiction,
				Message: fmt.Sprintf("no rules registered for jurisdiction %q", cfg.Jurisdiction),
			}},
		}
	}

	var errs, warns []model.ValidationIssue

	errs = append(errs, structuralIssues(cfg, rules)...)
	errs = append(errs, allocationReferenceIssues(cfg)...)

	overlapErrs, overlapWarns := situationIntervalIssues(cfg.Situations)
	errs = append(errs, overlapErrs...)
	warns = append(warns, overlapWarns...)

	errs = append(errs, categoryDefaultIssues(cfg)...)

	return Report{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

// structuralIssues delegates per-record validation to the jurisdiction rules
// and prefixes each finding with the indexed configuration path.
func structuralIssues(cfg *model.Config, rules jurisdiction.Rules) []model.ValidationIssue {
	var issues []model.ValidationIssue

	for i, s := range cfg.Situations {
		for _, issue := range rules.ValidateSituation(s) {
			issue.Field = fmt.Sprintf("situations[%d].%s", i, issue.Field)
			issues = append(issues, issue)
		}
	}

	for i, src := range cfg.IncomeSources {
		for _, issue := range rules.ValidateIncomeSource(src) {
			issue.Field = fmt.Sprintf("incomeSources[%d].%s", i, issue.Field)
			issues = append(issues, issue)
		}
	}

	for i, rule := range cfg.AllocationRules {
		for _, issue := range rules.ValidateAllocations(rule.Allocations) {
			issue.Field = fmt.Sprintf("allocationRules[%d].%s", i, issue.Field)
			issues = append(issues, issue)
		}
	}

	return issues
}

// allocationReferenceIssues verifies that every allocation points at a
// configured income source.
func allocationReferenceIssues(cfg *model.Config) []model.ValidationIssue {
	ids := sourceIDSet(cfg)

	var issues []model.ValidationIssue
	for i, rule := range cfg.AllocationRules {
		for j, alloc := range rule.Allocations {
			if _, ok := ids[alloc.SourceID]; !ok {
				issues = append(issues, model.ValidationIssue{
					Field:   fmt.Sprintf("allocationRules[%d].allocations[%d].sourceId", i, j),
					Code:    CodeInvalidSourceID,
					Message: fmt.Sprintf("allocation references unknown income source %q", alloc.SourceID),
				})
			}
		}
	}
	return issues
}

// indexedSituation keeps the configuration index alongside the record so
// findings stay traceable after sorting.
type indexedSituation struct {
	situation model.Situation
	index     int
}

// situationIntervalIssues runs overlap detection (errors) and gap detection
// (warnings) over the situations, sorted by start date. The sort is stable:
// two situations sharing a start date keep their configuration order, and
// that condition itself is reported as a data-quality warning.
func situationIntervalIssues(situations []model.Situation) (errs, warns []model.ValidationIssue) {
	sorted := make([]indexedSituation, len(situations))
	for i, s := range situations {
		sorted[i] = indexedSituation{situation: s, index: i}
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].situation.From.Before(sorted[b].situation.From)
	})

	for i := 0; i < len(sorted)-1; i++ {
		cur := sorted[i]
		next := sorted[i+1]

		if cur.situation.From.Equal(next.situation.From) {
			warns = append(warns, model.ValidationIssue{
				Field:   fmt.Sprintf("situations[%d].from", next.index),
				Code:    CodeDuplicateStartDate,
				Message: fmt.Sprintf("situations %q and %q start on the same day", cur.situation.ID, next.situation.ID),
			})
		}

		switch {
		case cur.situation.Open():
			// An open-ended situation must be the most recent; anything
			// starting after it necessarily overlaps.
			errs = append(errs, model.ValidationIssue{
				Field:   fmt.Sprintf("situations[%d]", cur.index),
				Code:    CodeSituationOverlap,
				Message: fmt.Sprintf("open-ended situation %q overlaps %q starting %s", cur.situation.ID, next.situation.ID, dates.Format(next.situation.From)),
			})
		case !cur.situation.To.Before(next.situation.From):
			errs = append(errs, model.ValidationIssue{
				Field:   fmt.Sprintf("situations[%d]", cur.index),
				Code:    CodeSituationOverlap,
				Message: fmt.Sprintf("situation %q (until %s) overlaps %q starting %s", cur.situation.ID, dates.Format(*cur.situation.To), next.situation.ID, dates.Format(next.situation.From)),
			})
		default:
			gapStart := dates.NextDay(*cur.situation.To)
			if gapStart.Before(next.situation.From) {
				gapEnd := dates.PrevDay(next.situation.From)
				warns = append(warns, model.ValidationIssue{
					Field:   fmt.Sprintf("situations[%d]", cur.index),
					Code:    CodeSituationGap,
					Message: fmt.Sprintf("no situation covers %s to %s", dates.Format(gapStart), dates.Format(gapEnd)),
				})
			}
		}
	}

	return errs, warns
}

// categoryDefaultIssues verifies that every category default points at a
// configured income source.
func categoryDefaultIssues(cfg *model.Config) []model.ValidationIssue {
	ids := sourceIDSet(cfg)

	categories := make([]model.DeductibleCategory, 0, len(cfg.CategoryDefaults))
	for cat := range cfg.CategoryDefaults {
		categories = append(categories, cat)
	}
	// Deterministic report order regardless of map iteration.
	sort.Slice(categories, func(a, b int) bool { return categories[a] < categories[b] })

	var issues []model.ValidationIssue
	for _, cat := range categories {
		srcID := cfg.CategoryDefaults[cat]
		if _, ok := ids[srcID]; !ok {
			issues = append(issues, model.ValidationIssue{
				Field:   fmt.Sprintf("categoryDefaults.%s", cat),
				Code:    CodeInvalidSourceID,
				Message: fmt.Sprintf("category default references unknown income source %q", srcID),
			})
		}
	}
	return issues
}

func sourceIDSet(cfg *model.Config) map[string]struct{} {
	ids := make(map[string]struct{}, len(cfg.IncomeSources))
	for _, src := range cfg.IncomeSources {
		ids[src.ID] = struct{}{}
	}
	return ids
}
