package jurisdiction

import (
	"fmt"
	"math"
	"strings"

	"github.com/kraxler/kraxler/internal/model"
)

func init() {
	Register("AT", austriaRules{})
}

// austriaRules validates configurations against Austrian structural rules:
// ids and start dates are required, intervals must be ordered, business-use
// percentages stay within [0, 100], and each allocation rule's weights must
// total exactly 100.
type austriaRules struct{}

func (austriaRules) ValidateSituation(s model.Situation) []model.ValidationIssue {
	return validateSituationCommon(s)
}

func (austriaRules) ValidateIncomeSource(src model.IncomeSource) []model.ValidationIssue {
	return validateIncomeSourceCommon(src)
}

func (austriaRules) ValidateAllocations(allocs []model.Allocation) []model.ValidationIssue {
	return validateAllocationsCommon(allocs)
}

func validateSituationCommon(s model.Situation) []model.ValidationIssue {
	var issues []model.ValidationIssue

	if strings.TrimSpace(s.ID) == "" {
		issues = append(issues, model.ValidationIssue{
			Field:   "id",
			Code:    CodeMissingID,
			Message: "situation id is required",
		})
	}
	if s.From.IsZero() {
		issues = append(issues, model.ValidationIssue{
			Field:   "from",
			Code:    CodeMissingStart,
			Message: "situation start date is required",
		})
	}
	if s.To != nil && s.To.Before(s.From) {
		issues = append(issues, model.ValidationIssue{
			Field:   "to",
			Code:    CodeInvalidRange,
			Message: "situation ends before it starts",
		})
	}

	issues = append(issues, validatePercent("telecomPercent", s.TelecomPercent)...)
	issues = append(issues, validatePercent("internetPercent", s.InternetPercent)...)
	issues = append(issues, validatePercent("vehiclePercent", s.VehiclePercent)...)

	return issues
}

func validateIncomeSourceCommon(src model.IncomeSource) []model.ValidationIssue {
	var issues []model.ValidationIssue

	if strings.TrimSpace(src.ID) == "" {
		issues = append(issues, model.ValidationIssue{
			Field:   "id",
			Code:    CodeMissingID,
			Message: "income source id is required",
		})
	}
	if src.ValidFrom.IsZero() {
		issues = append(issues, model.ValidationIssue{
			Field:   "validFrom",
			Code:    CodeMissingStart,
			Message: "income source start date is required",
		})
	}
	if src.ValidTo != nil && src.ValidTo.Before(src.ValidFrom) {
		issues = append(issues, model.ValidationIssue{
			Field:   "validTo",
			Code:    CodeInvalidRange,
			Message: "income source ends before it starts",
		})
	}

	issues = append(issues, validateOverride("telecomPercentOverride", src.TelecomPercentOverride)...)
	issues = append(issues, validateOverride("internetPercentOverride", src.InternetPercentOverride)...)
	issues = append(issues, validateOverride("vehiclePercentOverride", src.VehiclePercentOverride)...)

	return issues
}

func validateAllocationsCommon(allocs []model.Allocation) []model.ValidationIssue {
	var issues []model.ValidationIssue
	var sum float64

	for i, a := range allocs {
		if a.Percent < 0 || a.Percent > 100 {
			issues = append(issues, model.ValidationIssue{
				Field:   fmt.Sprintf("allocations[%d].percent", i),
				Code:    CodeInvalidWeight,
				Message: fmt.Sprintf("allocation weight %.2f is outside [0, 100]", a.Percent),
			})
		}
		sum += a.Percent
	}

	// Weights must cover the whole scope. Tolerate float noise only.
	if len(allocs) > 0 && math.Abs(sum-100) > 1e-9 {
		issues = append(issues, model.ValidationIssue{
			Field:   "allocations",
			Code:    CodeAllocationSum,
			Message: fmt.Sprintf("allocation weights total %.2f, expected 100", sum),
		})
	}

	return issues
}

func validatePercent(field string, value float64) []model.ValidationIssue {
	if value < 0 || value > 100 {
		return []model.ValidationIssue{{
			Field:   field,
			Code:    CodeInvalidPercent,
			Message: fmt.Sprintf("percentage %.2f is outside [0, 100]", value),
		}}
	}
	return nil
}

func validateOverride(field string, value *float64) []model.ValidationIssue {
	if value == nil {
		return nil
	}
	return validatePercent(field, *value)
}
