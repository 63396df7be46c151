package jurisdiction

import (
	"fmt"

	"github.com/kraxler/kraxler/internal/model"
)

func init() {
	Register("DE", germanyRules{})
}

// flatRateCapPercent is the maximum telecom/internet business-use share
// accepted without itemized usage records under the German flat-rate rule.
const flatRateCapPercent = 50

// germanyRules applies the common structural checks plus the German
// flat-rate cap on telecom and internet percentages.
type germanyRules struct{}

func (germanyRules) ValidateSituation(s model.Situation) []model.ValidationIssue {
	issues := validateSituationCommon(s)
	issues = append(issues, validateFlatRateCap("telecomPercent", s.TelecomPercent)...)
	issues = append(issues, validateFlatRateCap("internetPercent", s.InternetPercent)...)
	return issues
}

func (germanyRules) ValidateIncomeSource(src model.IncomeSource) []model.ValidationIssue {
	issues := validateIncomeSourceCommon(src)
	if src.TelecomPercentOverride != nil {
		issues = append(issues, validateFlatRateCap("telecomPercentOverride", *src.TelecomPercentOverride)...)
	}
	if src.InternetPercentOverride != nil {
		issues = append(issues, validateFlatRateCap("internetPercentOverride", *src.InternetPercentOverride)...)
	}
	return issues
}

func (germanyRules) ValidateAllocations(allocs []model.Allocation) []model.ValidationIssue {
	return validateAllocationsCommon(allocs)
}

func validateFlatRateCap(field string, value float64) []model.ValidationIssue {
	if value > flatRateCapPercent && value <= 100 {
		return []model.ValidationIssue{{
			Field:   field,
			Code:    CodeFlatRateExceeded,
			Message: fmt.Sprintf("percentage %.2f exceeds the %d%% flat-rate cap", value, flatRateCapPercent),
		}}
	}
	return nil
}
