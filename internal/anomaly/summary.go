package anomaly

import "github.com/kraxler/kraxler/internal/model"

// Summary tallies anomaly flags across a batch of invoices, for end-of-run
// reporting.
type Summary struct {
	ByType              map[model.FlagType]int
	TotalWarnings       int
	TotalReviewRequired int
}

// Summarize reduces a flag list into per-type and per-severity counts. It is
// a pure reduction; an empty input yields all-zero counts.
func Summarize(flags []model.AnomalyFlag) Summary {
	s := Summary{ByType: make(map[model.FlagType]int)}
	for _, flag := range flags {
		s.ByType[flag.Type]++
		switch flag.Severity {
		case model.SeverityWarning:
			s.TotalWarnings++
		case model.SeverityReviewRequired:
			s.TotalReviewRequired++
		}
	}
	return s
}

// Total returns the overall number of flags in the summary.
func (s Summary) Total() int {
	return s.TotalWarnings + s.TotalReviewRequired
}
