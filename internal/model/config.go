package model

// Allocation assigns a share of a rule's scope to one income source.
type Allocation struct {
	SourceID string
	Percent  float64
}

// AllocationRule maps a named scope (a deduction bucket such as "office" or
// "vehicle") to weighted allocations across income sources. Every referenced
// source id must exist among the configured income sources.
type AllocationRule struct {
	Scope       string
	Allocations []Allocation
}

// Config is the aggregate root of the externally authored tax configuration:
// the jurisdiction, all situations and income sources with their validity
// intervals, allocation rules, and per-category default income sources. It is
// owned by the caller and treated as read-only by every function in this
// module.
type Config struct {
	CategoryDefaults map[DeductibleCategory]string
	Jurisdiction     string
	Situations       []Situation
	IncomeSources    []IncomeSource
	AllocationRules  []AllocationRule
}
