// Package jurisdiction provides pluggable per-country validation rules for
// tax configurations. Rule sets register themselves by jurisdiction id, the
// same way database/sql drivers do; the validator core never branches on a
// jurisdiction name.
package jurisdiction

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kraxler/kraxler/internal/model"
)

// ErrUnknownJurisdiction indicates a jurisdiction id with no registered rules.
var ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

// Issue codes emitted by jurisdiction rule sets.
const (
	CodeMissingID        = "MISSING_ID"
	CodeMissingStart     = "MISSING_START"
	CodeInvalidRange     = "INVALID_RANGE"
	CodeInvalidPercent   = "INVALID_PERCENT"
	CodeInvalidWeight    = "INVALID_WEIGHT"
	CodeAllocationSum    = "ALLOCATION_SUM"
	CodeFlatRateExceeded = "FLAT_RATE_EXCEEDED"
)

// Rules is the capability interface a jurisdiction exposes for structural
// validation of configuration records. Returned issue fields are relative to
// the record being validated; the caller prefixes the indexed path.
type Rules interface {
	ValidateSituation(s model.Situation) []model.ValidationIssue
	ValidateIncomeSource(src model.IncomeSource) []model.ValidationIssue
	ValidateAllocations(allocs []model.Allocation) []model.ValidationIssue
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Rules)
)

// Register makes a rule set available under the given jurisdiction id.
// Registering the same id twice panics, matching driver registry conventions.
func Register(id string, rules Rules) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if rules == nil {
		panic("jurisdiction: Register rules is nil")
	}
	if _, dup := registry[id]; dup {
		panic("jurisdiction: Register called twice for " + id)
	}
	registry[id] = rules
}

// Lookup resolves the rule set for a jurisdiction id.
func Lookup(id string) (Rules, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	rules, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJurisdiction, id)
	}
	return rules, nil
}

// Registered returns the ids of all registered jurisdictions.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	return ids
}
