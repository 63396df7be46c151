package model

import "fmt"

// ValidationIssue is one structured finding from configuration validation.
// Field is an indexed path into the configuration (e.g. "situations[2].from")
// so every finding is traceable to the record that caused it.
type ValidationIssue struct {
	Field   string
	Code    string
	Message string
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s [%s]: %s", i.Field, i.Code, i.Message)
}
