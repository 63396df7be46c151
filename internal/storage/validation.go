package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kraxler/kraxler/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidInvoice = errors.New("invalid invoice")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateInvoice validates a single invoice record before persistence.
func validateInvoice(inv *model.Invoice) error {
	if inv == nil {
		return fmt.Errorf("%w: invoice", ErrNilParameter)
	}
	if inv.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidInvoice)
	}
	if inv.Account == "" {
		return fmt.Errorf("%w: missing account", ErrInvalidInvoice)
	}
	if inv.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidInvoice)
	}
	if inv.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidInvoice)
	}
	if inv.Status == "" {
		return fmt.Errorf("%w: missing status", ErrInvalidInvoice)
	}
	return nil
}
