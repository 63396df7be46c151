// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/kraxler/kraxler/internal/model"
)

// InvoiceFilter defines filtering options for invoice queries.
type InvoiceFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Account   string
	Statuses  []model.InvoiceStatus
	Limit     int
}

// VendorQuery scopes a vendor history aggregate. Account and SenderDomain
// are required. Before, when set, restricts the aggregate to invoices dated
// strictly earlier; ExcludeID drops one invoice, so that an already
// persisted invoice is never counted as part of its own history.
type VendorQuery struct {
	Account      string
	SenderDomain string
	Before       *time.Time
	ExcludeID    string
}

// VendorAggregate is the raw store-side aggregate over qualifying invoices
// for one sender domain within one account. A sender with no qualifying rows
// yields the zero value, never an error.
type VendorAggregate struct {
	LastCategory     model.DeductibleCategory
	InvoiceCount     int
	TotalAmountCents int64
}

// Storage defines the contract for the invoice persistence layer.
type Storage interface {
	// Invoice operations
	SaveInvoice(ctx context.Context, invoice *model.Invoice) error
	GetInvoiceByID(ctx context.Context, id string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, error)

	// Vendor history aggregate: most recent qualifying category plus
	// count and sum of amounts, restricted to committed statuses.
	VendorAggregate(ctx context.Context, query VendorQuery) (*VendorAggregate, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
