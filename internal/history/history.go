// Package history computes vendor history aggregates over previously
// processed invoices. It is a thin façade over the injected store; nothing
// is cached, every call re-queries.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kraxler/kraxler/internal/model"
	"github.com/kraxler/kraxler/internal/service"
)

// ErrNilStore indicates the aggregator was constructed without a store.
var ErrNilStore = errors.New("store cannot be nil")

// Store is the narrow store capability the aggregator needs.
type Store interface {
	VendorAggregate(ctx context.Context, query service.VendorQuery) (*service.VendorAggregate, error)
}

// Aggregator resolves vendor histories from an injected store client. The
// store is supplied by the caller, so tests can run against an in-memory
// fake.
type Aggregator struct {
	store Store
}

// NewAggregator creates a vendor history aggregator backed by store.
func NewAggregator(store Store) (*Aggregator, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	return &Aggregator{store: store}, nil
}

// VendorHistory returns the history aggregate for one sender domain within
// one account. A blank sender domain yields the neutral zero history rather
// than an error, so checks downstream degrade instead of failing.
func (a *Aggregator) VendorHistory(ctx context.Context, account, senderDomain string) (model.VendorHistory, error) {
	return a.resolve(ctx, service.VendorQuery{Account: account, SenderDomain: senderDomain})
}

// PriorVendorHistory returns the history as it stood before the given
// invoice: only rows dated strictly earlier count, and the invoice's own
// row is excluded. This is the view to use when auditing an invoice that
// has already been persisted, otherwise it would appear in its own history.
func (a *Aggregator) PriorVendorHistory(ctx context.Context, account, senderDomain string, before time.Time, excludeID string) (model.VendorHistory, error) {
	return a.resolve(ctx, service.VendorQuery{
		Account:      account,
		SenderDomain: senderDomain,
		Before:       &before,
		ExcludeID:    excludeID,
	})
}

func (a *Aggregator) resolve(ctx context.Context, q service.VendorQuery) (model.VendorHistory, error) {
	if strings.TrimSpace(q.SenderDomain) == "" {
		return model.VendorHistory{}, nil
	}

	agg, err := a.store.VendorAggregate(ctx, q)
	if err != nil {
		return model.VendorHistory{}, fmt.Errorf("failed to query vendor aggregate: %w", err)
	}
	if agg == nil || agg.InvoiceCount == 0 {
		return model.VendorHistory{SenderDomain: q.SenderDomain}, nil
	}

	return model.VendorHistory{
		SenderDomain:       q.SenderDomain,
		InvoiceCount:       agg.InvoiceCount,
		LastCategory:       agg.LastCategory,
		TotalAmountCents:   agg.TotalAmountCents,
		AverageAmountCents: agg.TotalAmountCents / int64(agg.InvoiceCount),
	}, nil
}
