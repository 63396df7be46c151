package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kraxler/kraxler/internal/common"
	"github.com/kraxler/kraxler/internal/model"
	"github.com/kraxler/kraxler/internal/service"
)

// SaveInvoice inserts or replaces an invoice record.
func (s *SQLiteStorage) SaveInvoice(ctx context.Context, inv *model.Invoice) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateInvoice(inv); err != nil {
		return err
	}

	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO invoices
			(id, account, sender_domain, invoice_number, invoice_date,
			 amount_cents, category, status, vendor_product, vat_recoverable, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		inv.ID,
		inv.Account,
		inv.SenderDomain,
		inv.InvoiceNumber,
		inv.Date,
		inv.AmountCents,
		string(inv.Category),
		string(inv.Status),
		inv.VendorProduct,
		inv.VATRecoverable,
		inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// GetInvoiceByID retrieves one invoice. Returns common.ErrNotFound when absent.
func (s *SQLiteStorage) GetInvoiceByID(ctx context.Context, id string) (*model.Invoice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, account, sender_domain, invoice_number, invoice_date,
		       amount_cents, category, status, vendor_product, vat_recoverable, created_at
		FROM invoices
		WHERE id = ?
	`, id)

	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invoice %q: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// ListInvoices returns invoices matching the filter, ordered by invoice date
// ascending.
func (s *SQLiteStorage) ListInvoices(ctx context.Context, filter service.InvoiceFilter) ([]model.Invoice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, account, sender_domain, invoice_number, invoice_date,
		       amount_cents, category, status, vendor_product, vat_recoverable, created_at
		FROM invoices
		WHERE 1=1`
	var args []any

	if filter.Account != "" {
		query += ` AND account = ?`
		args = append(args, filter.Account)
	}
	if filter.StartDate != nil {
		query += ` AND invoice_date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND invoice_date <= ?`
		args = append(args, *filter.EndDate)
	}
	if len(filter.Statuses) > 0 {
		query += ` AND status IN (` + placeholders(len(filter.Statuses)) + `)`
		for _, status := range filter.Statuses {
			args = append(args, string(status))
		}
	}

	query += ` ORDER BY invoice_date ASC, created_at ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var invoices []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	return invoices, nil
}

// VendorAggregate computes the history aggregate for one sender domain
// within one account: count and amount sum across qualifying statuses plus
// the most recently assigned category. The query's Before and ExcludeID
// fields narrow the window, so an already persisted invoice can be audited
// against only the rows that preceded it. No matching rows yield the zero
// aggregate, not an error.
func (s *SQLiteStorage) VendorAggregate(ctx context.Context, query service.VendorQuery) (*service.VendorAggregate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(query.Account, "account"); err != nil {
		return nil, err
	}
	if err := validateString(query.SenderDomain, "senderDomain"); err != nil {
		return nil, err
	}

	where := `WHERE account = ? AND sender_domain = ?`
	args := []any{query.Account, query.SenderDomain}

	statuses := model.QualifyingStatuses()
	where += ` AND status IN (` + placeholders(len(statuses)) + `)`
	for _, status := range statuses {
		args = append(args, string(status))
	}

	if query.Before != nil {
		where += ` AND invoice_date < ?`
		args = append(args, *query.Before)
	}
	if query.ExcludeID != "" {
		where += ` AND id != ?`
		args = append(args, query.ExcludeID)
	}

	agg := &service.VendorAggregate{}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount_cents), 0)
		FROM invoices `+where,
		args...).Scan(&agg.InvoiceCount, &agg.TotalAmountCents)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate vendor history: %w", err)
	}

	if agg.InvoiceCount == 0 {
		return agg, nil
	}

	var category string
	err = s.db.QueryRowContext(ctx, `
		SELECT category
		FROM invoices `+where+`
		ORDER BY invoice_date DESC, created_at DESC
		LIMIT 1
	`, args...).Scan(&category)
	if err != nil {
		return nil, fmt.Errorf("failed to get last vendor category: %w", err)
	}
	agg.LastCategory = model.DeductibleCategory(category)

	return agg, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(sc scanner) (*model.Invoice, error) {
	var inv model.Invoice
	var category, status string
	if err := sc.Scan(
		&inv.ID,
		&inv.Account,
		&inv.SenderDomain,
		&inv.InvoiceNumber,
		&inv.Date,
		&inv.AmountCents,
		&category,
		&status,
		&inv.VendorProduct,
		&inv.VATRecoverable,
		&inv.CreatedAt,
	); err != nil {
		return nil, err
	}
	inv.Category = model.DeductibleCategory(category)
	inv.Status = model.InvoiceStatus(status)
	return &inv, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
