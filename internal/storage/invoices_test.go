package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraxler/kraxler/internal/common"
	"github.com/kraxler/kraxler/internal/model"
	"github.com/kraxler/kraxler/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func day(t *testing.T, y int, m time.Month, d int) time.Time {
	t.Helper()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func testInvoice(t *testing.T, id string, date time.Time) *model.Invoice {
	t.Helper()
	return &model.Invoice{
		ID:            id,
		Account:       "acct-1",
		SenderDomain:  "hosting.example.com",
		InvoiceNumber: "R-" + id,
		Date:          date,
		AmountCents:   4_900,
		Category:      model.CategoryFull,
		Status:        model.StatusReviewed,
	}
}

func TestNewSQLiteStorageEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))

	version, err := store.currentSchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSaveAndGetInvoice(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	inv := testInvoice(t, "inv-1", day(t, 2024, time.March, 10))
	inv.VendorProduct = "VPS hosting"
	inv.VATRecoverable = true
	require.NoError(t, store.SaveInvoice(ctx, inv))

	got, err := store.GetInvoiceByID(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
	assert.Equal(t, inv.Account, got.Account)
	assert.Equal(t, inv.SenderDomain, got.SenderDomain)
	assert.Equal(t, inv.AmountCents, got.AmountCents)
	assert.Equal(t, model.CategoryFull, got.Category)
	assert.Equal(t, model.StatusReviewed, got.Status)
	assert.Equal(t, "VPS hosting", got.VendorProduct)
	assert.True(t, got.VATRecoverable)
	assert.True(t, inv.Date.Equal(got.Date))
}

func TestGetInvoiceByIDNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetInvoiceByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveInvoiceValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*model.Invoice)
		invoice *model.Invoice
	}{
		{name: "nil invoice"},
		{
			name:    "missing id",
			invoice: testInvoice(t, "x", day(t, 2024, time.January, 1)),
			mutate:  func(inv *model.Invoice) { inv.ID = "" },
		},
		{
			name:    "missing account",
			invoice: testInvoice(t, "x", day(t, 2024, time.January, 1)),
			mutate:  func(inv *model.Invoice) { inv.Account = "" },
		},
		{
			name:    "missing status",
			invoice: testInvoice(t, "x", day(t, 2024, time.January, 1)),
			mutate:  func(inv *model.Invoice) { inv.Status = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.invoice
			if tt.mutate != nil {
				tt.mutate(inv)
			}
			assert.Error(t, store.SaveInvoice(ctx, inv))
		})
	}
}

func TestListInvoices(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	dates := []time.Time{
		day(t, 2024, time.January, 15),
		day(t, 2024, time.February, 20),
		day(t, 2024, time.March, 25),
	}
	for i, d := range dates {
		inv := testInvoice(t, string(rune('a'+i)), d)
		if i == 2 {
			inv.Status = model.StatusSkipped
		}
		require.NoError(t, store.SaveInvoice(ctx, inv))
	}

	t.Run("no filter returns all ordered by date", func(t *testing.T) {
		got, err := store.ListInvoices(ctx, service.InvoiceFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "c", got[2].ID)
	})

	t.Run("date range filter", func(t *testing.T) {
		start := day(t, 2024, time.February, 1)
		end := day(t, 2024, time.February, 28)
		got, err := store.ListInvoices(ctx, service.InvoiceFilter{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := store.ListInvoices(ctx, service.InvoiceFilter{Statuses: model.QualifyingStatuses()})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := store.ListInvoices(ctx, service.InvoiceFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("account filter", func(t *testing.T) {
		got, err := store.ListInvoices(ctx, service.InvoiceFilter{Account: "acct-2"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestVendorAggregate(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	save := func(id string, date time.Time, category model.DeductibleCategory, status model.InvoiceStatus, amount int64) {
		inv := testInvoice(t, id, date)
		inv.Category = category
		inv.Status = status
		inv.AmountCents = amount
		require.NoError(t, store.SaveInvoice(ctx, inv))
	}

	save("1", day(t, 2024, time.January, 5), model.CategoryFull, model.StatusFiled, 10_000)
	save("2", day(t, 2024, time.February, 5), model.CategoryFull, model.StatusReviewed, 20_000)
	save("3", day(t, 2024, time.March, 5), model.CategoryPartial, model.StatusExtracted, 30_000)
	// Drafts and failures never count.
	save("4", day(t, 2024, time.April, 5), model.CategoryNone, model.StatusPending, 99_999)
	save("5", day(t, 2024, time.May, 5), model.CategoryNone, model.StatusError, 99_999)

	agg, err := store.VendorAggregate(ctx, service.VendorQuery{Account: "acct-1", SenderDomain: "hosting.example.com"})
	require.NoError(t, err)
	assert.Equal(t, 3, agg.InvoiceCount)
	assert.Equal(t, int64(60_000), agg.TotalAmountCents)
	assert.Equal(t, model.CategoryPartial, agg.LastCategory, "most recent qualifying record wins")

	t.Run("before restricts to strictly earlier invoices", func(t *testing.T) {
		before := day(t, 2024, time.March, 5)
		agg, err := store.VendorAggregate(ctx, service.VendorQuery{
			Account:      "acct-1",
			SenderDomain: "hosting.example.com",
			Before:       &before,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, agg.InvoiceCount, "same-day invoice must not count")
		assert.Equal(t, int64(30_000), agg.TotalAmountCents)
		assert.Equal(t, model.CategoryFull, agg.LastCategory)
	})

	t.Run("exclude id drops the invoice's own row", func(t *testing.T) {
		agg, err := store.VendorAggregate(ctx, service.VendorQuery{
			Account:      "acct-1",
			SenderDomain: "hosting.example.com",
			ExcludeID:    "3",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, agg.InvoiceCount)
		assert.Equal(t, model.CategoryFull, agg.LastCategory, "excluded row must not supply the last category")
	})
}

func TestVendorAggregateNoHistory(t *testing.T) {
	store := newTestStorage(t)

	agg, err := store.VendorAggregate(context.Background(), service.VendorQuery{Account: "acct-1", SenderDomain: "nobody.example.com"})
	require.NoError(t, err)
	assert.Zero(t, agg.InvoiceCount)
	assert.Zero(t, agg.TotalAmountCents)
	assert.Empty(t, agg.LastCategory)
}

func TestVendorAggregateScopedToAccount(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	inv := testInvoice(t, "other", day(t, 2024, time.January, 5))
	inv.Account = "acct-2"
	require.NoError(t, store.SaveInvoice(ctx, inv))

	agg, err := store.VendorAggregate(ctx, service.VendorQuery{Account: "acct-1", SenderDomain: "hosting.example.com"})
	require.NoError(t, err)
	assert.Zero(t, agg.InvoiceCount, "history must not leak across accounts")
}
