package anomaly_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraxler/kraxler/internal/anomaly"
	"github.com/kraxler/kraxler/internal/history"
	"github.com/kraxler/kraxler/internal/model"
	"github.com/kraxler/kraxler/internal/storage"
)

// Wires the real SQLite store through the history aggregator into the
// detector, the same way the check command does.
func TestDetectorAgainstSQLiteHistory(t *testing.T) {
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "anomaly.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	for i, inv := range []model.Invoice{
		{ID: "1", Category: model.CategoryFull, Status: model.StatusFiled, AmountCents: 4_900},
		{ID: "2", Category: model.CategoryFull, Status: model.StatusFiled, AmountCents: 4_900},
		{ID: "3", Category: model.CategoryFull, Status: model.StatusReviewed, AmountCents: 4_900},
	} {
		inv.Account = "acct-1"
		inv.SenderDomain = "hosting.example.com"
		inv.Date = time.Date(2024, time.January, 1+i, 0, 0, 0, 0, time.Local)
		require.NoError(t, store.SaveInvoice(ctx, &inv))
	}

	aggregator, err := history.NewAggregator(store)
	require.NoError(t, err)
	detector, err := anomaly.NewDetector(aggregator)
	require.NoError(t, err)

	amount := int64(4_900)
	c := model.Classification{Category: model.CategoryNone, AmountCents: &amount}

	result, err := detector.Check(ctx, c, "acct-1", "hosting.example.com")
	require.NoError(t, err)

	require.Len(t, result.Flags, 1)
	assert.Equal(t, model.FlagCategoryChange, result.Flags[0].Type)
	assert.False(t, result.RequiresReview)

	// Same classification from an unknown vendor has no history to contradict.
	result, err = detector.Check(ctx, c, "acct-1", "new.example.com")
	require.NoError(t, err)
	assert.Empty(t, result.Flags)
}

// Audits a stored invoice the way the check command does: the invoice's own
// row is already in the store, so its history must be scoped to the rows
// that preceded it or a first-ever invoice would never read as first-ever.
func TestAuditStoredInvoiceUsesPriorHistory(t *testing.T) {
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	inv := model.Invoice{
		ID:           "first",
		Account:      "acct-1",
		SenderDomain: "brandnew.example.com",
		Date:         time.Date(2024, time.May, 2, 0, 0, 0, 0, time.Local),
		AmountCents:  60_000,
		Category:     model.CategoryFull,
		Status:       model.StatusFiled,
	}
	require.NoError(t, store.SaveInvoice(ctx, &inv))

	aggregator, err := history.NewAggregator(store)
	require.NoError(t, err)
	detector, err := anomaly.NewDetector(aggregator)
	require.NoError(t, err)

	amount := inv.AmountCents
	c := model.Classification{Category: inv.Category, AmountCents: &amount}

	hist, err := aggregator.PriorVendorHistory(ctx, inv.Account, inv.SenderDomain, inv.Date, inv.ID)
	require.NoError(t, err)
	assert.False(t, hist.HasHistory(), "the invoice under audit is not its own history")

	result := detector.CheckWithHistory(c, inv.SenderDomain, hist)
	require.Len(t, result.Flags, 1)
	assert.Equal(t, model.FlagFirstTimeHighAmount, result.Flags[0].Type)

	// An unscoped lookup would count the row and silence the flag.
	unscoped, err := detector.Check(ctx, c, inv.Account, inv.SenderDomain)
	require.NoError(t, err)
	assert.Empty(t, unscoped.Flags)
}
