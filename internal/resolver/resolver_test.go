package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraxler/kraxler/internal/dates"
	"github.com/kraxler/kraxler/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dates.Parse(s)
	require.NoError(t, err)
	return d
}

func datePtr(t *testing.T, s string) *time.Time {
	t.Helper()
	d := mustDate(t, s)
	return &d
}

func floatPtr(v float64) *float64 {
	return &v
}

// testConfig covers 2023 with an employment situation and 2024 onwards with a
// freelance one; consulting runs all of 2023-2024, app income only H1 2024.
func testConfig(t *testing.T) *model.Config {
	t.Helper()
	return &model.Config{
		Jurisdiction: "AT",
		Situations: []model.Situation{
			// Deliberately out of chronological order.
			{
				ID:              "freelance",
				From:            mustDate(t, "2024-01-01"),
				TelecomPercent:  60,
				InternetPercent: 80,
				VehiclePercent:  30,
			},
			{
				ID:              "employed",
				From:            mustDate(t, "2023-01-01"),
				To:              datePtr(t, "2023-12-31"),
				TelecomPercent:  20,
				InternetPercent: 25,
				VehiclePercent:  0,
			},
		},
		IncomeSources: []model.IncomeSource{
			{
				ID:        "consulting",
				Name:      "IT consulting",
				ValidFrom: mustDate(t, "2023-01-01"),
			},
			{
				ID:                     "app-sales",
				Name:                   "App store sales",
				ValidFrom:              mustDate(t, "2024-01-01"),
				ValidTo:                datePtr(t, "2024-06-30"),
				TelecomPercentOverride: floatPtr(0),
			},
		},
	}
}

func TestSituationForDate(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name   string
		date   string
		wantID string
	}{
		{name: "inside closed situation", date: "2023-06-15", wantID: "employed"},
		{name: "last day of closed situation", date: "2023-12-31", wantID: "employed"},
		{name: "first day of open situation", date: "2024-01-01", wantID: "freelance"},
		{name: "far future in open situation", date: "2030-05-01", wantID: "freelance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SituationForDate(cfg, mustDate(t, tt.date))
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}

	t.Run("before any situation", func(t *testing.T) {
		assert.Nil(t, SituationForDate(cfg, mustDate(t, "2022-12-31")))
	})
}

func TestSituationForDateCoversWholeSpan(t *testing.T) {
	cfg := testConfig(t)

	// Every date across the boundary between the two situations resolves to
	// exactly one of them.
	for d := mustDate(t, "2023-12-20"); !d.After(mustDate(t, "2024-01-10")); d = dates.NextDay(d) {
		got := SituationForDate(cfg, d)
		require.NotNil(t, got, "no situation for %s", dates.Format(d))
		if d.Before(mustDate(t, "2024-01-01")) {
			assert.Equal(t, "employed", got.ID, "date %s", dates.Format(d))
		} else {
			assert.Equal(t, "freelance", got.ID, "date %s", dates.Format(d))
		}
	}
}

func TestActiveIncomeSources(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name    string
		date    string
		wantIDs []string
	}{
		{name: "single source", date: "2023-06-15", wantIDs: []string{"consulting"}},
		{name: "two concurrent sources", date: "2024-03-01", wantIDs: []string{"consulting", "app-sales"}},
		{name: "second source expired", date: "2024-07-01", wantIDs: []string{"consulting"}},
		{name: "none active", date: "2022-01-01", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveIncomeSources(cfg, mustDate(t, tt.date))
			var ids []string
			for _, src := range got {
				ids = append(ids, src.ID)
			}
			assert.Equal(t, tt.wantIDs, ids, "configuration order must be preserved")
		})
	}
}

func TestIncomeSourceByID(t *testing.T) {
	cfg := testConfig(t)

	src := IncomeSourceByID(cfg, "app-sales")
	require.NotNil(t, src)
	assert.Equal(t, "App store sales", src.Name)

	assert.Nil(t, IncomeSourceByID(cfg, "missing"))
}

func TestBuildInvoiceContext(t *testing.T) {
	cfg := testConfig(t)

	t.Run("covered date", func(t *testing.T) {
		ictx, err := BuildInvoiceContext(cfg, "2024-02-10")
		require.NoError(t, err)
		require.NotNil(t, ictx.Situation)
		assert.Equal(t, "freelance", ictx.Situation.ID)
		assert.Equal(t, "AT", ictx.Jurisdiction)
		assert.False(t, ictx.HasGap)
		assert.Len(t, ictx.ActiveSources, 2)
	})

	t.Run("gap date", func(t *testing.T) {
		ictx, err := BuildInvoiceContext(cfg, "2022-05-01")
		require.NoError(t, err)
		assert.Nil(t, ictx.Situation)
		assert.True(t, ictx.HasGap)
		assert.Empty(t, ictx.ActiveSources)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := BuildInvoiceContext(cfg, "2024-02-30")
		require.Error(t, err)
		assert.ErrorIs(t, err, dates.ErrInvalidDate)
	})
}

func TestEffectivePercentOverridePrecedence(t *testing.T) {
	situation := &model.Situation{
		ID:              "freelance",
		TelecomPercent:  60,
		InternetPercent: 80,
		VehiclePercent:  30,
	}

	t.Run("zero override beats situation default", func(t *testing.T) {
		src := &model.IncomeSource{ID: "app-sales", TelecomPercentOverride: floatPtr(0)}
		assert.Equal(t, 0.0, EffectiveTelecomPercent(situation, src))
	})

	t.Run("nil override inherits", func(t *testing.T) {
		src := &model.IncomeSource{ID: "consulting"}
		assert.Equal(t, 60.0, EffectiveTelecomPercent(situation, src))
		assert.Equal(t, 80.0, EffectiveInternetPercent(situation, src))
		assert.Equal(t, 30.0, EffectiveVehiclePercent(situation, src))
	})

	t.Run("non-zero override wins", func(t *testing.T) {
		src := &model.IncomeSource{
			ID:                      "consulting",
			InternetPercentOverride: floatPtr(45),
			VehiclePercentOverride:  floatPtr(100),
		}
		assert.Equal(t, 45.0, EffectiveInternetPercent(situation, src))
		assert.Equal(t, 100.0, EffectiveVehiclePercent(situation, src))
	})

	t.Run("nil source uses situation", func(t *testing.T) {
		assert.Equal(t, 60.0, EffectiveTelecomPercent(situation, nil))
	})

	t.Run("nil situation and nil override yields zero", func(t *testing.T) {
		src := &model.IncomeSource{ID: "consulting"}
		assert.Equal(t, 0.0, EffectiveTelecomPercent(nil, src))
	})
}
