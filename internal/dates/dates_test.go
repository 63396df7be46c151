package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "regular date",
			input: "2024-03-15",
			want:  time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "first of january",
			input: "2024-01-01",
			want:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "leap day in leap year",
			input: "2024-02-29",
			want:  time.Date(2024, time.February, 29, 0, 0, 0, 0, time.Local),
		},
		{
			name:    "leap day in non-leap year",
			input:   "2023-02-29",
			wantErr: true,
		},
		{
			name:    "day rolls past month end",
			input:   "2024-02-30",
			wantErr: true,
		},
		{
			name:    "thirty-first of april",
			input:   "2024-04-31",
			wantErr: true,
		},
		{
			name:    "month zero",
			input:   "2024-00-10",
			wantErr: true,
		},
		{
			name:    "month thirteen",
			input:   "2024-13-10",
			wantErr: true,
		},
		{
			name:    "day zero",
			input:   "2024-06-00",
			wantErr: true,
		},
		{
			name:    "missing parts",
			input:   "2024-06",
			wantErr: true,
		},
		{
			name:    "too many parts",
			input:   "2024-06-01-02",
			wantErr: true,
		},
		{
			name:    "unpadded month",
			input:   "2024-6-01",
			wantErr: true,
		},
		{
			name:    "non-numeric day",
			input:   "2024-06-xx",
			wantErr: true,
		},
		{
			name:    "signed month",
			input:   "2024-+6-15",
			wantErr: true,
		},
		{
			name:    "signed day",
			input:   "2024-06-+5",
			wantErr: true,
		},
		{
			name:    "signed year",
			input:   "+024-06-15",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"2024-01-01",
		"2024-02-29",
		"2024-12-31",
		"1999-07-04",
		"2030-10-09",
	}
	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			d, err := Parse(s)
			require.NoError(t, err)
			assert.Equal(t, s, Format(d))
		})
	}
}

func TestFormatZeroPadding(t *testing.T) {
	d := time.Date(987, time.March, 5, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "0987-03-05", Format(d))
}

func TestInRange(t *testing.T) {
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		date time.Time
		to   *time.Time
		want bool
	}{
		{name: "before range", date: from.AddDate(0, 0, -1), to: &to, want: false},
		{name: "start inclusive", date: from, to: &to, want: true},
		{name: "inside range", date: from.AddDate(0, 1, 0), to: &to, want: true},
		{name: "end inclusive", date: to, to: &to, want: true},
		{name: "after range", date: to.AddDate(0, 0, 1), to: &to, want: false},
		{name: "open end far future", date: to.AddDate(10, 0, 0), to: nil, want: true},
		{name: "open end before start", date: from.AddDate(-1, 0, 0), to: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InRange(tt.date, from, tt.to))
		})
	}
}

func TestNextPrevDay(t *testing.T) {
	d, err := Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", Format(NextDay(d)))
	assert.Equal(t, "2024-02-28", Format(PrevDay(d)))
}
