package locale

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"thousands and decimal comma", "1.234,56", "1234.56"},
		{"plain comma decimal", "228,00", "228"},
		{"balance with thousands", "5.728,00", "5728"},
		{"whitespace everywhere", " 1 234,5 ", "1234.5"},
		{"negative", "-50,25", "-50.25"},
		{"trailing currency", "100,00 €", "100"},
		{"float passthrough", 12.5, "12.5"},
		{"int passthrough", 7, "7"},
		{"decimal passthrough", decimal.RequireFromString("3.42"), "3.42"},
		{"empty", "", "0"},
		{"garbage", "abc", "0"},
		{"nil", nil, "0"},
		{"unsupported type", true, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.input)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseDate_EquivalentForms(t *testing.T) {
	want := civil.Date{Year: 2025, Month: time.September, Day: 1}

	for _, input := range []any{"01/09/2025", "1/9/2025", "2025-09-01", "01-09-2025", "1/9/25", " 01/09/2025 "} {
		got, ok := ParseDate(input)
		require.True(t, ok, "input %q should parse", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParseDate_NativeValues(t *testing.T) {
	want := civil.Date{Year: 2025, Month: time.September, Day: 1}

	got, ok := ParseDate(time.Date(2025, 9, 1, 15, 30, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, want, got)

	got, ok = ParseDate(want)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// 45901 is 2025-09-01 in spreadsheet serial days; the fraction is a time of day.
	got, ok = ParseDate(45901.75)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []any{"", "   ", "31/02/2025", "2025/13/01", "not a date", "01/09/2025 10:30", nil, time.Time{}, struct{}{}, 0.0, 0, -3.0} {
		_, ok := ParseDate(input)
		assert.False(t, ok, "input %v should not parse", input)
	}
}

func TestDominantMonth(t *testing.T) {
	d := func(y int, m time.Month, day int) civil.Date { return civil.Date{Year: y, Month: m, Day: day} }

	t.Run("most frequent wins", func(t *testing.T) {
		dates := []civil.Date{d(2025, 8, 31), d(2025, 9, 1), d(2025, 9, 2), d(2025, 9, 3)}
		assert.Equal(t, "2025-09", DominantMonth(dates))
	})

	t.Run("tie goes to first encountered", func(t *testing.T) {
		dates := []civil.Date{d(2025, 8, 30), d(2025, 9, 1), d(2025, 8, 31), d(2025, 9, 2)}
		assert.Equal(t, "2025-08", DominantMonth(dates))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", DominantMonth(nil))
	})
}

func TestFoldText(t *testing.T) {
	assert.Equal(t, "preco unitario", FoldText(" Preço Unitário "))
	assert.Equal(t, "descricao", FoldText("DESCRIÇÃO"))
	assert.Equal(t, "nº fatura", FoldText("Nº Fatura"))
}
