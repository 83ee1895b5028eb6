package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAttended(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
		ok   bool
	}{
		{"составная строка статуса", "P-12/E-1/L-0/MCR-0/R-0/Total-13", 13, true},
		{"чистое число", "7", 7, true},
		{"чистое число с пробелами", "  15 ", 15, true},
		{"маркер без числа", "Total-", 0, false},
		{"пустая строка", "", 0, false},
		{"ноль вне диапазона", "0", 0, false},
		{"выше диапазона", "51", 0, false},
		{"нечисловой текст", "N/A", 0, false},
		{"ноль после маркера принимается", "P-0/Total-0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAttended(tt.text)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPickConductedLastVisibleWins(t *testing.T) {
	// Повторные раскрытия оставляют скрытые устаревшие дубликаты в начале
	cands := []candidate{
		{text: "10", visible: false},
		{text: "25", visible: false},
		{text: "12", visible: true},
	}

	n, ok := pickConducted(cands)
	require.True(t, ok)
	require.Equal(t, 12, n)
}

func TestPickConductedSkipsOutOfRangeVisible(t *testing.T) {
	cands := []candidate{
		{text: "8", visible: true},
		{text: "99", visible: true},
	}

	n, ok := pickConducted(cands)
	require.True(t, ok)
	require.Equal(t, 8, n)
}

func TestPickConductedFallbackIgnoresRange(t *testing.T) {
	// Видимых нет: последний элемент разбирается без проверки диапазона
	cands := []candidate{
		{text: "12", visible: false},
		{text: "120", visible: false},
	}

	n, ok := pickConducted(cands)
	require.True(t, ok)
	require.Equal(t, 120, n)
}

func TestPickConductedFallbackRejectsNonDigits(t *testing.T) {
	cands := []candidate{
		{text: "12", visible: false},
		{text: "нет данных", visible: false},
	}

	_, ok := pickConducted(cands)
	require.False(t, ok)
}

func TestPickConductedEmpty(t *testing.T) {
	_, ok := pickConducted(nil)
	require.False(t, ok)
}

func TestPickAttendedLastVisibleWins(t *testing.T) {
	cands := []candidate{
		{text: "P-9/Total-9", visible: false},
		{text: "P-12/E-1/L-0/MCR-0/R-0/Total-13", visible: true},
	}

	n, ok := pickAttended(cands)
	require.True(t, ok)
	require.Equal(t, 13, n)
}

func TestPickAttendedFallbackParsesLast(t *testing.T) {
	cands := []candidate{
		{text: "7", visible: false},
		{text: "P-11/Total-11", visible: false},
	}

	n, ok := pickAttended(cands)
	require.True(t, ok)
	require.Equal(t, 11, n)
}

func TestPickAttendedAllUnparsable(t *testing.T) {
	cands := []candidate{
		{text: "", visible: true},
		{text: "Total-", visible: false},
	}

	_, ok := pickAttended(cands)
	require.False(t, ok)
}
