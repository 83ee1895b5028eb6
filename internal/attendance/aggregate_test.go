package attendance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func defaultThresholds() Thresholds {
	return Thresholds{Good: 75, Warning: 65}
}

func TestAggregateGood(t *testing.T) {
	records := []SubjectRecord{
		{Index: 1, Name: "DATA VISUALISATION", Conducted: intp(10), Attended: intp(8)},
		{Index: 2, Name: "OPERATING SYSTEMS", Conducted: intp(20), Attended: intp(15)},
	}

	report := Aggregate(records, defaultThresholds())

	require.Equal(t, 30, report.TotalConducted)
	require.Equal(t, 23, report.TotalAttended)
	require.InDelta(t, 76.67, report.OverallPercentage, 0.01)
	require.Equal(t, StatusGood, report.Status)
}

func TestAggregateWarning(t *testing.T) {
	records := []SubjectRecord{
		{Index: 1, Name: "MATHEMATICS", Conducted: intp(100), Attended: intp(70)},
	}

	report := Aggregate(records, defaultThresholds())

	require.InDelta(t, 70.0, report.OverallPercentage, 0.001)
	require.Equal(t, StatusWarning, report.Status)
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil, defaultThresholds())

	require.Zero(t, report.TotalConducted)
	require.Zero(t, report.OverallPercentage)
	require.Equal(t, StatusCritical, report.Status)
}

func TestAggregateSkipsIncompleteRecords(t *testing.T) {
	records := []SubjectRecord{
		{Index: 1, Name: "PHYSICS", Conducted: intp(10), Attended: intp(9)},
		{Index: 2, Name: "CHEMISTRY"},
		{Index: 3, Name: "BIOLOGY", Conducted: intp(12)},
	}

	report := Aggregate(records, defaultThresholds())

	// Неполные записи остаются в отчёте, но не участвуют в суммах
	require.Len(t, report.Subjects, 3)
	require.Equal(t, 10, report.TotalConducted)
	require.Equal(t, 9, report.TotalAttended)
	require.Equal(t, StatusGood, report.Status)
}

func TestAggregateAttendedNeverExceedsConducted(t *testing.T) {
	records := []SubjectRecord{
		{Index: 1, Conducted: intp(15), Attended: intp(15)},
		{Index: 2, Conducted: intp(30), Attended: intp(0)},
		{Index: 3, Conducted: intp(7), Attended: intp(4)},
	}

	report := Aggregate(records, defaultThresholds())

	require.LessOrEqual(t, report.TotalAttended, report.TotalConducted)
}

func TestSubjectPercentage(t *testing.T) {
	r := SubjectRecord{Conducted: intp(20), Attended: intp(15)}
	require.InDelta(t, 75.0, r.Percentage(), 0.001)

	require.Zero(t, SubjectRecord{}.Percentage())

	zero := SubjectRecord{Conducted: intp(0), Attended: intp(0)}
	require.Zero(t, zero.Percentage())
}
