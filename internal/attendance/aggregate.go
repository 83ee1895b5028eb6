package attendance

// Aggregate суммирует заполненные записи и классифицирует итог.
// Записи без счётчиков не участвуют в суммах, но остаются в отчёте.
// При нулевой сумме проведённых занятий процент равен нулю.
func Aggregate(records []SubjectRecord, th Thresholds) Report {
	report := Report{Subjects: records}

	for _, r := range records {
		if !r.Complete() {
			continue
		}
		report.TotalConducted += *r.Conducted
		report.TotalAttended += *r.Attended
	}

	if report.TotalConducted > 0 {
		report.OverallPercentage = 100 * float64(report.TotalAttended) / float64(report.TotalConducted)
	}

	switch {
	case report.OverallPercentage >= th.Good:
		report.Status = StatusGood
	case report.OverallPercentage >= th.Warning:
		report.Status = StatusWarning
	default:
		report.Status = StatusCritical
	}

	return report
}
