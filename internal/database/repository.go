package database

import (
	"context"

	"gorm.io/gorm"

	"attendanceBot/internal/attendance"
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) CreateRun(run *CheckRun) error {
	return r.db.Create(run).Error
}

func (r *RunRepository) GetRunBySession(sessionID string) (*CheckRun, error) {
	var run CheckRun
	if err := r.db.Where("session_id = ?", sessionID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) ListRuns(limit, offset int) ([]CheckRun, error) {
	var runs []CheckRun
	if err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *RunRepository) UpdateRunStep(sessionID, step string) error {
	return r.db.Model(&CheckRun{}).
		Where("session_id = ?", sessionID).
		Update("step", step).Error
}

func (r *RunRepository) UpdateRunStatus(sessionID, status, errMsg string) error {
	return r.db.Model(&CheckRun{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{
			"status": status,
			"error":  errMsg,
		}).Error
}

// SaveReport сохраняет итог запуска и построчные результаты по предметам.
// Записи без счётчиков пишутся с NULL — они нужны для диагностики.
func (r *RunRepository) SaveReport(runID uint, report *attendance.Report) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&CheckRun{}).
			Where("id = ?", runID).
			Updates(map[string]any{
				"total_conducted":    report.TotalConducted,
				"total_attended":     report.TotalAttended,
				"overall_percentage": report.OverallPercentage,
				"overall_status":     string(report.Status),
			}).Error
		if err != nil {
			return err
		}

		for _, subject := range report.Subjects {
			row := SubjectResult{
				RunID:     runID,
				Position:  subject.Index,
				Name:      subject.Name,
				Conducted: subject.Conducted,
				Attended:  subject.Attended,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RunRepository) GetSubjects(runID uint) ([]SubjectResult, error) {
	var subjects []SubjectResult
	if err := r.db.Where("run_id = ?", runID).Order("position").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

// LogVisionRequest реализует vision.Logger и сохраняет запрос к модели.
func (r *RunRepository) LogVisionRequest(ctx context.Context, runID *uint, promptText, responseText, model string, tokensUsed int) error {
	log := VisionLog{
		RunID:        runID,
		PromptText:   promptText,
		ResponseText: responseText,
		Model:        model,
		TokensUsed:   tokensUsed,
	}
	return r.db.WithContext(ctx).Create(&log).Error
}
