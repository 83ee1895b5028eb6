package commands

import (
	"fmt"

	"go.uber.org/zap"

	"attendanceBot/internal/cli/ui"
	"attendanceBot/internal/database"
)

type HistoryHandler struct {
	repo *database.RunRepository
	log  *zap.Logger
}

func NewHistoryHandler(repo *database.RunRepository, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo: repo,
		log:  log,
	}
}

// List печатает последние запуски проверки.
func (h *HistoryHandler) List() {
	runs, err := h.repo.ListRuns(10, 0)
	if err != nil {
		fmt.Println(ui.ColorRed + ui.IconCross + " Ошибка чтения истории: " + err.Error() + ui.ColorReset)
		return
	}
	if len(runs) == 0 {
		fmt.Println(ui.ColorGray + "История пуста" + ui.ColorReset)
		return
	}

	fmt.Println(ui.ColorBold + ui.IconList + " Последние запуски:" + ui.ColorReset)
	for _, run := range runs {
		icon, color, text := ui.FormatRunStatus(run.Status)
		fmt.Printf("  %s%s %s%s  %s  %s  %.2f%%\n",
			color, icon, text, ui.ColorReset,
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.SessionID,
			run.OverallPercentage,
		)
	}
	fmt.Println()
}

// Show печатает детали запуска и результаты по предметам.
func (h *HistoryHandler) Show(sessionID string) {
	run, err := h.repo.GetRunBySession(sessionID)
	if err != nil {
		fmt.Println(ui.ColorRed + ui.IconCross + " Запуск не найден: " + sessionID + ui.ColorReset)
		return
	}

	icon, color, text := ui.FormatRunStatus(run.Status)
	fmt.Printf("\n%s%s Запуск %s — %s%s\n", color, icon, run.SessionID, text, ui.ColorReset)
	fmt.Printf("  Студент:  %s\n", run.StudentCode)
	fmt.Printf("  Создан:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.Step != "" {
		fmt.Printf("  Этап:     %s\n", run.Step)
	}
	if run.Error != "" {
		fmt.Printf("  %sОшибка:   %s%s\n", ui.ColorRed, run.Error, ui.ColorReset)
	}

	subjects, err := h.repo.GetSubjects(run.ID)
	if err != nil {
		h.log.Warn("Ошибка чтения предметов", zap.Uint("run_id", run.ID), zap.Error(err))
		return
	}

	if len(subjects) > 0 {
		fmt.Println("\n  Предметы:")
		for _, subject := range subjects {
			if subject.Conducted == nil || subject.Attended == nil {
				fmt.Printf("   %s%2d. %-40s —%s\n", ui.ColorGray, subject.Position, subject.Name, ui.ColorReset)
				continue
			}
			fmt.Printf("   %2d. %-40s %d/%d\n", subject.Position, subject.Name, *subject.Attended, *subject.Conducted)
		}
	}

	if run.Status == "completed" {
		fmt.Printf("\n  %sИтого: %d/%d — %.2f%% [%s]%s\n\n",
			ui.ColorBold, run.TotalAttended, run.TotalConducted,
			run.OverallPercentage, run.OverallStatus, ui.ColorReset,
		)
	}
}
