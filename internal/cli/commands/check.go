package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"attendanceBot/internal/attendance"
	"attendanceBot/internal/checker"
	"attendanceBot/internal/cli/ui"
	"attendanceBot/internal/config"
	"attendanceBot/internal/reporter"
)

type CheckHandler struct {
	checker *checker.Checker
	cfg     *config.Cfg
	log     *zap.Logger
}

func NewCheckHandler(chk *checker.Checker, cfg *config.Cfg, log *zap.Logger) *CheckHandler {
	return &CheckHandler{
		checker: chk,
		cfg:     cfg,
		log:     log,
	}
}

// Run выполняет проверку и печатает отчёт. Ход выполнения транслируется
// в консоль по мере прохождения этапов.
func (h *CheckHandler) Run(ctx context.Context, studentCode, password string) {
	sessionID := uuid.NewString()
	fmt.Println(ui.ColorCyan + ui.IconGlobe + " Запуск проверки, session: " + sessionID + ui.ColorReset)

	report, err := h.checker.Run(ctx, sessionID, studentCode, password, consoleReporter())
	if err != nil {
		fmt.Println(ui.ColorRed + ui.IconCross + " " + err.Error() + ui.ColorReset)
		return
	}

	h.printReport(report)
}

func (h *CheckHandler) printReport(report *attendance.Report) {
	good := h.cfg.Portal.GoodThreshold
	warning := h.cfg.Portal.WarningThreshold

	fmt.Println()
	fmt.Println(ui.ColorBold + ui.IconChart + " Посещаемость по предметам:" + ui.ColorReset)
	for _, subject := range report.Subjects {
		if !subject.Complete() {
			fmt.Printf("  %s%2d. %-40s —%s\n", ui.ColorGray, subject.Index, subject.Name, ui.ColorReset)
			continue
		}
		p := subject.Percentage()
		color := ui.AttendanceColor(p, good, warning)
		fmt.Printf("  %2d. %-40s %s%3d/%-3d %6.2f%%%s\n",
			subject.Index, subject.Name,
			color, *subject.Attended, *subject.Conducted, p, ui.ColorReset,
		)
	}

	color := ui.AttendanceColor(report.OverallPercentage, good, warning)
	fmt.Println()
	fmt.Printf("%sИтого: %d/%d — %.2f%% [%s]%s\n",
		color, report.TotalAttended, report.TotalConducted,
		report.OverallPercentage, report.Status, ui.ColorReset,
	)
	fmt.Println()
}

// consoleReporter печатает сообщения конвейера с цветом по уровню.
func consoleReporter() reporter.Reporter {
	return reporter.Func(func(message string, level reporter.Level) {
		switch level {
		case reporter.LevelSuccess:
			fmt.Println(ui.ColorGreen + ui.IconCheckmark + " " + message + ui.ColorReset)
		case reporter.LevelWarning:
			fmt.Println(ui.ColorYellow + ui.IconWarning + " " + message + ui.ColorReset)
		case reporter.LevelError:
			fmt.Println(ui.ColorRed + ui.IconCross + " " + message + ui.ColorReset)
		default:
			fmt.Println(ui.ColorGray + "  " + message + ui.ColorReset)
		}
	})
}
