// Package checker соединяет конвейер проверки посещаемости: вход в портал,
// переход на страницу посещаемости, раскрытие предметов и агрегация отчёта.
package checker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"attendanceBot/internal/attendance"
	"attendanceBot/internal/browser"
	"attendanceBot/internal/captcha"
	"attendanceBot/internal/config"
	"attendanceBot/internal/database"
	"attendanceBot/internal/extractor"
	"attendanceBot/internal/reporter"
	"attendanceBot/internal/vision"
)

// Checker создаёт на каждый запуск собственную сессию браузера и решатель
// капчи, между запусками ничего не разделяется.
type Checker struct {
	cfg    *config.Cfg
	log    *zap.Logger
	vision *vision.OpenAIClient
	repo   *database.RunRepository
}

func New(cfg *config.Cfg, log *zap.Logger, v *vision.OpenAIClient, repo *database.RunRepository) *Checker {
	return &Checker{
		cfg:    cfg,
		log:    log,
		vision: v,
		repo:   repo,
	}
}

// Run выполняет полную проверку посещаемости для студента. Ход выполнения
// сохраняется в базе и транслируется получателю сообщений.
func (c *Checker) Run(ctx context.Context, sessionID, studentCode, password string, rep reporter.Reporter) (*attendance.Report, error) {
	if c.vision == nil {
		return nil, fmt.Errorf("vision-клиент не настроен, задайте OPENAI_API_KEY")
	}

	session := attendance.NewSession(sessionID, studentCode)
	run := &database.CheckRun{
		SessionID:   session.ID,
		StudentCode: session.StudentCode,
		Status:      string(attendance.RunRunning),
	}
	if err := c.repo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("ошибка создания запуска: %w", err)
	}
	session.Status = attendance.RunRunning

	report, err := c.execute(ctx, session, run, password, rep)
	if err != nil {
		if dbErr := c.repo.UpdateRunStatus(session.ID, string(attendance.RunFailed), err.Error()); dbErr != nil {
			c.log.Error("Ошибка сохранения статуса запуска", zap.Error(dbErr))
		}
		rep.Emit(fmt.Sprintf("Проверка не удалась: %v", err), reporter.LevelError)
		return nil, err
	}

	if err := c.repo.SaveReport(run.ID, report); err != nil {
		c.log.Error("Ошибка сохранения отчёта", zap.Error(err))
	}
	if err := c.repo.UpdateRunStatus(session.ID, string(attendance.RunCompleted), ""); err != nil {
		c.log.Error("Ошибка сохранения статуса запуска", zap.Error(err))
	}

	rep.Emit(fmt.Sprintf("Проверка завершена: %.2f%% (%s)", report.OverallPercentage, report.Status), reporter.LevelSuccess)
	return report, nil
}

func (c *Checker) execute(ctx context.Context, session *attendance.Session, run *database.CheckRun, password string, rep reporter.Reporter) (*attendance.Report, error) {
	solver := captcha.NewSolver(
		c.vision.ForRun(run.ID),
		c.cfg.Portal.CaptchaPrompts,
		c.log,
		rep,
	)

	b := browser.New(browser.Config{
		Headless:     c.cfg.Browser.Headless,
		UserDataDir:  c.cfg.Browser.UserDataDir,
		BrowsersPath: c.cfg.Browser.BrowsersPath,
		Display:      c.cfg.Browser.Display,
	})

	c.step(session.ID, "запуск браузера", rep)
	if err := b.Launch(ctx); err != nil {
		return nil, fmt.Errorf("ошибка запуска браузера: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			c.log.Warn("Ошибка закрытия браузера", zap.Error(err))
		}
	}()

	typer := browser.NewFieldTyper(b, c.log)
	login := newLoginFlow(b, typer, solver, c.cfg.Portal, c.log, rep)

	c.step(session.ID, "вход в портал", rep)
	if err := login.Login(ctx, session.StudentCode, password); err != nil {
		return nil, err
	}

	c.step(session.ID, "переход к посещаемости", rep)
	if err := b.Navigate(ctx, c.cfg.Portal.AttendanceURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNavigationFailed, err)
	}
	if err := b.WaitForLoadState(ctx, "networkidle"); err != nil {
		c.log.Warn("Страница не достигла networkidle", zap.Error(err))
	}
	if redirectedToLogin(b.URL(), c.cfg.Portal.AttendanceURL) {
		return nil, fmt.Errorf("%w: портал вернул на форму входа", ErrNavigationFailed)
	}

	c.step(session.ID, "извлечение предметов", rep)
	records, err := c.extract(ctx, b, rep)
	if err != nil {
		return nil, err
	}
	session.Records = records

	report := attendance.Aggregate(session.Records, attendance.Thresholds{
		Good:    c.cfg.Portal.GoodThreshold,
		Warning: c.cfg.Portal.WarningThreshold,
	})
	return &report, nil
}

// extract раскрывает предметы по одному и читает счётчики. Имена предметов
// извлекаются строго до первого клика: раскрытие мутирует DOM.
func (c *Checker) extract(ctx context.Context, b browser.Browser, rep reporter.Reporter) ([]attendance.SubjectRecord, error) {
	names := extractor.NewNameResolver(c.cfg.Portal.SubjectContainer, c.log).ResolveNames(ctx, b)

	cascade := extractor.NewCascade(extractor.DefaultStrategies(
		c.cfg.Portal.PlusIconSelector,
		c.cfg.Portal.PlusIconXPath,
		c.cfg.Portal.AltSelectors,
	), c.log)

	anchors := cascade.DiscoverAnchors(ctx, b)
	if len(anchors) == 0 {
		return nil, ErrStructureUnrecognized
	}
	rep.Emit(fmt.Sprintf("Найдено предметов: %d", len(anchors)), reporter.LevelInfo)

	counts := extractor.NewCountExtractor(
		c.cfg.Portal.ConductedSelector,
		c.cfg.Portal.AttendedSelector,
		c.log,
	)

	records := make([]attendance.SubjectRecord, 0, len(anchors))
	for i, anchor := range anchors {
		record := attendance.SubjectRecord{
			Index: i + 1,
			Name:  subjectName(names, i),
		}

		if err := anchor.ScrollIntoViewIfNeeded(); err != nil {
			c.log.Warn("Элемент не прокручивается", zap.Int("subject", i+1), zap.Error(err))
		}
		if err := anchor.Click(); err != nil {
			c.log.Warn("Клик по якорю не удался", zap.Int("subject", i+1), zap.Error(err))
			records = append(records, record)
			continue
		}

		// Портал дорисовывает счётчики после клика
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(300 * time.Millisecond):
		}

		if n, ok := counts.Conducted(ctx, b); ok {
			record.Conducted = &n
		}
		if n, ok := counts.Attended(ctx, b); ok {
			record.Attended = &n
		}

		if record.Complete() {
			rep.Emit(fmt.Sprintf("%s: %d/%d (%.1f%%)",
				record.Name, *record.Attended, *record.Conducted, record.Percentage(),
			), reporter.LevelInfo)
		} else {
			rep.Emit(fmt.Sprintf("%s: данные не извлечены", record.Name), reporter.LevelWarning)
		}

		records = append(records, record)
	}

	return records, nil
}

func (c *Checker) step(sessionID, step string, rep reporter.Reporter) {
	if err := c.repo.UpdateRunStep(sessionID, step); err != nil {
		c.log.Warn("Ошибка сохранения этапа", zap.String("step", step), zap.Error(err))
	}
	rep.Emit(step, reporter.LevelInfo)
	c.log.Info("Этап проверки", zap.String("step", step))
}

// subjectName возвращает извлечённое имя или синтетическое, если имён
// оказалось меньше, чем якорей.
func subjectName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("Предмет %d", i+1)
}

// redirectedToLogin распознаёт выброс на форму входа после перехода к
// странице посещаемости.
func redirectedToLogin(current, attendanceURL string) bool {
	if current == "" {
		return false
	}
	if strings.HasPrefix(current, attendanceURL) {
		return false
	}
	return strings.Contains(strings.ToLower(current), "login") ||
		!strings.Contains(current, "/ui/")
}
