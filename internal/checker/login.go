package checker

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"attendanceBot/internal/browser"
	"attendanceBot/internal/captcha"
	"attendanceBot/internal/config"
	"attendanceBot/internal/reporter"
)

// loginFlow выполняет вход в портал: заполняет форму, решает капчу и
// сверяет итоговый URL. Неудачная попытка обновляет капчу и повторяет
// весь цикл.
type loginFlow struct {
	browser  browser.Browser
	typer    *browser.FieldTyper
	solver   *captcha.Solver
	cfg      config.Portal
	log      *zap.Logger
	reporter reporter.Reporter
}

func newLoginFlow(b browser.Browser, typer *browser.FieldTyper, solver *captcha.Solver, cfg config.Portal, log *zap.Logger, rep reporter.Reporter) *loginFlow {
	return &loginFlow{
		browser:  b,
		typer:    typer,
		solver:   solver,
		cfg:      cfg,
		log:      log,
		reporter: rep,
	}
}

// Login выполняет до cfg.LoginAttempts полных попыток входа.
func (f *loginFlow) Login(ctx context.Context, studentCode, password string) error {
	if err := f.browser.Navigate(ctx, f.cfg.LoginURL); err != nil {
		return fmt.Errorf("ошибка открытия страницы входа: %w", err)
	}

	for attempt := 1; attempt <= f.cfg.LoginAttempts; attempt++ {
		f.reporter.Emit(fmt.Sprintf("Попытка входа %d из %d", attempt, f.cfg.LoginAttempts), reporter.LevelInfo)

		if attempt > 1 {
			f.refreshCaptcha(ctx)
		}

		if err := f.attempt(ctx, studentCode, password); err != nil {
			f.log.Warn("Попытка входа не удалась",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}
		return nil
	}

	f.reporter.Emit("Все попытки входа исчерпаны", reporter.LevelError)
	return ErrLoginFailed
}

func (f *loginFlow) attempt(ctx context.Context, studentCode, password string) error {
	if err := f.browser.Fill(ctx, f.cfg.UsernameField, studentCode); err != nil {
		return fmt.Errorf("ошибка заполнения логина: %w", err)
	}
	if err := f.browser.Fill(ctx, f.cfg.PasswordField, password); err != nil {
		return fmt.Errorf("ошибка заполнения пароля: %w", err)
	}

	token, err := f.solveCaptcha(ctx)
	if err != nil {
		return err
	}

	typed, err := f.typer.TypeInto(ctx, f.cfg.CaptchaField, token)
	if err != nil {
		return fmt.Errorf("ошибка ввода капчи: %w", err)
	}
	if typed != token {
		// Виджет потерял часть символов, повторный ввод в то же поле
		// надёжнее новой капчи
		f.log.Warn("Поле капчи не совпало с токеном",
			zap.String("expected", token),
			zap.String("actual", typed),
		)
		typed, err = f.typer.TypeInto(ctx, f.cfg.CaptchaField, token)
		if err != nil {
			return fmt.Errorf("ошибка повторного ввода капчи: %w", err)
		}
		if typed != token {
			return fmt.Errorf("поле капчи не принимает ввод: ожидалось %q, получено %q", token, typed)
		}
	}

	if err := f.browser.Click(ctx, f.cfg.LoginButton); err != nil {
		return fmt.Errorf("ошибка нажатия кнопки входа: %w", err)
	}

	// Портал перенаправляет не сразу
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
	}

	current := f.browser.URL()
	switch {
	case strings.HasPrefix(current, f.cfg.SuccessURL):
		f.reporter.Emit("Вход выполнен", reporter.LevelSuccess)
		return nil
	case current == f.cfg.FailureURL || strings.HasPrefix(current, f.cfg.LoginURL):
		msg := f.readErrorLabel(ctx)
		if msg == "" {
			msg = "портал отклонил вход"
		}
		f.reporter.Emit(fmt.Sprintf("Вход отклонён: %s", msg), reporter.LevelWarning)
		return fmt.Errorf("вход отклонён: %s", msg)
	default:
		f.log.Warn("Неожиданный URL после входа", zap.String("url", current))
		return fmt.Errorf("неожиданный URL после входа: %s", current)
	}
}

// solveCaptcha получает изображение капчи и подбирает токен. Основной путь —
// скачивание по src, запасной — скриншот элемента.
func (f *loginFlow) solveCaptcha(ctx context.Context) (string, error) {
	element, err := f.browser.Query(ctx, f.cfg.CaptchaImage)
	if err != nil || element == nil {
		return "", fmt.Errorf("изображение капчи не найдено: %w", err)
	}

	src, err := element.GetAttribute("src")
	if err == nil && src != "" {
		imageURL := absoluteURL(f.cfg.LoginURL, src)
		token, err := f.solver.SolveFromURL(ctx, imageURL, f.cfg.CaptchaAttempts)
		if err != nil {
			f.log.Warn("Скачивание капчи не удалось, переход на скриншот", zap.Error(err))
		} else if token != "" {
			return token, nil
		}
	}

	token, err := f.solver.SolveFromElement(ctx, element, f.cfg.CaptchaAttempts)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrCaptchaUnsolved
	}
	return token, nil
}

func (f *loginFlow) refreshCaptcha(ctx context.Context) {
	if err := f.browser.Click(ctx, f.cfg.RefreshCaptcha); err != nil {
		f.log.Warn("Не удалось обновить капчу", zap.Error(err))
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
	}
}

// readErrorLabel читает текст ошибки, который портал показывает под формой.
func (f *loginFlow) readErrorLabel(ctx context.Context) string {
	element, err := f.browser.Query(ctx, f.cfg.ErrorLabel)
	if err != nil || element == nil {
		return ""
	}
	text, err := element.TextContent()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// absoluteURL разрешает src изображения относительно адреса портала.
func absoluteURL(base, src string) string {
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	if ref.IsAbs() {
		return src
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return src
	}
	return baseURL.ResolveReference(ref).String()
}
