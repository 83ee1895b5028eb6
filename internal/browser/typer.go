package browser

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"attendanceBot/internal/captcha"
)

// FieldTyper вводит текст в поле по одному символу: виджеты портала
// отбрасывают программную вставку целиком. Каждый символ проходит очистку,
// не пережившие её пропускаются, а не печатаются пустыми.
type FieldTyper struct {
	browser Browser
	delay   time.Duration
	log     *zap.Logger
}

func NewFieldTyper(b Browser, log *zap.Logger) *FieldTyper {
	return &FieldTyper{
		browser: b,
		delay:   150 * time.Millisecond,
		log:     log,
	}
}

// TypeInto очищает поле, фокусируется и печатает текст посимвольно.
// Возвращает фактическое содержимое поля — вызывающий сверяет его с
// намерением и решает, повторять ли ввод.
func (t *FieldTyper) TypeInto(ctx context.Context, selector, text string) (string, error) {
	if err := t.browser.Fill(ctx, selector, ""); err != nil {
		return "", fmt.Errorf("ошибка очистки поля: %w", err)
	}
	if err := pause(ctx, 100*time.Millisecond); err != nil {
		return "", err
	}

	if err := t.browser.Focus(ctx, selector); err != nil {
		return "", fmt.Errorf("ошибка фокуса на поле: %w", err)
	}
	if err := pause(ctx, 100*time.Millisecond); err != nil {
		return "", err
	}

	position := 0
	for _, r := range text {
		position++
		char := captcha.CleanChar(r)
		if char == "" {
			t.log.Debug("Символ пропущен при вводе",
				zap.Int("position", position),
				zap.String("char", string(r)),
			)
			continue
		}

		if err := t.browser.TypeChar(ctx, char); err != nil {
			return "", fmt.Errorf("ошибка ввода символа %d: %w", position, err)
		}
		if err := pause(ctx, t.delay); err != nil {
			return "", err
		}
	}

	value, err := t.browser.InputValue(ctx, selector)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения значения поля: %w", err)
	}

	t.log.Debug("Поле заполнено", zap.String("value", value))
	return value, nil
}

// pause ждёт с учётом отмены контекста.
func pause(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
