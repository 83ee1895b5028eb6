package captcha

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"attendanceBot/internal/reporter"
	"attendanceBot/internal/vision"
)

const fallbackPrompt = "Read the captcha code from this image. Output only the code."

// Solver подбирает токен капчи: перебирает варианты промпта по кругу,
// прогоняет ответ модели через Normalize и принимает первый результат,
// прошедший строгий фильтр ValidToken. Ошибки отдельных попыток не
// прерывают цикл.
type Solver struct {
	vision   vision.Client
	prompts  []string
	delay    time.Duration
	http     *resty.Client
	log      *zap.Logger
	reporter reporter.Reporter
}

func NewSolver(v vision.Client, prompts []string, log *zap.Logger, rep reporter.Reporter) *Solver {
	if len(prompts) == 0 {
		prompts = []string{fallbackPrompt}
	}
	return &Solver{
		vision:   v,
		prompts:  prompts,
		delay:    2 * time.Second,
		http:     resty.New().SetTimeout(15 * time.Second),
		log:      log,
		reporter: rep,
	}
}

// Solve выполняет до maxAttempts попыток. Пустая строка означает, что
// решить не удалось — вызывающий обновляет капчу или пробует другой
// способ получения изображения.
func (s *Solver) Solve(ctx context.Context, image []byte, maxAttempts int) string {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		variant := attempt % len(s.prompts)
		s.log.Debug("Попытка решения капчи",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxAttempts),
			zap.Int("prompt_variant", variant+1),
		)

		raw, err := s.vision.ReadImage(ctx, s.prompts[variant], image)
		switch {
		case err != nil:
			s.log.Warn("Ошибка vision-запроса", zap.Int("attempt", attempt+1), zap.Error(err))
		case raw != "":
			cleaned := Normalize(raw)
			s.log.Debug("Ответ модели очищен",
				zap.String("raw", raw),
				zap.String("cleaned", cleaned),
			)
			if ValidToken(cleaned) {
				s.reporter.Emit(fmt.Sprintf("Капча распознана: %s", cleaned), reporter.LevelSuccess)
				return cleaned
			}
			s.log.Debug("Токен не прошёл строгий фильтр", zap.String("cleaned", cleaned))
		}

		if attempt < maxAttempts-1 {
			select {
			case <-ctx.Done():
				return ""
			case <-time.After(s.delay):
			}
		}
	}

	s.reporter.Emit(fmt.Sprintf("Капча не решена за %d попыток", maxAttempts), reporter.LevelWarning)
	return ""
}

// SolveFromURL скачивает изображение капчи и решает его — основной способ
// получения.
func (s *Solver) SolveFromURL(ctx context.Context, imageURL string, maxAttempts int) (string, error) {
	resp, err := s.http.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки капчи: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("ошибка загрузки капчи: статус %d", resp.StatusCode())
	}

	s.log.Debug("Изображение капчи загружено",
		zap.String("url", imageURL),
		zap.Int("bytes", len(resp.Body())),
	)
	return s.Solve(ctx, resp.Body(), maxAttempts), nil
}

// SolveFromElement решает капчу по скриншоту элемента страницы — запасной
// путь, когда изображение не скачивается напрямую.
func (s *Solver) SolveFromElement(ctx context.Context, element playwright.ElementHandle, maxAttempts int) (string, error) {
	shot, err := element.Screenshot()
	if err != nil {
		return "", fmt.Errorf("ошибка скриншота капчи: %w", err)
	}

	s.log.Debug("Скриншот капчи получен", zap.Int("bytes", len(shot)))
	return s.Solve(ctx, shot, maxAttempts), nil
}
