// Package vision предоставляет распознавание текста на изображениях через
// vision-модель OpenAI. Включает rate limiting и логирование запросов.
package vision

import "context"

// Logger определяет интерфейс для логирования vision-запросов.
type Logger interface {
	// LogVisionRequest сохраняет информацию о запросе к модели в базу данных.
	LogVisionRequest(ctx context.Context, runID *uint, promptText, responseText, model string, tokensUsed int) error
}

// Client определяет vision-возможность: по промпту и изображению вернуть
// свободный текст. Повторы и разбор ответа — ответственность вызывающего.
type Client interface {
	ReadImage(ctx context.Context, prompt string, image []byte) (string, error)
}
