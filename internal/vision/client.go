package vision

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	logger      Logger
	rateLimiter *RateLimiter
	runID       *uint
}

func NewClient(apiKey, model string, maxTokens int, logger Logger) *OpenAIClient {
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		logger:      logger,
		rateLimiter: NewRateLimiter(60, 90000),
	}
}

// ForRun возвращает копию клиента, привязанную к запуску проверки:
// vision-логи будут сохраняться с этим идентификатором.
func (c *OpenAIClient) ForRun(runID uint) *OpenAIClient {
	scoped := *c
	scoped.runID = &runID
	return &scoped
}

// ReadImage отправляет изображение с промптом и возвращает текст ответа.
func (c *OpenAIClient) ReadImage(ctx context.Context, prompt string, image []byte) (string, error) {
	if err := c.rateLimiter.AllowRequest(ctx); err != nil {
		return "", err
	}

	// Грубая оценка: ~4 символа на токен, плюс бюджет ответа
	estimated := len(prompt)/4 + c.maxTokens
	if err := c.rateLimiter.AllowTokens(ctx, estimated); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(image)),
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("ошибка vision-запроса: %w", err)
	}

	// Корректируем бюджет: теперь известно точное значение
	if resp.Usage.TotalTokens > estimated {
		c.rateLimiter.ConsumeTokens(resp.Usage.TotalTokens - estimated)
	}

	answer := ""
	if len(resp.Choices) > 0 {
		answer = resp.Choices[0].Message.Content
	}

	if c.logger != nil {
		_ = c.logger.LogVisionRequest(ctx, c.runID, prompt, answer, c.model, resp.Usage.TotalTokens)
	}

	return answer, nil
}
