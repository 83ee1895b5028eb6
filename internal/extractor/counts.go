package extractor

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const totalMarker = "Total-"

var digitsRe = regexp.MustCompile(`\d+`)

// Разумный диапазон занятий за неделю
const (
	minCount = 1
	maxCount = 50
)

// candidate — состояние элемента на момент опроса: текст и видимость.
type candidate struct {
	text    string
	visible bool
}

// CountExtractor читает числа "проведено" и "посещено" для раскрытого
// предмета. Вызывается сразу после клика по якорю, пока «текущий видимый
// элемент» определён однозначно.
type CountExtractor struct {
	conductedSelector string
	attendedSelector  string
	log               *zap.Logger
}

func NewCountExtractor(conductedSelector, attendedSelector string, log *zap.Logger) *CountExtractor {
	return &CountExtractor{
		conductedSelector: conductedSelector,
		attendedSelector:  attendedSelector,
		log:               log,
	}
}

// Conducted возвращает число проведённых занятий, false — если извлечь
// не удалось.
func (e *CountExtractor) Conducted(ctx context.Context, page Querier) (int, bool) {
	cands := e.collect(ctx, page, e.conductedSelector)
	n, ok := pickConducted(cands)
	if !ok {
		e.log.Warn("Число проведённых занятий не найдено",
			zap.String("selector", e.conductedSelector),
			zap.Int("candidates", len(cands)),
		)
	}
	return n, ok
}

// Attended возвращает число посещённых занятий, false — если извлечь
// не удалось.
func (e *CountExtractor) Attended(ctx context.Context, page Querier) (int, bool) {
	cands := e.collect(ctx, page, e.attendedSelector)
	n, ok := pickAttended(cands)
	if !ok {
		e.log.Warn("Число посещённых занятий не найдено",
			zap.String("selector", e.attendedSelector),
			zap.Int("candidates", len(cands)),
		)
	}
	return n, ok
}

func (e *CountExtractor) collect(ctx context.Context, page Querier, selector string) []candidate {
	handles, err := page.QueryAll(ctx, selector)
	if err != nil {
		e.log.Warn("Ошибка поиска элементов счётчика",
			zap.String("selector", selector),
			zap.Error(err),
		)
		return nil
	}

	cands := make([]candidate, 0, len(handles))
	for _, h := range handles {
		text, err := h.TextContent()
		if err != nil {
			text = ""
		}
		visible, err := h.IsVisible()
		if err != nil {
			visible = false
		}
		cands = append(cands, candidate{text: text, visible: visible})
	}
	return cands
}

// pickConducted сканирует кандидатов с конца: повторные раскрытия
// оставляют в начале документа скрытые устаревшие дубликаты, авторитетен
// последний видимый. Если видимых нет — разбирается самый последний
// элемент без проверки видимости и диапазона.
func pickConducted(cands []candidate) (int, bool) {
	for i := len(cands) - 1; i >= 0; i-- {
		if !cands[i].visible {
			continue
		}
		if n, ok := parseConducted(cands[i].text); ok {
			return n, true
		}
	}

	if len(cands) > 0 {
		text := strings.TrimSpace(cands[len(cands)-1].text)
		if isDigits(text) {
			n, err := strconv.Atoi(text)
			if err == nil {
				return n, true
			}
		}
	}

	return 0, false
}

// pickAttended — та же схема обратного сканирования, но над составной
// строкой статуса.
func pickAttended(cands []candidate) (int, bool) {
	for i := len(cands) - 1; i >= 0; i-- {
		if !cands[i].visible {
			continue
		}
		if n, ok := ParseAttended(cands[i].text); ok {
			return n, true
		}
	}

	if len(cands) > 0 {
		if n, ok := ParseAttended(cands[len(cands)-1].text); ok {
			return n, true
		}
	}

	return 0, false
}

func parseConducted(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if !isDigits(text) {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < minCount || n > maxCount {
		return 0, false
	}
	return n, true
}

// ParseAttended разбирает строку посещаемости. Составной формат
// "P-12/E-1/L-0/MCR-0/R-0/Total-13" даёт число после маркера Total-,
// чистое число в разумном диапазоне принимается как есть.
func ParseAttended(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	if i := strings.Index(text, totalMarker); i >= 0 {
		rest := text[i+len(totalMarker):]
		if m := digitsRe.FindString(rest); m != "" {
			n, err := strconv.Atoi(m)
			if err == nil {
				return n, true
			}
		}
		return 0, false
	}

	if isDigits(text) {
		n, err := strconv.Atoi(text)
		if err == nil && n >= minCount && n <= maxCount {
			return n, true
		}
	}

	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
