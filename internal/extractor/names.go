package extractor

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Код курса вида "21JUGE1111-DATA VISUALISATION": две цифры, четыре буквы,
// четыре цифры, дефис, затем название из букв, пробелов и амперсанда.
var courseCodeRe = regexp.MustCompile(`\d{2}[A-Z]{4}\d{4}-([A-Z\s&]+)`)

// NameResolver извлекает названия предметов из блоков-контейнеров.
type NameResolver struct {
	containerSelector string
	log               *zap.Logger
}

func NewNameResolver(containerSelector string, log *zap.Logger) *NameResolver {
	return &NameResolver{
		containerSelector: containerSelector,
		log:               log,
	}
}

// ResolveNames собирает названия предметов и вызывается строго до любых
// кликов по якорям: раскрытие мутирует DOM, меняет порядок и дублирует
// элементы, после чего привязка имени к позиции уже недостоверна.
// Список может оказаться короче списка якорей — недостающие имена
// синтезирует вызывающий.
func (r *NameResolver) ResolveNames(ctx context.Context, page Querier) []string {
	containers, err := page.QueryAll(ctx, r.containerSelector)
	if err != nil {
		r.log.Warn("Не удалось найти контейнеры предметов",
			zap.String("selector", r.containerSelector),
			zap.Error(err),
		)
		return nil
	}

	blocks := make([]string, 0, len(containers))
	for _, container := range containers {
		text, err := container.TextContent()
		if err != nil {
			continue
		}
		blocks = append(blocks, text)
	}

	names := NamesFromBlocks(blocks)
	r.log.Info("Названия предметов извлечены", zap.Int("count", len(names)))
	return names
}

// NamesFromBlocks применяет к текстам блоков основной шаблон кода курса.
// Меньше трёх имён — признак того, что шаблон не совпадает с этим
// вариантом портала: результат отбрасывается целиком и используется
// свободный разбор по первому дефису.
func NamesFromBlocks(blocks []string) []string {
	var names []string

	for _, block := range blocks {
		text := strings.TrimSpace(block)
		if len(text) <= 10 {
			continue
		}
		m := courseCodeRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := collapseFirstLine(m[1])
		if len(name) > 3 && len(name) < 50 {
			names = append(names, name)
		}
	}

	if len(names) >= 3 {
		return names
	}

	names = nil
	for _, block := range blocks {
		text := strings.TrimSpace(block)
		if !strings.Contains(text, "-") {
			continue
		}
		if !containsDigit(head(text, 15)) {
			continue
		}

		parts := strings.SplitN(text, "-", 2)
		if len(parts) < 2 {
			continue
		}
		name := collapseFirstLine(parts[1])
		if len(name) > 3 && len(name) < 50 && !containsString(names, name) {
			names = append(names, name)
		}
	}

	return names
}

// collapseFirstLine схлопывает пробельные последовательности и обрезает
// по первому переводу строки.
func collapseFirstLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
