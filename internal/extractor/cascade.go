// Package extractor извлекает блоки предметов и числа посещаемости из
// динамически отрисованной страницы портала. Вёрстка портала меняется без
// предупреждения, поэтому поиск построен на упорядоченных запасных
// стратегиях, а чтение чисел — на эвристике "последний видимый".
package extractor

import (
	"context"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Querier — минимальная возможность страницы, нужная экстракторам.
// Реализуется браузером; в тестах подменяется.
type Querier interface {
	QueryAll(ctx context.Context, selector string) ([]playwright.ElementHandle, error)
}

// Strategy — одна стратегия поиска иконок раскрытия предмета. Стратегии
// перебираются строго по порядку, от специфичных к общим; побеждает
// первая, вернувшая хотя бы один элемент. Частичные результаты разных
// стратегий никогда не объединяются.
type Strategy struct {
	Name     string
	Selector string
}

// DefaultStrategies строит каскад: класс иконки, эквивалентный XPath на
// случай капризов CSS-движка, затем общие альтернативы.
func DefaultStrategies(iconSelector, iconXPath string, alternatives []string) []Strategy {
	strategies := []Strategy{
		{Name: "css", Selector: iconSelector},
		{Name: "xpath", Selector: "xpath=" + iconXPath},
	}
	for _, alt := range alternatives {
		strategies = append(strategies, Strategy{Name: "alt:" + alt, Selector: alt})
	}
	return strategies
}

// Cascade находит якоря предметов по таблице стратегий.
type Cascade struct {
	strategies []Strategy
	log        *zap.Logger
}

func NewCascade(strategies []Strategy, log *zap.Logger) *Cascade {
	return &Cascade{
		strategies: strategies,
		log:        log,
	}
}

// DiscoverAnchors возвращает элементы раскрытия предметов в порядке
// страницы сверху вниз. Пустой результат означает, что структура страницы
// не распознана и дальше двигаться некуда.
func (c *Cascade) DiscoverAnchors(ctx context.Context, page Querier) []playwright.ElementHandle {
	for _, strategy := range c.strategies {
		handles, err := page.QueryAll(ctx, strategy.Selector)
		if err != nil {
			c.log.Warn("Стратегия поиска не сработала",
				zap.String("strategy", strategy.Name),
				zap.String("selector", strategy.Selector),
				zap.Error(err),
			)
			continue
		}
		if len(handles) > 0 {
			c.log.Info("Найдены якоря предметов",
				zap.String("strategy", strategy.Name),
				zap.Int("count", len(handles)),
			)
			return handles
		}
		c.log.Debug("Стратегия не нашла элементов",
			zap.String("strategy", strategy.Name),
			zap.String("selector", strategy.Selector),
		)
	}

	c.logClickable(ctx, page)
	return nil
}

// logClickable пишет в лог кликабельные элементы страницы — диагностика
// для обновления селекторов после смены вёрстки.
func (c *Cascade) logClickable(ctx context.Context, page Querier) {
	elements, err := page.QueryAll(ctx, "button, a, i, [onclick]")
	if err != nil {
		c.log.Warn("Не удалось перечислить кликабельные элементы", zap.Error(err))
		return
	}

	c.log.Warn("Якоря предметов не найдены", zap.Int("clickable_total", len(elements)))

	for i, element := range elements {
		if i >= 10 {
			break
		}
		class, _ := element.GetAttribute("class")
		text, _ := element.TextContent()
		text = strings.TrimSpace(text)
		// Обрезка по рунам: срез байтов ломает многобайтовые символы
		if runes := []rune(text); len(runes) > 50 {
			text = string(runes[:50])
		}
		c.log.Warn("Кликабельный элемент",
			zap.Int("n", i+1),
			zap.String("class", class),
			zap.String("text", text),
		)
	}
}
