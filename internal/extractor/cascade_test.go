package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeClickable — элемент для диагностического обхода: только класс и текст.
type fakeClickable struct {
	playwright.ElementHandle
	class string
	text  string
}

func (f *fakeClickable) GetAttribute(name string) (string, error) { return f.class, nil }
func (f *fakeClickable) TextContent() (string, error)             { return f.text, nil }

// fakeQuerier отдаёт заранее заданные результаты по селекторам и
// запоминает порядок обращений.
type fakeQuerier struct {
	results map[string][]playwright.ElementHandle
	errs    map[string]error
	queried []string
}

func (f *fakeQuerier) QueryAll(ctx context.Context, selector string) ([]playwright.ElementHandle, error) {
	f.queried = append(f.queried, selector)
	if err, ok := f.errs[selector]; ok {
		return nil, err
	}
	return f.results[selector], nil
}

func handles(n int) []playwright.ElementHandle {
	return make([]playwright.ElementHandle, n)
}

func testStrategies() []Strategy {
	return DefaultStrategies(
		"i.bx-plus-circle",
		"//i[contains(@class, 'bx-plus-circle')]",
		[]string{"i[class*='plus']", "[class*='expand']"},
	)
}

func TestDiscoverAnchorsFirstStrategyWins(t *testing.T) {
	page := &fakeQuerier{
		results: map[string][]playwright.ElementHandle{
			"i.bx-plus-circle": handles(4),
			"i[class*='plus']": handles(9),
		},
	}

	got := NewCascade(testStrategies(), zap.NewNop()).DiscoverAnchors(context.Background(), page)

	require.Len(t, got, 4)
	// Первый успех останавливает каскад
	require.Equal(t, []string{"i.bx-plus-circle"}, page.queried)
}

func TestDiscoverAnchorsFallsThroughInOrder(t *testing.T) {
	page := &fakeQuerier{
		results: map[string][]playwright.ElementHandle{
			"[class*='expand']": handles(2),
		},
		errs: map[string]error{
			"xpath=//i[contains(@class, 'bx-plus-circle')]": errors.New("bad selector engine"),
		},
	}

	got := NewCascade(testStrategies(), zap.NewNop()).DiscoverAnchors(context.Background(), page)

	require.Len(t, got, 2)
	require.Equal(t, []string{
		"i.bx-plus-circle",
		"xpath=//i[contains(@class, 'bx-plus-circle')]",
		"i[class*='plus']",
		"[class*='expand']",
	}, page.queried)
}

func TestDiscoverAnchorsUnrecognizedStructure(t *testing.T) {
	page := &fakeQuerier{}

	got := NewCascade(testStrategies(), zap.NewNop()).DiscoverAnchors(context.Background(), page)

	require.Empty(t, got)
	// После исчерпания стратегий идёт диагностический обход кликабельных
	require.Equal(t, "button, a, i, [onclick]", page.queried[len(page.queried)-1])
}

func TestDiscoverAnchorsDiagnosticTruncatesByRunes(t *testing.T) {
	page := &fakeQuerier{
		results: map[string][]playwright.ElementHandle{
			"button, a, i, [onclick]": {
				&fakeClickable{class: "btn", text: strings.Repeat("я", 60)},
			},
		},
	}

	core, logs := observer.New(zap.DebugLevel)

	got := NewCascade(testStrategies(), zap.New(core)).DiscoverAnchors(context.Background(), page)
	require.Empty(t, got)

	entries := logs.FilterMessage("Кликабельный элемент").All()
	require.Len(t, entries, 1)

	text, ok := entries[0].ContextMap()["text"].(string)
	require.True(t, ok)
	// Усечение не режет многобайтовый символ посередине
	require.True(t, utf8.ValidString(text))
	require.Equal(t, 50, utf8.RuneCountInString(text))
}
