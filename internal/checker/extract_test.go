package checker

import (
	"context"
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"attendanceBot/internal/attendance"
	"attendanceBot/internal/browser"
	"attendanceBot/internal/config"
	"attendanceBot/internal/reporter"
)

// portalPage моделирует страницу посещаемости: блоки предметов, якоря
// раскрытия и счётчики. Клик по якорю "дорисовывает" счётчики своего
// предмета; счётчики прежних раскрытий остаются в документе скрытыми.
type portalPage struct {
	blocks    []string
	conducted []string
	attended  []string
	failClick map[int]bool
	expanded  []int
}

type expandAnchor struct {
	playwright.ElementHandle
	page *portalPage
	idx  int
}

func (a *expandAnchor) ScrollIntoViewIfNeeded(options ...playwright.ElementHandleScrollIntoViewIfNeededOptions) error {
	return nil
}

func (a *expandAnchor) Click(options ...playwright.ElementHandleClickOptions) error {
	if a.page.failClick[a.idx] {
		return errors.New("element is not attached to the DOM")
	}
	a.page.expanded = append(a.page.expanded, a.idx)
	return nil
}

// textSpan — элемент с текстом и видимостью.
type textSpan struct {
	playwright.ElementHandle
	text    string
	visible bool
}

func (s *textSpan) TextContent() (string, error) { return s.text, nil }
func (s *textSpan) IsVisible() (bool, error)     { return s.visible, nil }

// portalBrowser отдаёт элементы страницы по селекторам из конфигурации.
type portalBrowser struct {
	page *portalPage
	cfg  config.Portal
}

var _ browser.Browser = (*portalBrowser)(nil)

func (b *portalBrowser) QueryAll(ctx context.Context, selector string) ([]playwright.ElementHandle, error) {
	switch selector {
	case b.cfg.SubjectContainer:
		spans := make([]playwright.ElementHandle, 0, len(b.page.blocks))
		for _, block := range b.page.blocks {
			spans = append(spans, &textSpan{text: block, visible: true})
		}
		return spans, nil

	case b.cfg.PlusIconSelector:
		anchors := make([]playwright.ElementHandle, 0, len(b.page.conducted))
		for i := range b.page.conducted {
			anchors = append(anchors, &expandAnchor{page: b.page, idx: i})
		}
		return anchors, nil

	case b.cfg.ConductedSelector:
		return b.countSpans(b.page.conducted), nil

	case b.cfg.AttendedSelector:
		return b.countSpans(b.page.attended), nil
	}
	return nil, nil
}

// countSpans возвращает по счётчику на каждое раскрытие в порядке кликов,
// видим только последний.
func (b *portalBrowser) countSpans(values []string) []playwright.ElementHandle {
	spans := make([]playwright.ElementHandle, 0, len(b.page.expanded))
	for i, idx := range b.page.expanded {
		spans = append(spans, &textSpan{
			text:    values[idx],
			visible: i == len(b.page.expanded)-1,
		})
	}
	return spans
}

func (b *portalBrowser) Launch(ctx context.Context) error             { return nil }
func (b *portalBrowser) Navigate(ctx context.Context, u string) error { return nil }
func (b *portalBrowser) URL() string                                  { return "" }
func (b *portalBrowser) Fill(ctx context.Context, selector, value string) error {
	return nil
}
func (b *portalBrowser) Focus(ctx context.Context, selector string) error { return nil }
func (b *portalBrowser) Click(ctx context.Context, selector string) error { return nil }
func (b *portalBrowser) TypeChar(ctx context.Context, char string) error  { return nil }
func (b *portalBrowser) InputValue(ctx context.Context, selector string) (string, error) {
	return "", nil
}
func (b *portalBrowser) Query(ctx context.Context, selector string) (playwright.ElementHandle, error) {
	return nil, nil
}
func (b *portalBrowser) WaitForSelector(ctx context.Context, selector string) error { return nil }
func (b *portalBrowser) WaitForLoadState(ctx context.Context, state string) error   { return nil }
func (b *portalBrowser) Close() error                                               { return nil }

func testPortalCfg() *config.Cfg {
	return &config.Cfg{
		Portal: config.Portal{
			PlusIconSelector:  "i.bx-plus-circle",
			PlusIconXPath:     "//i[contains(@class, 'bx-plus-circle')]",
			SubjectContainer:  ".col-lg-12",
			ConductedSelector: "span[id*='lblClsCondID']",
			AttendedSelector:  "span[id*='lblClsAttID']",
			GoodThreshold:     75,
			WarningThreshold:  65,
		},
	}
}

func newTestChecker(cfg *config.Cfg) *Checker {
	return New(cfg, zap.NewNop(), nil, nil)
}

func intp(n int) *int { return &n }

func TestExtractFullFlow(t *testing.T) {
	// Один блок без кода курса: имена собираются свободным разбором
	page := &portalPage{
		blocks: []string{
			"21JUGE1111-DATA VISUALISATION",
			"21JUGE2222-OPERATING SYSTEMS",
			"101-INTRODUCTION TO PHILOSOPHY",
		},
		conducted: []string{"10", "20", "20"},
		attended:  []string{"8", "P-14/E-1/L-0/MCR-0/R-0/Total-15", "17"},
	}
	cfg := testPortalCfg()
	pb := &portalBrowser{page: page, cfg: cfg.Portal}

	records, err := newTestChecker(cfg).extract(context.Background(), pb, reporter.Nop())
	require.NoError(t, err)

	require.Equal(t, []attendance.SubjectRecord{
		{Index: 1, Name: "DATA VISUALISATION", Conducted: intp(10), Attended: intp(8)},
		{Index: 2, Name: "OPERATING SYSTEMS", Conducted: intp(20), Attended: intp(15)},
		{Index: 3, Name: "INTRODUCTION TO PHILOSOPHY", Conducted: intp(20), Attended: intp(17)},
	}, records)

	report := attendance.Aggregate(records, attendance.Thresholds{Good: 75, Warning: 65})
	require.Equal(t, 50, report.TotalConducted)
	require.Equal(t, 40, report.TotalAttended)
	require.InDelta(t, 80.0, report.OverallPercentage, 0.01)
	require.Equal(t, attendance.StatusGood, report.Status)
}

func TestExtractKeepsRecordWhenClickFails(t *testing.T) {
	page := &portalPage{
		blocks: []string{
			"21JUGE1111-DATA VISUALISATION",
			"21JUGE2222-OPERATING SYSTEMS",
			"21JUGE3333-DISCRETE MATHEMATICS",
		},
		conducted: []string{"10", "20", "20"},
		attended:  []string{"8", "15", "17"},
		failClick: map[int]bool{1: true},
	}
	cfg := testPortalCfg()
	pb := &portalBrowser{page: page, cfg: cfg.Portal}

	records, err := newTestChecker(cfg).extract(context.Background(), pb, reporter.Nop())
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Нераскрытый предмет остаётся в списке без счётчиков, индекс стабилен
	require.Equal(t, attendance.SubjectRecord{Index: 2, Name: "OPERATING SYSTEMS"}, records[1])
	require.Equal(t, intp(10), records[0].Conducted)
	require.Equal(t, intp(17), records[2].Attended)

	report := attendance.Aggregate(records, attendance.Thresholds{Good: 75, Warning: 65})
	require.Equal(t, 30, report.TotalConducted)
	require.Equal(t, 25, report.TotalAttended)
}

func TestExtractSynthesizesMissingNames(t *testing.T) {
	page := &portalPage{
		conducted: []string{"12", "9"},
		attended:  []string{"11", "9"},
	}
	cfg := testPortalCfg()
	pb := &portalBrowser{page: page, cfg: cfg.Portal}

	records, err := newTestChecker(cfg).extract(context.Background(), pb, reporter.Nop())
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "Предмет 1", records[0].Name)
	require.Equal(t, "Предмет 2", records[1].Name)
	require.Equal(t, intp(12), records[0].Conducted)
	require.Equal(t, intp(9), records[1].Attended)
}

func TestExtractNoAnchors(t *testing.T) {
	cfg := testPortalCfg()
	pb := &portalBrowser{page: &portalPage{}, cfg: cfg.Portal}

	_, err := newTestChecker(cfg).extract(context.Background(), pb, reporter.Nop())

	require.ErrorIs(t, err, ErrStructureUnrecognized)
}
