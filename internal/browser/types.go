// Package browser оборачивает Playwright в минимальный набор возможностей,
// нужный конвейеру проверки посещаемости: навигация, поиск элементов,
// клики, посимвольный ввод и чтение значений полей.
package browser

import (
	"context"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

type Browser interface {
	Launch(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	URL() string
	Fill(ctx context.Context, selector, value string) error
	Focus(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string) error
	TypeChar(ctx context.Context, char string) error
	InputValue(ctx context.Context, selector string) (string, error)
	Query(ctx context.Context, selector string) (playwright.ElementHandle, error)
	QueryAll(ctx context.Context, selector string) ([]playwright.ElementHandle, error)
	WaitForSelector(ctx context.Context, selector string) error
	WaitForLoadState(ctx context.Context, state string) error
	Close() error
}

type PlaywrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	cfg     Config
	mu      sync.RWMutex
}

type Config struct {
	Headless        bool
	UserDataDir     string
	BrowsersPath    string
	Display         string
	Timeout         time.Duration
	NavigateTimeout time.Duration
	ViewportWidth   int
	ViewportHeight  int
	UserAgent       string
}
