package browser

import (
	"context"
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBrowser эмулирует одно поле ввода: Fill очищает, TypeChar добавляет
// символ, InputValue возвращает накопленное.
type fakeBrowser struct {
	typed strings.Builder
}

func (f *fakeBrowser) Launch(ctx context.Context) error             { return nil }
func (f *fakeBrowser) Navigate(ctx context.Context, u string) error { return nil }
func (f *fakeBrowser) URL() string                                  { return "" }
func (f *fakeBrowser) Fill(ctx context.Context, selector, value string) error {
	f.typed.Reset()
	f.typed.WriteString(value)
	return nil
}
func (f *fakeBrowser) Focus(ctx context.Context, selector string) error { return nil }
func (f *fakeBrowser) Click(ctx context.Context, selector string) error { return nil }
func (f *fakeBrowser) TypeChar(ctx context.Context, char string) error {
	f.typed.WriteString(char)
	return nil
}
func (f *fakeBrowser) InputValue(ctx context.Context, selector string) (string, error) {
	return f.typed.String(), nil
}
func (f *fakeBrowser) Query(ctx context.Context, selector string) (playwright.ElementHandle, error) {
	return nil, nil
}
func (f *fakeBrowser) QueryAll(ctx context.Context, selector string) ([]playwright.ElementHandle, error) {
	return nil, nil
}
func (f *fakeBrowser) WaitForSelector(ctx context.Context, selector string) error { return nil }
func (f *fakeBrowser) WaitForLoadState(ctx context.Context, state string) error   { return nil }
func (f *fakeBrowser) Close() error                                               { return nil }

func newTestTyper(fb *fakeBrowser) *FieldTyper {
	typer := NewFieldTyper(fb, zap.NewNop())
	typer.delay = 0
	return typer
}

func TestTypeIntoSkipsInvalidChars(t *testing.T) {
	fb := &fakeBrowser{}

	value, err := newTestTyper(fb).TypeInto(context.Background(), "#captcha", "aB 3!")

	require.NoError(t, err)
	require.Equal(t, "AB3", value)
}

func TestTypeIntoClearsFieldFirst(t *testing.T) {
	fb := &fakeBrowser{}
	fb.typed.WriteString("stale")

	value, err := newTestTyper(fb).TypeInto(context.Background(), "#captcha", "XY12")

	require.NoError(t, err)
	require.Equal(t, "XY12", value)
}

func TestTypeIntoCancelledContext(t *testing.T) {
	fb := &fakeBrowser{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestTyper(fb).TypeInto(ctx, "#captcha", "XY12")

	// Отменённый контекст прерывает ввод до первого символа
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, fb.typed.String())
}

func TestTypeIntoEmptyText(t *testing.T) {
	fb := &fakeBrowser{}

	value, err := newTestTyper(fb).TypeInto(context.Background(), "#captcha", "")

	require.NoError(t, err)
	require.Empty(t, value)
}
