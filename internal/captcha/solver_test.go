package captcha

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"attendanceBot/internal/reporter"
)

type visionFunc func(ctx context.Context, prompt string, image []byte) (string, error)

func (f visionFunc) ReadImage(ctx context.Context, prompt string, image []byte) (string, error) {
	return f(ctx, prompt, image)
}

func newTestSolver(v visionFunc, prompts []string) *Solver {
	s := NewSolver(v, prompts, zap.NewNop(), reporter.Nop())
	s.delay = 0
	return s
}

func TestSolveAcceptsFirstValidToken(t *testing.T) {
	responses := []string{
		"I am not sure, it looks blurry",
		"THE CAPTCHA IS: 'xY12'",
	}
	calls := 0
	v := visionFunc(func(ctx context.Context, prompt string, image []byte) (string, error) {
		resp := responses[calls]
		calls++
		return resp, nil
	})

	got := newTestSolver(v, []string{"p1", "p2", "p3"}).Solve(context.Background(), []byte{1}, 3)

	require.Equal(t, "XY12", got)
	require.Equal(t, 2, calls)
}

func TestSolveRotatesPromptVariants(t *testing.T) {
	var seen []string
	v := visionFunc(func(ctx context.Context, prompt string, image []byte) (string, error) {
		seen = append(seen, prompt)
		return "", nil
	})

	// Вариантов два, попыток пять: варианты идут по кругу
	got := newTestSolver(v, []string{"a", "b"}).Solve(context.Background(), []byte{1}, 5)

	require.Empty(t, got)
	require.Equal(t, []string{"a", "b", "a", "b", "a"}, seen)
}

func TestSolveContinuesAfterTransportError(t *testing.T) {
	calls := 0
	v := visionFunc(func(ctx context.Context, prompt string, image []byte) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("timeout")
		}
		return "AB12", nil
	})

	got := newTestSolver(v, []string{"p"}).Solve(context.Background(), []byte{1}, 3)

	require.Equal(t, "AB12", got)
}

func TestSolveExhaustsAttempts(t *testing.T) {
	v := visionFunc(func(ctx context.Context, prompt string, image []byte) (string, error) {
		return "??", nil // после очистки не проходит строгий фильтр
	})

	got := newTestSolver(v, []string{"p"}).Solve(context.Background(), []byte{1}, 3)

	require.Empty(t, got)
}

func TestSolveFromURLRejectsBadStatus(t *testing.T) {
	v := visionFunc(func(ctx context.Context, prompt string, image []byte) (string, error) {
		t.Fatal("vision не должен вызываться при ошибке загрузки")
		return "", nil
	})

	_, err := newTestSolver(v, []string{"p"}).SolveFromURL(context.Background(), "http://127.0.0.1:1/captcha", 1)

	require.Error(t, err)
}
