// Package reporter определяет канал пользовательских сообщений о ходе
// проверки. Компоненты зависят от интерфейса и не знают, куда уходит
// сообщение — в консоль, в SSE-поток или в никуда.
package reporter

import "go.uber.org/zap"

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Reporter — возможность доставить сообщение пользователю.
type Reporter interface {
	Emit(message string, level Level)
}

// Func адаптирует функцию к интерфейсу Reporter.
type Func func(message string, level Level)

func (f Func) Emit(message string, level Level) { f(message, level) }

// Nop — заглушка для тестов и запусков без подписчиков.
func Nop() Reporter {
	return Func(func(string, Level) {})
}

// NewZap направляет сообщения в zap-логгер.
func NewZap(log *zap.Logger) Reporter {
	return Func(func(message string, level Level) {
		switch level {
		case LevelError:
			log.Error(message)
		case LevelWarning:
			log.Warn(message)
		default:
			log.Info(message)
		}
	})
}

// Multi рассылает сообщение всем получателям по порядку.
func Multi(reporters ...Reporter) Reporter {
	return Func(func(message string, level Level) {
		for _, r := range reporters {
			r.Emit(message, level)
		}
	})
}
