package server

import (
	"sync"
	"time"

	"attendanceBot/internal/reporter"
)

// event — одно сообщение о ходе проверки для SSE-потока.
type event struct {
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}

// runSession хранит историю сообщений запуска и рассылает новые сообщения
// подписчикам. Подписчик, пришедший позже, получает историю целиком —
// подключение к SSE после старта проверки ничего не теряет.
type runSession struct {
	mu        sync.Mutex
	history   []event
	listeners map[chan event]struct{}
	done      bool
}

func newRunSession() *runSession {
	return &runSession{
		listeners: make(map[chan event]struct{}),
	}
}

func (s *runSession) emit(ev event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}
	s.history = append(s.history, ev)
	for ch := range s.listeners {
		select {
		case ch <- ev:
		default:
			// Медленный подписчик не тормозит проверку
		}
	}
}

// subscribe возвращает канал с проигранной историей. Для завершённого
// запуска канал сразу закрыт после истории.
func (s *runSession) subscribe() chan event {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan event, len(s.history)+64)
	for _, ev := range s.history {
		ch <- ev
	}
	if s.done {
		close(ch)
		return ch
	}
	s.listeners[ch] = struct{}{}
	return ch
}

func (s *runSession) unsubscribe(ch chan event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listeners[ch]; ok {
		delete(s.listeners, ch)
		close(ch)
	}
}

// finish закрывает все каналы подписчиков, история остаётся доступной.
func (s *runSession) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}
	s.done = true
	for ch := range s.listeners {
		close(ch)
		delete(s.listeners, ch)
	}
}

// reporter адаптирует сессию к каналу сообщений конвейера.
func (s *runSession) reporter() reporter.Reporter {
	return reporter.Func(func(message string, level reporter.Level) {
		s.emit(event{
			Message:   message,
			Level:     string(level),
			Timestamp: time.Now(),
		})
	})
}

// sessionRegistry — активные и недавно завершённые запуски по идентификатору
// сессии.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*runSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*runSession),
	}
}

func (r *sessionRegistry) create(id string) *runSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := newRunSession()
	r.sessions[id] = s
	return s
}

func (r *sessionRegistry) get(id string) *runSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

func (r *sessionRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
