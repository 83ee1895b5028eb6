package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ev(msg string) event {
	return event{Message: msg, Level: "info", Timestamp: time.Now()}
}

func TestSessionReplaysHistoryToLateSubscriber(t *testing.T) {
	s := newRunSession()
	s.emit(ev("один"))
	s.emit(ev("два"))

	ch := s.subscribe()

	require.Equal(t, "один", (<-ch).Message)
	require.Equal(t, "два", (<-ch).Message)

	s.emit(ev("три"))
	require.Equal(t, "три", (<-ch).Message)
}

func TestSessionFinishClosesSubscribers(t *testing.T) {
	s := newRunSession()
	ch := s.subscribe()

	s.emit(ev("готово"))
	s.finish()

	require.Equal(t, "готово", (<-ch).Message)
	_, open := <-ch
	require.False(t, open)
}

func TestSessionSubscribeAfterFinish(t *testing.T) {
	s := newRunSession()
	s.emit(ev("итог"))
	s.finish()

	ch := s.subscribe()

	// История доступна, канал сразу закрыт
	require.Equal(t, "итог", (<-ch).Message)
	_, open := <-ch
	require.False(t, open)
}

func TestSessionEmitAfterFinishIgnored(t *testing.T) {
	s := newRunSession()
	s.finish()
	s.emit(ev("поздно"))

	require.Empty(t, s.history)
}

func TestRegistryCreateAndGet(t *testing.T) {
	r := newSessionRegistry()

	created := r.create("abc")
	require.Same(t, created, r.get("abc"))
	require.Nil(t, r.get("missing"))
}

func TestRegistryRemoveEvictsSession(t *testing.T) {
	r := newSessionRegistry()

	s := r.create("abc")
	s.finish()
	r.remove("abc")

	require.Nil(t, r.get("abc"))
	// Повторное удаление безопасно
	r.remove("abc")
}
