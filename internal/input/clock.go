package input

import (
	"sync"
	"time"
)

// Clock - источник времени для детекции удержания.
// Выделен в интерфейс, чтобы тесты могли контролировать время
// и проверять порог Held детерминированно.
type Clock interface {
	Now() time.Time
}

// SystemClock - обычное системное время (с монотонной компонентой).
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock - управляемое время для тестов.
type MockClock struct {
	mu  sync.RWMutex
	cur time.Time
}

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{cur: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Advance продвигает время на d вперед.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = m.cur.Add(d)
}
