package domain

// ReplayEvent - запись одного инжектированного сырого события.
// TickMs - смещение в миллисекундах от начала записи, чтобы playback
// мог восстановить исходный темп ввода.
type ReplayEvent struct {
	TickMs int64      `json:"tickMs"`
	Event  InputEvent `json:"event"`
}

// ReplaySession - полная запись сессии ввода
type ReplaySession struct {
	SessionID string        `json:"sessionId"`
	Timestamp int64         `json:"timestamp"` // Unix ms начала записи
	Events    []ReplayEvent `json:"events"`
}
