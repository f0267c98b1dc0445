package api

import (
	"encoding/json"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand - корневой объект всех сообщений от клиента.
type ClientCommand struct {
	// Token - идентификатор сессии. Обязателен только в первом
	// сообщении "HELLO"; дальше сервер проставляет его сам.
	Token string `json:"token,omitempty"`

	// Action - что сделать: KEY, POINTER, UNDO, REDO, STATE.
	Action string `json:"action"`

	// Payload - JSON с данными действия. Структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// KeyPayload - инжекция клавиатурного события (Action: KEY).
type KeyPayload struct {
	Key string `json:"key"` // "W", "Enter", "Space"

	// State: "pressed" или "released". "held" с провода не принимается -
	// удержание вычисляет сам источник.
	State string `json:"state"`

	Modifiers []string `json:"modifiers,omitempty"` // "ctrl", "shift", "alt", "meta"
	Repeat    bool     `json:"repeat,omitempty"`
}

// PointerPayload - инжекция события указателя (Action: POINTER).
type PointerPayload struct {
	X int `json:"x"`
	Y int `json:"y"`

	Button string `json:"button,omitempty"` // "left", "right", "middle"
	State  string `json:"state,omitempty"`  // Для кнопки: "pressed"/"released"

	ScrollX int `json:"scrollX,omitempty"`
	ScrollY int `json:"scrollY,omitempty"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse - снимок состояния ядра для клиента.
// Уходит после каждого тика, в котором было что-то интересное,
// и в ответ на STATE.
type ServerResponse struct {
	// Type - тип сообщения. Пока всегда "UPDATE".
	Type string `json:"type"`

	// Tick - номер тика цикла обработки.
	Tick int64 `json:"tick"`

	// Actor - состояние актора, которым управляют команды.
	Actor *ActorView `json:"actor,omitempty"`

	// Pointer - текущая позиция указателя.
	Pointer *PointerView `json:"pointer,omitempty"`

	// History - состояние undo/redo стека.
	History *HistoryView `json:"history,omitempty"`

	// Logs - новые записи лога с прошлой рассылки.
	Logs []LogEntry `json:"logs,omitempty"`
}

// ActorView - DTO актора.
type ActorView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Stamina int    `json:"stamina"`
	HP      int    `json:"hp"`

	Grounded bool `json:"grounded"`
}

// PointerView - DTO указателя.
type PointerView struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// HistoryView - DTO undo/redo стека.
type HistoryView struct {
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
	Depth   int  `json:"depth"`
}

// LogEntry - одна запись лога обработки (команда выполнена, откат и т.п.).
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMMAND, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}
