package engine

import "time"

// Config хранит параметры запуска движка
type Config struct {
	// TickRate - частота опроса источника ввода.
	TickRate time.Duration

	// HoldThreshold - сколько клавиша должна быть зажата,
	// чтобы перейти в состояние Held.
	HoldThreshold time.Duration

	// HistoryLimit - максимум команд в истории отмены.
	HistoryLimit int

	// ReplayDir - папка для бинарных записей сессий ввода.
	ReplayDir string

	// JournalPath - путь к файлу журнала команд (sqlite).
	JournalPath string
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		TickRate:      16 * time.Millisecond,
		HoldThreshold: 500 * time.Millisecond,
		HistoryLimit:  64,
		ReplayDir:     "replays",
		JournalPath:   "data/journal.db",
	}
}
