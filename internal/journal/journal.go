package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Journal - аудит выполненных команд в sqlite.
// В отличие от бинарного реплея (который хранит сырые события для
// воспроизведения), журнал хранит РЕЗУЛЬТАТ - какие команды реально
// выполнились - и отдается через debug-ручку для разбора сессий.
type Journal struct {
	db *sql.DB
}

// Entry - одна запись журнала.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // execute, undo, redo
	CommandID string    `json:"commandId"`
	Name      string    `json:"name"`
	Actor     string    `json:"actor"`
	Device    string    `json:"device"`
	CreatedAt time.Time `json:"createdAt"`
}

// Open открывает (и при необходимости создает) файл журнала.
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Одно соединение: журнал пишется из одного цикла, а WAL не любит
	// конкурирующих писателей
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	j := &Journal{db: db}
	if err := j.migrate(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate(ctx context.Context) error {
	_, err := j.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS command_log (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	command_id  TEXT NOT NULL,
	name        TEXT NOT NULL,
	actor       TEXT NOT NULL,
	device      TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_command_log_created ON command_log(created_at);
`)
	if err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record пишет запись. Пустой ID генерируется на месте.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx, `
INSERT INTO command_log(id, kind, command_id, name, actor, device, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.CommandID, e.Name, e.Actor, e.Device, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record command: %w", err)
	}
	return nil
}

// Recent возвращает последние limit записей, новые первыми.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT id, kind, command_id, name, actor, device, created_at
FROM command_log ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ms int64
		if err := rows.Scan(&e.ID, &e.Kind, &e.CommandID, &e.Name, &e.Actor, &e.Device, &ms); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
