package command

import (
	"time"

	"impulse-server/pkg/utils"
)

// Command инкапсулирует действие игрока как исполняемую и (обычно)
// откатываемую единицу, отвязанную от источника ввода.
//
// Контракт:
//   - CanExecute - чистый предикат, состояние не мутирует.
//   - Execute НЕ перепроверяет CanExecute. Проверка - обязанность
//     вызывающего непосредственно перед Execute (окно гонки между
//     проверкой и выполнением - известное ограничение этого дизайна).
//   - Undo без предшествующего Execute - безопасный no-op: memento
//     отсутствует до выполнения, Undo восстанавливает строго из него.
//   - Clone дает свежую команду с той же целью, но БЕЗ memento
//     (для переиспользования и сборки макросов).
type Command interface {
	ID() string
	Name() string
	CreatedAt() time.Time

	CanExecute() bool
	Execute() error
	Undo()

	// Undoable сообщает истории, стоит ли хранить команду в стеке отката.
	Undoable() bool

	Clone() Command
}

// base - общая идентичность команды: сгенерированный ID, имя, время создания.
type base struct {
	id      string
	name    string
	created time.Time
}

func newBase(name string) base {
	return base{
		id:      utils.GenerateID(),
		name:    name,
		created: time.Now(),
	}
}

func (b base) ID() string           { return b.id }
func (b base) Name() string         { return b.name }
func (b base) CreatedAt() time.Time { return b.created }
