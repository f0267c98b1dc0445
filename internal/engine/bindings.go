package engine

import (
	"strings"
	"sync"

	"impulse-server/internal/domain"
)

// Binding связывает клавишу с действием и его параметрами.
type Binding struct {
	Action domain.ActionType
	Params []string
}

// Bindings - таблица привязок клавиш. Ключи нечувствительны к регистру.
type Bindings struct {
	mu    sync.RWMutex
	table map[string]Binding
}

func NewBindings() *Bindings {
	return &Bindings{table: make(map[string]Binding)}
}

// DefaultBindings возвращает стандартную раскладку WASD.
func DefaultBindings() *Bindings {
	b := NewBindings()
	b.Bind("W", domain.ActionMove, "0", "-1")
	b.Bind("S", domain.ActionMove, "0", "1")
	b.Bind("A", domain.ActionMove, "-1", "0")
	b.Bind("D", domain.ActionMove, "1", "0")
	b.Bind("SPACE", domain.ActionJump)
	b.Bind("F", domain.ActionAttack)
	b.Bind("E", domain.ActionInteract)
	return b
}

func (b *Bindings) Bind(key string, action domain.ActionType, params ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.table[strings.ToUpper(key)] = Binding{Action: action, Params: params}
}

func (b *Bindings) Unbind(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.table, strings.ToUpper(key))
}

// Lookup возвращает привязку для клавиши. Второй результат - найдена ли она.
func (b *Bindings) Lookup(key string) (Binding, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	binding, ok := b.table[strings.ToUpper(key)]
	return binding, ok
}
