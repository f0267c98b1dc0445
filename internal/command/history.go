package command

// DefaultHistoryLimit - потолок стека отката по умолчанию.
const DefaultHistoryLimit = 64

// History - ограниченный undo/redo стек выполненных команд.
//
// Владелец - тот, кто вызывает команды (engine.Service); история
// не синхронизирована и живет в одном логическом цикле кадра.
//
// Инварианты:
//   - Undo не выбрасывает старейшую сохраненную запись: стек размера 1
//     не откатывается ("не откатываемся за начальное состояние" -
//     политика, унаследованная от исходного примера).
//   - Redo валиден только сразу после Undo: любой новый Execute
//     инвалидирует "будущее".
type History struct {
	undo  []Command
	redo  []Command
	limit int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Execute проверяет предусловие и выполняет команду.
// Возвращает false без ошибки, если CanExecute отверг команду -
// отвергнутый ввод это нормальный исход, а не сбой (см. дизайн ошибок).
func (h *History) Execute(cmd Command) (bool, error) {
	if cmd == nil {
		return false, nil
	}
	if !cmd.CanExecute() {
		return false, nil
	}
	if err := cmd.Execute(); err != nil {
		return false, err
	}

	// Новое действие инвалидирует redo-стек в любом случае
	h.redo = h.redo[:0]

	// Храним только откатываемые команды
	if cmd.Undoable() {
		h.undo = append(h.undo, cmd)
		if len(h.undo) > h.limit {
			// Вытесняем старейшую запись
			h.undo = h.undo[1:]
		}
	}
	return true, nil
}

// Undo откатывает последнюю команду. Безопасный no-op на пустом стеке
// и на стеке размера 1 (старейшая запись никогда не снимается).
func (h *History) Undo() bool {
	if len(h.undo) <= 1 {
		return false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	top.Undo()
	h.redo = append(h.redo, top)
	return true
}

// Redo повторяет последнюю откаченную команду. No-op на пустом redo.
// Если к моменту повтора предусловие команды перестало выполняться,
// запись молча выбрасывается (см. решение в DESIGN.md).
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	if !top.CanExecute() {
		return false
	}
	if err := top.Execute(); err != nil {
		return false
	}
	h.undo = append(h.undo, top)
	return true
}

// CanUndo/CanRedo - чистые запросы по размерам стеков.
func (h *History) CanUndo() bool { return len(h.undo) > 1 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len возвращает глубину стека отката (для отладочных ручек).
func (h *History) Len() int { return len(h.undo) }
