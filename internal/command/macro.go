package command

// MacroCommand - составная команда: упорядоченный список подкоманд.
//
// Семантика:
//   - CanExecute - конъюнкция CanExecute всех детей.
//   - Execute выполняет детей по порядку. Ребенок, чей CanExecute успел
//     стать false к его очереди, ПРОПУСКАЕТСЯ (не прерывает макрос).
//   - Undo идет строго в обратном порядке по фактически выполненным
//     детям, пропуская неоткатываемых.
type MacroCommand struct {
	base
	children []Command

	// Фактически выполненные дети в порядке выполнения. nil до Execute.
	executed []Command
}

func NewMacro(name string, children ...Command) *MacroCommand {
	if name == "" {
		name = "macro"
	}
	return &MacroCommand{base: newBase(name), children: children}
}

func (c *MacroCommand) CanExecute() bool {
	for _, child := range c.children {
		if !child.CanExecute() {
			return false
		}
	}
	return true
}

func (c *MacroCommand) Execute() error {
	c.executed = nil
	for _, child := range c.children {
		// Перепроверка перед КАЖДЫМ ребенком: предыдущие дети могли
		// истратить ресурс, от которого зависит следующий
		if !child.CanExecute() {
			continue
		}
		if err := child.Execute(); err != nil {
			// Неудавшийся ребенок не попадает в executed и не откатывается
			continue
		}
		c.executed = append(c.executed, child)
	}
	return nil
}

func (c *MacroCommand) Undo() {
	if c.executed == nil {
		return
	}
	for i := len(c.executed) - 1; i >= 0; i-- {
		if !c.executed[i].Undoable() {
			continue
		}
		c.executed[i].Undo()
	}
	c.executed = nil
}

// Undoable - макрос откатываем, если откатываем хотя бы один ребенок.
func (c *MacroCommand) Undoable() bool {
	for _, child := range c.children {
		if child.Undoable() {
			return true
		}
	}
	return false
}

func (c *MacroCommand) Clone() Command {
	cloned := make([]Command, len(c.children))
	for i, child := range c.children {
		cloned[i] = child.Clone()
	}
	return NewMacro(c.name, cloned...)
}
