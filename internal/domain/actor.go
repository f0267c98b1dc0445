package domain

// Position - позиция актора в мире.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Actor - минимальное состояние мира, которое мутируют команды.
// Команды валидируют предусловия (стамина, опора под ногами) против
// этих полей и захватывают их снимок как memento для Undo.
type Actor struct {
	ID   string
	Name string

	Pos        Position
	Stamina    int
	MaxStamina int
	HP         int
	MaxHP      int

	// Grounded - стоит ли актор на опоре. Прыжок требует Grounded,
	// сам прыжок его сбрасывает.
	Grounded bool

	// Проставляется командой interact - ID последней цели взаимодействия.
	LastInteract string
}

// Snapshot возвращает копию состояния актора.
// Используется командами как memento: Undo восстанавливает строго из него.
func (a *Actor) Snapshot() Actor {
	return *a
}

// Restore откатывает состояние актора к снимку.
func (a *Actor) Restore(s Actor) {
	// ID и имя не откатываем - это идентичность, а не состояние
	a.Pos = s.Pos
	a.Stamina = s.Stamina
	a.MaxStamina = s.MaxStamina
	a.HP = s.HP
	a.MaxHP = s.MaxHP
	a.Grounded = s.Grounded
	a.LastInteract = s.LastInteract
}
