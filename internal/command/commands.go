package command

import (
	"impulse-server/internal/domain"
)

// --- MOVE ---

// MoveCommand сдвигает актора на один шаг.
type MoveCommand struct {
	base
	actor   *domain.Actor
	dx, dy  int
	memento *domain.Actor // Снимок до выполнения; nil до Execute
}

func NewMove(actor *domain.Actor, dx, dy int) *MoveCommand {
	return &MoveCommand{base: newBase("move"), actor: actor, dx: dx, dy: dy}
}

func (c *MoveCommand) CanExecute() bool {
	if c.actor == nil {
		return false
	}
	if c.dx == 0 && c.dy == 0 {
		return false
	}
	if c.dx < -1 || c.dx > 1 || c.dy < -1 || c.dy > 1 {
		return false
	}
	return c.actor.Stamina >= domain.StaminaCostMove
}

func (c *MoveCommand) Execute() error {
	snap := c.actor.Snapshot()
	c.memento = &snap

	c.actor.Pos.X += c.dx
	c.actor.Pos.Y += c.dy
	c.actor.Stamina -= domain.StaminaCostMove
	return nil
}

func (c *MoveCommand) Undo() {
	if c.memento == nil {
		return
	}
	c.actor.Restore(*c.memento)
	c.memento = nil
}

func (c *MoveCommand) Undoable() bool { return true }

func (c *MoveCommand) Clone() Command {
	return NewMove(c.actor, c.dx, c.dy)
}

// --- ATTACK ---

// AttackCommand наносит урон цели.
type AttackCommand struct {
	base
	actor  *domain.Actor
	target *domain.Actor
	damage int

	mementoActor  *domain.Actor
	mementoTarget *domain.Actor
}

func NewAttack(actor, target *domain.Actor, damage int) *AttackCommand {
	if damage <= 0 {
		damage = domain.DefaultAttackDamage
	}
	return &AttackCommand{base: newBase("attack"), actor: actor, target: target, damage: damage}
}

func (c *AttackCommand) CanExecute() bool {
	if c.actor == nil || c.target == nil {
		return false
	}
	if c.target.HP <= 0 {
		return false
	}
	return c.actor.Stamina >= domain.StaminaCostAttack
}

func (c *AttackCommand) Execute() error {
	snapA := c.actor.Snapshot()
	snapT := c.target.Snapshot()
	c.mementoActor = &snapA
	c.mementoTarget = &snapT

	c.target.HP -= c.damage
	if c.target.HP < 0 {
		c.target.HP = 0
	}
	c.actor.Stamina -= domain.StaminaCostAttack
	return nil
}

func (c *AttackCommand) Undo() {
	if c.mementoActor == nil {
		return
	}
	c.actor.Restore(*c.mementoActor)
	c.target.Restore(*c.mementoTarget)
	c.mementoActor = nil
	c.mementoTarget = nil
}

func (c *AttackCommand) Undoable() bool { return true }

func (c *AttackCommand) Clone() Command {
	return NewAttack(c.actor, c.target, c.damage)
}

// --- JUMP ---

// JumpCommand - прыжок. Требует опоры под ногами.
type JumpCommand struct {
	base
	actor   *domain.Actor
	memento *domain.Actor
}

func NewJump(actor *domain.Actor) *JumpCommand {
	return &JumpCommand{base: newBase("jump"), actor: actor}
}

func (c *JumpCommand) CanExecute() bool {
	if c.actor == nil {
		return false
	}
	return c.actor.Grounded && c.actor.Stamina >= domain.StaminaCostJump
}

func (c *JumpCommand) Execute() error {
	snap := c.actor.Snapshot()
	c.memento = &snap

	c.actor.Grounded = false
	c.actor.Stamina -= domain.StaminaCostJump
	return nil
}

func (c *JumpCommand) Undo() {
	if c.memento == nil {
		return
	}
	c.actor.Restore(*c.memento)
	c.memento = nil
}

func (c *JumpCommand) Undoable() bool { return true }

func (c *JumpCommand) Clone() Command {
	return NewJump(c.actor)
}

// --- INTERACT ---

// InteractCommand - взаимодействие с целью (дверь, NPC, рычаг).
// Не откатываемая: побочный эффект взаимодействия в общем случае
// необратим, поэтому история её не хранит, а макрос при Undo пропускает.
type InteractCommand struct {
	base
	actor    *domain.Actor
	targetID string
}

func NewInteract(actor *domain.Actor, targetID string) *InteractCommand {
	return &InteractCommand{base: newBase("interact"), actor: actor, targetID: targetID}
}

func (c *InteractCommand) CanExecute() bool {
	return c.actor != nil && c.targetID != ""
}

func (c *InteractCommand) Execute() error {
	c.actor.LastInteract = c.targetID
	return nil
}

func (c *InteractCommand) Undo() {
	// Необратимое действие: no-op
}

func (c *InteractCommand) Undoable() bool { return false }

func (c *InteractCommand) Clone() Command {
	return NewInteract(c.actor, c.targetID)
}

// --- NULL ---

// NullCommand - null-object для неизвестных действий.
// CanExecute всегда false, поэтому вызывающий может безусловно
// звать CanExecute/Execute на результате фабрики, не проверяя nil.
type NullCommand struct {
	base
}

func NewNull(requested string) *NullCommand {
	name := "null"
	if requested != "" {
		name = "null:" + requested
	}
	return &NullCommand{base: newBase(name)}
}

func (c *NullCommand) CanExecute() bool { return false }
func (c *NullCommand) Execute() error   { return nil }
func (c *NullCommand) Undo()            {}
func (c *NullCommand) Undoable() bool   { return false }

func (c *NullCommand) Clone() Command {
	return &NullCommand{base: newBase(c.name)}
}
