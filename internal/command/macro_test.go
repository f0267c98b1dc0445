package command

import (
	"testing"

	"impulse-server/internal/domain"
)

func TestMacro_SkipsChildMidway(t *testing.T) {
	// Сценарий из дизайна: макрос [move, attack], где attack.CanExecute
	// становится false к его очереди. Move выполняется, attack пропускается,
	// Undo откатывает только move.
	actor := testActor()
	target := testActor()
	target.ID = "e1"

	// Ровно на атаку: move съест стамину и атака станет невозможной
	actor.Stamina = domain.StaminaCostAttack

	move := NewMove(actor, 1, 0)
	attack := NewAttack(actor, target, 30)
	macro := NewMacro("combo", move, attack)

	// В момент старта конъюнкция истинна
	if !macro.CanExecute() {
		t.Fatal("Macro preconditions should hold at start")
	}

	if err := macro.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if actor.Pos.X != 6 {
		t.Error("Move child must have executed")
	}
	if target.HP != 100 {
		t.Errorf("Attack child must have been skipped, target HP=%d", target.HP)
	}

	macro.Undo()
	if actor.Pos.X != 5 {
		t.Error("Undo must roll back the executed move")
	}
	if target.HP != 100 {
		t.Error("Undo must not touch the skipped attack")
	}
}

func TestMacro_CanExecuteConjunction(t *testing.T) {
	actor := testActor()
	actor.Grounded = false // Прыжок невозможен

	macro := NewMacro("combo", NewMove(actor, 1, 0), NewJump(actor))

	if macro.CanExecute() {
		t.Error("One failing child must fail the whole conjunction")
	}
}

func TestMacro_UndoReverseOrder(t *testing.T) {
	actor := testActor()

	// Два хода: (+1,0) затем (0,+1). Откат в обратном порядке
	// возвращает в исходную точку.
	macro := NewMacro("path", NewMove(actor, 1, 0), NewMove(actor, 0, 1))

	if err := macro.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if actor.Pos.X != 6 || actor.Pos.Y != 6 {
		t.Fatalf("Unexpected position after macro: %+v", actor.Pos)
	}

	macro.Undo()
	if actor.Pos.X != 5 || actor.Pos.Y != 5 {
		t.Errorf("Undo must restore the origin, got %+v", actor.Pos)
	}
}

func TestMacro_UndoSkipsNonUndoable(t *testing.T) {
	actor := testActor()

	macro := NewMacro("use", NewMove(actor, 1, 0), NewInteract(actor, "lever_1"))

	if err := macro.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	macro.Undo()
	if actor.Pos.X != 5 {
		t.Error("Move must be undone")
	}
	if actor.LastInteract != "lever_1" {
		t.Error("Non-undoable interact must survive the macro undo")
	}
}

func TestMacro_UndoWithoutExecute_NoOp(t *testing.T) {
	actor := testActor()
	macro := NewMacro("combo", NewMove(actor, 1, 0))

	macro.Undo()
	if actor.Pos.X != 5 {
		t.Error("Macro undo without execute must be a no-op")
	}
}

func TestMacro_CloneClonesChildren(t *testing.T) {
	actor := testActor()
	macro := NewMacro("combo", NewMove(actor, 1, 0))
	if err := macro.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	clone := macro.Clone().(*MacroCommand)
	if clone.executed != nil {
		t.Error("Clone must not inherit execution state")
	}
	if len(clone.children) != 1 {
		t.Fatalf("Clone lost children: %d", len(clone.children))
	}
	if clone.children[0].(*MoveCommand).memento != nil {
		t.Error("Cloned children must not carry mementos")
	}
}
