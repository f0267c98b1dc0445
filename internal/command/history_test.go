package command

import (
	"testing"
)

func mustExecute(t *testing.T, h *History, cmd Command) {
	t.Helper()
	ok, err := h.Execute(cmd)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !ok {
		t.Fatalf("Command %s rejected by precondition", cmd.Name())
	}
}

func TestHistory_RejectsNonExecutable(t *testing.T) {
	h := NewHistory(0)
	actor := testActor()
	actor.Stamina = 0

	ok, err := h.Execute(NewMove(actor, 1, 0))
	if err != nil {
		t.Fatalf("Precondition failure is not an error: %v", err)
	}
	if ok {
		t.Error("Command with failed precondition must not execute")
	}
	if actor.Pos.X != 5 {
		t.Error("State must be untouched")
	}
}

func TestHistory_UndoRedoRoundTrip(t *testing.T) {
	h := NewHistory(0)
	actor := testActor()

	// Две команды, чтобы верхнюю можно было откатить
	// (старейшая запись не снимается)
	mustExecute(t, h, NewMove(actor, 1, 0))
	mustExecute(t, h, NewMove(actor, 0, 1))

	afterExec := *actor

	if !h.Undo() {
		t.Fatal("Undo should succeed")
	}
	if actor.Pos.Y != 5 {
		t.Errorf("Undo did not restore Y: %d", actor.Pos.Y)
	}

	if !h.Redo() {
		t.Fatal("Redo should succeed")
	}
	// Состояние после Redo идентично состоянию сразу после Execute
	if *actor != afterExec {
		t.Errorf("Redo state mismatch: got %+v want %+v", *actor, afterExec)
	}
}

func TestHistory_DoubleUndo_Bounded(t *testing.T) {
	h := NewHistory(0)
	actor := testActor()

	mustExecute(t, h, NewMove(actor, 1, 0))
	mustExecute(t, h, NewMove(actor, 1, 0))

	h.Undo()
	stateAfterFirst := *actor

	// Второй Undo упирается в старейшую запись: состояние не меняется,
	// ни паники, ни порчи стека
	if h.Undo() {
		t.Error("Second undo must be a no-op at the oldest entry")
	}
	if *actor != stateAfterFirst {
		t.Error("Bounded undo must leave state identical to a single undo")
	}
	if h.CanUndo() {
		t.Error("CanUndo must be false at the boundary")
	}
}

func TestHistory_UndoEmpty_NoOp(t *testing.T) {
	h := NewHistory(0)

	if h.Undo() {
		t.Error("Undo on empty history must be a no-op")
	}
	if h.Redo() {
		t.Error("Redo on empty history must be a no-op")
	}
}

func TestHistory_NewExecuteInvalidatesRedo(t *testing.T) {
	h := NewHistory(0)
	actor := testActor()

	mustExecute(t, h, NewMove(actor, 1, 0))
	mustExecute(t, h, NewMove(actor, 0, 1))
	h.Undo()

	if !h.CanRedo() {
		t.Fatal("Redo must be available right after undo")
	}

	// Любое новое действие стирает "будущее"
	mustExecute(t, h, NewMove(actor, -1, 0))

	if h.CanRedo() {
		t.Error("New execute must clear the redo stack")
	}
}

func TestHistory_NonUndoableNotRetained(t *testing.T) {
	h := NewHistory(0)
	actor := testActor()

	mustExecute(t, h, NewInteract(actor, "door_1"))

	if h.Len() != 0 {
		t.Errorf("Non-undoable command must not enter the stack, len=%d", h.Len())
	}
}

func TestHistory_LimitEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	actor := testActor()

	for i := 0; i < 5; i++ {
		mustExecute(t, h, NewMove(actor, 1, 0))
	}

	if h.Len() != 3 {
		t.Errorf("Expected stack bounded at 3, got %d", h.Len())
	}

	// Проверяем глубину фактическим откатом до границы
	undone := 0
	for h.Undo() {
		undone++
	}
	if undone != 2 {
		t.Errorf("Expected 2 undos before hitting the retained oldest entry, got %d", undone)
	}
}
