package input

import (
	"testing"
	"time"

	"impulse-server/internal/domain"
)

// Helper: источник с моковыми часами и накопителем нотификаций
func newTestSource() (*Source, *MockClock, *[]domain.InputEvent) {
	clock := NewMockClock(time.Unix(1000, 0))
	src := NewSourceWithClock(clock)

	captured := &[]domain.InputEvent{}
	src.SetSink(func(ev domain.InputEvent) {
		*captured = append(*captured, ev)
	})
	return src, clock, captured
}

func keyEvents(events []domain.InputEvent, key string, state domain.KeyState) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == domain.KindKey && ev.Key.Key == key && ev.Key.State == state {
			n++
		}
	}
	return n
}

func TestKeyPressed_NoDuplicate(t *testing.T) {
	src, _, captured := newTestSource()

	// Дважды Pressed без Released между ними (авто-повтор ОС)
	src.InjectKey("W", domain.StatePressed, 0)
	src.InjectKey("W", domain.StatePressed, 0)
	src.ProcessInput()

	if got := keyEvents(*captured, "W", domain.StatePressed); got != 1 {
		t.Errorf("Expected exactly 1 pressed notification, got %d", got)
	}
	if !src.IsKeyPressed("W") {
		t.Error("W should be reported as pressed")
	}
}

func TestKeyPressed_AcrossBatches(t *testing.T) {
	src, _, captured := newTestSource()

	// Повтор в разных вызовах ProcessInput тоже не порождает дублей
	src.InjectKey("W", domain.StatePressed, 0)
	src.ProcessInput()
	src.InjectKey("W", domain.StatePressed, 0)
	src.ProcessInput()

	if got := keyEvents(*captured, "W", domain.StatePressed); got != 1 {
		t.Errorf("Expected exactly 1 pressed notification, got %d", got)
	}
}

func TestKeyReleaseScenario(t *testing.T) {
	src, _, captured := newTestSource()

	// Сценарий из дизайна: W Pressed -> ровно один OnKeyPressed,
	// затем W Released -> ровно один OnKeyReleased и ноль новых Pressed.
	src.InjectKey("W", domain.StatePressed, 0)
	src.ProcessInput()

	if got := keyEvents(*captured, "W", domain.StatePressed); got != 1 {
		t.Fatalf("Expected 1 pressed, got %d", got)
	}

	src.InjectKey("W", domain.StateReleased, 0)
	src.ProcessInput()

	if got := keyEvents(*captured, "W", domain.StateReleased); got != 1 {
		t.Errorf("Expected 1 released, got %d", got)
	}
	if got := keyEvents(*captured, "W", domain.StatePressed); got != 1 {
		t.Errorf("Released must not produce extra pressed, got %d", got)
	}
	if src.IsKeyPressed("W") {
		t.Error("W should not be pressed after release")
	}
}

func TestReleaseWithoutPress_Ignored(t *testing.T) {
	src, _, captured := newTestSource()

	src.InjectKey("Q", domain.StateReleased, 0)
	src.ProcessInput()

	if len(*captured) != 0 {
		t.Errorf("Release of an unpressed key must be silent, got %d events", len(*captured))
	}
}

func TestHeld_ThresholdTiming(t *testing.T) {
	src, clock, captured := newTestSource()

	src.InjectKey("W", domain.StatePressed, 0)
	src.ProcessInput()

	// Чуть раньше порога - Held быть не должно
	clock.Advance(HoldThreshold - time.Millisecond)
	src.Update()

	if got := keyEvents(*captured, "W", domain.StateHeld); got != 0 {
		t.Fatalf("Held fired before threshold: %d events", got)
	}
	if src.IsKeyHeld("W") {
		t.Fatal("IsKeyHeld must be false before threshold")
	}

	// Пересекаем порог: ровно один переход в Held
	clock.Advance(2 * time.Millisecond)
	src.Update()
	src.Update() // Повторные тики новых Held не дают

	if got := keyEvents(*captured, "W", domain.StateHeld); got != 1 {
		t.Errorf("Expected exactly 1 held transition, got %d", got)
	}
	if !src.IsKeyHeld("W") {
		t.Error("IsKeyHeld must be true after threshold")
	}
	if !src.IsKeyPressed("W") {
		t.Error("Held key still counts as pressed")
	}
}

func TestHeld_ReleasedResetsHold(t *testing.T) {
	src, clock, captured := newTestSource()

	src.InjectKey("W", domain.StatePressed, 0)
	src.ProcessInput()

	clock.Advance(HoldThreshold)
	src.Update()

	src.InjectKey("W", domain.StateReleased, 0)
	src.ProcessInput()

	// Новое нажатие отсчитывает порог заново
	src.InjectKey("W", domain.StatePressed, 0)
	src.ProcessInput()
	clock.Advance(HoldThreshold / 2)
	src.Update()

	if got := keyEvents(*captured, "W", domain.StateHeld); got != 1 {
		t.Errorf("Re-press must restart hold timer, got %d held events", got)
	}
}

func TestInjectedHeld_Ignored(t *testing.T) {
	src, _, captured := newTestSource()

	// Held - производное состояние, инжектировать его нельзя
	src.InjectKey("W", domain.StateHeld, 0)
	src.ProcessInput()

	if len(*captured) != 0 {
		t.Errorf("Injected Held must be dropped, got %d events", len(*captured))
	}
}

func TestInvalidKey_Ignored(t *testing.T) {
	src, _, captured := newTestSource()

	// Пустой идентификатор - мусорный ввод, не падаем и молчим
	src.InjectKey("", domain.StatePressed, 0)
	src.ProcessInput()

	if len(*captured) != 0 {
		t.Errorf("Empty key id must be ignored, got %d events", len(*captured))
	}
}

func TestPointer_MoveAndButtons(t *testing.T) {
	src, _, captured := newTestSource()

	src.InjectPointer(10, 20, "", domain.StateReleased, 0, 0)
	src.ProcessInput()

	x, y := src.PointerPosition()
	if x != 10 || y != 20 {
		t.Errorf("Expected pointer (10,20), got (%d,%d)", x, y)
	}
	if len(*captured) != 1 {
		t.Fatalf("Expected 1 pointer notification, got %d", len(*captured))
	}
	if (*captured)[0].Pointer.Dx != 10 || (*captured)[0].Pointer.Dy != 20 {
		t.Errorf("Bad delta: (%d,%d)", (*captured)[0].Pointer.Dx, (*captured)[0].Pointer.Dy)
	}

	// Кнопка: переход фиксируется один раз
	src.InjectPointer(10, 20, "left", domain.StatePressed, 0, 0)
	src.InjectPointer(10, 20, "left", domain.StatePressed, 0, 0)
	src.ProcessInput()

	if !src.IsButtonPressed("left") {
		t.Error("left button should be pressed")
	}
	if len(*captured) != 2 {
		t.Errorf("Duplicate button press must not fire, got %d total events", len(*captured))
	}
}

func TestPointer_StationaryNoNotification(t *testing.T) {
	src, _, captured := newTestSource()

	src.InjectPointer(5, 5, "", domain.StateReleased, 0, 0)
	src.ProcessInput()
	n := len(*captured)

	// То же место, без кнопок и скролла - нотификации нет
	src.InjectPointer(5, 5, "", domain.StateReleased, 0, 0)
	src.ProcessInput()

	if len(*captured) != n {
		t.Errorf("Stationary pointer event must be dropped, got %d new", len(*captured)-n)
	}
}

func TestProcessInput_FIFO(t *testing.T) {
	src, _, captured := newTestSource()

	src.InjectKey("A", domain.StatePressed, 0)
	src.InjectKey("B", domain.StatePressed, 0)
	src.InjectKey("A", domain.StateReleased, 0)
	src.ProcessInput()

	want := []struct {
		key   string
		state domain.KeyState
	}{
		{"A", domain.StatePressed},
		{"B", domain.StatePressed},
		{"A", domain.StateReleased},
	}
	if len(*captured) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(*captured))
	}
	for i, w := range want {
		ev := (*captured)[i]
		if ev.Key.Key != w.key || ev.Key.State != w.state {
			t.Errorf("Event %d: expected %s/%v, got %s/%v", i, w.key, w.state, ev.Key.Key, ev.Key.State)
		}
	}
}
