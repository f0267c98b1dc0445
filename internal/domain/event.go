package domain

import "time"

// Kind - дискриминатор варианта события.
// Иерархия событий закрытая (новых вариантов извне не ожидается),
// поэтому вместо интерфейса используется tagged union: диспетчеризация
// идет по Kind, а не по виртуальному вызову.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindKey
	KindPointer
)

// KeyState - состояние клавиши или кнопки.
type KeyState uint8

const (
	StateReleased KeyState = iota
	StatePressed
	StateHeld // Удержание: Pressed дольше порога (см. input.HoldThreshold)
)

// String реализует интерфейс Stringer (для логов)
func (s KeyState) String() string {
	switch s {
	case StateReleased:
		return "RELEASED"
	case StatePressed:
		return "PRESSED"
	case StateHeld:
		return "HELD"
	}
	return "UNKNOWN"
}

// Modifier - битовая маска модификаторов.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	ModMeta
)

// Has проверяет наличие модификатора в маске.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// KeyEvent - нормализованное клавиатурное событие.
type KeyEvent struct {
	Key    string   // Идентификатор клавиши ("W", "Enter", "Space")
	State  KeyState // Pressed / Released. Held выставляет сам источник.
	Mods   Modifier
	Repeat bool // Авто-повтор ОС, а не новое физическое нажатие
}

// PointerEvent - событие указателя (мышь, тачпад).
type PointerEvent struct {
	X, Y    int
	Dx, Dy  int    // Смещение с прошлого события
	Button  string // "left", "right", "middle". Пустая строка = только движение.
	State   KeyState
	ScrollX int
	ScrollY int
}

// InputEvent - конверт события: общие поля + один из вариантов.
// Неизменяем после создания источником; наблюдателям передается копия
// по значению, поэтому мутировать его из колбэков бессмысленно и безопасно.
type InputEvent struct {
	Kind    Kind
	Time    time.Time
	Device  string // Тег устройства-источника ("keyboard", "mouse", "remote:...")
	Key     KeyEvent
	Pointer PointerEvent
}

// Notification - то, что получает наблюдатель.
// Handled - решение ПРЕДЫДУЩИХ наблюдателей в этом же цикле рассылки.
// Вместо мутируемого флага на общем объекте (как делают делегатные
// event-системы) признак протаскивается через цикл рассылки явно:
// наблюдатель возвращает consumed, мост собирает их в Handled для следующих.
type Notification struct {
	Event   InputEvent
	Handled bool
}
