package input

import (
	"sync"
	"time"

	"impulse-server/internal/domain"
)

// HoldThreshold - порог удержания по умолчанию.
// Pressed непрерывно дольше порога -> одно событие Held.
const HoldThreshold = 500 * time.Millisecond

// maxPending - потолок очереди на случай, если ProcessInput давно не звали.
// При переполнении выбрасываем старейшие события: потерянный ввод
// восстановим на следующем кадре, а память - нет.
const maxPending = 1024

// Sink - получатель типизированных нотификаций (обычно bridge.Bridge).
// Вызывается синхронно из ProcessInput/Update, ПОСЛЕ отпускания мьютекса.
type Sink func(domain.InputEvent)

// keyRecord - закоммиченное состояние одной клавиши.
type keyRecord struct {
	state     domain.KeyState
	device    string
	mods      domain.Modifier
	pressedAt time.Time
}

// Source нормализует сырой ввод в типизированные события и ведет
// таблицы текущего состояния.
//
// Модель потоков: инжекция (InjectKey/InjectPointer/InjectEvent) может
// приходить из любых горутин; ProcessInput и Update зовутся одним
// внешним циклом раз в тик. Единственный общий ресурс - очередь и
// таблицы состояния - закрыт одним грубым мьютексом, который держится
// минимально: enqueue при инжекции, слив-и-отпускание при обработке.
// Колбэки sink никогда не вызываются под мьютексом.
type Source struct {
	mu      sync.Mutex
	clock   Clock
	pending []domain.InputEvent

	keys    map[string]*keyRecord
	buttons map[string]domain.KeyState
	ptrX    int
	ptrY    int

	hold time.Duration
	sink Sink
}

// NewSource создает источник с системными часами.
func NewSource() *Source {
	return NewSourceWithClock(SystemClock{})
}

// NewSourceWithClock - конструктор для тестов с управляемым временем.
func NewSourceWithClock(clock Clock) *Source {
	return &Source{
		clock:   clock,
		keys:    make(map[string]*keyRecord),
		buttons: make(map[string]domain.KeyState),
		hold:    HoldThreshold,
	}
}

// SetSink задает получателя нотификаций.
func (s *Source) SetSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// SetHoldThreshold переопределяет порог удержания.
func (s *Source) SetHoldThreshold(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hold = d
}

// --- ИНЖЕКЦИЯ ---

// InjectKey ставит клавиатурное событие в очередь. Потокобезопасно.
func (s *Source) InjectKey(key string, state domain.KeyState, mods domain.Modifier) {
	s.InjectEvent(domain.InputEvent{
		Kind:   domain.KindKey,
		Device: "keyboard",
		Key:    domain.KeyEvent{Key: key, State: state, Mods: mods},
	})
}

// InjectPointer ставит событие указателя в очередь. Потокобезопасно.
func (s *Source) InjectPointer(x, y int, button string, state domain.KeyState, scrollX, scrollY int) {
	s.InjectEvent(domain.InputEvent{
		Kind:   domain.KindPointer,
		Device: "mouse",
		Pointer: domain.PointerEvent{
			X: x, Y: y,
			Button: button, State: state,
			ScrollX: scrollX, ScrollY: scrollY,
		},
	})
}

// InjectEvent - общая точка входа (используется replay и remote-клиентами,
// которые проставляют свой Device). Событие с некорректным идентификатором
// устройства ввода молча игнорируется: мусорный ввод не должен ронять
// цикл кадра, он восстановим на следующем кадре.
func (s *Source) InjectEvent(ev domain.InputEvent) {
	switch ev.Kind {
	case domain.KindKey:
		if ev.Key.Key == "" {
			return
		}
		// Held - производное состояние, снаружи его инжектировать нельзя
		if ev.Key.State == domain.StateHeld {
			return
		}
	case domain.KindPointer:
		if ev.Pointer.State == domain.StateHeld {
			return
		}
	default:
		return
	}

	if ev.Time.IsZero() {
		ev.Time = s.clock.Now()
	}

	s.mu.Lock()
	if len(s.pending) >= maxPending {
		s.pending = s.pending[1:]
	}
	s.pending = append(s.pending, ev)
	s.mu.Unlock()
}

// --- ОБРАБОТКА ---

// ProcessInput сливает очередь и рассылает нотификации по переходам.
// Гарантия: нотификация перехода (Pressed/Released) уходит не больше
// одного раза на фактический переход. Повторная инжекция того же
// состояния (авто-повтор ОС, дребезг) нотификаций не порождает.
// Возвращает количество разосланных нотификаций.
func (s *Source) ProcessInput() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil

	// Переходы вычисляем под мьютексом (таблицы состояния - общий ресурс),
	// а рассылаем после отпускания, чтобы колбэки не держали лок.
	var fire []domain.InputEvent
	for _, ev := range batch {
		switch ev.Kind {
		case domain.KindKey:
			if out, ok := s.commitKey(ev); ok {
				fire = append(fire, out)
			}
		case domain.KindPointer:
			if out, ok := s.commitPointer(ev); ok {
				fire = append(fire, out)
			}
		}
	}
	sink := s.sink
	s.mu.Unlock()

	if sink != nil {
		for _, ev := range fire {
			sink(ev)
		}
	}
	return len(fire)
}

// commitKey применяет событие к таблице клавиш. Вызывается под мьютексом.
func (s *Source) commitKey(ev domain.InputEvent) (domain.InputEvent, bool) {
	rec, known := s.keys[ev.Key.Key]

	switch ev.Key.State {
	case domain.StatePressed:
		if known && rec.state != domain.StateReleased {
			// Уже нажата (Pressed или Held) - это повтор, не переход
			return domain.InputEvent{}, false
		}
		s.keys[ev.Key.Key] = &keyRecord{
			state:     domain.StatePressed,
			device:    ev.Device,
			mods:      ev.Key.Mods,
			pressedAt: ev.Time,
		}
		return ev, true

	case domain.StateReleased:
		if !known || rec.state == domain.StateReleased {
			// Отпускание ненажатой клавиши - игнорируем
			return domain.InputEvent{}, false
		}
		rec.state = domain.StateReleased
		return ev, true
	}
	return domain.InputEvent{}, false
}

// commitPointer применяет событие к состоянию указателя. Под мьютексом.
func (s *Source) commitPointer(ev domain.InputEvent) (domain.InputEvent, bool) {
	moved := ev.Pointer.X != s.ptrX || ev.Pointer.Y != s.ptrY
	scrolled := ev.Pointer.ScrollX != 0 || ev.Pointer.ScrollY != 0

	// Дельту считает источник, а не инжектор
	ev.Pointer.Dx = ev.Pointer.X - s.ptrX
	ev.Pointer.Dy = ev.Pointer.Y - s.ptrY
	s.ptrX = ev.Pointer.X
	s.ptrY = ev.Pointer.Y

	transitioned := false
	if ev.Pointer.Button != "" {
		cur := s.buttons[ev.Pointer.Button]
		switch ev.Pointer.State {
		case domain.StatePressed:
			if cur == domain.StateReleased {
				s.buttons[ev.Pointer.Button] = domain.StatePressed
				transitioned = true
			}
		case domain.StateReleased:
			if cur == domain.StatePressed {
				s.buttons[ev.Pointer.Button] = domain.StateReleased
				transitioned = true
			}
		}
	}

	if !moved && !scrolled && !transitioned {
		return domain.InputEvent{}, false
	}
	return ev, true
}

// Update - поллинг удержания. Зовется внешним циклом раз в тик.
// Клавиша, нажатая непрерывно >= порога, переходит в Held ровно один раз
// и не раньше порога. Детекция опирается на часы, а не на авто-повтор ОС -
// это осознанное упрощение.
func (s *Source) Update() {
	now := s.clock.Now()

	s.mu.Lock()
	var fire []domain.InputEvent
	for key, rec := range s.keys {
		if rec.state != domain.StatePressed {
			continue
		}
		if now.Sub(rec.pressedAt) < s.hold {
			continue
		}
		rec.state = domain.StateHeld
		fire = append(fire, domain.InputEvent{
			Kind:   domain.KindKey,
			Time:   now,
			Device: rec.device,
			Key: domain.KeyEvent{
				Key:   key,
				State: domain.StateHeld,
				Mods:  rec.mods,
			},
		})
	}
	sink := s.sink
	s.mu.Unlock()

	if sink != nil {
		for _, ev := range fire {
			sink(ev)
		}
	}
}

// --- ЗАПРОСЫ СОСТОЯНИЯ ---
// Синхронные чтения последнего закоммиченного состояния, без блокировок
// на время рассылки (мьютекс берется только на само чтение).

// IsKeyPressed - нажата ли клавиша сейчас (Pressed или Held).
func (s *Source) IsKeyPressed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.keys[key]
	return ok && rec.state != domain.StateReleased
}

// IsKeyHeld - перешла ли клавиша в состояние удержания.
func (s *Source) IsKeyHeld(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.keys[key]
	return ok && rec.state == domain.StateHeld
}

// IsButtonPressed - нажата ли кнопка указателя.
func (s *Source) IsButtonPressed(button string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttons[button] == domain.StatePressed
}

// PointerPosition - текущая позиция указателя.
func (s *Source) PointerPosition() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ptrX, s.ptrY
}
