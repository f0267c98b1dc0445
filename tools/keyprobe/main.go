package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"impulse-server/internal/domain"
	"impulse-server/internal/engine"
	"impulse-server/pkg/api"
	"impulse-server/pkg/logger"
)

// keyprobe - локальная консоль для проверки конвейера ввода без
// WebSocket-клиента: события терминала скармливаются живому сервису,
// на экране - состояние актора и истории.
//
// Управление: WASD/Space/F/E - команды, U/R - undo/redo, Esc - выход.

type probeApp struct {
	screen  tcell.Screen
	service *engine.Service

	lastEvent string
	events    int
}

func newProbeApp() (*probeApp, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	cfg := engine.NewConfig()
	cfg.ReplayDir = os.TempDir()
	cfg.JournalPath = "" // Журнал не нужен в пробнике

	return &probeApp{
		screen:  screen,
		service: engine.NewService(cfg),
	}, nil
}

// keyName переводит событие tcell в имя клавиши источника.
// Пустая строка - клавиша не транслируется.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return "SPACE"
		}
		return strings.ToUpper(string(r))
	case tcell.KeyEnter:
		return "ENTER"
	case tcell.KeyTab:
		return "TAB"
	case tcell.KeyUp:
		return "UP"
	case tcell.KeyDown:
		return "DOWN"
	case tcell.KeyLeft:
		return "LEFT"
	case tcell.KeyRight:
		return "RIGHT"
	}
	return ""
}

func modifiers(ev *tcell.EventKey) domain.Modifier {
	var mods domain.Modifier
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= domain.ModCtrl
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= domain.ModShift
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= domain.ModAlt
	}
	if ev.Modifiers()&tcell.ModMeta != 0 {
		mods |= domain.ModMeta
	}
	return mods
}

// handleInput возвращает false, когда пора выходить
func (a *probeApp) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}

		name := keyName(ev)
		if name == "" {
			return true
		}

		switch name {
		case "U":
			a.service.ProcessCommand(api.ClientCommand{Action: "UNDO"})
			a.lastEvent = "UNDO"
			return true
		case "R":
			a.service.ProcessCommand(api.ClientCommand{Action: "REDO"})
			a.lastEvent = "REDO"
			return true
		}

		// Терминал не сообщает отпускания клавиш, поэтому каждое
		// нажатие - это пара pressed/released.
		a.service.Source.InjectKey(name, domain.StatePressed, modifiers(ev))
		a.service.Source.InjectKey(name, domain.StateReleased, modifiers(ev))
		a.lastEvent = "KEY " + name
		a.events++

	case *tcell.EventMouse:
		x, y := ev.Position()
		button := ""
		state := domain.StateReleased
		if ev.Buttons()&tcell.Button1 != 0 {
			button = "left"
			state = domain.StatePressed
		} else if ev.Buttons()&tcell.Button2 != 0 {
			button = "right"
			state = domain.StatePressed
		}
		a.service.Source.InjectPointer(x, y, button, state, 0, 0)
		a.lastEvent = fmt.Sprintf("POINTER %d,%d", x, y)
		a.events++

	case *tcell.EventResize:
		a.screen.Sync()
	}

	return true
}

func (a *probeApp) draw() {
	a.screen.Clear()

	actor := a.service.Actor
	px, py := a.service.Source.PointerPosition()

	lines := []string{
		"impulse keyprobe  (Esc - выход, U/R - undo/redo)",
		"",
		fmt.Sprintf("actor   : (%d,%d)  stamina %d/%d  hp %d/%d  grounded %v",
			actor.Pos.X, actor.Pos.Y, actor.Stamina, actor.MaxStamina, actor.HP, actor.MaxHP, actor.Grounded),
		fmt.Sprintf("pointer : (%d,%d)", px, py),
		fmt.Sprintf("history : depth %d  canUndo %v  canRedo %v",
			a.service.History.Len(), a.service.History.CanUndo(), a.service.History.CanRedo()),
		fmt.Sprintf("events  : %d  last: %s", a.events, a.lastEvent),
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for row, line := range lines {
		for col, r := range line {
			a.screen.SetContent(col, row, r, nil, style)
		}
	}

	a.screen.Show()
}

func (a *probeApp) run() {
	ticker := time.NewTicker(a.service.Config.TickRate)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- a.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}

		case <-ticker.C:
			a.service.Tick()
			a.draw()
		}
	}
}

func main() {
	logger.Init()
	// Логи ломают отрисовку tcell, глушим их
	logger.Log.SetOutput(io.Discard)

	app, err := newProbeApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer app.screen.Fini()

	app.run()
}
