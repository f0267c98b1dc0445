package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"impulse-server/internal/bridge"
	"impulse-server/internal/command"
	"impulse-server/internal/domain"
	"impulse-server/internal/input"
	"impulse-server/internal/journal"
	"impulse-server/internal/network"
	"impulse-server/internal/storage"
	"impulse-server/pkg/api"
	"impulse-server/pkg/logger"
)

// Service связывает весь конвейер ввода: источник событий, мост
// наблюдателей, фабрику команд и историю отмены. Вся обработка идет
// в одной горутине цикла (Run), внешний мир общается через CommandChan.
type Service struct {
	Config Config

	// Actor - сущность, которой управляют команды.
	Actor *domain.Actor
	// Target - тренировочная мишень для команды атаки.
	Target *domain.Actor

	Source   *input.Source
	Bridge   *bridge.Bridge
	Factory  *command.Factory
	History  *command.History
	Bindings *Bindings

	CommandChan chan api.ClientCommand
	Hub         *network.Broadcaster

	// Journal - журнал команд (sqlite). Может быть nil, тогда
	// журналирование отключено.
	Journal *journal.Journal
	Replay  *storage.ReplayService

	Logs []api.LogEntry

	tick int64
	log  *logrus.Entry
	quit chan struct{}

	// Запись реплея включается с HTTP-горутины (/debug/recording),
	// а события пишет горутина цикла - поля под отдельным мьютексом.
	recMu     sync.Mutex
	recording bool
	session   *domain.ReplaySession
	recStart  time.Time
}

func NewService(cfg Config) *Service {
	actor := &domain.Actor{
		ID:         "actor_1",
		Name:       "Оператор",
		Pos:        domain.Position{X: 5, Y: 5},
		Stamina:    100,
		MaxStamina: 100,
		HP:         100,
		MaxHP:      100,
		Grounded:   true,
	}
	target := &domain.Actor{
		ID:    "dummy_1",
		Name:  "Манекен",
		Pos:   domain.Position{X: 6, Y: 5},
		HP:    50,
		MaxHP: 50,
	}

	source := input.NewSource()
	if cfg.HoldThreshold > 0 {
		source.SetHoldThreshold(cfg.HoldThreshold)
	}

	s := &Service{
		Config:      cfg,
		Actor:       actor,
		Target:      target,
		Source:      source,
		Bridge:      bridge.New(),
		Factory:     command.NewFactory(),
		History:     command.NewHistory(cfg.HistoryLimit),
		Bindings:    DefaultBindings(),
		CommandChan: make(chan api.ClientCommand, 100),
		Hub:         network.NewBroadcaster(),
		Replay:      storage.NewReplayService(cfg.ReplayDir),
		Logs:        []api.LogEntry{},
		log:         logger.Component("engine"),
		quit:        make(chan struct{}),
	}

	s.registerCommands()

	// Источник -> мост. Запись реплея перехватывает события до рассылки.
	source.SetSink(func(ev domain.InputEvent) {
		s.recordEvent(ev)
		s.Bridge.Dispatch(ev)
	})

	obs := NewCommandObserver(s.Bindings, s.Factory, s.History)
	obs.OnExecuted = func(cmd command.Command, device string) {
		s.AddLog(fmt.Sprintf("%s executed (%s)", cmd.Name(), cmd.ID()), "COMMAND")
		s.journalRecord("execute", cmd, device)
	}
	s.Bridge.Subscribe(obs)

	return s
}

// registerCommands заполняет фабрику создателями для всех действий.
func (s *Service) registerCommands() {
	s.Factory.Register(domain.ActionMove.String(), func(params []string) command.Command {
		dx, dy := 0, 0
		if len(params) >= 2 {
			dx, _ = strconv.Atoi(params[0])
			dy, _ = strconv.Atoi(params[1])
		}
		return command.NewMove(s.Actor, dx, dy)
	})

	s.Factory.Register(domain.ActionJump.String(), func(params []string) command.Command {
		return command.NewJump(s.Actor)
	})

	s.Factory.Register(domain.ActionAttack.String(), func(params []string) command.Command {
		return command.NewAttack(s.Actor, s.Target, domain.DefaultAttackDamage)
	})

	s.Factory.Register(domain.ActionInteract.String(), func(params []string) command.Command {
		targetID := s.Target.ID
		if len(params) >= 1 && params[0] != "" {
			targetID = params[0]
		}
		return command.NewInteract(s.Actor, targetID)
	})
}

func (s *Service) Start() {
	go s.Run()
}

// Run крутит основной цикл обработки с частотой Config.TickRate.
func (s *Service) Run() {
	s.log.WithField("tickRate", s.Config.TickRate).Info("Input loop started")

	ticker := time.NewTicker(s.Config.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			s.log.Info("Input loop stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

func (s *Service) Stop() {
	close(s.quit)
}

// Tick выполняет одну итерацию цикла: забирает внешние команды,
// обновляет удержания, прокачивает очередь событий и рассылает состояние.
// Вынесен отдельно, чтобы тесты могли крутить цикл вручную.
func (s *Service) Tick() {
	s.tick++

drain:
	for {
		select {
		case cmd := <-s.CommandChan:
			s.handleClientCommand(cmd)
		default:
			break drain
		}
	}

	s.Source.Update()
	processed := s.Source.ProcessInput()

	if processed > 0 || len(s.Logs) > 0 {
		s.publishUpdate()
	}
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
func (s *Service) ProcessCommand(cmd api.ClientCommand) {
	s.CommandChan <- cmd
}

func (s *Service) handleClientCommand(cmd api.ClientCommand) {
	switch strings.ToUpper(cmd.Action) {
	case "KEY":
		var p api.KeyPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			s.log.WithError(err).Warn("Bad KEY payload")
			return
		}
		if err := p.Validate(); err != nil {
			s.log.WithError(err).Warn("Invalid KEY payload")
			return
		}
		// InjectEvent вместо InjectKey: флаг повтора должен доехать
		// до нотификации
		s.Source.InjectEvent(domain.InputEvent{
			Kind:   domain.KindKey,
			Device: "keyboard",
			Key: domain.KeyEvent{
				Key:    p.Key,
				State:  parseKeyState(p.State),
				Mods:   parseModifiers(p.Modifiers),
				Repeat: p.Repeat,
			},
		})

	case "POINTER":
		var p api.PointerPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			s.log.WithError(err).Warn("Bad POINTER payload")
			return
		}
		if err := p.Validate(); err != nil {
			s.log.WithError(err).Warn("Invalid POINTER payload")
			return
		}
		s.Source.InjectPointer(p.X, p.Y, p.Button, parseKeyState(p.State), p.ScrollX, p.ScrollY)

	case "UNDO":
		if s.History.Undo() {
			s.AddLog("Command undone", "COMMAND")
			s.journalRecord("undo", nil, "control")
		}

	case "REDO":
		if s.History.Redo() {
			s.AddLog("Command redone", "COMMAND")
			s.journalRecord("redo", nil, "control")
		}

	case "STATE":
		if cmd.Token != "" {
			s.Hub.SendTo(cmd.Token, *s.BuildState())
		}

	default:
		s.log.WithField("action", cmd.Action).Warn("Unknown client action")
	}
}

func parseKeyState(raw string) domain.KeyState {
	if strings.EqualFold(raw, "released") {
		return domain.StateReleased
	}
	return domain.StatePressed
}

func parseModifiers(raw []string) domain.Modifier {
	var mods domain.Modifier
	for _, m := range raw {
		switch strings.ToLower(m) {
		case "ctrl":
			mods |= domain.ModCtrl
		case "shift":
			mods |= domain.ModShift
		case "alt":
			mods |= domain.ModAlt
		case "meta":
			mods |= domain.ModMeta
		}
	}
	return mods
}

// publishUpdate рассылает состояние всем подключенным клиентам
func (s *Service) publishUpdate() {
	if s.Hub.HasSubscribers() {
		s.Hub.Broadcast(*s.BuildState())
	}
	// Очищаем логи ПОСЛЕ рассылки
	s.Logs = []api.LogEntry{}
}

// BuildState создает снимок состояния ядра для клиента
func (s *Service) BuildState() *api.ServerResponse {
	px, py := s.Source.PointerPosition()

	logsCopy := make([]api.LogEntry, len(s.Logs))
	copy(logsCopy, s.Logs)

	return &api.ServerResponse{
		Type: "UPDATE",
		Tick: s.tick,
		Actor: &api.ActorView{
			ID:       s.Actor.ID,
			Name:     s.Actor.Name,
			X:        s.Actor.Pos.X,
			Y:        s.Actor.Pos.Y,
			Stamina:  s.Actor.Stamina,
			HP:       s.Actor.HP,
			Grounded: s.Actor.Grounded,
		},
		Pointer: &api.PointerView{X: px, Y: py},
		History: &api.HistoryView{
			CanUndo: s.History.CanUndo(),
			CanRedo: s.History.CanRedo(),
			Depth:   s.History.Len(),
		},
		Logs: logsCopy,
	}
}

func (s *Service) AddLog(text, logType string) {
	s.Logs = append(s.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
}

// journalRecord пишет запись в журнал команд. Для undo/redo cmd == nil,
// device - "control" (команда пришла с канала управления, а не с устройства).
func (s *Service) journalRecord(kind string, cmd command.Command, device string) {
	if s.Journal == nil {
		return
	}

	entry := journal.Entry{
		Kind:   kind,
		Actor:  s.Actor.ID,
		Device: device,
	}
	if cmd != nil {
		entry.CommandID = cmd.ID()
		entry.Name = cmd.Name()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.Journal.Record(ctx, entry); err != nil {
		s.log.WithError(err).Warn("Journal write failed")
	}
}

// --- ЗАПИСЬ И ВОСПРОИЗВЕДЕНИЕ ---

// StartRecording начинает запись всех прошедших дедупликацию событий.
func (s *Service) StartRecording() string {
	s.recMu.Lock()
	defer s.recMu.Unlock()

	s.recStart = time.Now()
	s.session = &domain.ReplaySession{
		SessionID: uuid.NewString(),
		Timestamp: s.recStart.UnixMilli(),
	}
	s.recording = true
	s.log.WithField("session", s.session.SessionID).Info("Recording started")
	return s.session.SessionID
}

// StopRecording завершает запись и сохраняет её на диск.
// Возвращает путь к файлу.
func (s *Service) StopRecording() (string, error) {
	// Сессию забираем под мьютексом, диск - уже без него:
	// после сброса флага recordEvent её не тронет
	s.recMu.Lock()
	if !s.recording {
		s.recMu.Unlock()
		return "", fmt.Errorf("recording is not active")
	}
	s.recording = false
	session := s.session
	s.session = nil
	s.recMu.Unlock()

	path, err := s.Replay.Save(session)
	if err != nil {
		return "", fmt.Errorf("failed to save replay: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session": session.SessionID,
		"events":  len(session.Events),
		"path":    path,
	}).Info("Recording saved")

	return path, nil
}

func (s *Service) recordEvent(ev domain.InputEvent) {
	s.recMu.Lock()
	defer s.recMu.Unlock()

	if !s.recording || s.session == nil {
		return
	}
	s.session.Events = append(s.session.Events, domain.ReplayEvent{
		TickMs: time.Since(s.recStart).Milliseconds(),
		Event:  ev,
	})
}

// Playback проигрывает записанную сессию через живой конвейер.
// События инжектируются без пауз, по одному на итерацию,
// чтобы сохранить порядок обработки.
func (s *Service) Playback(session *domain.ReplaySession) {
	s.log.WithFields(logrus.Fields{
		"session": session.SessionID,
		"events":  len(session.Events),
	}).Info("Playback started")

	for _, rec := range session.Events {
		s.Source.InjectEvent(rec.Event)
		s.Source.ProcessInput()
	}
}
