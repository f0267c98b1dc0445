package engine

import (
	"github.com/sirupsen/logrus"

	"impulse-server/internal/command"
	"impulse-server/internal/domain"
	"impulse-server/pkg/logger"
)

// CommandObserver превращает события ввода в команды: по нажатию клавиши
// ищет привязку, создает команду через фабрику и выполняет её через историю.
type CommandObserver struct {
	Bindings *Bindings
	Factory  *command.Factory
	History  *command.History

	// OnExecuted вызывается после успешного выполнения команды
	// (журналирование, рассылка состояния). device - тег устройства
	// породившего события. Может быть nil.
	OnExecuted func(cmd command.Command, device string)

	log *logrus.Entry
}

func NewCommandObserver(bindings *Bindings, factory *command.Factory, history *command.History) *CommandObserver {
	return &CommandObserver{
		Bindings: bindings,
		Factory:  factory,
		History:  history,
		log:      logger.Component("observer"),
	}
}

// OnKey реагирует только на переход в Pressed. Повторы (Held) и отпускания
// не порождают команд. Возвращает true, если событие поглощено.
func (o *CommandObserver) OnKey(n domain.Notification) bool {
	if n.Handled {
		return false
	}
	if n.Event.Key.State != domain.StatePressed {
		return false
	}

	binding, ok := o.Bindings.Lookup(n.Event.Key.Key)
	if !ok {
		return false
	}

	cmd := o.Factory.Create(binding.Action.String(), binding.Params...)
	executed, err := o.History.Execute(cmd)
	if err != nil {
		o.log.WithError(err).WithField("command", cmd.Name()).Warn("Command failed")
		return true // Привязка есть, событие наше, даже если команда упала
	}
	if !executed {
		o.log.WithField("command", cmd.Name()).Debug("Command rejected by precondition")
		return true
	}

	o.log.WithFields(logrus.Fields{
		"command": cmd.Name(),
		"id":      cmd.ID(),
		"key":     n.Event.Key.Key,
	}).Debug("Command executed")

	if o.OnExecuted != nil {
		o.OnExecuted(cmd, n.Event.Device)
	}
	return true
}

// OnPointer - команды по указателю пока не назначаются.
func (o *CommandObserver) OnPointer(n domain.Notification) bool {
	return false
}
