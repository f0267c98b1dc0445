package domain

import "strings"

// ActionType - внутренний числовой идентификатор действия
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionMove
	ActionAttack
	ActionJump
	ActionInteract
	// В будущем: ActionWait, ActionDodge, ActionUseItem...
)

// Маппинг для конвертации строк (биндинги, JSON) -> Domain
var actionStringToCmd = map[string]ActionType{
	"MOVE":     ActionMove,
	"ATTACK":   ActionAttack,
	"JUMP":     ActionJump,
	"INTERACT": ActionInteract,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionMove:     "MOVE",
	ActionAttack:   "ATTACK",
	ActionJump:     "JUMP",
	ActionInteract: "INTERACT",
}

// ParseAction конвертирует строку в ActionType.
// Нечувствителен к регистру: "move", "Move" и "MOVE" эквивалентны.
func ParseAction(s string) ActionType {
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
