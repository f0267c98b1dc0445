package api

import (
	"errors"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO.
// Обертка хендлера зовет Validate автоматически после Unmarshal.
type Validator interface {
	Validate() error
}

// Состояния сравниваются без учета регистра - как и остальной провод
// (action, имена клавиш).
func isState(raw, want string) bool {
	return strings.EqualFold(raw, want)
}

func (p KeyPayload) Validate() error {
	if p.Key == "" {
		return errors.New("key is required")
	}
	switch {
	case isState(p.State, "pressed"), isState(p.State, "released"):
		return nil
	case isState(p.State, "held"):
		return errors.New("held state cannot be injected")
	}
	return errors.New("state must be 'pressed' or 'released'")
}

func (p PointerPayload) Validate() error {
	if p.Button == "" && p.State != "" {
		return errors.New("button state without a button")
	}
	if p.Button != "" {
		switch {
		case isState(p.State, "pressed"), isState(p.State, "released"):
		default:
			return errors.New("button state must be 'pressed' or 'released'")
		}
	}
	return nil
}
