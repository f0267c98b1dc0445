package command

import (
	"strings"
	"sync"
)

// CreatorFunc строит команду из позиционных параметров.
// Параметры приходят строками из биндингов или с провода;
// парсинг и дефолты - забота конкретного креатора.
type CreatorFunc func(params []string) Command

// Factory резолвит символьное имя действия в экземпляр команды.
//
// Реестр принадлежит экземпляру фабрики, а не процессу: несколько
// независимых input-менеджеров (например, в тестах) не делят состояние.
type Factory struct {
	mu       sync.RWMutex
	creators map[string]CreatorFunc
}

func NewFactory() *Factory {
	return &Factory{creators: make(map[string]CreatorFunc)}
}

// Register регистрирует креатор. Имя нечувствительно к регистру;
// повторная регистрация перезаписывает предыдущую.
func (f *Factory) Register(name string, fn CreatorFunc) {
	if name == "" || fn == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[strings.ToUpper(name)] = fn
}

// Create возвращает команду для имени действия.
// Неизвестное имя - это НЕ ошибка: возвращается null-команда с вечно
// ложным CanExecute. Create никогда не возвращает nil и не паникует,
// поэтому вызывающий работает с результатом безусловно.
func (f *Factory) Create(name string, params ...string) Command {
	f.mu.RLock()
	fn, ok := f.creators[strings.ToUpper(name)]
	f.mu.RUnlock()

	if !ok {
		return NewNull(name)
	}
	cmd := fn(params)
	if cmd == nil {
		// Креатор обязан вернуть команду; страхуемся null-объектом
		return NewNull(name)
	}
	return cmd
}

// Known возвращает true, если имя зарегистрировано (для отладочных ручек).
func (f *Factory) Known(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.creators[strings.ToUpper(name)]
	return ok
}
