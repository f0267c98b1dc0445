package bridge

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"impulse-server/internal/domain"
	"impulse-server/pkg/logger"
)

// Observer - подписчик на отфильтрованные нотификации ввода.
// Возвращаемый bool - сигнал "я потребил событие". Мост собирает
// эти сигналы и протаскивает их следующим наблюдателям через
// Notification.Handled (см. комментарий в domain/event.go).
type Observer interface {
	OnKey(n domain.Notification) bool
	OnPointer(n domain.Notification) bool
}

// Filter - предикат, пропускающий событие к наблюдателям.
type Filter interface {
	Accept(ev domain.InputEvent) bool
}

// FilterFunc - адаптер функции к интерфейсу Filter.
type FilterFunc func(ev domain.InputEvent) bool

func (f FilterFunc) Accept(ev domain.InputEvent) bool { return f(ev) }

// Bridge отвязывает производство событий от потребления.
// Подписчики и фильтры принадлежат экземпляру моста, а не процессу:
// несколько независимых менеджеров ввода могут сосуществовать.
type Bridge struct {
	mu        sync.Mutex
	observers []Observer
	filters   []Filter

	log *logrus.Entry
}

func New() *Bridge {
	return &Bridge{log: logger.Component("bridge")}
}

// Subscribe добавляет наблюдателя. Идемпотентно: повторная подписка
// того же наблюдателя эффекта не имеет.
func (b *Bridge) Subscribe(o Observer) {
	if o == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.observers {
		if existing == o {
			return
		}
	}
	b.observers = append(b.observers, o)
}

// Unsubscribe убирает наблюдателя. Отписка не-подписчика - no-op.
// Безопасно звать из собственного колбэка наблюдателя.
func (b *Bridge) Unsubscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.observers {
		if existing == o {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// AddFilter добавляет фильтр. Фильтры сочетаются как логическое И:
// событие доходит до наблюдателей, только если его приняли ВСЕ фильтры.
func (b *Bridge) AddFilter(f Filter) {
	if f == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters = append(b.filters, f)
}

// SubscriberCount - для отладочных ручек.
func (b *Bridge) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}

// Dispatch - колбэк для input.Source (подключается через SetSink).
// Рассылка идет по СНИМКУ списка подписчиков, а не по живому списку:
// колбэки могут свободно подписываться/отписываться, не ломая итерацию.
// Снявшийся наблюдатель не получит следующее событие этой же пачки.
func (b *Bridge) Dispatch(ev domain.InputEvent) {
	b.mu.Lock()
	filters := make([]Filter, len(b.filters))
	copy(filters, b.filters)
	snapshot := make([]Observer, len(b.observers))
	copy(snapshot, b.observers)
	b.mu.Unlock()

	for _, f := range filters {
		if !f.Accept(ev) {
			return
		}
	}

	handled := false
	for _, o := range snapshot {
		consumed := b.notify(o, ev, handled)
		handled = handled || consumed
	}
}

// notify зовет одного наблюдателя, изолируя его сбои.
// Паника в колбэке логируется и НЕ мешает оставшимся наблюдателям:
// один сломанный подписчик не должен останавливать обработку ввода.
func (b *Bridge) notify(o Observer, ev domain.InputEvent, handled bool) (consumed bool) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"observer": fmt.Sprintf("%T", o),
				"panic":    r,
			}).Error("observer callback panicked")
			consumed = false
		}
	}()

	n := domain.Notification{Event: ev, Handled: handled}
	switch ev.Kind {
	case domain.KindKey:
		return o.OnKey(n)
	case domain.KindPointer:
		return o.OnPointer(n)
	}
	return false
}
