// Package broadcast раздает события в процессе всем активным подписчикам (multicast без повторов).
//
// Каждому подписчику выделяется свой буфер фиксированного размера. Publish никогда не блокируется:
// если буфер подписчика заполнен, подписчик отключается (его канал закрывается), остальные подписчики
// продолжают получать события.
package broadcast

import (
	"errors"
	"fmt"
	"sync"
)

const DefaultBufferSize = 256

var (
	ErrClosed             = errors.New("broadcaster closed")
	ErrSubscriberOverflow = errors.New("subscriber buffer overflow")
)

type Hub[T any] struct {
	mu          sync.Mutex
	bufferSize  int
	nextID      uint64
	subscribers map[uint64]*Subscription[T]
	closed      bool
}

// NewHub создает хаб. bufferSize <= 0 заменяется на DefaultBufferSize.
func NewHub[T any](bufferSize int) *Hub[T] {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub[T]{
		bufferSize:  bufferSize,
		subscribers: make(map[uint64]*Subscription[T]),
	}
}

// Subscription живая подписка. Канал C закрывается при Close, при закрытии хаба или при
// переполнении буфера.
type Subscription[T any] struct {
	id  uint64
	hub *Hub[T]
	ch  chan T
}

func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Close отписывает подписчика. Повторный вызов безопасен.
func (s *Subscription[T]) Close() {
	s.hub.remove(s.id)
}

// Subscribe регистрирует нового подписчика. Он получит только события, опубликованные после подписки.
func (h *Hub[T]) Subscribe() (*Subscription[T], error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	h.nextID++
	sub := &Subscription[T]{
		id:  h.nextID,
		hub: h,
		ch:  make(chan T, h.bufferSize),
	}
	h.subscribers[sub.id] = sub
	return sub, nil
}

// Publish кладет item в буфер каждого подписчика, не блокируясь. Возвращает ErrClosed после Close
// и ErrSubscriberOverflow, если кого-то из подписчиков пришлось отключить. Остальные подписчики
// событие получили в любом случае.
func (h *Hub[T]) Publish(item T) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}

	var evicted int
	for id, sub := range h.subscribers {
		select {
		case sub.ch <- item:
		default:
			delete(h.subscribers, id)
			close(sub.ch)
			evicted++
		}
	}
	if evicted > 0 {
		return fmt.Errorf("%w: %d subscriber(s) evicted", ErrSubscriberOverflow, evicted)
	}
	return nil
}

func (h *Hub[T]) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close останавливает хаб: новые публикации и подписки отклоняются, каналы подписчиков закрываются.
// Уже буферизованные события остаются доступны для чтения до закрытия канала.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subscribers {
		delete(h.subscribers, id)
		close(sub.ch)
	}
}

// remove удаляет подписчика. Канал закрывается только тем, кто удалил подписчика из карты,
// поэтому он закрывается ровно один раз.
func (h *Hub[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(sub.ch)
	}
}
