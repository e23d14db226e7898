package event

import "reflect"

// Bus is a double-buffered event bus. Events emitted during a pass land in the
// back buffer; SwapBuffers makes them readable and DispatchAll delivers them.
// Event types are dispatched in the order they were first seen by Emit or
// Subscribe. Single-goroutine access only (turn loop).
type Bus struct {
	channels map[reflect.Type]*channel
	order    []*channel
}

// channel holds the buffers and handlers of one event type.
type channel struct {
	front    []any
	back     []any
	handlers []func(any)
}

func NewBus() *Bus {
	return &Bus{channels: make(map[reflect.Type]*channel)}
}

func channelOf[T any](b *Bus) *channel {
	t := reflect.TypeOf((*T)(nil)).Elem()
	ch, ok := b.channels[t]
	if !ok {
		ch = &channel{}
		b.channels[t] = ch
		b.order = append(b.order, ch)
	}
	return ch
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	ch := channelOf[T](b)
	ch.back = append(ch.back, event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	ch := channelOf[T](b)
	ch.handlers = append(ch.handlers, func(ev any) { fn(ev.(T)) })
}

// Pending reports how many events of type T wait in the back buffer.
func Pending[T any](b *Bus) int {
	return len(channelOf[T](b).back)
}

// SwapBuffers rotates back to front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	for _, ch := range b.order {
		ch.front, ch.back = ch.back, ch.front[:0]
	}
}

// DispatchAll delivers all front-buffer events to their handlers and empties
// the front buffer. Events emitted by handlers wait for the next swap.
func (b *Bus) DispatchAll() {
	for _, ch := range b.order {
		for _, ev := range ch.front {
			for _, h := range ch.handlers {
				h(ev)
			}
		}
		clear(ch.front)
		ch.front = ch.front[:0]
	}
}
