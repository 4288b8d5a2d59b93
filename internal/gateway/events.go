package gateway

import (
	"sync"

	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/notify"
)

// listener delivers session changes to one callback on its own goroutine,
// in publication order.
type listener struct {
	fn     func(*model.Session)
	remove func()

	mu    sync.Mutex
	queue []*model.Session
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newListener(fn func(*model.Session)) *listener {
	l := &listener{
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *listener) push(s *model.Session) {
	var cp *model.Session
	if s != nil {
		v := *s
		cp = &v
	}

	l.mu.Lock()
	l.queue = append(l.queue, cp)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *listener) run() {
	for {
		select {
		case <-l.done:
			return
		case <-l.wake:
		}

		for {
			l.mu.Lock()
			if len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			s := l.queue[0]
			l.queue = l.queue[1:]
			l.mu.Unlock()

			select {
			case <-l.done:
				return
			default:
			}
			l.fn(s)
		}
	}
}

// Unsubscribe stops delivery. Pending notifications are dropped.
func (l *listener) Unsubscribe() {
	l.once.Do(func() {
		close(l.done)
		l.remove()
	})
}

// broadcaster fans session changes out through a notify.Hub, one listener
// goroutine per subscriber.
type broadcaster struct {
	hub *notify.Hub[*model.Session]

	mu        sync.Mutex
	nextID    int
	listeners map[int]*listener
}

func newBroadcaster() *broadcaster {
	return &broadcaster{
		hub:       notify.NewHub[*model.Session](),
		listeners: make(map[int]*listener),
	}
}

func (b *broadcaster) subscribe(fn func(*model.Session)) *listener {
	l := newListener(fn)
	sub := b.hub.Subscribe(l.push)

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	l.remove = func() {
		sub.Unsubscribe()

		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
	b.listeners[id] = l
	return l
}

func (b *broadcaster) publish(s *model.Session) {
	b.hub.Publish(s)
}

func (b *broadcaster) close() {
	b.mu.Lock()
	ls := make([]*listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		ls = append(ls, l)
	}
	b.mu.Unlock()

	for _, l := range ls {
		l.Unsubscribe()
	}
}
