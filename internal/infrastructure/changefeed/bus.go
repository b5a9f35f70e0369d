package changefeed

import (
	"sync"
	"time"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"github.com/google/uuid"
)

// Bus is an in-process records.ChangeFeed. Every subscriber owns an unbounded
// FIFO queue, so Publish never blocks and no event is dropped.
type Bus struct {
	mu          sync.Mutex
	seq         uint64
	subscribers map[string]*subscription
	closed      bool
	logger      logger.Logger
}

// NewBus creates an empty bus
func NewBus(logger logger.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string]*subscription),
		logger:      logger,
	}
}

// Subscribe registers a subscriber that receives every event published after this call.
// Subscribing to a closed bus returns a subscription whose channel is already closed.
func (b *Bus) Subscribe() records.Subscription {
	s := newSubscription(b)
	go s.pump()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.Unsubscribe()
		return s
	}
	b.subscribers[s.id] = s
	count := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Debug("Subscriber ", s.id, " added, ", count, " active")
	return s
}

// Publish stamps changes as one event and queues it for every current subscriber
func (b *Bus) Publish(changes ...records.Change) records.ChangeEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	event := records.ChangeEvent{
		ID:          uuid.NewString(),
		Seq:         b.seq,
		Changes:     append([]records.Change(nil), changes...),
		CommittedAt: time.Now().UTC(),
	}
	if b.closed {
		return event
	}
	for _, s := range b.subscribers {
		s.enqueue(event)
	}
	return event
}

// Subscribers returns the number of active subscriptions
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Close ends every subscription; later publishes reach nobody
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	subs := make([]*subscription, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (b *Bus) remove(id string) {
	b.mu.Lock()
	delete(b.subscribers, id)
	count := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Debug("Subscriber ", id, " removed, ", count, " active")
}

type subscription struct {
	id     string
	bus    *Bus
	mu     sync.Mutex
	queue  []records.ChangeEvent
	notify chan struct{}
	done   chan struct{}
	out    chan records.ChangeEvent
	once   sync.Once
}

func newSubscription(bus *Bus) *subscription {
	return &subscription{
		id:     uuid.NewString(),
		bus:    bus,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    make(chan records.ChangeEvent),
	}
}

func (s *subscription) Events() <-chan records.ChangeEvent {
	return s.out
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s.id)
		close(s.done)
	})
}

func (s *subscription) enqueue(event records.ChangeEvent) {
	s.mu.Lock()
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscription) next() (records.ChangeEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return records.ChangeEvent{}, false
	}
	event := s.queue[0]
	s.queue[0] = records.ChangeEvent{}
	s.queue = s.queue[1:]
	return event, true
}

// pump moves queued events to the delivery channel until Unsubscribe
func (s *subscription) pump() {
	defer close(s.out)

	for {
		event, ok := s.next()
		if !ok {
			select {
			case <-s.notify:
				continue
			case <-s.done:
				return
			}
		}

		select {
		case s.out <- event:
		case <-s.done:
			return
		}
	}
}
