package services

import (
	"sync"

	"go.uber.org/zap"

	"github.com/talentsmy/backend/repository"
)

// ChangeFeed is an in-process fan-out hub for order changes. Delivery is
// best-effort: a subscriber whose buffer is full misses the event and must
// rely on the next snapshot it fetches.
type ChangeFeed struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan repository.OrderChange
	logger *zap.Logger
}

func NewChangeFeed(logger *zap.Logger) *ChangeFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeFeed{
		subs:   make(map[int]chan repository.OrderChange),
		logger: logger,
	}
}

// Publish fans the change out to all current subscribers without blocking.
func (f *ChangeFeed) Publish(change repository.OrderChange) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for id, ch := range f.subs {
		select {
		case ch <- change:
		default:
			f.logger.Debug("dropping change for slow subscriber",
				zap.Int("subscriber", id),
				zap.String("order_id", change.OrderID))
		}
	}
}

// Subscribe registers a new observer. The returned cancel func must be called
// to release the channel; after cancel the channel is closed.
func (f *ChangeFeed) Subscribe(buffer int) (<-chan repository.OrderChange, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan repository.OrderChange, buffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if existing, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

// SubscriberCount reports the number of live subscribers.
func (f *ChangeFeed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
