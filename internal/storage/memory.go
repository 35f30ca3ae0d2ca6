package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/xaenox/chatlog-analytics/internal/models"
)

// MemoryStorage keeps the event log in a slice, in insertion order.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []models.Event
	now    func() time.Time
}

func NewMemoryStorage(events ...models.Event) *MemoryStorage {
	return &MemoryStorage{
		events: append([]models.Event(nil), events...),
		now:    time.Now,
	}
}

// Insert appends events to the log.
func (s *MemoryStorage) Insert(ctx context.Context, events ...models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, events...)
	return nil
}

func (s *MemoryStorage) Query(ctx context.Context, f Filter) ([]models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, &UpstreamError{Op: "query", Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Apply(s.events, f), nil
}

func (s *MemoryStorage) FindConversationByTitle(ctx context.Context, title string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ev := range s.events {
		if ev.Kind == models.KindConversation && strings.EqualFold(ev.Title, title) {
			found := ev
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) RecordCitationClick(ctx context.Context, click CitationClick) (*models.Event, error) {
	if err := click.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev := newClickEvent(click, s.now())
	s.events = append(s.events, ev)
	return &ev, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
