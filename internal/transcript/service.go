package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xaenox/chatlog-analytics/internal/models"
	"github.com/xaenox/chatlog-analytics/internal/storage"
	"go.uber.org/zap"
)

// Service loads conversations from the event store and reconstructs them.
type Service struct {
	store         storage.EventStore
	reconstructor *Reconstructor
	logger        *zap.Logger
}

func NewService(store storage.EventStore, reconstructor *Reconstructor, logger *zap.Logger) *Service {
	if reconstructor == nil {
		reconstructor = NewReconstructor(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:         store,
		reconstructor: reconstructor,
		logger:        logger,
	}
}

// ByConversationID returns the transcript of one conversation. It returns
// storage.ErrNotFound when the store holds neither the conversation nor any
// of its messages.
func (s *Service) ByConversationID(ctx context.Context, id string) (*models.Transcript, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("conversation id is required: %w", storage.ErrNotFound)
	}
	if s.store == nil {
		return nil, &storage.UpstreamError{Op: "transcript", Err: storage.ErrNotConfigured}
	}

	events, err := s.store.Query(ctx, storage.Filter{ConversationID: id})
	if err != nil {
		s.logger.Error("Failed to load conversation",
			zap.Error(err),
			zap.String("conversation_id", id))
		if !errors.Is(err, storage.ErrUpstreamUnavailable) {
			err = &storage.UpstreamError{Op: "transcript", Err: err}
		}
		return nil, err
	}

	transcript := &models.Transcript{ConversationID: id}
	var messages []models.Event
	found := false
	for _, ev := range events {
		switch {
		case ev.Kind == models.KindConversation && ev.ID == id:
			transcript.Title = ev.Title
			transcript.CreatedAt = ev.CreatedAt
			found = true
		case ev.Kind == models.KindMessage:
			messages = append(messages, ev)
		}
	}
	if !found && len(messages) == 0 {
		return nil, fmt.Errorf("conversation %q: %w", id, storage.ErrNotFound)
	}

	models.SortChronologically(messages)
	transcript.Entries = s.reconstructor.Reconstruct(messages)

	s.logger.Debug("Reconstructed transcript",
		zap.String("conversation_id", id),
		zap.Int("messages", len(messages)),
		zap.Int("entries", len(transcript.Entries)))

	return transcript, nil
}

// ByTitle finds a conversation by case-insensitive title and returns its
// transcript.
func (s *Service) ByTitle(ctx context.Context, title string) (*models.Transcript, error) {
	if s.store == nil {
		return nil, &storage.UpstreamError{Op: "find_by_title", Err: storage.ErrNotConfigured}
	}

	conv, err := s.store.FindConversationByTitle(ctx, strings.TrimSpace(title))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("conversation titled %q: %w", title, storage.ErrNotFound)
		}
		if !errors.Is(err, storage.ErrUpstreamUnavailable) {
			err = &storage.UpstreamError{Op: "find_by_title", Err: err}
		}
		return nil, err
	}

	return s.ByConversationID(ctx, conv.ID)
}
