package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/chatlog-analytics/internal/models"
)

var (
	// ErrUpstreamUnavailable marks failures to reach or configure the event
	// store, as opposed to a query that matched nothing.
	ErrUpstreamUnavailable = errors.New("event store unavailable")
	ErrNotConfigured       = errors.New("event store not configured")
	ErrNotFound            = errors.New("not found")
	ErrInvalidClick        = errors.New("conversationId and citationTitle are required")
)

// UpstreamError wraps a store failure. errors.Is(err, ErrUpstreamUnavailable)
// holds for every UpstreamError.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("event store %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// EventStore is the gateway to the interaction log.
type EventStore interface {
	// Query returns the events matching f in store insertion order.
	Query(ctx context.Context, f Filter) ([]models.Event, error)
	// FindConversationByTitle matches titles case-insensitively.
	FindConversationByTitle(ctx context.Context, title string) (*models.Event, error)
	RecordCitationClick(ctx context.Context, click CitationClick) (*models.Event, error)
	Close() error
}

// Filter restricts a query. The zero Filter matches everything.
type Filter struct {
	// Start is inclusive, End exclusive.
	Start *time.Time
	End   *time.Time
	// Category and Theme are case-insensitive substrings. Theme wins when
	// both are set.
	Category       string
	Theme          string
	ConversationID string
	Kinds          []models.Kind
}

// Normalize trims the topic fields and drops Category when Theme is set.
func (f Filter) Normalize() Filter {
	f.Category = strings.TrimSpace(f.Category)
	f.Theme = strings.TrimSpace(f.Theme)
	f.ConversationID = strings.TrimSpace(f.ConversationID)
	if f.Theme != "" {
		f.Category = ""
	}
	return f
}

// CitationClick is a request to record that a citation link was followed.
type CitationClick struct {
	ConversationID string `json:"conversationId"`
	Title          string `json:"citationTitle"`
	URL            string `json:"citationUrl"`
	UserID         string `json:"userId"`
}

func (c CitationClick) Validate() error {
	if strings.TrimSpace(c.ConversationID) == "" || strings.TrimSpace(c.Title) == "" {
		return ErrInvalidClick
	}
	return nil
}

func newClickEvent(c CitationClick, now time.Time) models.Event {
	userID := strings.TrimSpace(c.UserID)
	if userID == "" {
		userID = "anonymous"
	}
	return models.Event{
		ID:             "citation-click-" + uuid.New().String(),
		Kind:           models.KindCitationClick,
		ConversationID: strings.TrimSpace(c.ConversationID),
		UserID:         userID,
		CitationTitle:  c.Title,
		CitationURL:    c.URL,
		CreatedAt:      models.NewTimestamp(now),
	}
}
