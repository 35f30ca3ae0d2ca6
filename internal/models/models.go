package models

import "sort"

// Kind discriminates the shape of an event record.
type Kind string

const (
	KindConversation  Kind = "conversation"
	KindMessage       Kind = "message"
	KindCitationClick Kind = "citation_click"
)

// Role is set on message events only.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Event is one immutable record of the interaction log
type Event struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"type"`
	ConversationID string    `json:"conversationId,omitempty"`
	UserID         string    `json:"userId,omitempty"`
	Role           Role      `json:"role,omitempty"`
	Title          string    `json:"title,omitempty"`
	Content        string    `json:"content,omitempty"`
	Themes         []string  `json:"themes,omitempty"`
	Category       string    `json:"category,omitempty"`
	CitationTitle  string    `json:"citationTitle,omitempty"`
	CitationURL    string    `json:"citationUrl,omitempty"`
	CreatedAt      Timestamp `json:"createdAt"`
}

// ConversationKey returns the id of the conversation the event belongs to.
// Conversation events are their own key.
func (e Event) ConversationKey() string {
	if e.Kind == KindConversation && e.ID != "" {
		return e.ID
	}
	return e.ConversationID
}

// IsMessage reports whether the event is a message with the given role.
func (e Event) IsMessage(role Role) bool {
	return e.Kind == KindMessage && e.Role == role
}

// SortChronologically orders events by CreatedAt ascending. The sort is
// stable, so events with equal timestamps keep the order the store returned
// them in. Events with an unparseable timestamp sort first.
func SortChronologically(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}

// SortNewestFirst orders events by CreatedAt descending, keeping store order
// for ties. Events with an unparseable timestamp sort last.
func SortNewestFirst(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[j].CreatedAt.Before(events[i].CreatedAt)
	})
}

// OfKind returns the events of the given kind, preserving order.
func OfKind(events []Event, kind Kind) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
