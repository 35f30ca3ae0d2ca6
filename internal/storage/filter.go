package storage

import (
	"strings"

	"github.com/xaenox/chatlog-analytics/internal/models"
)

// Apply returns the events of a batch that match f, keeping their order.
//
// Theme and category select conversations; messages and clicks follow the
// conversation they belong to, and also match on their own tags.
func Apply(events []models.Event, f Filter) []models.Event {
	f = f.Normalize()

	var scoped map[string]struct{}
	if f.Theme != "" || f.Category != "" {
		scoped = make(map[string]struct{})
		for _, ev := range events {
			if ev.Kind == models.KindConversation && matchesTopic(ev, f) {
				scoped[ev.ConversationKey()] = struct{}{}
			}
		}
	}

	out := make([]models.Event, 0, len(events))
	for _, ev := range events {
		if f.ConversationID != "" && ev.ID != f.ConversationID && ev.ConversationID != f.ConversationID {
			continue
		}
		if len(f.Kinds) > 0 && !hasKind(f.Kinds, ev.Kind) {
			continue
		}
		if !inRange(ev.CreatedAt, f) {
			continue
		}
		if scoped != nil {
			if _, ok := scoped[ev.ConversationKey()]; !ok && !matchesTopic(ev, f) {
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

func inRange(ts models.Timestamp, f Filter) bool {
	if f.Start == nil && f.End == nil {
		return true
	}
	if !ts.Valid() {
		return false
	}
	if f.Start != nil && ts.Time.Before(*f.Start) {
		return false
	}
	if f.End != nil && !ts.Time.Before(*f.End) {
		return false
	}
	return true
}

func matchesTopic(ev models.Event, f Filter) bool {
	if f.Theme != "" {
		needle := strings.ToLower(f.Theme)
		for _, theme := range ev.Themes {
			if strings.Contains(strings.ToLower(theme), needle) {
				return true
			}
		}
		return ev.Kind == models.KindConversation && strings.Contains(strings.ToLower(ev.Title), needle)
	}
	if f.Category != "" {
		return strings.Contains(strings.ToLower(ev.Category), strings.ToLower(f.Category))
	}
	return true
}

func hasKind(kinds []models.Kind, kind models.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
