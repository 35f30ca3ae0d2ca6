package analytics

import (
	"github.com/xaenox/chatlog-analytics/internal/models"
)

// engagement computes the ratio metrics. Rates are percentages.
// Conversations per user uses summary.TotalConversations, so untitled
// conversations count as started but not in the numerator.
func (e *Engine) engagement(events []models.Event, summary models.Summary, tools []toolMessage) models.Engagement {
	var (
		messages     int
		withMessages = make(map[string]struct{})
		starters     = make(map[string]struct{})
		activeDays   = make(map[string]map[string]struct{})
		clicked      = make(map[string]struct{})
		cited        = make(map[string]struct{})
	)

	for _, ev := range events {
		switch ev.Kind {
		case models.KindMessage:
			messages++
			if ev.ConversationID != "" {
				withMessages[ev.ConversationID] = struct{}{}
			}
		case models.KindConversation:
			if ev.UserID != "" {
				starters[ev.UserID] = struct{}{}
			}
		case models.KindCitationClick:
			if ev.ConversationID != "" {
				clicked[ev.ConversationID] = struct{}{}
			}
		}

		if ev.UserID != "" && ev.CreatedAt.Valid() {
			days, ok := activeDays[ev.UserID]
			if !ok {
				days = make(map[string]struct{})
				activeDays[ev.UserID] = days
			}
			days[ev.CreatedAt.Date()] = struct{}{}
		}
	}

	for _, msg := range tools {
		if len(msg.payload.Citations) > 0 && msg.event.ConversationID != "" {
			cited[msg.event.ConversationID] = struct{}{}
		}
	}

	returning := 0
	for _, days := range activeDays {
		if len(days) >= 2 {
			returning++
		}
	}

	return models.Engagement{
		AvgMessagesPerConversation: ratio(messages, len(withMessages)),
		AvgConversationsPerUser:    ratio(summary.TotalConversations, len(starters)),
		ReturningUsers:             returning,
		ReturningUserRate:          percent(returning, summary.UniqueUsers),
		CitationEngagementRate:     percent(len(clicked), len(cited)),
	}
}
