package analytics

import (
	"github.com/xaenox/chatlog-analytics/internal/models"
)

// recent lists the newest conversations with their themes and response
// time.
func (e *Engine) recent(events []models.Event, themes map[string][]string, responses map[string]float64) models.Questions {
	conversations := models.OfKind(events, models.KindConversation)
	total := len(conversations)

	models.SortNewestFirst(conversations)
	if len(conversations) > e.opts.RecentLimit {
		conversations = conversations[:e.opts.RecentLimit]
	}

	items := make([]models.RecentItem, 0, len(conversations))
	for _, ev := range conversations {
		key := ev.ConversationKey()
		item := models.RecentItem{
			ID:        ev.ID,
			Title:     ev.Title,
			UserID:    ev.UserID,
			Category:  ev.Category,
			CreatedAt: ev.CreatedAt,
			Themes:    themes[key],
		}
		if item.Themes == nil {
			item.Themes = []string{}
		}
		if seconds, ok := responses[key]; ok {
			rounded := round1(seconds)
			item.ResponseSeconds = &rounded
		}
		items = append(items, item)
	}

	return models.Questions{Recent: items, TotalCount: total}
}

// RecentQuestions lists user prompts newest first, at most limit of them.
func RecentQuestions(events []models.Event, limit int) []models.QuestionItem {
	var prompts []models.Event
	for _, ev := range events {
		if ev.IsMessage(models.RoleUser) {
			prompts = append(prompts, ev)
		}
	}
	models.SortNewestFirst(prompts)
	if limit > 0 && len(prompts) > limit {
		prompts = prompts[:limit]
	}

	items := make([]models.QuestionItem, 0, len(prompts))
	for _, ev := range prompts {
		userID := ev.UserID
		if userID == "" {
			userID = "anonymous"
		}
		category := ev.Category
		if category == "" {
			category = "general_enquiry"
		}
		items = append(items, models.QuestionItem{
			ID:             ev.ID,
			ConversationID: ev.ConversationID,
			UserID:         userID,
			Question:       ev.Content,
			Category:       category,
			CreatedAt:      ev.CreatedAt,
		})
	}
	return items
}
