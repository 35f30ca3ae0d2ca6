package analytics

import (
	"github.com/xaenox/chatlog-analytics/internal/models"
	"go.uber.org/zap"
)

type responseStats struct {
	perConversation map[string]float64
	sum             float64
	count           int
}

// responseTimes measures, per conversation, the seconds between the
// conversation start and its earliest tool message. Negative deltas are
// dropped.
func (e *Engine) responseTimes(events []models.Event) responseStats {
	earliestTool := make(map[string]models.Timestamp)
	for _, ev := range events {
		if !ev.IsMessage(models.RoleTool) || ev.ConversationID == "" {
			continue
		}
		if !ev.CreatedAt.Valid() {
			e.logger.Debug("Tool message has unparseable timestamp",
				zap.String("event_id", ev.ID),
				zap.String("created_at", ev.CreatedAt.Raw))
			continue
		}
		if cur, ok := earliestTool[ev.ConversationID]; !ok || ev.CreatedAt.Before(cur) {
			earliestTool[ev.ConversationID] = ev.CreatedAt
		}
	}

	stats := responseStats{perConversation: make(map[string]float64)}
	for _, ev := range events {
		if ev.Kind != models.KindConversation || !ev.CreatedAt.Valid() {
			continue
		}
		tool, ok := earliestTool[ev.ConversationKey()]
		if !ok {
			continue
		}
		delta := tool.Sub(ev.CreatedAt.Time).Seconds()
		if delta < 0 {
			e.logger.Debug("Discarding negative response time",
				zap.String("conversation_id", ev.ConversationKey()),
				zap.Float64("seconds", delta))
			continue
		}
		stats.perConversation[ev.ConversationKey()] = delta
		stats.sum += delta
		stats.count++
	}

	return stats
}
