package analytics

import (
	"sort"

	"github.com/xaenox/chatlog-analytics/internal/citation"
	"github.com/xaenox/chatlog-analytics/internal/models"
	"go.uber.org/zap"
)

type toolMessage struct {
	event   models.Event
	payload citation.Payload
}

// parseToolMessages decodes every tool message once for the citation and
// engagement passes.
func (e *Engine) parseToolMessages(events []models.Event) []toolMessage {
	var out []toolMessage
	for _, ev := range events {
		if !ev.IsMessage(models.RoleTool) {
			continue
		}
		p := citation.Parse(ev.Content)
		if p.IsOpaque() {
			e.logger.Debug("Tool message has no citations, skipping",
				zap.String("event_id", ev.ID),
				zap.String("conversation_id", ev.ConversationID))
		}
		out = append(out, toolMessage{event: ev, payload: p})
	}
	return out
}

type bucketStats struct {
	count         int
	conversations map[string]struct{}
}

// citationBreakdown assigns every citation to a source bucket and reports
// per-bucket counts ordered by count, then lexicon priority.
func (e *Engine) citationBreakdown(messages []toolMessage) models.Citations {
	stats := make(map[string]*bucketStats)
	samples := []string{}
	sampled := make(map[string]struct{})
	total := 0

	for _, msg := range messages {
		for _, c := range msg.payload.Citations {
			bucket, matched := e.sources.Classify(c.Title)
			st, ok := stats[bucket]
			if !ok {
				st = &bucketStats{conversations: make(map[string]struct{})}
				stats[bucket] = st
			}
			st.count++
			if id := msg.event.ConversationID; id != "" {
				st.conversations[id] = struct{}{}
			}
			total++

			if !matched && len(samples) < e.opts.UnmatchedSampleLimit {
				if _, dup := sampled[c.Title]; !dup {
					sampled[c.Title] = struct{}{}
					samples = append(samples, c.Title)
				}
			}
		}
	}

	breakdown := []models.SourceBreakdown{}
	for _, name := range e.sources.Buckets() {
		st, ok := stats[name]
		if !ok {
			continue
		}
		questions := len(st.conversations)
		breakdown = append(breakdown, models.SourceBreakdown{
			Source:               name,
			Count:                st.count,
			Questions:            questions,
			Percentage:           percent(st.count, total),
			CitationsPerQuestion: ratio(st.count, questions),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Count > breakdown[j].Count
	})

	return models.Citations{
		TotalCitations:   total,
		Breakdown:        breakdown,
		UnmatchedSamples: samples,
	}
}
