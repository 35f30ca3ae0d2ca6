// Package transcript rebuilds question/answer turns from message events.
package transcript

import (
	"github.com/xaenox/chatlog-analytics/internal/citation"
	"github.com/xaenox/chatlog-analytics/internal/classifier"
	"github.com/xaenox/chatlog-analytics/internal/models"
)

type Reconstructor struct {
	sources *classifier.SourceLexicon
}

// NewReconstructor returns a Reconstructor that labels citations with the
// given source lexicon. A nil lexicon leaves Source empty.
func NewReconstructor(sources *classifier.SourceLexicon) *Reconstructor {
	return &Reconstructor{sources: sources}
}

// Reconstruct turns message events, already sorted by CreatedAt, into
// transcript entries. Each user message opens a turn that collects the
// first assistant reply and the citations of every tool message up to the
// next user message. Messages seen before the first turn are emitted as
// standalone entries.
func (r *Reconstructor) Reconstruct(messages []models.Event) []models.Entry {
	entries := make([]models.Entry, 0, len(messages))

	i := 0
	for i < len(messages) {
		msg := messages[i]
		switch msg.Role {
		case models.RoleUser:
			turn, next := r.collectTurn(messages, i)
			entries = append(entries, models.Entry{Kind: models.EntryTurn, Turn: turn})
			i = next
			continue
		case models.RoleAssistant:
			entries = append(entries, models.Entry{
				Kind:    models.EntryAnswer,
				Role:    msg.Role,
				Content: msg.Content,
			})
		case models.RoleTool:
			entries = append(entries, models.Entry{
				Kind:      models.EntryCitations,
				Role:      msg.Role,
				Citations: r.citations(msg),
			})
		default:
			entries = append(entries, models.Entry{
				Kind:    models.EntryUnclassified,
				Role:    msg.Role,
				Content: msg.Content,
			})
		}
		i++
	}

	return entries
}

// collectTurn scans forward from the user message at start and returns the
// turn plus the index of the next user message (or len(messages)).
// Later assistant messages in the same turn and unknown roles are dropped.
func (r *Reconstructor) collectTurn(messages []models.Event, start int) (*models.Turn, int) {
	turn := &models.Turn{
		Question:  messages[start].Content,
		Citations: []models.Citation{},
	}

	j := start + 1
	for ; j < len(messages); j++ {
		msg := messages[j]
		switch msg.Role {
		case models.RoleUser:
			return turn, j
		case models.RoleAssistant:
			if turn.Answer == nil {
				answer := msg.Content
				turn.Answer = &answer
			}
		case models.RoleTool:
			turn.Citations = append(turn.Citations, r.citations(msg)...)
		}
	}

	return turn, j
}

func (r *Reconstructor) citations(msg models.Event) []models.Citation {
	entries := citation.Parse(msg.Content).Entries()

	out := make([]models.Citation, len(entries))
	for i, c := range entries {
		if !c.Opaque && r.sources != nil {
			c.Source, _ = r.sources.Classify(c.Title)
		}
		out[i] = c
	}
	return out
}
