package analytics

import (
	"sort"
	"strings"

	"github.com/xaenox/chatlog-analytics/internal/models"
)

// conversationThemes returns the explicit theme tags of a conversation, or
// the lexicon keywords found in its title when it has none.
func (e *Engine) conversationThemes(ev models.Event) []string {
	explicit := make([]string, 0, len(ev.Themes))
	for _, theme := range ev.Themes {
		if theme = strings.TrimSpace(theme); theme != "" {
			explicit = append(explicit, theme)
		}
	}
	if len(explicit) > 0 {
		return explicit
	}
	return e.themes.Match(ev.Title)
}

// themeBreakdown counts themes over conversation events. It also returns
// the derived themes per conversation id for the recent list.
func (e *Engine) themeBreakdown(events []models.Event) (models.Themes, map[string][]string) {
	counts := make(map[string]int)
	var order []string
	perConversation := make(map[string][]string)

	for _, ev := range events {
		if ev.Kind != models.KindConversation {
			continue
		}
		themes := e.conversationThemes(ev)
		perConversation[ev.ConversationKey()] = themes
		for _, theme := range themes {
			if _, seen := counts[theme]; !seen {
				order = append(order, theme)
			}
			counts[theme]++
		}
	}

	ranked := make([]models.ThemeCount, len(order))
	for i, theme := range order {
		ranked[i] = models.ThemeCount{Theme: theme, Count: counts[theme]}
	}
	// Stable: ties keep first-encountered order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > e.opts.TopThemesLimit {
		ranked = ranked[:e.opts.TopThemesLimit]
	}

	return models.Themes{TopThemes: ranked, AllThemes: counts}, perConversation
}
