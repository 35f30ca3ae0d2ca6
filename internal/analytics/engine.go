// Package analytics derives dashboard snapshots from event batches.
package analytics

import (
	"strings"

	"github.com/xaenox/chatlog-analytics/internal/classifier"
	"github.com/xaenox/chatlog-analytics/internal/models"
	"go.uber.org/zap"
)

// Options bound the list sizes of a snapshot.
type Options struct {
	RecentLimit          int
	TopThemesLimit       int
	UnmatchedSampleLimit int
}

func DefaultOptions() Options {
	return Options{
		RecentLimit:          20,
		TopThemesLimit:       5,
		UnmatchedSampleLimit: 20,
	}
}

// Engine aggregates an in-memory event batch. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	themes  *classifier.ThemeLexicon
	sources *classifier.SourceLexicon
	opts    Options
	logger  *zap.Logger
}

func NewEngine(themes *classifier.ThemeLexicon, sources *classifier.SourceLexicon, opts Options, logger *zap.Logger) *Engine {
	defaults := DefaultOptions()
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = defaults.RecentLimit
	}
	if opts.TopThemesLimit <= 0 {
		opts.TopThemesLimit = defaults.TopThemesLimit
	}
	if opts.UnmatchedSampleLimit <= 0 {
		opts.UnmatchedSampleLimit = defaults.UnmatchedSampleLimit
	}
	if themes == nil {
		themes = classifier.DefaultThemeLexicon()
	}
	if sources == nil {
		sources = classifier.DefaultSourceLexicon()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		themes:  themes,
		sources: sources,
		opts:    opts,
		logger:  logger,
	}
}

// Aggregate computes the snapshot of a batch that the caller has already
// filtered. Period, Filter, AllTime and Metadata are left for the caller.
func (e *Engine) Aggregate(events []models.Event) *models.Snapshot {
	summary := e.Summarize(events)

	themes, convThemes := e.themeBreakdown(events)
	toolMessages := e.parseToolMessages(events)
	responses := e.responseTimes(events)
	if responses.count > 0 {
		avg := round1(responses.sum / float64(responses.count))
		summary.AvgResponseSeconds = &avg
	}

	trends := e.trends(events)

	return &models.Snapshot{
		Summary:    summary,
		Categories: categoryCounts(events),
		Themes:     themes,
		Citations:  e.citationBreakdown(toolMessages),
		Trends:     trends,
		Engagement: e.engagement(events, summary, toolMessages),
		Questions:  e.recent(events, convThemes, responses.perConversation),
		Insights:   insights(trends, themes),
	}
}

// Summarize computes the cardinalities only. It is used for the all-time
// summary.
func (e *Engine) Summarize(events []models.Event) models.Summary {
	users := make(map[string]struct{})
	summary := models.Summary{TotalInteractions: len(events)}

	for _, ev := range events {
		if ev.UserID != "" {
			users[ev.UserID] = struct{}{}
		}
		switch {
		case ev.Kind == models.KindConversation && strings.TrimSpace(ev.Title) != "":
			summary.TotalConversations++
		case ev.IsMessage(models.RoleUser):
			summary.TotalUserMessages++
		}
	}

	summary.UniqueUsers = len(users)
	return summary
}

// categoryCounts counts events per category, using the event kind when no
// category is set.
func categoryCounts(events []models.Event) map[string]int {
	counts := make(map[string]int)
	for _, ev := range events {
		key := strings.TrimSpace(ev.Category)
		if key == "" {
			key = string(ev.Kind)
		}
		if key == "" {
			key = "unknown"
		}
		counts[key]++
	}
	return counts
}

func insights(trends models.Trends, themes models.Themes) models.Insights {
	out := models.Insights{
		BusiestHour:     "No data",
		MostCommonTheme: "No themes found",
	}
	if trends.PeakHour != nil {
		out.BusiestHour = hourLabel(*trends.PeakHour)
	}
	if len(themes.TopThemes) > 0 {
		out.MostCommonTheme = themes.TopThemes[0].Theme
	}
	return out
}
