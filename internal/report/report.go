// Package report turns an analytics snapshot into a short daily summary
// and delivers it.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xaenox/chatlog-analytics/internal/analytics"
	"github.com/xaenox/chatlog-analytics/internal/models"
	"go.uber.org/zap"
)

type Report struct {
	Subject string
	Body    string
}

// Text joins subject and body for channels without a subject line.
func (r Report) Text() string {
	return r.Subject + "\n\n" + r.Body
}

// Build renders the snapshot as plain text. The narrative, when not empty,
// opens the body.
func Build(s *models.Snapshot, narrative string, day time.Time) Report {
	force := s.Metadata.ForceID
	if force == "" {
		force = "unknown"
	}

	var b strings.Builder
	if narrative != "" {
		b.WriteString(narrative)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Summary:\n")
	fmt.Fprintf(&b, "- Interactions: %d\n", s.Summary.TotalInteractions)
	fmt.Fprintf(&b, "- Unique users: %d\n", s.Summary.UniqueUsers)
	fmt.Fprintf(&b, "- Conversations: %d\n", s.Summary.TotalConversations)
	fmt.Fprintf(&b, "- Questions asked: %d\n", s.Summary.TotalUserMessages)
	if s.Summary.AvgResponseSeconds != nil {
		fmt.Fprintf(&b, "- Average response time: %.1fs\n", *s.Summary.AvgResponseSeconds)
	}
	fmt.Fprintf(&b, "- Busiest hour (UTC): %s\n", s.Insights.BusiestHour)

	if len(s.Themes.TopThemes) > 0 {
		b.WriteString("\nTop themes:\n")
		for _, t := range s.Themes.TopThemes {
			fmt.Fprintf(&b, "- %s: %d\n", t.Theme, t.Count)
		}
	}

	if len(s.Citations.Breakdown) > 0 {
		fmt.Fprintf(&b, "\nCitations (%d):\n", s.Citations.TotalCitations)
		for _, src := range s.Citations.Breakdown {
			fmt.Fprintf(&b, "- %s: %d (%.1f%%)\n", src.Source, src.Count, src.Percentage)
		}
	}

	b.WriteString("\nEngagement:\n")
	fmt.Fprintf(&b, "- Messages per conversation: %.1f\n", s.Engagement.AvgMessagesPerConversation)
	fmt.Fprintf(&b, "- Returning users: %d (%.1f%%)\n", s.Engagement.ReturningUsers, s.Engagement.ReturningUserRate)
	fmt.Fprintf(&b, "- Citation engagement: %.1f%%\n", s.Engagement.CitationEngagementRate)

	if s.AllTime != nil {
		fmt.Fprintf(&b, "\nAll time: %d interactions from %d users\n",
			s.AllTime.TotalInteractions, s.AllTime.UniqueUsers)
	}

	return Report{
		Subject: fmt.Sprintf("Chatbot Analytics Daily Report - %s - %s", force, day.UTC().Format("2006-01-02")),
		Body:    strings.TrimRight(b.String(), "\n"),
	}
}

// Window returns the days-long range ending at the start of now's UTC day.
func Window(now time.Time, days int) (time.Time, time.Time) {
	if days <= 0 {
		days = 1
	}
	end := now.UTC().Truncate(24 * time.Hour)
	return end.AddDate(0, 0, -days), end
}

// Generator builds and sends one report.
type Generator struct {
	assembler *analytics.Assembler
	narrator  Narrator
	notifier  Notifier
	logger    *zap.Logger
}

func NewGenerator(assembler *analytics.Assembler, narrator Narrator, notifier Notifier, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		assembler: assembler,
		narrator:  narrator,
		notifier:  notifier,
		logger:    logger,
	}
}

// Run reports on the days before now. Narration failures fall back to a
// fixed summary; snapshot and delivery failures are returned.
func (g *Generator) Run(ctx context.Context, now time.Time, days int) (Report, error) {
	start, end := Window(now, days)

	snapshot, err := g.assembler.Snapshot(ctx, analytics.Query{Start: &start, End: &end})
	if err != nil {
		return Report{}, fmt.Errorf("failed to build snapshot: %w", err)
	}

	narrative := Narrate(ctx, g.narrator, snapshot, g.logger)
	r := Build(snapshot, narrative, start)

	if err := g.notifier.Notify(ctx, r); err != nil {
		return r, fmt.Errorf("failed to deliver report: %w", err)
	}

	g.logger.Info("Daily report sent",
		zap.String("subject", r.Subject),
		zap.Time("start", start),
		zap.Time("end", end))
	return r, nil
}
