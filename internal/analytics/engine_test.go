package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/chatlog-analytics/internal/models"
)

func at(s string) models.Timestamp {
	return models.ParseTimestamp(s)
}

func conversation(id, user, title, created string, themes ...string) models.Event {
	return models.Event{ID: id, Kind: models.KindConversation, ConversationID: id, UserID: user, Title: title, Themes: themes, CreatedAt: at(created)}
}

func message(id, conv, user string, role models.Role, content, created string) models.Event {
	return models.Event{ID: id, Kind: models.KindMessage, ConversationID: conv, UserID: user, Role: role, Content: content, CreatedAt: at(created)}
}

func batch() []models.Event {
	return []models.Event{
		conversation("c1", "u1", "Reported domestic abuse near the station", "2025-07-01T02:00:00Z"),
		conversation("c2", "u2", "Lost wallet on the train", "2025-07-01T02:30:00Z", "lost property"),
		message("m1", "c1", "u1", models.RoleUser, "Someone is hurting me", "2025-07-01T02:00:05Z"),
		message("t1", "c1", "", models.RoleTool, `{"citations":[{"title":"Domestic Abuse Support","content":"..."},{"title":"Annual report","content":"..."}]}`, "2025-07-01T02:00:10Z"),
		message("a1", "c1", "", models.RoleAssistant, "Call 999 if you are in danger.", "2025-07-01T02:00:12Z"),
		message("m2", "c2", "u2", models.RoleUser, "Where is my wallet?", "2025-07-01T02:30:05Z"),
		message("t2", "c2", "", models.RoleTool, "{not json", "2025-07-01T02:29:00Z"),
		conversation("c3", "u1", "", "2025-07-02T14:00:00Z"),
		{ID: "k1", Kind: models.KindCitationClick, ConversationID: "c1", UserID: "u1", CitationTitle: "Domestic Abuse Support", CreatedAt: at("2025-07-02T14:05:00Z")},
		message("x1", "c3", "u1", models.RoleUser, "hello?", "garbage"),
	}
}

func newTestEngine() *Engine {
	return NewEngine(nil, nil, Options{}, nil)
}

func TestAggregateSummary(t *testing.T) {
	s := newTestEngine().Aggregate(batch())

	assert.Equal(t, 10, s.Summary.TotalInteractions)
	assert.Equal(t, 2, s.Summary.UniqueUsers)
	assert.Equal(t, 2, s.Summary.TotalConversations)
	assert.Equal(t, 3, s.Summary.TotalUserMessages)
	require.NotNil(t, s.Summary.AvgResponseSeconds)
	assert.Equal(t, 10.0, *s.Summary.AvgResponseSeconds)
	assert.LessOrEqual(t, s.Summary.UniqueUsers, s.Summary.TotalInteractions)

	assert.Equal(t, map[string]int{"conversation": 3, "message": 6, "citation_click": 1}, s.Categories)
}

func TestAggregateThemes(t *testing.T) {
	s := newTestEngine().Aggregate(batch())

	assert.Equal(t, []models.ThemeCount{
		{Theme: "abuse", Count: 1},
		{Theme: "domestic abuse", Count: 1},
		{Theme: "lost property", Count: 1},
	}, s.Themes.TopThemes)
	assert.Equal(t, "abuse", s.Insights.MostCommonTheme)
}

func TestTopThemesRankingAndLimit(t *testing.T) {
	events := []models.Event{
		conversation("c1", "u1", "noise", "2025-07-01T10:00:00Z"),
		conversation("c2", "u1", "parking and noise", "2025-07-01T10:00:00Z"),
		conversation("c3", "u1", "theft", "2025-07-01T10:00:00Z", "a", "b", "c", "d", "e"),
	}
	s := NewEngine(nil, nil, Options{TopThemesLimit: 3}, nil).Aggregate(events)

	require.Len(t, s.Themes.TopThemes, 3)
	assert.Equal(t, models.ThemeCount{Theme: "noise", Count: 2}, s.Themes.TopThemes[0])
	assert.Equal(t, models.ThemeCount{Theme: "parking", Count: 1}, s.Themes.TopThemes[1])
	assert.Equal(t, models.ThemeCount{Theme: "a", Count: 1}, s.Themes.TopThemes[2])
	assert.Equal(t, 7, len(s.Themes.AllThemes))
}

func TestAggregateCitations(t *testing.T) {
	s := newTestEngine().Aggregate(batch())

	assert.Equal(t, 2, s.Citations.TotalCitations)
	assert.Equal(t, []models.SourceBreakdown{
		{Source: "Domestic Abuse Guidance", Count: 1, Questions: 1, Percentage: 50, CitationsPerQuestion: 1},
		{Source: "Other Documents", Count: 1, Questions: 1, Percentage: 50, CitationsPerQuestion: 1},
	}, s.Citations.Breakdown)
	assert.Equal(t, []string{"Annual report"}, s.Citations.UnmatchedSamples)
}

func TestCitationBreakdownOrdering(t *testing.T) {
	events := []models.Event{
		message("t1", "c1", "", models.RoleTool, `{"citations":[{"title":"Report a crime online"},{"title":"Lost property form"}]}`, "2025-07-01T10:00:00Z"),
		message("t2", "c2", "", models.RoleTool, `{"citations":[{"title":"Lost property office"},{"title":"Lost property FAQ"}]}`, "2025-07-01T10:00:00Z"),
	}
	s := newTestEngine().Aggregate(events)

	require.Len(t, s.Citations.Breakdown, 2)
	assert.Equal(t, models.SourceBreakdown{Source: "Lost Property", Count: 3, Questions: 2, Percentage: 75, CitationsPerQuestion: 1.5}, s.Citations.Breakdown[0])
	assert.Equal(t, "Crime Reporting", s.Citations.Breakdown[1].Source)
	assert.Empty(t, s.Citations.UnmatchedSamples)
}

func TestResponseTimeDiscardsNegativeDeltas(t *testing.T) {
	events := []models.Event{
		conversation("c1", "u1", "a", "2025-07-01T10:00:00Z"),
		message("t1", "c1", "", models.RoleTool, "{}", "2025-07-01T10:00:30Z"),
		message("t1b", "c1", "", models.RoleTool, "{}", "2025-07-01T10:00:04Z"),
		conversation("c2", "u2", "b", "2025-07-01T10:00:00Z"),
		message("t2", "c2", "", models.RoleTool, "{}", "2025-07-01T09:59:00Z"),
	}
	s := newTestEngine().Aggregate(events)

	require.NotNil(t, s.Summary.AvgResponseSeconds)
	assert.Equal(t, 4.0, *s.Summary.AvgResponseSeconds, "earliest tool message is used")

	for _, item := range s.Questions.Recent {
		if item.ResponseSeconds != nil {
			assert.GreaterOrEqual(t, *item.ResponseSeconds, 0.0)
		}
	}
}

func TestResponseTimeOmittedWithoutValidPairs(t *testing.T) {
	events := []models.Event{
		conversation("c1", "u1", "a", "2025-07-01T10:00:00Z"),
		message("t1", "c1", "", models.RoleTool, "{}", "2025-07-01T09:00:00Z"),
	}
	s := newTestEngine().Aggregate(events)
	assert.Nil(t, s.Summary.AvgResponseSeconds)
}

func TestHourlyDistribution(t *testing.T) {
	events := []models.Event{
		message("m1", "c1", "", models.RoleUser, "", "2025-07-01T02:10:00Z"),
		message("m2", "c1", "", models.RoleUser, "", "2025-07-01T02:50:00Z"),
		message("m3", "c1", "", models.RoleUser, "", "2025-07-01T14:00:00Z"),
	}
	s := newTestEngine().Aggregate(events)

	var want [24]int
	want[2] = 2
	want[14] = 1
	assert.Equal(t, want, s.Trends.HourlyDistribution)
	require.NotNil(t, s.Trends.PeakHour)
	assert.Equal(t, 2, *s.Trends.PeakHour)
	assert.Equal(t, []string{"02:00", "14:00"}, s.Trends.PeakHours)
	assert.Equal(t, map[string]int{"2025-07-01": 3}, s.Trends.DailyDistribution)
	assert.Equal(t, "02:00", s.Insights.BusiestHour)
}

func TestTrendsSkipUnparseableTimestamps(t *testing.T) {
	s := newTestEngine().Aggregate(batch())

	assert.Equal(t, 7, s.Trends.HourlyDistribution[2])
	assert.Equal(t, 2, s.Trends.HourlyDistribution[14])
	assert.Equal(t, map[string]int{"2025-07-01": 7, "2025-07-02": 2}, s.Trends.DailyDistribution)
}

func TestAggregateEngagement(t *testing.T) {
	s := newTestEngine().Aggregate(batch())

	assert.Equal(t, models.Engagement{
		AvgMessagesPerConversation: 2,
		AvgConversationsPerUser:    1,
		ReturningUsers:             1,
		ReturningUserRate:          50,
		CitationEngagementRate:     100,
	}, s.Engagement)
}

func TestCitationEngagementZeroWithoutCitations(t *testing.T) {
	events := []models.Event{
		conversation("c1", "u1", "a", "2025-07-01T10:00:00Z"),
		{ID: "k1", Kind: models.KindCitationClick, ConversationID: "c1", CreatedAt: at("2025-07-01T10:01:00Z")},
		message("t1", "c1", "", models.RoleTool, "{not json", "2025-07-01T10:00:30Z"),
	}
	s := newTestEngine().Aggregate(events)

	assert.Equal(t, 0.0, s.Engagement.CitationEngagementRate)
	assert.Equal(t, 0, s.Citations.TotalCitations)
}

func TestAggregateRecent(t *testing.T) {
	s := newTestEngine().Aggregate(batch())

	require.Len(t, s.Questions.Recent, 3)
	assert.Equal(t, 3, s.Questions.TotalCount)
	assert.Equal(t, "c3", s.Questions.Recent[0].ID)
	assert.Equal(t, []string{}, s.Questions.Recent[0].Themes)
	assert.Equal(t, "c2", s.Questions.Recent[1].ID)
	assert.Equal(t, []string{"lost property"}, s.Questions.Recent[1].Themes)
	assert.Nil(t, s.Questions.Recent[1].ResponseSeconds)
	assert.Equal(t, "c1", s.Questions.Recent[2].ID)
	require.NotNil(t, s.Questions.Recent[2].ResponseSeconds)
	assert.Equal(t, 10.0, *s.Questions.Recent[2].ResponseSeconds)
}

func TestRecentIsBounded(t *testing.T) {
	var events []models.Event
	for i := 0; i < 30; i++ {
		events = append(events, conversation("c", "u", "t", "2025-07-01T10:00:00Z"))
	}
	s := newTestEngine().Aggregate(events)

	assert.Len(t, s.Questions.Recent, 20)
	assert.Equal(t, 30, s.Questions.TotalCount)
}

func TestAggregateEmptyBatch(t *testing.T) {
	s := newTestEngine().Aggregate(nil)

	assert.Equal(t, models.Summary{}, s.Summary)
	assert.Empty(t, s.Categories)
	assert.Empty(t, s.Themes.TopThemes)
	assert.Empty(t, s.Citations.Breakdown)
	assert.Equal(t, [24]int{}, s.Trends.HourlyDistribution)
	assert.Nil(t, s.Trends.PeakHour)
	assert.Equal(t, models.Engagement{}, s.Engagement)
	assert.Empty(t, s.Questions.Recent)
	assert.Equal(t, "No data", s.Insights.BusiestHour)
}

func TestRecentQuestions(t *testing.T) {
	events := []models.Event{
		message("m1", "c1", "u1", models.RoleUser, "first", "2025-07-01T10:00:00Z"),
		message("a1", "c1", "", models.RoleAssistant, "answer", "2025-07-01T10:00:01Z"),
		message("m2", "c1", "", models.RoleUser, "second", "2025-07-01T11:00:00Z"),
		message("m3", "c2", "u2", models.RoleUser, "third", "2025-07-01T12:00:00Z"),
	}

	items := RecentQuestions(events, 2)
	require.Len(t, items, 2)
	assert.Equal(t, "third", items[0].Question)
	assert.Equal(t, "second", items[1].Question)
	assert.Equal(t, "anonymous", items[1].UserID)
	assert.Equal(t, "general_enquiry", items[1].Category)
}

func TestCitationWithNonStringFieldIsCounted(t *testing.T) {
	events := []models.Event{
		conversation("c1", "u1", "Lost wallet", "2025-07-01T10:00:00Z"),
		message("t1", "c1", "", models.RoleTool, `{"citations":[{"title":"Lost Property Office","content":42}]}`, "2025-07-01T10:00:02Z"),
		{ID: "k1", Kind: models.KindCitationClick, ConversationID: "c1", CreatedAt: at("2025-07-01T10:01:00Z")},
	}
	s := newTestEngine().Aggregate(events)

	assert.Equal(t, 1, s.Citations.TotalCitations)
	require.Len(t, s.Citations.Breakdown, 1)
	assert.Equal(t, "Lost Property", s.Citations.Breakdown[0].Source)
	assert.Equal(t, 100.0, s.Engagement.CitationEngagementRate)
}

func TestConversationsPerUserMatchesSummary(t *testing.T) {
	events := []models.Event{
		conversation("c1", "u1", "Noise complaint", "2025-07-01T10:00:00Z"),
		conversation("c2", "u1", "Parking", "2025-07-01T11:00:00Z"),
		conversation("c3", "u1", "  ", "2025-07-01T12:00:00Z"),
		conversation("c4", "u2", "Theft", "2025-07-01T13:00:00Z"),
	}
	s := newTestEngine().Aggregate(events)

	assert.Equal(t, 3, s.Summary.TotalConversations)
	assert.Equal(t, 1.5, s.Engagement.AvgConversationsPerUser)
}
