package models

import "time"

// Summary holds the top-level cardinalities of an event batch.
type Summary struct {
	TotalInteractions  int      `json:"total_interactions"`
	UniqueUsers        int      `json:"unique_users"`
	TotalConversations int      `json:"total_conversations"`
	TotalUserMessages  int      `json:"total_user_messages"`
	AvgResponseSeconds *float64 `json:"avg_response_seconds,omitempty"`
}

type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

type Themes struct {
	TopThemes []ThemeCount   `json:"top_themes"`
	AllThemes map[string]int `json:"all_themes"`
}

// SourceBreakdown describes one citation source bucket.
type SourceBreakdown struct {
	Source               string  `json:"source"`
	Count                int     `json:"count"`
	Questions            int     `json:"questions"`
	Percentage           float64 `json:"percentage"`
	CitationsPerQuestion float64 `json:"citations_per_question"`
}

type Citations struct {
	TotalCitations   int               `json:"total_citations"`
	Breakdown        []SourceBreakdown `json:"breakdown"`
	UnmatchedSamples []string          `json:"unmatched_samples"`
}

type Trends struct {
	HourlyDistribution [24]int        `json:"hourly_distribution"`
	PeakHour           *int           `json:"peak_hour"`
	PeakHours          []string       `json:"peak_hours"`
	DailyDistribution  map[string]int `json:"daily_distribution"`
}

type Engagement struct {
	AvgMessagesPerConversation float64 `json:"avg_messages_per_conversation"`
	AvgConversationsPerUser    float64 `json:"avg_conversations_per_user"`
	ReturningUsers             int     `json:"returning_users"`
	ReturningUserRate          float64 `json:"returning_user_rate"`
	CitationEngagementRate     float64 `json:"citation_engagement_rate"`
}

// RecentItem is a conversation annotated with its derived themes.
type RecentItem struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	UserID          string    `json:"userId,omitempty"`
	Category        string    `json:"category,omitempty"`
	CreatedAt       Timestamp `json:"createdAt"`
	Themes          []string  `json:"themes"`
	ResponseSeconds *float64  `json:"response_seconds,omitempty"`
}

type Questions struct {
	Recent     []RecentItem `json:"recent"`
	TotalCount int          `json:"total_count"`
}

type Insights struct {
	BusiestHour     string `json:"busiest_hour"`
	MostCommonTheme string `json:"most_common_theme"`
}

type Period struct {
	Start *time.Time `json:"startDate,omitempty"`
	End   *time.Time `json:"endDate,omitempty"`
}

type AppliedFilter struct {
	Category string `json:"category,omitempty"`
	Theme    string `json:"theme,omitempty"`
}

type Metadata struct {
	ForceID     string    `json:"forceId,omitempty"`
	DataSource  string    `json:"data_source"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Snapshot is the analytics view over a filtered window of events. AllTime
// is computed from an unfiltered read and never merged into the rest.
type Snapshot struct {
	Period     Period         `json:"period"`
	Filter     AppliedFilter  `json:"filter"`
	Summary    Summary        `json:"summary"`
	Categories map[string]int `json:"categories"`
	Themes     Themes         `json:"themes"`
	Citations  Citations      `json:"citations"`
	Trends     Trends         `json:"trends"`
	Engagement Engagement     `json:"engagement"`
	Questions  Questions      `json:"questions"`
	Insights   Insights       `json:"insights"`
	AllTime    *Summary       `json:"allTime"`
	Metadata   Metadata       `json:"metadata"`
}

// QuestionItem is a user prompt listed by the questions endpoint.
type QuestionItem struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	UserID         string    `json:"userId"`
	Question       string    `json:"question"`
	Category       string    `json:"category"`
	CreatedAt      Timestamp `json:"timestamp"`
}
