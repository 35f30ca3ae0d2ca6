package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/chatlog-analytics/internal/models"
	"go.uber.org/zap"
)

// Narrator writes a short prose overview of a snapshot.
type Narrator interface {
	Narrate(ctx context.Context, s *models.Snapshot) (string, error)
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type GPTNarrator struct {
	client      chatCompleter
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGPTNarrator(apiKey string, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTNarrator {
	return &GPTNarrator{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (n *GPTNarrator) Narrate(ctx context.Context, s *models.Snapshot) (string, error) {
	prompt := fmt.Sprintf(`Write two or three plain sentences for a police force's daily chatbot report.
Do not use markdown. Mention anything unusual.

Interactions: %d
Unique users: %d
Conversations: %d
Busiest hour (UTC): %s
Most common theme: %s
Top themes: %s
Citation engagement rate: %.1f%%`,
		s.Summary.TotalInteractions,
		s.Summary.UniqueUsers,
		s.Summary.TotalConversations,
		s.Insights.BusiestHour,
		s.Insights.MostCommonTheme,
		themeList(s.Themes.TopThemes),
		s.Engagement.CitationEngagementRate,
	)

	resp, err := n.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: n.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   n.maxTokens,
			Temperature: float32(n.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	n.logger.Debug("Generated report narrative",
		zap.String("model", n.model),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// FallbackNarrative is the fixed overview used when no narrator is
// configured or it fails.
func FallbackNarrative(s *models.Snapshot) string {
	if s.Summary.TotalInteractions == 0 {
		return "No chatbot activity was recorded in this period."
	}
	text := fmt.Sprintf("The chatbot handled %d interactions from %d users across %d conversations.",
		s.Summary.TotalInteractions, s.Summary.UniqueUsers, s.Summary.TotalConversations)
	if len(s.Themes.TopThemes) > 0 {
		text += fmt.Sprintf(" The most common theme was %s.", s.Themes.TopThemes[0].Theme)
	}
	if s.Trends.PeakHour != nil {
		text += fmt.Sprintf(" Activity peaked at %s UTC.", s.Insights.BusiestHour)
	}
	return text
}

// Narrate asks n for an overview and falls back to FallbackNarrative on
// any failure.
func Narrate(ctx context.Context, n Narrator, s *models.Snapshot, logger *zap.Logger) string {
	if n == nil {
		return FallbackNarrative(s)
	}
	text, err := n.Narrate(ctx, s)
	if err != nil || text == "" {
		logger.Warn("Narrator failed, using fallback narrative", zap.Error(err))
		return FallbackNarrative(s)
	}
	return text
}

func themeList(themes []models.ThemeCount) string {
	if len(themes) == 0 {
		return "none"
	}
	parts := make([]string, len(themes))
	for i, t := range themes {
		parts[i] = fmt.Sprintf("%s (%d)", t.Theme, t.Count)
	}
	return strings.Join(parts, ", ")
}
