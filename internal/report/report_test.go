package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/chatlog-analytics/internal/analytics"
	"github.com/xaenox/chatlog-analytics/internal/models"
	"github.com/xaenox/chatlog-analytics/internal/storage"
)

func sampleEvents() []models.Event {
	ts := models.ParseTimestamp
	return []models.Event{
		{ID: "c1", Kind: models.KindConversation, UserID: "u1", Title: "Reported domestic abuse near the station", CreatedAt: ts("2025-07-02T02:00:00Z")},
		{ID: "m1", Kind: models.KindMessage, ConversationID: "c1", UserID: "u1", Role: models.RoleUser, Content: "help", CreatedAt: ts("2025-07-02T02:00:01Z")},
		{ID: "t1", Kind: models.KindMessage, ConversationID: "c1", Role: models.RoleTool, Content: `{"citations":[{"title":"Domestic Abuse Support"}]}`, CreatedAt: ts("2025-07-02T02:00:05Z")},
		{ID: "c0", Kind: models.KindConversation, UserID: "u2", Title: "Earlier", CreatedAt: ts("2025-06-20T09:00:00Z")},
	}
}

func newAssembler(events ...models.Event) *analytics.Assembler {
	engine := analytics.NewEngine(nil, nil, analytics.Options{}, nil)
	return analytics.NewAssembler(storage.NewMemoryStorage(events...), engine, "north", nil, nil)
}

type fakeCompleter struct {
	reply string
	err   error
	req   openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.reply}}},
	}, nil
}

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

type recordingNotifier struct {
	reports []Report
}

func (r *recordingNotifier) Notify(ctx context.Context, rep Report) error {
	r.reports = append(r.reports, rep)
	return nil
}

func TestWindow(t *testing.T) {
	now := time.Date(2025, 7, 3, 9, 30, 0, 0, time.UTC)

	start, end := Window(now, 1)
	assert.Equal(t, time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC), end)

	start, _ = Window(now, 0)
	assert.Equal(t, time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), start)
}

func TestGeneratorRun(t *testing.T) {
	notifier := &recordingNotifier{}
	g := NewGenerator(newAssembler(sampleEvents()...), nil, notifier, nil)

	r, err := g.Run(context.Background(), time.Date(2025, 7, 3, 9, 0, 0, 0, time.UTC), 1)
	require.NoError(t, err)
	require.Len(t, notifier.reports, 1)

	assert.Equal(t, "Chatbot Analytics Daily Report - north - 2025-07-02", r.Subject)
	assert.True(t, strings.HasPrefix(r.Body, "The chatbot handled 3 interactions from 1 users across 1 conversations."))
	assert.Contains(t, r.Body, "- abuse: 1")
	assert.Contains(t, r.Body, "- domestic abuse: 1")
	assert.Contains(t, r.Body, "- Domestic Abuse Guidance: 1 (100.0%)")
	assert.Contains(t, r.Body, "- Average response time: 5.0s")
	assert.Contains(t, r.Body, "All time: 4 interactions from 2 users")
}

func TestGeneratorRunStoreFailure(t *testing.T) {
	engine := analytics.NewEngine(nil, nil, analytics.Options{}, nil)
	g := NewGenerator(analytics.NewAssembler(nil, engine, "", nil, nil), nil, &recordingNotifier{}, nil)

	_, err := g.Run(context.Background(), time.Now(), 1)
	assert.ErrorIs(t, err, storage.ErrUpstreamUnavailable)
}

func TestBuildEmptySnapshot(t *testing.T) {
	s := analytics.NewEngine(nil, nil, analytics.Options{}, nil).Aggregate(nil)
	r := Build(s, FallbackNarrative(s), time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "Chatbot Analytics Daily Report - unknown - 2025-07-02", r.Subject)
	assert.True(t, strings.HasPrefix(r.Body, "No chatbot activity was recorded in this period."))
	assert.NotContains(t, r.Body, "Top themes")
	assert.NotContains(t, r.Body, "Average response time")
}

func TestGPTNarrator(t *testing.T) {
	s := analytics.NewEngine(nil, nil, analytics.Options{}, nil).Aggregate(sampleEvents())
	fake := &fakeCompleter{reply: "  A quiet day.  "}
	n := &GPTNarrator{client: fake, model: "gpt-test", maxTokens: 100, temperature: 0.2, logger: zap.NewNop()}

	text, err := n.Narrate(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "A quiet day.", text)
	assert.Equal(t, "gpt-test", fake.req.Model)
	assert.Equal(t, 100, fake.req.MaxTokens)
	require.Len(t, fake.req.Messages, 1)
	assert.Contains(t, fake.req.Messages[0].Content, "abuse (1), domestic abuse (1)")
}

func TestNarrateFallsBack(t *testing.T) {
	s := analytics.NewEngine(nil, nil, analytics.Options{}, nil).Aggregate(sampleEvents())
	want := FallbackNarrative(s)

	tests := []struct {
		name string
		fake *fakeCompleter
	}{
		{name: "api error", fake: &fakeCompleter{err: errors.New("429 too many requests")}},
		{name: "empty reply", fake: &fakeCompleter{reply: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &GPTNarrator{client: tt.fake, logger: zap.NewNop()}
			assert.Equal(t, want, Narrate(context.Background(), n, s, zap.NewNop()))
		})
	}

	assert.Equal(t, want, Narrate(context.Background(), nil, s, zap.NewNop()))
	assert.Contains(t, want, "Activity peaked at 02:00 UTC.")
}

func TestTelegramNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := &TelegramNotifier{api: sender, chatID: 42, logger: zap.NewNop()}

	require.NoError(t, n.Notify(context.Background(), Report{Subject: "S", Body: "B"}))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Equal(t, "S\n\nB", sender.sent[0].Text)

	long := Report{Subject: "S", Body: strings.Repeat("x", 5000)}
	require.NoError(t, n.Notify(context.Background(), long))
	assert.Len(t, []rune(sender.sent[1].Text), telegramLimit)

	sender.err = errors.New("chat not found")
	assert.Error(t, n.Notify(context.Background(), Report{}))
}
