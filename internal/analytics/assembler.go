package analytics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xaenox/chatlog-analytics/internal/metrics"
	"github.com/xaenox/chatlog-analytics/internal/models"
	"github.com/xaenox/chatlog-analytics/internal/storage"
	"go.uber.org/zap"
)

// Query selects the window of a snapshot.
type Query struct {
	Start    *time.Time
	End      *time.Time
	Category string
	Theme    string
}

func (q Query) filter() storage.Filter {
	return storage.Filter{
		Start:    q.Start,
		End:      q.End,
		Category: q.Category,
		Theme:    q.Theme,
	}.Normalize()
}

// Assembler reads events from the store and builds complete snapshots.
type Assembler struct {
	store   storage.EventStore
	engine  *Engine
	forceID string
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewAssembler(store storage.EventStore, engine *Engine, forceID string, m *metrics.Metrics, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		store:   store,
		engine:  engine,
		forceID: forceID,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Snapshot aggregates the filtered window and attaches the all-time
// summary from a second, unfiltered read. A store failure on either read
// fails the whole call with an error matching storage.ErrUpstreamUnavailable.
func (a *Assembler) Snapshot(ctx context.Context, q Query) (*models.Snapshot, error) {
	start := a.now()
	f := q.filter()

	events, err := a.query(ctx, "snapshot", f)
	if err != nil {
		return nil, err
	}
	snapshot := a.engine.Aggregate(events)

	all, err := a.query(ctx, "all_time", storage.Filter{})
	if err != nil {
		return nil, err
	}
	allTime := a.engine.Summarize(all)

	snapshot.AllTime = &allTime
	snapshot.Period = models.Period{Start: q.Start, End: q.End}
	snapshot.Filter = models.AppliedFilter{Category: f.Category, Theme: f.Theme}
	snapshot.Metadata = models.Metadata{
		ForceID:     a.forceID,
		DataSource:  "event_store",
		GeneratedAt: a.now().UTC(),
	}

	elapsed := a.now().Sub(start)
	a.metrics.ObserveSnapshot(elapsed, len(events))
	a.logger.Info("Built analytics snapshot",
		zap.Int("events", len(events)),
		zap.Int("all_time_events", len(all)),
		zap.String("theme", f.Theme),
		zap.String("category", f.Category),
		zap.Duration("duration", elapsed))

	return snapshot, nil
}

// Questions lists recent user prompts in the window.
func (a *Assembler) Questions(ctx context.Context, q Query, limit int) ([]models.QuestionItem, error) {
	f := q.filter()
	f.Kinds = []models.Kind{models.KindMessage}

	events, err := a.query(ctx, "questions", f)
	if err != nil {
		return nil, err
	}
	return RecentQuestions(events, limit), nil
}

func (a *Assembler) query(ctx context.Context, op string, f storage.Filter) ([]models.Event, error) {
	if a.store == nil {
		return nil, &storage.UpstreamError{Op: op, Err: storage.ErrNotConfigured}
	}

	events, err := a.store.Query(ctx, f)
	if err != nil {
		a.metrics.StoreError(op)
		a.logger.Error("Event store query failed",
			zap.Error(err),
			zap.String("op", op))
		if !errors.Is(err, storage.ErrUpstreamUnavailable) {
			err = &storage.UpstreamError{Op: op, Err: err}
		}
		return nil, err
	}
	return events, nil
}

// NormalizeCategory maps the dashboard's "all" to no category filter.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, "all") {
		return ""
	}
	return category
}
