package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/xaenox/chatlog-analytics/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

const eventColumns = `id, kind, conversation_id, user_id, role, title, content, themes, category, citation_title, citation_url, created_at, created_at_raw`

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewPostgresStorage connects and applies the schema. Missing connection
// settings and connection failures are reported as UpstreamError.
func NewPostgresStorage(ctx context.Context, config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	if config.Host == "" || config.DBName == "" {
		return nil, &UpstreamError{Op: "connect", Err: ErrNotConfigured}
	}

	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, &UpstreamError{Op: "connect", Err: fmt.Errorf("error opening database: %w", err)}
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &UpstreamError{Op: "connect", Err: fmt.Errorf("error connecting to the database: %w", err)}
	}

	storage := &PostgresStorage{db: db, logger: logger, now: time.Now}

	if err := storage.initializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	logger.Info("Connected to PostgreSQL event store",
		zap.String("host", config.Host),
		zap.String("dbname", config.DBName))

	return storage, nil
}

func (s *PostgresStorage) initializeSchema(ctx context.Context) error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Query(ctx context.Context, f Filter) ([]models.Event, error) {
	query, args := buildQuery(f)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &UpstreamError{Op: "query", Err: err}
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, &UpstreamError{Op: "query", Err: fmt.Errorf("error scanning event: %w", err)}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, &UpstreamError{Op: "query", Err: err}
	}

	return events, nil
}

func (s *PostgresStorage) FindConversationByTitle(ctx context.Context, title string) (*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE kind = $1 AND lower(title) = lower($2)
		ORDER BY seq
		LIMIT 1`

	ev, err := scanEvent(s.db.QueryRowContext(ctx, query, string(models.KindConversation), title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &UpstreamError{Op: "find conversation", Err: err}
	}

	return &ev, nil
}

func (s *PostgresStorage) RecordCitationClick(ctx context.Context, click CitationClick) (*models.Event, error) {
	if err := click.Validate(); err != nil {
		return nil, err
	}

	ev := newClickEvent(click, s.now())
	if err := s.Insert(ctx, ev); err != nil {
		return nil, err
	}

	return &ev, nil
}

// Insert writes events in one transaction. Events without a parseable
// timestamp keep their raw text and a NULL created_at, so range filters
// skip them.
func (s *PostgresStorage) Insert(ctx context.Context, events ...models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &UpstreamError{Op: "insert", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return &UpstreamError{Op: "insert", Err: err}
	}
	defer stmt.Close()

	for _, ev := range events {
		if !ev.CreatedAt.Valid() {
			s.logger.Debug("Storing event without a valid timestamp",
				zap.String("event_id", ev.ID),
				zap.String("created_at", ev.CreatedAt.Raw))
		}
		if _, err := stmt.ExecContext(ctx, eventArgs(ev)...); err != nil {
			return &UpstreamError{Op: "insert", Err: fmt.Errorf("error inserting event %s: %w", ev.ID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &UpstreamError{Op: "insert", Err: err}
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

// eventArgs lists ev's values in eventColumns order.
func eventArgs(ev models.Event) []any {
	themes := ev.Themes
	if themes == nil {
		themes = []string{}
	}

	var createdAt any
	if ev.CreatedAt.Valid() {
		createdAt = ev.CreatedAt.Time
	}

	return []any{
		ev.ID,
		string(ev.Kind),
		ev.ConversationID,
		ev.UserID,
		string(ev.Role),
		ev.Title,
		ev.Content,
		pq.Array(themes),
		ev.Category,
		ev.CitationTitle,
		ev.CitationURL,
		createdAt,
		ev.CreatedAt.Raw,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (models.Event, error) {
	var (
		ev        models.Event
		kind      string
		role      string
		themes    []string
		createdAt sql.NullTime
		rawTime   string
	)

	err := row.Scan(
		&ev.ID,
		&kind,
		&ev.ConversationID,
		&ev.UserID,
		&role,
		&ev.Title,
		&ev.Content,
		pq.Array(&themes),
		&ev.Category,
		&ev.CitationTitle,
		&ev.CitationURL,
		&createdAt,
		&rawTime,
	)
	if err != nil {
		return models.Event{}, err
	}

	ev.Kind = models.Kind(kind)
	ev.Role = models.Role(role)
	if len(themes) > 0 {
		ev.Themes = themes
	}
	switch {
	case !createdAt.Valid:
		ev.CreatedAt = models.Timestamp{Raw: rawTime}
	case rawTime == "":
		ev.CreatedAt = models.NewTimestamp(createdAt.Time)
	default:
		ev.CreatedAt = models.Timestamp{Time: createdAt.Time.UTC(), Raw: rawTime}
	}
	return ev, nil
}

// buildQuery renders f as a parameterized SELECT ordered by insertion.
func buildQuery(f Filter) (string, []any) {
	f = f.Normalize()

	var (
		conds []string
		args  []any
	)
	param := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ConversationID != "" {
		p := param(f.ConversationID)
		conds = append(conds, fmt.Sprintf("(e.conversation_id = %s OR e.id = %s)", p, p))
	}
	if len(f.Kinds) > 0 {
		kinds := make([]string, len(f.Kinds))
		for i, k := range f.Kinds {
			kinds[i] = string(k)
		}
		conds = append(conds, fmt.Sprintf("e.kind = ANY(%s)", param(pq.Array(kinds))))
	}
	if f.Start != nil {
		conds = append(conds, fmt.Sprintf("e.created_at >= %s", param(*f.Start)))
	}
	if f.End != nil {
		conds = append(conds, fmt.Sprintf("e.created_at < %s", param(*f.End)))
	}

	var topic func(alias string) string
	switch {
	case f.Theme != "":
		p := param(likePattern(f.Theme))
		topic = func(a string) string {
			return fmt.Sprintf("(EXISTS (SELECT 1 FROM unnest(%s.themes) t WHERE lower(t) LIKE %s) OR (%s.kind = 'conversation' AND lower(%s.title) LIKE %s))",
				a, p, a, a, p)
		}
	case f.Category != "":
		p := param(likePattern(f.Category))
		topic = func(a string) string {
			return fmt.Sprintf("lower(%s.category) LIKE %s", a, p)
		}
	}
	if topic != nil {
		conds = append(conds, fmt.Sprintf(
			"(%s OR e.conversation_id IN (SELECT c.id FROM events c WHERE c.kind = 'conversation' AND %s))",
			topic("e"), topic("c")))
	}

	query := "SELECT " + qualifiedColumns("e") + " FROM events e"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY e.seq"

	return query, args
}

func qualifiedColumns(alias string) string {
	cols := strings.Split(eventColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
