package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/leofalp/mealscan/nutrition"
	"github.com/leofalp/mealscan/providers/observability"
)

const defaultTableName = "meal_analyses"

// ErrNotFound is returned by GetAnalysis for an unknown id.
var ErrNotFound = errors.New("pgstore: analysis not found")

// Querier abstracts the pgx query methods the store needs. Both
// *pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Record is one stored analysis.
type Record struct {
	ID     int64
	UserID string
	Mode   nutrition.Mode
	// Source identifies the input: an image path or the meal description.
	Source    string
	Analysis  nutrition.FoodAnalysis
	Succeeded bool
	Attempts  int
	CreatedAt time.Time
}

// Store persists analyses in a single table.
type Store struct {
	db        Querier
	tableName string
	indexName string
}

// Option configures optional Store behaviour.
type Option func(*Store)

// WithTableName overrides the default table name ("meal_analyses"). The name
// is sanitized via pgx.Identifier since it is interpolated into queries.
func WithTableName(name string) Option {
	return func(s *Store) {
		s.tableName = pgx.Identifier{name}.Sanitize()
		s.indexName = pgx.Identifier{"idx_" + name + "_user_created"}.Sanitize()
	}
}

// New creates a store on db.
func New(db Querier, opts ...Option) *Store {
	store := &Store{
		db:        db,
		tableName: defaultTableName,
		indexName: "idx_" + defaultTableName + "_user_created",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// SaveAnalysis inserts rec and returns it with ID and CreatedAt set.
func (s *Store) SaveAnalysis(ctx context.Context, rec Record) (Record, error) {
	ctx, span := observability.Resolve(ctx, nil).StartSpan(ctx, observability.SpanStoreSave,
		observability.String(observability.AttrStoreUserID, rec.UserID),
	)
	defer span.End()

	payload, err := json.Marshal(rec.Analysis)
	if err != nil {
		return Record{}, fmt.Errorf("pgstore: marshal analysis: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(user_id, mode, source, analysis, calories, protein, carbs, fat, succeeded, attempts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`, s.tableName)

	totals := rec.Analysis.TotalMacros
	err = s.db.QueryRow(ctx, query,
		rec.UserID,
		string(rec.Mode),
		rec.Source,
		payload,
		totals.Calories,
		totals.Protein,
		totals.Carbs,
		totals.Fat,
		rec.Succeeded,
		rec.Attempts,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		observability.Finish(span, err, "insert failed")
		return Record{}, fmt.Errorf("pgstore: save analysis: %w", err)
	}

	span.SetAttributes(observability.Int64(observability.AttrStoreAnalysisID, rec.ID))
	observability.Finish(span, nil, "")
	return rec, nil
}

const selectColumns = `id, user_id, mode, source, analysis, succeeded, attempts, created_at`

// GetAnalysis returns the record with the given id, or ErrNotFound.
func (s *Store) GetAnalysis(ctx context.Context, id int64) (Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectColumns, s.tableName)

	rec, err := scanRecord(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("pgstore: get analysis: %w", err)
	}
	return rec, nil
}

// ListAnalyses returns up to limit records for userID, newest first.
// A non-positive limit returns an empty slice.
func (s *Store) ListAnalyses(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 {
		return []Record{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		selectColumns, s.tableName)

	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list analyses: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("pgstore: list analyses: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: iterate rows: %w", err)
	}
	return records, nil
}

// ConsumedSince sums the total macros of userID's successful analyses
// created at or after since.
func (s *Store) ConsumedSince(ctx context.Context, userID string, since time.Time) (nutrition.MacroSet, error) {
	query := fmt.Sprintf(`SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(protein), 0),
		COALESCE(SUM(carbs), 0), COALESCE(SUM(fat), 0)
		FROM %s WHERE user_id = $1 AND succeeded AND created_at >= $2`, s.tableName)

	var consumed nutrition.MacroSet
	err := s.db.QueryRow(ctx, query, userID, since).Scan(
		&consumed.Calories, &consumed.Protein, &consumed.Carbs, &consumed.Fat,
	)
	if err != nil {
		return nutrition.MacroSet{}, fmt.Errorf("pgstore: consumed since: %w", err)
	}
	return consumed, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec     Record
		mode    string
		payload []byte
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &mode, &rec.Source, &payload, &rec.Succeeded, &rec.Attempts, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	rec.Mode = nutrition.Mode(mode)

	if err := json.Unmarshal(payload, &rec.Analysis); err != nil {
		return Record{}, fmt.Errorf("decode analysis %d: %w", rec.ID, err)
	}
	return rec, nil
}
