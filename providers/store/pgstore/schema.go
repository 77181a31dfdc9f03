package pgstore

import (
	"context"
	"fmt"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
    id          BIGSERIAL PRIMARY KEY,
    user_id     TEXT NOT NULL DEFAULT '',
    mode        TEXT NOT NULL,
    source      TEXT NOT NULL DEFAULT '',
    analysis    JSONB NOT NULL,
    calories    DOUBLE PRECISION NOT NULL DEFAULT 0,
    protein     DOUBLE PRECISION NOT NULL DEFAULT 0,
    carbs       DOUBLE PRECISION NOT NULL DEFAULT 0,
    fat         DOUBLE PRECISION NOT NULL DEFAULT 0,
    succeeded   BOOLEAN NOT NULL,
    attempts    INTEGER NOT NULL DEFAULT 1,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Serves ListAnalyses and ConsumedSince.
const createUserCreatedIndexSQL = `CREATE INDEX IF NOT EXISTS %s
    ON %s (user_id, created_at DESC)`

// EnsureSchema creates the meal log table and its index if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, fmt.Sprintf(createTableSQL, s.tableName)); err != nil {
		return fmt.Errorf("pgstore: create table: %w", err)
	}

	if _, err := s.db.Exec(ctx, fmt.Sprintf(createUserCreatedIndexSQL, s.indexName, s.tableName)); err != nil {
		return fmt.Errorf("pgstore: create user_created index: %w", err)
	}

	return nil
}
