package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS blend_history (
			id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			reader_a        text NOT NULL,
			reader_b        text NOT NULL,
			score           double precision NOT NULL,
			score_raw       double precision NOT NULL,
			components      jsonb NOT NULL,
			dropped_records integer NOT NULL DEFAULT 0,
			created_at      timestamptz NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS blend_history_pair_idx
			ON blend_history (reader_a, reader_b, created_at DESC)`)
	return err
}

func (s *PostgresStore) CreateBlend(ctx context.Context, rec *BlendRecord) error {
	rec.ReaderA, rec.ReaderB = CanonicalPair(rec.ReaderA, rec.ReaderB)
	componentsJSON, err := json.Marshal(rec.Components)
	if err != nil {
		return err
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO blend_history (reader_a, reader_b, score, score_raw, components, dropped_records)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		rec.ReaderA, rec.ReaderB, rec.Score, rec.ScoreRaw, componentsJSON, rec.DroppedRecords,
	).Scan(&rec.ID, &rec.CreatedAt)
}

func (s *PostgresStore) ListBlends(ctx context.Context, readerA, readerB string, limit int) ([]*BlendRecord, error) {
	readerA, readerB = CanonicalPair(readerA, readerB)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, reader_a, reader_b, score, score_raw, components, dropped_records, created_at
		FROM blend_history
		WHERE reader_a = $1 AND reader_b = $2
		ORDER BY created_at DESC
		LIMIT $3`,
		readerA, readerB, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*BlendRecord
	for rows.Next() {
		rec := &BlendRecord{}
		var componentsJSON []byte
		if err := rows.Scan(&rec.ID, &rec.ReaderA, &rec.ReaderB, &rec.Score, &rec.ScoreRaw,
			&componentsJSON, &rec.DroppedRecords, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if componentsJSON != nil {
			_ = json.Unmarshal(componentsJSON, &rec.Components)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
