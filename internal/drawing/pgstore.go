package drawing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps drawings in the Postgres drawings table.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Create(ctx context.Context, r *Record) error {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO drawings (id, name, document) VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		r.ID, r.Name, r.Document)
	if err := row.Scan(&r.CreatedAt, &r.UpdatedAt); err != nil {
		return fmt.Errorf("insert drawing: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, document, created_at, updated_at FROM drawings WHERE id = $1`, id)
	r, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("get drawing %s: %w", id, err)
	}
	return r, nil
}

func (s *PGStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM drawings ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		err := row.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	return records, nil
}

func (s *PGStore) Update(ctx context.Context, id string, doc json.RawMessage) (*Record, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE drawings SET document = $2, updated_at = now() WHERE id = $1
		 RETURNING id, name, document, created_at, updated_at`,
		id, doc)
	r, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("update drawing %s: %w", id, err)
	}
	return r, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drawings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete drawing %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	if err := row.Scan(&r.ID, &r.Name, &r.Document, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}
