package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// Run é uma conversão registrada em feed_runs.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Domain     string    `json:"domain"`
	SourceName string    `json:"source_name"`
	Format     string    `json:"format"`
	RowsIn     int       `json:"rows_in"`
	RowsOut    int       `json:"rows_out"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type RunRepository struct {
	DB *pgxpool.Pool
}

func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS feed_runs (
			id          UUID PRIMARY KEY,
			domain      TEXT NOT NULL,
			source_name TEXT NOT NULL,
			format      TEXT NOT NULL,
			rows_in     INTEGER NOT NULL,
			rows_out    INTEGER NOT NULL,
			status      TEXT NOT NULL,
			error       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (r *RunRepository) Save(ctx context.Context, run Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO feed_runs
		(id, domain, source_name, format, rows_in, rows_out, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.ID, run.Domain, run.SourceName, run.Format, run.RowsIn, run.RowsOut, run.Status, run.Error, run.CreatedAt)
	return err
}

// Recent retorna as execuções mais recentes primeiro.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, domain, source_name, format, rows_in, rows_out, status, error, created_at
		FROM feed_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Domain, &run.SourceName, &run.Format, &run.RowsIn, &run.RowsOut, &run.Status, &run.Error, &run.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, run)
	}
	return list, rows.Err()
}
