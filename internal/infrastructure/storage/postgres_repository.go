package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/lcasucciIT/azure-openai-retirement/internal/domain"
	"github.com/lcasucciIT/azure-openai-retirement/internal/ports"
)

// PostgresRepository keeps a history of scan results for audit and
// trend reporting across pipeline runs.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ScanRepository = (*PostgresRepository)(nil)

// Open connects to Postgres using the lib/pq driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveScan inserts one row per deployment status into deployment_scans.
func (r *PostgresRepository) SaveScan(ctx context.Context, results []domain.DeploymentStatus) error {
	if r.db == nil || len(results) == 0 {
		return nil
	}

	insert := r.builder.
		Insert("deployment_scans").
		Columns("subscription", "resource_group", "resource", "deployment",
			"model", "version", "retirement", "kind")

	for _, res := range results {
		insert = insert.Values(res.Subscription, res.ResourceGroup, res.Resource,
			res.Name, res.Model, res.Version, res.Retirement, res.Kind)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scan results: %w", err)
	}

	return nil
}

// LastRetirement returns the retirement recorded for a lookup key in the
// most recent scan, for detecting date changes between runs.
func (r *PostgresRepository) LastRetirement(ctx context.Context, model, version string) (string, error) {
	if r.db == nil {
		return "", nil
	}

	query, args, err := r.builder.
		Select("retirement").
		From("deployment_scans").
		Where(sq.Eq{"model": model, "version": version}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build select: %w", err)
	}

	var retirement string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&retirement)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last retirement: %w", err)
	}

	return retirement, nil
}
