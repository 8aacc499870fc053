package database

import (
	"context"
	"fmt"
	"time"

	"go-emprego-automation/internal/scraper"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository archives extracted jobs in Postgres. The JSON files under
// internal/store stay the source of truth for the scraper itself; the
// database exists for querying and downstream consumers.
type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Hosted poolers (PgBouncer in transaction mode) choke on prepared
	// statements, so the statement cache stays off.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// UpsertJob inserts a job or refreshes an existing row keyed by source_url
func (r *Repository) UpsertJob(ctx context.Context, job scraper.Job) error {
	query := `
		INSERT INTO jobs (source_url, job_title, company_name, location, category,
			publication_date, expiring_date, job_description, tasks_of_the_role, requirements)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (source_url)
		DO UPDATE SET job_title = EXCLUDED.job_title, company_name = EXCLUDED.company_name,
			location = EXCLUDED.location, category = EXCLUDED.category,
			expiring_date = EXCLUDED.expiring_date`

	_, err := r.db.Exec(ctx, query,
		job.SourceURL, job.Title, job.Company, job.Location, job.Category,
		job.PublicationDate, job.ExpiringDate, job.Description, job.Tasks, job.Requirements)
	if err != nil {
		return fmt.Errorf("failed to upsert job: %w", err)
	}
	return nil
}

// GetJobByURL retrieves a job by its source URL
func (r *Repository) GetJobByURL(ctx context.Context, sourceURL string) (*scraper.Job, error) {
	var job scraper.Job
	query := `SELECT source_url, job_title, company_name, location, category,
		publication_date, expiring_date, job_description, tasks_of_the_role, requirements
		FROM jobs WHERE source_url = $1`
	err := r.db.QueryRow(ctx, query, sourceURL).
		Scan(&job.SourceURL, &job.Title, &job.Company, &job.Location, &job.Category,
			&job.PublicationDate, &job.ExpiringDate, &job.Description, &job.Tasks, &job.Requirements)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to get job by URL: %w", err)
	}
	return &job, nil
}

// ListRecentJobs returns the most recently archived jobs
func (r *Repository) ListRecentJobs(ctx context.Context, limit int) ([]scraper.Job, error) {
	query := `SELECT source_url, job_title, company_name, location, category,
		publication_date, expiring_date, job_description, tasks_of_the_role, requirements
		FROM jobs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []scraper.Job
	for rows.Next() {
		var job scraper.Job
		if err := rows.Scan(&job.SourceURL, &job.Title, &job.Company, &job.Location, &job.Category,
			&job.PublicationDate, &job.ExpiringDate, &job.Description, &job.Tasks, &job.Requirements); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// CountJobs returns how many jobs are archived
func (r *Repository) CountJobs(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}
