package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/m3ugen/internal/models"
	"github.com/desertthunder/m3ugen/internal/shared"
)

// RunRepository implements models.Repository[*models.Run] for run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetSequence(sequence)
	run.SetID(shared.GenerateID())

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, sequence, config_path, sections_total, sections_written, sections_skipped, sections_failed, entries_total, duration_ms, report, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence(),
		run.ConfigPath(),
		run.SectionsTotal(),
		run.SectionsWritten(),
		run.SectionsSkipped(),
		run.SectionsFailed(),
		run.EntriesTotal(),
		run.Duration().Milliseconds(),
		run.Report(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `
		SELECT id, sequence, config_path, sections_total, sections_written, sections_skipped, sections_failed, entries_total, duration_ms, report, created_at, updated_at, deleted_at
		FROM runs
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing run in the database
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	run.SetUpdatedAt(time.Now())

	query := `
		UPDATE runs
		SET sections_total = ?, sections_written = ?, sections_skipped = ?, sections_failed = ?, entries_total = ?, duration_ms = ?, report = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.SectionsTotal(),
		run.SectionsWritten(),
		run.SectionsSkipped(),
		run.SectionsFailed(),
		run.EntriesTotal(),
		run.Duration().Milliseconds(),
		run.Report(),
		run.UpdatedAt(),
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", run.ID())
	}

	return nil
}

// Delete soft-deletes a run by setting deleted_at
func (r *RunRepository) Delete(id string) error {
	query := `UPDATE runs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return nil
}

// List retrieves runs matching the given criteria, newest first.
// Supported criteria: "config_path" (string), "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `
		SELECT id, sequence, config_path, sections_total, sections_written, sections_skipped, sections_failed, entries_total, duration_ms, report, created_at, updated_at, deleted_at
		FROM runs
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if configPath, ok := criteria["config_path"].(string); ok && configPath != "" {
		query += " AND config_path = ?"
		args = append(args, configPath)
	}

	query += " ORDER BY created_at DESC, sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RunRepository) scanOne(row *sql.Row) (*models.Run, error) {
	run, err := r.scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found")
	}
	return run, err
}

func (r *RunRepository) scanRow(row rowScanner) (*models.Run, error) {
	var (
		id, configPath, report                  string
		sequence                                int
		total, written, skipped, failed, entries int
		durationMS                              int64
		reportNull                              sql.NullString
		createdAt, updatedAt                    time.Time
		deletedAt                               sql.NullTime
	)

	err := row.Scan(&id, &sequence, &configPath, &total, &written, &skipped, &failed, &entries, &durationMS, &reportNull, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	if reportNull.Valid {
		report = reportNull.String
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.HydrateRun(id, sequence, configPath, total, written, skipped, failed, entries, durationMS, report, createdAt, updatedAt, deleted), nil
}
