package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/aoc2019/internal/domain"
	"github.com/example/aoc2019/internal/storage"
)

type runRepo struct {
	tx *sql.Tx
}

func (r *runRepo) Create(ctx context.Context, run *domain.Run) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO runs (id, workflow, job_id, trigger, commit_ref, state, failure_summary,
			created_at, started_at, finished_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Workflow, run.JobID, run.Trigger, run.CommitRef, run.State, run.FailureSummary,
		run.CreatedAt, run.StartedAt, run.FinishedAt, run.UpdatedAt, run.Version)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
		return fmt.Errorf("%w: run %s", domain.ErrAlreadyExists, run.ID)
	}
	return err
}

func (r *runRepo) Get(ctx context.Context, id string) (*domain.Run, error) {
	row := r.tx.QueryRowContext(ctx, `
		SELECT id, workflow, job_id, trigger, commit_ref, state, failure_summary,
			created_at, started_at, finished_at, updated_at, version
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *runRepo) List(ctx context.Context, opts storage.ListOptions) ([]*domain.Run, error) {
	query := `
		SELECT id, workflow, job_id, trigger, commit_ref, state, failure_summary,
			created_at, started_at, finished_at, updated_at, version
		FROM runs`

	var args []any
	if len(opts.States) > 0 {
		placeholders := make([]string, len(opts.States))
		for i, s := range opts.States {
			placeholders[i] = "?"
			args = append(args, s)
		}
		query += " WHERE state IN (" + strings.Join(placeholders, ",") + ")"
	}
	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *runRepo) Update(ctx context.Context, run *domain.Run) error {
	result, err := r.tx.ExecContext(ctx, `
		UPDATE runs
		SET state = ?, failure_summary = ?, started_at = ?, finished_at = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, run.State, run.FailureSummary, run.StartedAt, run.FinishedAt,
		run.UpdatedAt, run.ID, run.Version)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the row is gone or the version moved under us.
		var exists int
		if err := r.tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM runs WHERE id = ?`, run.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: run %s", domain.ErrConcurrentModify, run.ID)
	}

	run.Version++
	return nil
}

func (r *runRepo) ClaimQueued(ctx context.Context) (*domain.Run, error) {
	row := r.tx.QueryRowContext(ctx, `
		SELECT id, workflow, job_id, trigger, commit_ref, state, failure_summary,
			created_at, started_at, finished_at, updated_at, version
		FROM runs WHERE state = ?
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`, domain.RunStateQueued)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoQueuedRuns
	}
	if err != nil {
		return nil, err
	}

	if err := run.SetState(domain.RunStateRunning); err != nil {
		return nil, err
	}
	if err := r.Update(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *runRepo) Delete(ctx context.Context, id string) error {
	result, err := r.tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.Run, error) {
	run := &domain.Run{}
	var commitRef, failureSummary sql.NullString
	var startedAt, finishedAt sql.NullTime

	err := row.Scan(&run.ID, &run.Workflow, &run.JobID, &run.Trigger, &commitRef,
		&run.State, &failureSummary, &run.CreatedAt, &startedAt, &finishedAt,
		&run.UpdatedAt, &run.Version)
	if err != nil {
		return nil, err
	}

	run.CommitRef = commitRef.String
	run.FailureSummary = failureSummary.String
	if startedAt.Valid {
		run.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return run, nil
}
