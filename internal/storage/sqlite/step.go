package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/aoc2019/internal/domain"
)

type stepRepo struct {
	tx *sql.Tx
}

func (r *stepRepo) Create(ctx context.Context, step *domain.StepResult) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO step_results (run_id, idx, name, command, state, exit_code, output,
			started_at, finished_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, step.RunID, step.Index, step.Name, step.Command, step.State, step.ExitCode, step.Output,
		step.StartedAt, step.FinishedAt, step.CreatedAt, step.UpdatedAt)
	return err
}

func (r *stepRepo) Update(ctx context.Context, step *domain.StepResult) error {
	result, err := r.tx.ExecContext(ctx, `
		UPDATE step_results
		SET state = ?, exit_code = ?, output = ?, started_at = ?, finished_at = ?, updated_at = ?
		WHERE run_id = ? AND idx = ?
	`, step.State, step.ExitCode, step.Output, step.StartedAt, step.FinishedAt, step.UpdatedAt,
		step.RunID, step.Index)
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

func (r *stepRepo) ListByRun(ctx context.Context, runID string) ([]*domain.StepResult, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT run_id, idx, name, command, state, exit_code, output,
			started_at, finished_at, created_at, updated_at
		FROM step_results WHERE run_id = ?
		ORDER BY idx
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []*domain.StepResult
	for rows.Next() {
		step := &domain.StepResult{}
		var command, output sql.NullString
		var startedAt, finishedAt sql.NullTime

		err := rows.Scan(&step.RunID, &step.Index, &step.Name, &command, &step.State,
			&step.ExitCode, &output, &startedAt, &finishedAt, &step.CreatedAt, &step.UpdatedAt)
		if err != nil {
			return nil, err
		}

		step.Command = command.String
		step.Output = output.String
		if startedAt.Valid {
			step.StartedAt = &startedAt.Time
		}
		if finishedAt.Valid {
			step.FinishedAt = &finishedAt.Time
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}
