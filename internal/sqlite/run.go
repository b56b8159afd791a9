package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/dataset"
	"github.com/rpggio/auditsynth/internal/domain/record"
	"github.com/rpggio/auditsynth/internal/domain/run"
	"github.com/rpggio/auditsynth/internal/repository"
)

// RunRepository implements run.Repository for SQLite
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new RunRepository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create stores a run and its outputs
func (r *RunRepository) Create(ctx context.Context, rn *run.Run) error {
	options, err := json.Marshal(rn.Options)
	if err != nil {
		return fmt.Errorf("failed to encode run options: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, generator, seed, options, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		rn.ID,
		rn.Generator,
		int64(rn.Seed),
		string(options),
		string(rn.Status),
		rn.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	for i, out := range rn.Outputs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_outputs (run_id, name, position, path, row_count, anomalies, sequences, written, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rn.ID,
			out.Name,
			i,
			out.Path,
			out.Rows,
			out.Anomalies,
			out.Sequences,
			boolToInt(out.Written),
			out.Error,
		)
		if err != nil {
			return fmt.Errorf("failed to create run output %s: %w", out.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(ctx context.Context, id string) (*run.Run, error) {
	query := `
		SELECT id, generator, seed, options, status, created_at
		FROM runs
		WHERE id = ?
	`

	rn, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if rn.Outputs, err = r.outputs(ctx, rn.ID); err != nil {
		return nil, err
	}

	return rn, nil
}

// List returns runs, newest first
func (r *RunRepository) List(ctx context.Context, opts run.ListOptions) ([]run.Run, error) {
	query := `
		SELECT id, generator, seed, options, status, created_at
		FROM runs
	`
	var args []any
	if opts.Generator != "" {
		query += " WHERE generator = ?"
		args = append(args, opts.Generator)
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?"
	args = append(args, limitOrAll(opts.Limit), max(opts.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []run.Run
	for rows.Next() {
		rn, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *rn)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	for i := range runs {
		if runs[i].Outputs, err = r.outputs(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

func (r *RunRepository) outputs(ctx context.Context, runID string) ([]run.Output, error) {
	query := `
		SELECT name, path, row_count, anomalies, sequences, written, error
		FROM run_outputs
		WHERE run_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run outputs: %w", err)
	}
	defer rows.Close()

	var outputs []run.Output
	for rows.Next() {
		var out run.Output
		var written int
		err := rows.Scan(
			&out.Name,
			&out.Path,
			&out.Rows,
			&out.Anomalies,
			&out.Sequences,
			&written,
			&out.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run output: %w", err)
		}
		out.Written = written == 1
		outputs = append(outputs, out)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run output rows: %w", err)
	}

	return outputs, nil
}

// SaveRecords stores the rows of one output in a single transaction
func (r *RunRepository) SaveRecords(ctx context.Context, runID, output string, records []record.LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_records (run_id, output, row_num, ts, user, kind, activity, reason, anomaly, cause, param)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		var param sql.NullString
		if rec.Param != nil {
			data, err := json.Marshal(rec.Param)
			if err != nil {
				return fmt.Errorf("failed to encode parameter of row %d: %w", i, err)
			}
			param = sql.NullString{String: string(data), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			runID,
			output,
			i,
			rec.Timestamp.Format(time.RFC3339Nano),
			rec.User,
			string(rec.Kind),
			rec.Activity,
			rec.Reason,
			boolToInt(rec.Anomaly),
			rec.Cause,
			param,
		)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: run %s output %s", repository.ErrForeignKeyViolation, runID, output)
		}
		if err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListRecords returns stored rows in output then row order
func (r *RunRepository) ListRecords(ctx context.Context, runID string, opts run.ListRecordsOptions) ([]run.RecordRow, error) {
	conds := []string{"rr.run_id = ?"}
	args := []any{runID}
	if opts.Output != "" {
		conds = append(conds, "rr.output = ?")
		args = append(args, opts.Output)
	}
	if opts.AnomaliesOnly {
		conds = append(conds, "rr.anomaly = 1")
	}

	query := `
		SELECT rr.output, rr.row_num, rr.ts, rr.user, rr.kind, rr.activity, rr.reason, rr.anomaly, rr.cause, rr.param
		FROM run_records rr
		JOIN run_outputs ro ON ro.run_id = rr.run_id AND ro.name = rr.output
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY ro.position, rr.row_num
		LIMIT ? OFFSET ?
	`
	args = append(args, limitOrAll(opts.Limit), max(opts.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}
	defer rows.Close()

	var result []run.RecordRow
	for rows.Next() {
		var row run.RecordRow
		var ts, kind string
		var anomaly int
		var param sql.NullString
		err := rows.Scan(
			&row.Output,
			&row.Row,
			&ts,
			&row.Record.User,
			&kind,
			&row.Record.Activity,
			&row.Record.Reason,
			&anomaly,
			&row.Record.Cause,
			&param,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}

		if row.Record.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp of row %d: %w", row.Row, err)
		}
		row.Record.Kind = activity.KindID(kind)
		row.Record.Anomaly = anomaly == 1
		if param.Valid {
			var p record.Parameter
			if err := json.Unmarshal([]byte(param.String), &p); err != nil {
				return nil, fmt.Errorf("failed to decode parameter of row %d: %w", row.Row, err)
			}
			row.Record.Param = &p
		}
		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run record rows: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*run.Run, error) {
	var rn run.Run
	var seed int64
	var options, status string
	err := s.Scan(
		&rn.ID,
		&rn.Generator,
		&seed,
		&options,
		&status,
		&rn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rn.Seed = uint64(seed)
	rn.Status = run.Status(status)
	var opts dataset.Options
	if err := json.Unmarshal([]byte(options), &opts); err != nil {
		return nil, fmt.Errorf("failed to decode run options: %w", err)
	}
	rn.Options = opts

	return &rn, nil
}

func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
