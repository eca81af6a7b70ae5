package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by GetRun for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `run_id, created, kind, catalog, items, locked, rejected, failed`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var r Run
	err := s.Scan(&r.RunID, &r.Created, &r.Kind, &r.Catalog, &r.Items, &r.Locked, &r.Rejected, &r.Failed)
	return r, err
}

// GetRun returns a single run by id.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first; limit <= 0 returns all.
func (j *SQLite) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs ORDER BY created DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEvaluations returns a run's evaluations in recording order.
func (j *SQLite) ListEvaluations(ctx context.Context, runID string) ([]EvaluationRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, account_id, fund, program, program_id, phase,
		       balance, equity, starting_balance, daily_starting_equity, margin_used_pct,
		       locked, violations, messages, daily_loss_pct, max_loss_pct,
		       profit_pct, profit_target, target_achieved, error
		FROM evaluations
		WHERE run_id = ?
		ORDER BY rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EvaluationRecord
	for rows.Next() {
		var (
			e                    EvaluationRecord
			programID            sql.NullInt64
			target               sql.NullFloat64
			violations, messages string
		)
		if err := rows.Scan(
			&e.RunID, &e.AccountID, &e.Fund, &e.Program, &programID, &e.Phase,
			&e.Balance, &e.Equity, &e.StartingBalance, &e.DailyStartingEquity, &e.MarginUsedPct,
			&e.Locked, &violations, &messages, &e.DailyLossPct, &e.MaxLossPct,
			&e.ProfitPct, &target, &e.TargetAchieved, &e.Error,
		); err != nil {
			return nil, err
		}
		if programID.Valid {
			id := programID.Int64
			e.ProgramID = &id
		}
		if target.Valid {
			v := target.Float64
			e.ProfitTarget = &v
		}
		if e.Violations, err = decodeList(violations); err != nil {
			return nil, err
		}
		if e.Messages, err = decodeList(messages); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSizings returns a run's sizings in recording order.
func (j *SQLite) ListSizings(ctx context.Context, runID string) ([]SizingRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, account_id, direction, entry_price, stop_loss, take_profit,
		       lot_size, clamped, risk_amount, actual_risk_amount, rr_ratio,
		       allowed, violations, error
		FROM sizings
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SizingRecord
	for rows.Next() {
		var (
			s          SizingRecord
			violations string
		)
		if err := rows.Scan(
			&s.RunID, &s.AccountID, &s.Direction, &s.EntryPrice, &s.StopLoss, &s.TakeProfit,
			&s.LotSize, &s.Clamped, &s.RiskAmount, &s.ActualRiskAmount, &s.RRRatio,
			&s.Allowed, &violations, &s.Error,
		); err != nil {
			return nil, err
		}
		if s.Violations, err = decodeList(violations); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
