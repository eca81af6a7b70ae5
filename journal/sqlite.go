package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type SQLite struct {
	db *sql.DB
	tx *sql.Tx // set inside inTx
}

func (j *SQLite) exec() execer {
	if j.tx != nil {
		return j.tx
	}
	return j.db
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(ctx context.Context, r Run) error {
	_, err := j.exec().ExecContext(ctx, `
		INSERT INTO runs
		(run_id, created, kind, catalog, items, locked, rejected, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC(), r.Kind, r.Catalog, r.Items, r.Locked, r.Rejected, r.Failed,
	)
	return err
}

func (j *SQLite) RecordEvaluation(ctx context.Context, e EvaluationRecord) error {
	violations, err := encodeList(e.Violations)
	if err != nil {
		return err
	}
	messages, err := encodeList(e.Messages)
	if err != nil {
		return err
	}

	var programID sql.NullInt64
	if e.ProgramID != nil {
		programID = sql.NullInt64{Int64: *e.ProgramID, Valid: true}
	}
	var target sql.NullFloat64
	if e.ProfitTarget != nil {
		target = sql.NullFloat64{Float64: *e.ProfitTarget, Valid: true}
	}

	_, err = j.exec().ExecContext(ctx, `
		INSERT INTO evaluations
		(run_id, account_id, fund, program, program_id, phase,
		 balance, equity, starting_balance, daily_starting_equity, margin_used_pct,
		 locked, violations, messages, daily_loss_pct, max_loss_pct,
		 profit_pct, profit_target, target_achieved, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.AccountID, e.Fund, e.Program, programID, e.Phase,
		e.Balance, e.Equity, e.StartingBalance, e.DailyStartingEquity, e.MarginUsedPct,
		e.Locked, violations, messages, e.DailyLossPct, e.MaxLossPct,
		e.ProfitPct, target, e.TargetAchieved, e.Error,
	)
	return err
}

// RecordSizing appends s to its run; rows keep their insertion order.
func (j *SQLite) RecordSizing(ctx context.Context, s SizingRecord) error {
	violations, err := encodeList(s.Violations)
	if err != nil {
		return err
	}

	_, err = j.exec().ExecContext(ctx, `
		INSERT INTO sizings
		(run_id, seq, account_id, direction, entry_price, stop_loss, take_profit,
		 lot_size, clamped, risk_amount, actual_risk_amount, rr_ratio,
		 allowed, violations, error)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM sizings WHERE run_id = ?),
		 ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.RunID, s.AccountID, s.Direction, s.EntryPrice, s.StopLoss, s.TakeProfit,
		s.LotSize, s.Clamped, s.RiskAmount, s.ActualRiskAmount, s.RRRatio,
		s.Allowed, violations, s.Error,
	)
	return err
}

// RecordEvaluationRun writes a run and all its evaluations in one transaction.
func (j *SQLite) RecordEvaluationRun(ctx context.Context, r Run, evals []EvaluationRecord) error {
	return j.inTx(ctx, func(tx *SQLite) error {
		if err := tx.RecordRun(ctx, r); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		for _, e := range evals {
			e.RunID = r.RunID
			if err := tx.RecordEvaluation(ctx, e); err != nil {
				return fmt.Errorf("record evaluation %s: %w", e.AccountID, err)
			}
		}
		return nil
	})
}

// RecordSizingRun writes a run and all its sizings in one transaction.
func (j *SQLite) RecordSizingRun(ctx context.Context, r Run, sizings []SizingRecord) error {
	return j.inTx(ctx, func(tx *SQLite) error {
		if err := tx.RecordRun(ctx, r); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		for _, s := range sizings {
			s.RunID = r.RunID
			if err := tx.RecordSizing(ctx, s); err != nil {
				return fmt.Errorf("record sizing %s: %w", s.AccountID, err)
			}
		}
		return nil
	})
}

func (j *SQLite) inTx(ctx context.Context, fn func(*SQLite) error) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&SQLite{db: j.db, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode list %q: %w", s, err)
	}
	return out, nil
}
