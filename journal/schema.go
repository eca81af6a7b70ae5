package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	kind TEXT NOT NULL,
	catalog TEXT NOT NULL,
	items INTEGER NOT NULL,
	locked INTEGER NOT NULL,
	rejected INTEGER NOT NULL,
	failed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	account_id TEXT NOT NULL,
	fund TEXT NOT NULL,
	program TEXT NOT NULL,
	program_id INTEGER,
	phase TEXT NOT NULL,
	balance REAL NOT NULL,
	equity REAL NOT NULL,
	starting_balance REAL NOT NULL,
	daily_starting_equity REAL NOT NULL,
	margin_used_pct REAL NOT NULL,
	locked BOOLEAN NOT NULL,
	violations TEXT NOT NULL,
	messages TEXT NOT NULL,
	daily_loss_pct REAL NOT NULL,
	max_loss_pct REAL NOT NULL,
	profit_pct REAL NOT NULL,
	profit_target REAL,
	target_achieved BOOLEAN NOT NULL,
	error TEXT NOT NULL,
	PRIMARY KEY (run_id, account_id)
);

CREATE TABLE IF NOT EXISTS sizings (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	seq INTEGER NOT NULL,
	account_id TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	lot_size REAL NOT NULL,
	clamped BOOLEAN NOT NULL,
	risk_amount REAL NOT NULL,
	actual_risk_amount REAL NOT NULL,
	rr_ratio REAL NOT NULL,
	allowed BOOLEAN NOT NULL,
	violations TEXT NOT NULL,
	error TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
`
