package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// HistoryDB 同期実行の履歴を保持するローカルSQLite。
// 実行サマリだけを残し、明細はJSONレポート側に持たせる。
type HistoryDB struct {
	conn *sql.DB
}

// RunSummary sync_runs の1行分
type RunSummary struct {
	RunID      string
	Mode       string
	DryRun     bool
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Inserted   int
	Updated    int
	Skipped    int
	Mismatched int
	Errored    int
	Dropped    int
	ReportPath string
}

// NewHistoryDB 履歴DBを開く(無ければ作成してマイグレーションを流す)
func NewHistoryDB(path string) (*HistoryDB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	db := &HistoryDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// migrate sync_runs テーブルとインデックスを作成する
func (db *HistoryDB) migrate() error {
	createTableSQL := `
		CREATE TABLE IF NOT EXISTS sync_runs (
			run_id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			dry_run INTEGER NOT NULL DEFAULT 0,
			source TEXT,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			inserted INTEGER NOT NULL DEFAULT 0,
			updated INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			mismatched INTEGER NOT NULL DEFAULT 0,
			errored INTEGER NOT NULL DEFAULT 0,
			dropped INTEGER NOT NULL DEFAULT 0,
			report_path TEXT
		)
	`
	if _, err := db.conn.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create sync_runs table: %w", err)
	}

	indexSQL := `CREATE INDEX IF NOT EXISTS idx_sync_runs_started_at ON sync_runs(started_at)`
	if _, err := db.conn.Exec(indexSQL); err != nil {
		return fmt.Errorf("failed to create sync_runs index: %w", err)
	}
	return nil
}

// SaveRun 実行サマリを1件保存する
func (db *HistoryDB) SaveRun(run RunSummary) error {
	_, err := db.conn.Exec(`
		INSERT INTO sync_runs (
			run_id, mode, dry_run, source, started_at, finished_at,
			inserted, updated, skipped, mismatched, errored, dropped, report_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.RunID, run.Mode, boolToInt(run.DryRun), run.Source,
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339),
		run.Inserted, run.Updated, run.Skipped, run.Mismatched, run.Errored, run.Dropped,
		run.ReportPath,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.RunID, err)
	}
	return nil
}

// RecentRuns 直近の実行サマリを新しい順に返す
func (db *HistoryDB) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT run_id, mode, dry_run, source, started_at, finished_at,
		       inserted, updated, skipped, mismatched, errored, dropped, report_path
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync_runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		var dryRun int
		var started, finished, source, reportPath sql.NullString
		if err := rows.Scan(
			&run.RunID, &run.Mode, &dryRun, &source, &started, &finished,
			&run.Inserted, &run.Updated, &run.Skipped, &run.Mismatched,
			&run.Errored, &run.Dropped, &reportPath,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync_runs row: %w", err)
		}
		run.DryRun = dryRun != 0
		run.Source = source.String
		run.ReportPath = reportPath.String
		run.StartedAt = parseTimestamp(started.String)
		run.FinishedAt = parseTimestamp(finished.String)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close 接続を閉じる
func (db *HistoryDB) Close() error {
	return db.conn.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
