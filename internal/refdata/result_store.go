package refdata

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"
)

// Table names for evaluation run tracking.
const (
	evaluationRunsTable = "bidscope_evaluation_runs"
	tenderScoresTable   = "bidscope_tender_scores"
)

// ResultStoreImpl implements the ResultStore interface.
type ResultStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ResultStore = &ResultStoreImpl{} // Compile-time check

// NewResultStore creates a new ResultStore with the specified backend.
func NewResultStore(backend schema.DatabaseBackend, connStr string) (contract.ResultStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &ResultStoreImpl{db: nil, backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createResultTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create result tables: %w", err)
	}

	return &ResultStoreImpl{db: db, backend: backend}, nil
}

// createResultTables creates the evaluation tracking tables.
func createResultTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{evaluationRunsTable, getCreateEvaluationRunsQuery(backend)},
		{tenderScoresTable, getCreateTenderScoresQuery(backend)},
	}

	for _, table := range tables {
		if err := validateTableName(table.name); err != nil {
			return err
		}
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateEvaluationRunsQuery returns the CREATE TABLE query for bidscope_evaluation_runs.
func getCreateEvaluationRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(evaluationRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				tenders_evaluated INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				tenders_evaluated INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				tenders_evaluated INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateTenderScoresQuery returns the CREATE TABLE query for bidscope_tender_scores.
func getCreateTenderScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tenderScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				project_id VARCHAR(255) NOT NULL,
				evaluation_time DATETIME(6) NOT NULL,
				score_technical DOUBLE NOT NULL,
				score_price DOUBLE NOT NULL,
				score_delivery DOUBLE NOT NULL,
				score_compliance DOUBLE NOT NULL,
				score_risk DOUBLE NOT NULL,
				composite DOUBLE NOT NULL,
				grade VARCHAR(50) NOT NULL,
				grand_total DOUBLE NOT NULL,
				line_items INT NOT NULL,
				best_pick BOOLEAN NOT NULL,
				PRIMARY KEY (run_id, project_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				project_id TEXT NOT NULL,
				evaluation_time TIMESTAMPTZ NOT NULL,
				score_technical DOUBLE PRECISION NOT NULL,
				score_price DOUBLE PRECISION NOT NULL,
				score_delivery DOUBLE PRECISION NOT NULL,
				score_compliance DOUBLE PRECISION NOT NULL,
				score_risk DOUBLE PRECISION NOT NULL,
				composite DOUBLE PRECISION NOT NULL,
				grade TEXT NOT NULL,
				grand_total DOUBLE PRECISION NOT NULL,
				line_items INT NOT NULL,
				best_pick BOOLEAN NOT NULL,
				PRIMARY KEY (run_id, project_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				project_id TEXT NOT NULL,
				evaluation_time TEXT NOT NULL,
				score_technical REAL NOT NULL,
				score_price REAL NOT NULL,
				score_delivery REAL NOT NULL,
				score_compliance REAL NOT NULL,
				score_risk REAL NOT NULL,
				composite REAL NOT NULL,
				grade TEXT NOT NULL,
				grand_total REAL NOT NULL,
				line_items INTEGER NOT NULL,
				best_pick BOOLEAN NOT NULL,
				PRIMARY KEY (run_id, project_id)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new evaluation run and returns its unique ID.
func (rs *ResultStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(evaluationRunsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert evaluation run: %w", err)
	}

	return runID, nil
}

// EndRun updates the evaluation run with completion data.
func (rs *ResultStoreImpl) EndRun(runID int64, endTime time.Time, tendersEvaluated int) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(evaluationRunsTable, rs.backend)

	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`,
		quotedTableName, placeholder(rs.backend, 1))
	row := rs.db.QueryRow(query, runID)

	startTime, err := scanTime(rs.backend, row.Scan)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	var args []any
	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, tenders_evaluated = $3 WHERE run_id = $4`, quotedTableName)
		args = []any{endTime, durationMs, tendersEvaluated, runID}
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, tenders_evaluated = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, rs.backend), durationMs, tendersEvaluated, runID}
	}

	if _, err := rs.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update evaluation run: %w", err)
	}

	return nil
}

// RecordTenderScore stores the score breakdown for one tender.
func (rs *ResultStoreImpl) RecordTenderScore(runID int64, record schema.TenderScoreRecord) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(tenderScoresTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, project_id, evaluation_time, score_technical, score_price,
			                 score_delivery, score_compliance, score_risk, composite, grade,
			                 grand_total, line_items, best_pick)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, project_id, evaluation_time, score_technical, score_price,
			                 score_delivery, score_compliance, score_risk, composite, grade,
			                 grand_total, line_items, best_pick)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, quotedTableName)
	}

	args := []any{
		runID, record.ProjectID, formatTime(record.EvaluationTime, rs.backend),
		record.ScoreTechnical, record.ScorePrice, record.ScoreDelivery,
		record.ScoreCompliance, record.ScoreRisk, record.Composite, record.Grade,
		record.GrandTotal, record.LineItems, record.BestPick,
	}

	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert tender score: %w", err)
	}

	return nil
}

// GetStatus returns status information about the result store.
func (rs *ResultStoreImpl) GetStatus() (schema.ResultsStatus, error) {
	status := schema.ResultsStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(evaluationRunsTable, rs.backend)

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)
	if err := rs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		row := rs.db.QueryRow(lastRunQuery)
		lastRunTime, err := scanTime(rs.backend, func(dest ...any) error {
			return row.Scan(append([]any{&status.LastRunID}, dest...)...)
		})
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		row = rs.db.QueryRow(oldestRunQuery)
		oldestRunTime, err := scanTime(rs.backend, row.Scan)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		tendersQuery := fmt.Sprintf("SELECT COALESCE(SUM(tenders_evaluated), 0) FROM %s", quotedRuns)
		if err := rs.db.QueryRow(tendersQuery).Scan(&status.TendersEvaluated); err != nil {
			return status, fmt.Errorf("failed to get tenders evaluated: %w", err)
		}
	}

	for _, table := range []string{evaluationRunsTable, tenderScoresTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		var count int64
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// ClearRuns deletes all stored runs and scores, returning the number of
// runs removed.
func (rs *ResultStoreImpl) ClearRuns() (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	scoresQuery := fmt.Sprintf("DELETE FROM %s", quoteTableName(tenderScoresTable, rs.backend))
	if _, err := rs.db.Exec(scoresQuery); err != nil {
		return 0, fmt.Errorf("failed to clear tender scores: %w", err)
	}

	runsQuery := fmt.Sprintf("DELETE FROM %s", quoteTableName(evaluationRunsTable, rs.backend))
	result, err := rs.db.Exec(runsQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to clear evaluation runs: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, nil // Driver cannot report row counts; the delete still succeeded
	}
	return removed, nil
}

// ListTenderScores returns stored scores, newest runs first, up to limit.
func (rs *ResultStoreImpl) ListTenderScores(limit int) ([]schema.TenderScoreRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(tenderScoresTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, project_id, evaluation_time, score_technical, score_price,
    score_delivery, score_compliance, score_risk, composite, grade,
    grand_total, line_items, best_pick
    FROM %s ORDER BY run_id DESC, composite DESC LIMIT %s`, quotedTableName, placeholder(rs.backend, 1))

	rows, err := rs.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tender scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.TenderScoreRecord
	for rows.Next() {
		var record schema.TenderScoreRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var evalTimeStr string
			if err := rows.Scan(&record.RunID, &record.ProjectID, &evalTimeStr, &record.ScoreTechnical,
				&record.ScorePrice, &record.ScoreDelivery, &record.ScoreCompliance, &record.ScoreRisk,
				&record.Composite, &record.Grade, &record.GrandTotal, &record.LineItems, &record.BestPick); err != nil {
				return nil, fmt.Errorf("failed to scan tender score: %w", err)
			}
			evalTime, err := time.Parse(time.RFC3339Nano, evalTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse evaluation_time: %w", err)
			}
			record.EvaluationTime = evalTime
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.ProjectID, &record.EvaluationTime, &record.ScoreTechnical,
				&record.ScorePrice, &record.ScoreDelivery, &record.ScoreCompliance, &record.ScoreRisk,
				&record.Composite, &record.Grade, &record.GrandTotal, &record.LineItems, &record.BestPick); err != nil {
				return nil, fmt.Errorf("failed to scan tender score: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tender scores: %w", err)
	}

	return results, nil
}

// Close closes the underlying connection.
func (rs *ResultStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
