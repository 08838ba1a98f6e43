package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IngestRun 取込 1 回分のメタデータ
type IngestRun struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	PatternSheet string    `json:"pattern_sheet"`
	SlotMinutes  int       `json:"slot_minutes"`
	TotalRecords int       `json:"total_records"`
	UnknownCodes int       `json:"unknown_codes"`
	StartedAt    time.Time `json:"started_at"`
	DurationMS   int64     `json:"duration_ms"`
}

// CreateRun 新しい取込 ID を発行して記録する
func (s *Store) CreateRun(filename, patternSheet string, slotMinutes int) (string, error) {
	runID := uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO ingest_runs (id, filename, pattern_sheet, slot_minutes, total_records, unknown_codes, started_at, duration_ms)
		VALUES (?, ?, ?, ?, 0, 0, ?, 0)
	`, runID, filename, patternSheet, slotMinutes, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("取込記録の作成に失敗しました: %w", err)
	}
	return runID, nil
}

// FinishRun 取込完了時に件数と所要時間を書き戻す
func (s *Store) FinishRun(runID string, totalRecords, unknownCodes int, duration time.Duration) error {
	_, err := s.db.Exec(`
		UPDATE ingest_runs SET total_records = ?, unknown_codes = ?, duration_ms = ? WHERE id = ?
	`, totalRecords, unknownCodes, duration.Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("取込記録の更新に失敗しました: %w", err)
	}
	return nil
}

// GetRun 取込記録を 1 件取り出す
func (s *Store) GetRun(runID string) (*IngestRun, error) {
	row := s.db.QueryRow(`
		SELECT id, filename, pattern_sheet, slot_minutes, total_records, unknown_codes, started_at, duration_ms
		FROM ingest_runs WHERE id = ?
	`, runID)
	return scanRun(row)
}

// LatestRun 最新の取込記録を返す。まだ 1 件もなければ nil
func (s *Store) LatestRun() (*IngestRun, error) {
	row := s.db.QueryRow(`
		SELECT id, filename, pattern_sheet, slot_minutes, total_records, unknown_codes, started_at, duration_ms
		FROM ingest_runs ORDER BY started_at DESC LIMIT 1
	`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns 取込記録を新しい順に返す
func (s *Store) ListRuns() ([]IngestRun, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, pattern_sheet, slot_minutes, total_records, unknown_codes, started_at, duration_ms
		FROM ingest_runs ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IngestRun
	for rows.Next() {
		var run IngestRun
		var startedAt string
		if err := rows.Scan(&run.ID, &run.Filename, &run.PatternSheet, &run.SlotMinutes,
			&run.TotalRecords, &run.UnknownCodes, &startedAt, &run.DurationMS); err != nil {
			return nil, err
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		out = append(out, run)
	}
	return out, rows.Err()
}

// DeleteRun 取込記録と配下のレコードを削除する
func (s *Store) DeleteRun(runID string) error {
	_, err := s.db.Exec("DELETE FROM ingest_runs WHERE id = ?", runID)
	if err != nil {
		return fmt.Errorf("取込記録の削除に失敗しました: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*IngestRun, error) {
	var run IngestRun
	var startedAt string
	if err := row.Scan(&run.ID, &run.Filename, &run.PatternSheet, &run.SlotMinutes,
		&run.TotalRecords, &run.UnknownCodes, &startedAt, &run.DurationMS); err != nil {
		return nil, err
	}
	run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	return &run, nil
}
