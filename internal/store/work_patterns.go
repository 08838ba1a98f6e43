package store

import (
	"fmt"
	"strings"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
)

// SaveWorkPatterns 勤務区分テーブルを 1 トランザクションで保存する
func (s *Store) SaveWorkPatterns(runID string, patterns []model.WorkPattern) error {
	if len(patterns) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO work_patterns (
			run_id, code, start_time, end_time, slots,
			holiday_type, is_leave, slot_count, remarks
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("プリペアに失敗しました: %w", err)
	}
	defer stmt.Close()

	for _, p := range patterns {
		_, err := stmt.Exec(
			runID, p.Code, p.Start, p.End, strings.Join(p.Slots, ","),
			string(p.HolidayType), p.IsLeave, p.SlotCount, p.Remarks,
		)
		if err != nil {
			return fmt.Errorf("勤務区分の保存に失敗しました %q: %w", p.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗しました: %w", err)
	}

	return nil
}

// ListWorkPatterns 取込 1 回分の勤務区分を取り出す
func (s *Store) ListWorkPatterns(runID string) ([]model.WorkPattern, error) {
	rows, err := s.db.Query(`
		SELECT code, start_time, end_time, slots, holiday_type, is_leave, slot_count, remarks
		FROM work_patterns WHERE run_id = ? ORDER BY code
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WorkPattern
	for rows.Next() {
		var p model.WorkPattern
		var slots, holidayType string
		if err := rows.Scan(&p.Code, &p.Start, &p.End, &slots, &holidayType, &p.IsLeave, &p.SlotCount, &p.Remarks); err != nil {
			return nil, err
		}
		if slots != "" {
			p.Slots = strings.Split(slots, ",")
		}
		p.HolidayType = model.HolidayType(holidayType)
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveUnknownCodes 未知コード集合を保存する
func (s *Store) SaveUnknownCodes(runID string, codes []string) error {
	if len(codes) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO unknown_codes (run_id, code) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("プリペアに失敗しました: %w", err)
	}
	defer stmt.Close()

	for _, code := range codes {
		if _, err := stmt.Exec(runID, code); err != nil {
			return fmt.Errorf("未知コードの保存に失敗しました %q: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗しました: %w", err)
	}

	return nil
}

// ListUnknownCodes 取込 1 回分の未知コードをコード順で返す
func (s *Store) ListUnknownCodes(runID string) ([]string, error) {
	rows, err := s.db.Query("SELECT code FROM unknown_codes WHERE run_id = ? ORDER BY code", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return out, rows.Err()
}
