package store

import (
	"fmt"
	"time"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
)

// BatchInsertRecords ロング形式レコードを 1 トランザクションで挿入する
func (s *Store) BatchInsertRecords(runID string, records []model.ShiftRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO shift_records (
			run_id, ts, staff, role, employment, code,
			holiday_type, slot_count, source_sheet, row_no
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("プリペアに失敗しました: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			runID, r.Timestamp.Format(time.RFC3339), r.Staff, r.Role, r.Employment, r.Code,
			string(r.HolidayType), r.SlotCount, r.SourceSheet, r.RowNo,
		)
		if err != nil {
			return fmt.Errorf("レコード挿入に失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗しました: %w", err)
	}

	return nil
}

// RecordQueryOptions レコード検索条件
type RecordQueryOptions struct {
	RunID       *string
	Staff       *string
	Role        *string
	HolidayType *string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// QueryRecords 条件付きでロング形式レコードを取り出す
func (s *Store) QueryRecords(opts RecordQueryOptions) ([]model.ShiftRecord, error) {
	query := `
		SELECT ts, staff, role, employment, code, holiday_type, slot_count, source_sheet, row_no
		FROM shift_records WHERE 1=1`
	args := []any{}

	if opts.RunID != nil {
		query += " AND run_id = ?"
		args = append(args, *opts.RunID)
	}
	if opts.Staff != nil {
		query += " AND staff = ?"
		args = append(args, *opts.Staff)
	}
	if opts.Role != nil {
		query += " AND role = ?"
		args = append(args, *opts.Role)
	}
	if opts.HolidayType != nil {
		query += " AND holiday_type = ?"
		args = append(args, *opts.HolidayType)
	}
	if opts.From != nil {
		query += " AND ts >= ?"
		args = append(args, opts.From.Format(time.RFC3339))
	}
	if opts.To != nil {
		query += " AND ts < ?"
		args = append(args, opts.To.Format(time.RFC3339))
	}

	query += " ORDER BY staff, ts, id"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShiftRecord
	for rows.Next() {
		var r model.ShiftRecord
		var ts, holidayType string
		if err := rows.Scan(&ts, &r.Staff, &r.Role, &r.Employment, &r.Code, &holidayType, &r.SlotCount, &r.SourceSheet, &r.RowNo); err != nil {
			return nil, err
		}
		r.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("時刻カラムが壊れています %q: %w", ts, err)
		}
		r.HolidayType = model.HolidayType(holidayType)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRecords 取込 1 回分のレコード数
func (s *Store) CountRecords(runID string) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM shift_records WHERE run_id = ?", runID).Scan(&n)
	return n, err
}
