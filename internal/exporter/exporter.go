package exporter

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
	"github.com/makimaki1006/shift-suite-sub001/internal/store"
)

// Exporter ロング形式データの Excel 書き出し
type Exporter struct {
	store *store.Store
}

// NewExporter 書き出し器を作る
func NewExporter(st *store.Store) *Exporter {
	return &Exporter{store: st}
}

// シート名
const (
	sheetRecords  = "勤務記録"
	sheetPatterns = "勤務区分"
	sheetUnknown  = "未知コード"
)

// Export 取込 1 回分をワークブックに書き出す
// 返したファイルは呼び出し側が Close する。
func (e *Exporter) Export(runID string) (*excelize.File, error) {
	records, err := e.store.QueryRecords(store.RecordQueryOptions{RunID: &runID})
	if err != nil {
		return nil, fmt.Errorf("レコードの読み出しに失敗しました: %w", err)
	}
	patterns, err := e.store.ListWorkPatterns(runID)
	if err != nil {
		return nil, fmt.Errorf("勤務区分の読み出しに失敗しました: %w", err)
	}
	unknown, err := e.store.ListUnknownCodes(runID)
	if err != nil {
		return nil, fmt.Errorf("未知コードの読み出しに失敗しました: %w", err)
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetRecords)
	if err := fillRecordsSheet(f, records); err != nil {
		_ = f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(sheetPatterns); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := fillPatternsSheet(f, patterns); err != nil {
		_ = f.Close()
		return nil, err
	}

	if len(unknown) > 0 {
		if _, err := f.NewSheet(sheetUnknown); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := fillUnknownSheet(f, unknown); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func fillRecordsSheet(f *excelize.File, records []model.ShiftRecord) error {
	header := []any{"日時", "氏名", "職種", "雇用形態", "勤務区分", "休暇種別", "スロット数", "元シート", "元行"}
	if err := setRow(f, sheetRecords, 1, header); err != nil {
		return err
	}
	for i, r := range records {
		row := []any{
			r.Timestamp.Format("2006-01-02 15:04"),
			r.Staff, r.Role, r.Employment, r.Code,
			string(r.HolidayType), r.SlotCount, r.SourceSheet, r.RowNo,
		}
		if err := setRow(f, sheetRecords, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func fillPatternsSheet(f *excelize.File, patterns []model.WorkPattern) error {
	header := []any{"勤務区分", "開始", "終了", "休暇種別", "休暇", "スロット数", "備考"}
	if err := setRow(f, sheetPatterns, 1, header); err != nil {
		return err
	}
	for i, p := range patterns {
		leave := ""
		if p.IsLeave {
			leave = "○"
		}
		row := []any{p.Code, p.Start, p.End, string(p.HolidayType), leave, p.SlotCount, p.Remarks}
		if err := setRow(f, sheetPatterns, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func fillUnknownSheet(f *excelize.File, codes []string) error {
	if err := setRow(f, sheetUnknown, 1, []any{"コード"}); err != nil {
		return err
	}
	for i, code := range codes {
		if err := setRow(f, sheetUnknown, i+2, []any{code}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// Filename ダウンロード用のファイル名
func Filename(runID string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("shift_records_%s_%s.xlsx", time.Now().Format("20060102"), short)
}
