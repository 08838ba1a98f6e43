package exporter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
	"github.com/makimaki1006/shift-suite-sub001/internal/store"
)

func TestExportWritesAllSheets(t *testing.T) {
	t.Parallel()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("ストアの初期化に失敗: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	runID, err := st.CreateRun("roster.xlsx", "勤務区分一覧", 60)
	if err != nil {
		t.Fatalf("CreateRun に失敗: %v", err)
	}

	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local)
	records := []model.ShiftRecord{
		{Timestamp: day.Add(9 * time.Hour), Staff: "山田 太郎", Role: "介護", Employment: "常勤", Code: "A", HolidayType: model.HolidayNormal, SlotCount: 1, SourceSheet: "4月前半", RowNo: 3},
		{Timestamp: day, Staff: "佐藤 花子", Role: "看護", Employment: "非常勤", Code: "×", HolidayType: model.HolidayRequested, SlotCount: 0, SourceSheet: "4月前半", RowNo: 4},
	}
	if err := st.BatchInsertRecords(runID, records); err != nil {
		t.Fatalf("BatchInsertRecords に失敗: %v", err)
	}
	patterns := []model.WorkPattern{
		{Code: "A", Start: "09:00", End: "17:00", Slots: []string{"09:00"}, HolidayType: model.HolidayNormal, SlotCount: 1},
		{Code: "×", HolidayType: model.HolidayRequested, IsLeave: true},
	}
	if err := st.SaveWorkPatterns(runID, patterns); err != nil {
		t.Fatalf("SaveWorkPatterns に失敗: %v", err)
	}
	if err := st.SaveUnknownCodes(runID, []string{"Z9"}); err != nil {
		t.Fatalf("SaveUnknownCodes に失敗: %v", err)
	}

	f, err := NewExporter(st).Export(runID)
	if err != nil {
		t.Fatalf("Export に失敗: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"勤務記録", "勤務区分", "未知コード"} {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Errorf("シート %q がありません", sheet)
		}
	}

	rows, err := f.GetRows("勤務記録")
	if err != nil {
		t.Fatalf("勤務記録シートを読めません: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("勤務記録の行数 = %d, want 3", len(rows))
	}
	// staff, ts 順で並ぶ
	if rows[1][1] != "佐藤 花子" || rows[1][5] != string(model.HolidayRequested) {
		t.Errorf("休暇行が一致しません: %v", rows[1])
	}
	if rows[2][0] != "2024-04-01 09:00" || rows[2][4] != "A" {
		t.Errorf("勤務行が一致しません: %v", rows[2])
	}

	prows, err := f.GetRows("勤務区分")
	if err != nil {
		t.Fatalf("勤務区分シートを読めません: %v", err)
	}
	if len(prows) != 3 {
		t.Fatalf("勤務区分の行数 = %d, want 3", len(prows))
	}
	if prows[2][0] != "×" || prows[2][4] != "○" {
		t.Errorf("休暇区分の行が一致しません: %v", prows[2])
	}

	urows, err := f.GetRows("未知コード")
	if err != nil {
		t.Fatalf("未知コードシートを読めません: %v", err)
	}
	if len(urows) != 2 || urows[1][0] != "Z9" {
		t.Errorf("未知コードの行が一致しません: %v", urows)
	}
}

func TestExportSkipsUnknownSheetWhenEmpty(t *testing.T) {
	t.Parallel()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("ストアの初期化に失敗: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	runID, err := st.CreateRun("roster.xlsx", "勤務区分一覧", 60)
	if err != nil {
		t.Fatalf("CreateRun に失敗: %v", err)
	}

	f, err := NewExporter(st).Export(runID)
	if err != nil {
		t.Fatalf("Export に失敗: %v", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex("未知コード"); idx >= 0 {
		t.Error("未知コードシートが作られています")
	}
}
