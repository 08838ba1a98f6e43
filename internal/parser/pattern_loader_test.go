package parser

import (
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
)

// buildPatternSheet テスト用の勤務区分定義シートを組み立てる
func buildPatternSheet(t *testing.T, rows [][]any) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	sheet := "勤務区分一覧"
	f.SetSheetName("Sheet1", sheet)

	header := []any{"勤務区分", "開始", "終了", "備考"}
	for col, v := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	return f
}

func TestLoadWorkPatterns_Basic(t *testing.T) {
	t.Parallel()

	f := buildPatternSheet(t, [][]any{
		{"A", "09:00", "17:00", "日勤"},
		{"夜勤", "22:00", "06:00", "夜勤帯"},
		{"×", "", "", "希望休"},
	})
	t.Cleanup(func() { _ = f.Close() })

	table, warnings, err := LoadWorkPatterns(f, "勤務区分一覧", 60, NewClassifier())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if table.Len() != 3 {
		t.Fatalf("unexpected table size: %d", table.Len())
	}

	a, ok := table.Lookup("A")
	if !ok {
		t.Fatalf("code A missing")
	}
	if a.IsLeave || a.SlotCount != 8 || len(a.Slots) != a.SlotCount {
		t.Fatalf("unexpected pattern A: %+v", a)
	}
	if a.Start != "09:00" || a.End != "17:00" {
		t.Fatalf("unexpected A times: %q-%q", a.Start, a.End)
	}

	night, _ := table.Lookup("夜勤")
	wantSlots := []string{"22:00", "23:00", "00:00", "01:00", "02:00", "03:00", "04:00", "05:00"}
	if !reflect.DeepEqual(night.Slots, wantSlots) {
		t.Fatalf("unexpected night slots: %v", night.Slots)
	}

	batsu, _ := table.Lookup("×")
	if !batsu.IsLeave || batsu.SlotCount != 0 || len(batsu.Slots) != 0 {
		t.Fatalf("unexpected leave pattern: %+v", batsu)
	}
	if batsu.HolidayType != model.HolidayRequested {
		t.Fatalf("unexpected holiday type: %v", batsu.HolidayType)
	}
}

func TestLoadWorkPatterns_LeaveOverridesTimes(t *testing.T) {
	t.Parallel()

	// 休暇コードに時刻が書いてあってもスロットは付かない
	f := buildPatternSheet(t, [][]any{
		{"有", "09:00", "17:00", ""},
	})
	t.Cleanup(func() { _ = f.Close() })

	table, _, err := LoadWorkPatterns(f, "勤務区分一覧", 60, NewClassifier())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, _ := table.Lookup("有")
	if !p.IsLeave || p.SlotCount != 0 || len(p.Slots) != 0 {
		t.Fatalf("leave override failed: %+v", p)
	}
	if p.HolidayType != model.HolidayPaid {
		t.Fatalf("unexpected holiday type: %v", p.HolidayType)
	}
}

func TestLoadWorkPatterns_DuplicateLastWins(t *testing.T) {
	t.Parallel()

	// 同一コードの再定義は後勝ち（タイポ訂正行を尊重する）
	f := buildPatternSheet(t, [][]any{
		{"B", "08:00", "12:00", ""},
		{"B", "13:00", "17:00", ""},
	})
	t.Cleanup(func() { _ = f.Close() })

	table, _, err := LoadWorkPatterns(f, "勤務区分一覧", 60, NewClassifier())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("duplicate should collapse: %d", table.Len())
	}
	b, _ := table.Lookup("B")
	if b.Start != "13:00" {
		t.Fatalf("last definition should win: %+v", b)
	}
}

func TestLoadWorkPatterns_MalformedTimeBecomesLeave(t *testing.T) {
	t.Parallel()

	f := buildPatternSheet(t, [][]any{
		{"変", "9時半", "17:00", ""},
	})
	t.Cleanup(func() { _ = f.Close() })

	table, warnings, err := LoadWorkPatterns(f, "勤務区分一覧", 60, NewClassifier())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("want 1 warning, got %v", warnings)
	}
	p, ok := table.Lookup("変")
	if !ok || !p.IsLeave || p.SlotCount != 0 {
		t.Fatalf("malformed time should degrade to leave: %+v", p)
	}
}

func TestLoadWorkPatterns_SkipsCodelessRows_EmptySheetOK(t *testing.T) {
	t.Parallel()

	f := buildPatternSheet(t, [][]any{
		{"", "09:00", "17:00", "コード無し"},
	})
	t.Cleanup(func() { _ = f.Close() })

	table, _, err := LoadWorkPatterns(f, "勤務区分一覧", 60, NewClassifier())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("codeless rows should be skipped: %d", table.Len())
	}
}

func TestLoadWorkPatterns_ZeroLengthShiftIsLeaveLike(t *testing.T) {
	t.Parallel()

	f := buildPatternSheet(t, [][]any{
		{"宿直", "17:00", "17:00", ""},
	})
	t.Cleanup(func() { _ = f.Close() })

	table, _, err := LoadWorkPatterns(f, "勤務区分一覧", 30, NewClassifier())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, _ := table.Lookup("宿直")
	if !p.IsLeave || p.SlotCount != 0 {
		t.Fatalf("start==end should be leave-like: %+v", p)
	}
}

func TestLoadWorkPatterns_FullDayShift(t *testing.T) {
	t.Parallel()

	// 00:00-24:00 は丸一日の勤務。休暇に落としてはいけない
	f := buildPatternSheet(t, [][]any{
		{"日直", "00:00", "24:00", ""},
	})
	t.Cleanup(func() { _ = f.Close() })

	table, warnings, err := LoadWorkPatterns(f, "勤務区分一覧", 60, NewClassifier())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	p, ok := table.Lookup("日直")
	if !ok || p.IsLeave {
		t.Fatalf("full-day shift degraded to leave: %+v", p)
	}
	if p.SlotCount != 24 || len(p.Slots) != 24 {
		t.Fatalf("unexpected slot count: %+v", p)
	}
	if p.Slots[0] != "00:00" || p.Slots[23] != "23:00" {
		t.Fatalf("unexpected boundary slots: %v", p.Slots)
	}
}

func TestFindPatternSheet(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "R6.4シフト")
	_, _ = f.NewSheet("勤務区分マスタ")
	t.Cleanup(func() { _ = f.Close() })

	if got := FindPatternSheet(f, ""); got != "勤務区分マスタ" {
		t.Fatalf("unexpected sheet: %q", got)
	}
	if got := FindPatternSheet(f, "存在しない"); got != "" {
		t.Fatalf("marker miss should return empty, got %q", got)
	}
}

func TestLoadWorkPatterns_FullWidthTimes(t *testing.T) {
	t.Parallel()

	f := buildPatternSheet(t, [][]any{
		{"早", "７：００", "１６：００", ""},
	})
	t.Cleanup(func() { _ = f.Close() })

	table, warnings, err := LoadWorkPatterns(f, "勤務区分一覧", 60, NewClassifier())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	p, _ := table.Lookup("早")
	if p.SlotCount != 9 || p.Start != "07:00" {
		t.Fatalf("full-width times not folded: %+v", p)
	}
}
