package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
)

// データシートの列ヘッダー別名
var (
	staffAliases      = []string{"氏名", "名前", "職員名", "従業員", "従業員名", "スタッフ", "staff", "name"}
	roleAliases       = []string{"職種", "部署", "所属", "役職", "role"}
	employmentAliases = []string{"雇用形態", "勤務形態", "雇用区分", "employment"}
)

// unnamedPrefix pandas 由来のプレースホルダ列名
const unnamedPrefix = "unnamed:"

// SheetLayout データシート 1 枚分の列配置
type SheetLayout struct {
	StaffCol      int
	RoleCol       int
	EmploymentCol int // 無ければ -1
	DateCols      []DateColumn
}

// DateColumn 日付列 1 本
type DateColumn struct {
	Index int
	Date  time.Time
}

// MapHeader ヘッダー行から列配置を決める
// 氏名・職種の別名に一致した列を固定列、それ以外を日付列候補として解釈する。
// 日付として読めないヘッダーは黙って無視する（注記列の誤取込を防ぐ）。
// 氏名列も職種列も見つからないシートはエラー（シート単位のソフト失敗）。
func MapHeader(header []string, anchor *model.YearMonth) (SheetLayout, error) {
	layout := SheetLayout{StaffCol: -1, RoleCol: -1, EmploymentCol: -1}

	for i, h := range header {
		n := NormalizeText(h)
		if n == "" || strings.HasPrefix(strings.ToLower(n), unnamedPrefix) {
			continue
		}
		switch {
		case layout.StaffCol < 0 && matchAlias(n, staffAliases):
			layout.StaffCol = i
		case layout.RoleCol < 0 && matchAlias(n, roleAliases):
			layout.RoleCol = i
		case layout.EmploymentCol < 0 && matchAlias(n, employmentAliases):
			layout.EmploymentCol = i
		default:
			if d, ok := ParseHeaderDate(h, anchor); ok {
				layout.DateCols = append(layout.DateCols, DateColumn{Index: i, Date: d})
			}
		}
	}

	if layout.StaffCol < 0 && layout.RoleCol < 0 {
		return layout, fmt.Errorf("氏名列・職種列が見つかりません")
	}
	if len(layout.DateCols) == 0 {
		return layout, fmt.Errorf("日付列が見つかりません")
	}
	return layout, nil
}

// RowNormalizer 1 行（職員 1 名分）をロング形式レコードに展開する
type RowNormalizer struct {
	layout       SheetLayout
	table        *PatternTable
	classifier   *Classifier
	sheetName    string
	skippedCells int // 未知コード・曜日ラベルで捨てたセル数
}

// NewRowNormalizer 行正規化器を作る
func NewRowNormalizer(layout SheetLayout, table *PatternTable, classifier *Classifier, sheetName string) *RowNormalizer {
	return &RowNormalizer{
		layout:     layout,
		table:      table,
		classifier: classifier,
		sheetName:  sheetName,
	}
}

// SkippedCells ここまでに捨てたセル数
func (n *RowNormalizer) SkippedCells() int {
	return n.skippedCells
}

// NormalizeRow データ行 1 本を展開する
// rowNo は元シートの行番号（1 始まり）。未知コードは unknown に積み、レコードは出さない。
// 行自体を捨てたときは (nil, false) を返す。
func (n *RowNormalizer) NormalizeRow(row []string, rowNo int, unknown model.CodeSet) ([]model.ShiftRecord, bool) {
	staff := NormalizeText(cellAt(row, n.layout.StaffCol))
	role := NormalizeText(cellAt(row, n.layout.RoleCol))
	employment := NormalizeText(cellAt(row, n.layout.EmploymentCol))

	// 氏名・職種とも空の行、曜日ラベルが紛れた行（シート中間の見出し行）は捨てる
	if staff == "" && role == "" {
		return nil, false
	}
	if IsWeekdayToken(staff) || IsWeekdayToken(role) {
		return nil, false
	}

	var records []model.ShiftRecord
	for _, dc := range n.layout.DateCols {
		records = append(records, n.normalizeCell(cellAt(row, dc.Index), dc.Date, staff, role, employment, rowNo, unknown)...)
	}
	return records, true
}

// normalizeCell 日付セル 1 個を 0 個以上のレコードに展開する
func (n *RowNormalizer) normalizeCell(raw string, date time.Time, staff, role, employment string, rowNo int, unknown model.CodeSet) []model.ShiftRecord {
	base := model.ShiftRecord{
		Staff:       staff,
		Role:        role,
		Employment:  employment,
		SourceSheet: n.sheetName,
		RowNo:       rowNo,
	}

	// 未入力セルは 0 スロットの通常勤務プレースホルダとして 1 行残す
	// （日別カバレッジを欠けさせないため。「データ無し」扱いにはしない）
	if IsEmptyCell(raw) {
		base.Timestamp = date
		base.Code = ""
		base.HolidayType = model.HolidayNormal
		base.SlotCount = 0
		return []model.ShiftRecord{base}
	}

	code := NormalizeCode(raw)

	// カレンダー由来の曜日ラベルはシフトデータではない
	if IsWeekdayToken(code) {
		n.skippedCells++
		return nil
	}

	pattern, found := n.table.Lookup(code)

	if !found {
		// 定義行が無くても登録簿の休暇コードは休暇として成立する
		if htype, ok := n.classifier.RegistryType(code); ok {
			base.Timestamp = date
			base.Code = code
			base.HolidayType = htype
			base.SlotCount = 0
			return []model.ShiftRecord{base}
		}
		// 未知コードは推測せず記録だけして捨てる
		unknown.Add(code)
		n.skippedCells++
		return nil
	}

	// 休暇コード・スロット無しコードは 0:00 のセンチネル 1 行
	if pattern.IsLeave || len(pattern.Slots) == 0 {
		base.Timestamp = date
		base.Code = code
		base.HolidayType = pattern.HolidayType
		base.SlotCount = 0
		return []model.ShiftRecord{base}
	}

	// 勤務コードはスロットごとに 1 行。開始時刻より前のラベルは日跨ぎ分として翌日に付け替える。
	startMin, _ := ParseClock(pattern.Start)
	out := make([]model.ShiftRecord, 0, len(pattern.Slots))
	for _, slot := range pattern.Slots {
		slotMin, err := ParseClock(slot)
		if err != nil {
			continue
		}
		day := date
		if slotMin < startMin {
			day = day.AddDate(0, 0, 1)
		}
		rec := base
		rec.Timestamp = day.Add(time.Duration(slotMin) * time.Minute)
		rec.Code = code
		rec.HolidayType = pattern.HolidayType
		rec.SlotCount = pattern.SlotCount
		out = append(out, rec)
	}
	return out
}
