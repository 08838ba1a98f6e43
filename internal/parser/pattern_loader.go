package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
)

// DefaultPatternSheetMarker 勤務区分定義シート名に含まれるマーカー
const DefaultPatternSheetMarker = "勤務区分"

// PatternTable 勤務区分テーブル
// 取込 1 回分の定義シートから構築し、以後は不変として扱う。
type PatternTable struct {
	byCode map[string]model.WorkPattern
	order  []string // 定義シートでの出現順（重複定義は初出位置を保つ）
}

// Lookup 正規化済みコードで引く
func (t *PatternTable) Lookup(code string) (model.WorkPattern, bool) {
	p, ok := t.byCode[code]
	return p, ok
}

// Len 登録コード数
func (t *PatternTable) Len() int {
	return len(t.byCode)
}

// Patterns 出現順のスライスに変換
func (t *PatternTable) Patterns() []model.WorkPattern {
	out := make([]model.WorkPattern, 0, len(t.order))
	for _, code := range t.order {
		out = append(out, t.byCode[code])
	}
	return out
}

// SlotLists コード → スロット列の対応表（下流の集計スクリプト向けの簡易ビュー）
func (t *PatternTable) SlotLists() map[string][]string {
	out := make(map[string][]string, len(t.byCode))
	for code, p := range t.byCode {
		out[code] = p.Slots
	}
	return out
}

func (t *PatternTable) put(p model.WorkPattern) {
	if _, exists := t.byCode[p.Code]; !exists {
		t.order = append(t.order, p.Code)
	}
	// 同一コードの再定義は後勝ち（定義シート内の訂正行を尊重する）
	t.byCode[p.Code] = p
}

// FindPatternSheet シート一覧から勤務区分定義シートを探す
// marker が空のときは既定マーカーを使う。見つからなければ空文字。
func FindPatternSheet(f *excelize.File, marker string) string {
	if marker == "" {
		marker = DefaultPatternSheetMarker
	}
	for _, name := range f.GetSheetList() {
		if strings.Contains(name, marker) {
			return name
		}
	}
	return ""
}

// 定義シートの列ヘッダー別名
var (
	patternCodeAliases    = []string{"勤務区分", "記号", "コード", "勤務コード", "code"}
	patternStartAliases   = []string{"開始", "開始時刻", "始業", "start"}
	patternEndAliases     = []string{"終了", "終了時刻", "終業", "end"}
	patternRemarksAliases = []string{"備考", "名称", "内容", "説明", "remarks"}
)

// LoadWorkPatterns 勤務区分定義シートを読み込む
// 行単位のデータ不備（コード欠落・時刻不正）はスキップまたは休暇化して警告に積み、
// エラーにはしない。シートが空でも空テーブルを返す（データ品質の扱いは呼び出し側）。
func LoadWorkPatterns(f *excelize.File, sheetName string, slotMinutes int, classifier *Classifier) (*PatternTable, []string, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("勤務区分シート %q を読めません: %w", sheetName, err)
	}

	table := &PatternTable{byCode: make(map[string]model.WorkPattern)}
	var warnings []string

	if len(rows) == 0 {
		return table, warnings, nil
	}

	codeCol, startCol, endCol, remarksCol := patternColumns(rows[0])

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		code := NormalizeCode(cellAt(row, codeCol))
		if code == "" {
			continue // コード欠落行はスキップ
		}

		startRaw := strings.TrimSpace(cellAt(row, startCol))
		endRaw := strings.TrimSpace(cellAt(row, endCol))
		remarks := strings.TrimSpace(cellAt(row, remarksCol))

		p := model.WorkPattern{
			Code:     code,
			StartRaw: startRaw,
			EndRaw:   endRaw,
			Remarks:  remarks,
			RowNo:    i + 1,
		}

		p.HolidayType, p.IsLeave = classifier.Classify(code, startRaw, endRaw, remarks)

		if !p.IsLeave {
			slots, err := expandPattern(startRaw, endRaw, slotMinutes)
			var perr *ParseError
			if errors.As(err, &perr) {
				// 時刻が壊れている行は休暇として記録し、警告に残す
				warnings = append(warnings, fmt.Sprintf("%s 行%d: %v（休暇コードとして登録します）", sheetName, i+1, err))
				p.HolidayType = model.HolidayOther
				p.IsLeave = true
			} else if err != nil {
				return nil, nil, err
			} else {
				p.Slots = slots
				if len(slots) > 0 {
					p.Start = slots[0]
					endMin, _ := ParseClock(normalizeClockString(endRaw))
					p.End = FormatClock(endMin)
				} else {
					// start == end の長さ 0 展開は休暇相当
					p.IsLeave = true
					if p.HolidayType == model.HolidayNormal {
						p.HolidayType = model.HolidayOther
					}
				}
			}
		}

		// 休暇コードは定義上の時刻に関わらずスロットを持たない
		if p.IsLeave {
			p.Slots = nil
			p.Start = ""
			p.End = ""
		}
		p.SlotCount = len(p.Slots)

		table.put(p)
	}

	return table, warnings, nil
}

// patternColumns ヘッダー行から列位置を決める
// 別名に一致しない場合は「コード・開始・終了・備考」の既定順とみなす。
func patternColumns(header []string) (codeCol, startCol, endCol, remarksCol int) {
	codeCol, startCol, endCol, remarksCol = 0, 1, 2, 3
	for i, h := range header {
		n := NormalizeText(h)
		switch {
		case matchAlias(n, patternCodeAliases):
			codeCol = i
		case matchAlias(n, patternStartAliases):
			startCol = i
		case matchAlias(n, patternEndAliases):
			endCol = i
		case matchAlias(n, patternRemarksAliases):
			remarksCol = i
		}
	}
	return codeCol, startCol, endCol, remarksCol
}

func matchAlias(normalized string, aliases []string) bool {
	for _, a := range aliases {
		if strings.EqualFold(normalized, a) || strings.Contains(strings.ToLower(normalized), strings.ToLower(a)) {
			return true
		}
	}
	return false
}

// expandPattern 定義行の時刻ペアをスロット列に展開する
func expandPattern(startRaw, endRaw string, slotMinutes int) ([]string, error) {
	return ExpandSlots(normalizeClockString(startRaw), normalizeClockString(endRaw), slotMinutes)
}

// normalizeClockString "9:00" / "９：００" / "9時00分" を "HH:MM" に寄せる
func normalizeClockString(s string) string {
	s = NormalizeCode(s)
	s = strings.ReplaceAll(s, "時", ":")
	s = strings.ReplaceAll(s, "分", "")
	return s
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
