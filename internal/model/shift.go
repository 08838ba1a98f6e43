package model

import (
	"sort"
	"time"
)

// HolidayType 休暇区分
type HolidayType string

const (
	HolidayNormal    HolidayType = "通常勤務" // 休暇ではない（勤務 or 未入力プレースホルダ）
	HolidayRequested HolidayType = "希望休"
	HolidayPaid      HolidayType = "有給"
	HolidayFacility  HolidayType = "施設休業"
	HolidayOther     HolidayType = "その他休暇"
)

// IsLeave 休暇区分かどうか
func (h HolidayType) IsLeave() bool {
	return h != HolidayNormal && h != ""
}

// ShiftRecord ロング形式テーブルの 1 行
// SlotCount == 0 の行は休暇・未入力のセンチネルで、Timestamp はその日の 0:00 に固定される。
// SlotCount > 0 の行はスロット 1 つ分を表し、同じ (職員, 日付, コード) に対して
// ちょうど SlotCount 行が時刻順に並ぶ。
type ShiftRecord struct {
	Timestamp   time.Time   `json:"timestamp"`
	Staff       string      `json:"staff"`
	Role        string      `json:"role"`
	Employment  string      `json:"employment"`
	Code        string      `json:"code"`
	HolidayType HolidayType `json:"holidayType"`
	SlotCount   int         `json:"slotCount"`
	SourceSheet string      `json:"sourceSheet"`
	RowNo       int         `json:"rowNo"` // 元シートの行番号（1 始まり）
}

// WorkPattern 勤務区分定義シートの 1 行
type WorkPattern struct {
	Code        string      `json:"code"`
	StartRaw    string      `json:"startRaw"` // シート上の生の開始時刻
	EndRaw      string      `json:"endRaw"`
	Start       string      `json:"start"` // 正規化済み "HH:MM"（休暇コードは空）
	End         string      `json:"end"`
	Slots       []string    `json:"slots"` // スロット開始時刻 "HH:MM" の列
	HolidayType HolidayType `json:"holidayType"`
	IsLeave     bool        `json:"isLeave"`
	SlotCount   int         `json:"slotCount"`
	Remarks     string      `json:"remarks"`
	RowNo       int         `json:"rowNo"`
}

// CodeSet 未知コードの集合
type CodeSet map[string]struct{}

// Add コードを追加
func (s CodeSet) Add(code string) {
	s[code] = struct{}{}
}

// Has コードが含まれるか
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Sorted ソート済みスライスに変換
func (s CodeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for code := range s {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// YearMonth 日付ヘッダー解決用のアンカー年月
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}
