package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
)

var reSpaces = regexp.MustCompile(`[\s　]+`)

// NormalizeText 全角→半角の折り畳みと空白の圧縮
// 職員名・職種などの表示文字列用。内部の連続空白は 1 個に畳む。
func NormalizeText(s string) string {
	s = width.Fold.String(s)
	s = strings.TrimSpace(s)
	return reSpaces.ReplaceAllString(s, " ")
}

// NormalizeCode シフトコード用の正規化
// 全角→半角へ折り畳み、空白を全て除去する。大文字小文字はコード表記の一部なので保持。
func NormalizeCode(s string) string {
	s = width.Fold.String(s)
	return reSpaces.ReplaceAllString(s, "")
}

// IsEmptyCell セルが「未入力」扱いかどうか
// pandas 経由の CSV 片に混ざる "nan" 文字列も未入力とみなす。
func IsEmptyCell(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "nan")
}

var weekdayTokens = map[string]struct{}{
	"月": {}, "火": {}, "水": {}, "木": {}, "金": {}, "土": {}, "日": {},
	"月曜": {}, "火曜": {}, "水曜": {}, "木曜": {}, "金曜": {}, "土曜": {}, "日曜": {},
	"月曜日": {}, "火曜日": {}, "水曜日": {}, "木曜日": {}, "金曜日": {}, "土曜日": {}, "日曜日": {},
	"MON": {}, "TUE": {}, "WED": {}, "THU": {}, "FRI": {}, "SAT": {}, "SUN": {},
	"MONDAY": {}, "TUESDAY": {}, "WEDNESDAY": {}, "THURSDAY": {}, "FRIDAY": {}, "SATURDAY": {}, "SUNDAY": {},
}

// IsWeekdayToken 曜日ラベルかどうか
// シート中に紛れ込むカレンダー由来の行・セルを弾くために使う。
func IsWeekdayToken(s string) bool {
	s = NormalizeCode(s)
	s = strings.Trim(s, "()（）")
	_, ok := weekdayTokens[strings.ToUpper(s)]
	return ok
}

var (
	reYearMonthJP  = regexp.MustCompile(`(\d{4})年\s*0?(\d{1,2})月`)
	reYearMonthSep = regexp.MustCompile(`^(\d{4})[/\-年.](\d{1,2})月?$`)
)

// ExtractYearMonth 文字列から年月を取り出す
// 対応形式: "2024年4月" / "2024/4" / "2024-04" / "2024.4"
func ExtractYearMonth(text string) (year, month int, found bool) {
	text = NormalizeText(text)
	if m := reYearMonthJP.FindStringSubmatch(text); len(m) >= 3 {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
	} else if m := reYearMonthSep.FindStringSubmatch(text); len(m) >= 3 {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
	} else {
		return 0, 0, false
	}
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

var (
	reMonthDay = regexp.MustCompile(`^(\d{1,2})[/\-月](\d{1,2})日?$`)
	reFullDate = regexp.MustCompile(`^(\d{4})[/\-年](\d{1,2})[/\-月](\d{1,2})日?$`)
	reBareDay  = regexp.MustCompile(`^0?(\d{1,2})日?$`)
)

// ParseHeaderDate 日付列ヘッダーを暦日に解釈する
// 対応形式: "YYYY-MM-DD" / "YYYY/M/D" / "M/D" / "D"（アンカー年月が必要）/
// excelize が日付セルを整形した "MM-DD-YY" 系。解釈できないヘッダーは
// 日付列ではないとみなして (zero, false) を返す。
func ParseHeaderDate(header string, anchor *model.YearMonth) (time.Time, bool) {
	h := NormalizeCode(header)
	if h == "" {
		return time.Time{}, false
	}
	// "4/1(月)" のような曜日付きヘッダー
	if i := strings.IndexAny(h, "(（"); i > 0 {
		h = h[:i]
	}

	if m := reFullDate.FindStringSubmatch(h); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	// excelize の既定表示 "01-02-06" (= 2006-01-02) を救済
	if t, err := time.Parse("01-02-06", h); err == nil {
		return t, true
	}

	if m := reMonthDay.FindStringSubmatch(h); m != nil {
		month, day := atoi(m[1]), atoi(m[2])
		year := resolveYear(month, anchor)
		if year == 0 {
			return time.Time{}, false
		}
		return makeDate(year, month, day)
	}

	if anchor != nil {
		if m := reBareDay.FindStringSubmatch(h); m != nil {
			return makeDate(anchor.Year, anchor.Month, atoi(m[1]))
		}
	}

	return time.Time{}, false
}

// resolveYear 月だけのヘッダーに年を与える
// アンカー年月から前後 6 か月以内になる年を選ぶ。
func resolveYear(month int, anchor *model.YearMonth) int {
	if anchor == nil {
		return 0
	}
	// 例: アンカー 2024年12月 のシートに現れる 1月 は翌年
	if month < anchor.Month && anchor.Month-month > 6 {
		return anchor.Year + 1
	}
	// 例: アンカー 2024年1月 のシートに現れる 12月 は前年
	if month > anchor.Month && month-anchor.Month > 6 {
		return anchor.Year - 1
	}
	return anchor.Year
}

func makeDate(year, month, day int) (time.Time, bool) {
	if year < 1900 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// 4/31 のような存在しない日付は弾く
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
