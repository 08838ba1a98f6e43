package parser

import (
	"testing"
	"time"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
)

func TestNormalizeCode_WidthFolding(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Ａ":       "A",
		" 夜勤 ":    "夜勤",
		"Ｂ　２":     "B2",
		"early\t": "early",
	}
	for in, want := range cases {
		if got := NormalizeCode(in); got != want {
			t.Fatalf("NormalizeCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsWeekdayToken(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"月", "日", "水曜日", "Mon", "SAT", "（火）"} {
		if !IsWeekdayToken(s) {
			t.Fatalf("%q should be a weekday token", s)
		}
	}
	for _, s := range []string{"明", "夜勤", "A", "休"} {
		if IsWeekdayToken(s) {
			t.Fatalf("%q should not be a weekday token", s)
		}
	}
}

func TestExtractYearMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		year  int
		month int
	}{
		{"2024年4月", 2024, 4},
		{"2024年04月シフト表", 2024, 4},
		{"2024/4", 2024, 4},
		{"2024-12", 2024, 12},
		{"２０２４年４月", 2024, 4},
	}
	for _, c := range cases {
		y, m, found := ExtractYearMonth(c.in)
		if !found || y != c.year || m != c.month {
			t.Fatalf("ExtractYearMonth(%q) = (%d,%d,%v)", c.in, y, m, found)
		}
	}

	if _, _, found := ExtractYearMonth("備考"); found {
		t.Fatalf("非日付文字列から年月が取れてしまう")
	}
	if _, _, found := ExtractYearMonth("2024年13月"); found {
		t.Fatalf("13月は不正")
	}
}

func TestParseHeaderDate_Formats(t *testing.T) {
	t.Parallel()

	anchor := &model.YearMonth{Year: 2024, Month: 4}

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-04-01", date(2024, 4, 1)},
		{"2024/4/1", date(2024, 4, 1)},
		{"4/1", date(2024, 4, 1)},
		{"4月1日", date(2024, 4, 1)},
		{"1", date(2024, 4, 1)},
		{"15日", date(2024, 4, 15)},
		{"4/1(月)", date(2024, 4, 1)},
	}
	for _, c := range cases {
		got, ok := ParseHeaderDate(c.in, anchor)
		if !ok || !got.Equal(c.want) {
			t.Fatalf("ParseHeaderDate(%q) = (%v,%v), want %v", c.in, got, ok, c.want)
		}
	}
}

func TestParseHeaderDate_RejectsNonDates(t *testing.T) {
	t.Parallel()

	anchor := &model.YearMonth{Year: 2024, Month: 4}
	for _, s := range []string{"備考", "Unnamed: 5", "合計", "", "4/31"} {
		if _, ok := ParseHeaderDate(s, anchor); ok {
			t.Fatalf("%q が日付として解釈されてしまう", s)
		}
	}

	// アンカー無しでは裸の日番号は解決できない
	if _, ok := ParseHeaderDate("15", nil); ok {
		t.Fatalf("アンカー無しの裸日番号は日付列にならない")
	}
}

func TestParseHeaderDate_YearRollover(t *testing.T) {
	t.Parallel()

	// 12月アンカーのシートに現れる 1月 は翌年
	anchor := &model.YearMonth{Year: 2024, Month: 12}
	got, ok := ParseHeaderDate("1/5", anchor)
	if !ok || !got.Equal(date(2025, 1, 5)) {
		t.Fatalf("ParseHeaderDate(1/5) = (%v,%v)", got, ok)
	}

	// 1月アンカーのシートに現れる 12月 は前年
	anchor = &model.YearMonth{Year: 2024, Month: 1}
	got, ok = ParseHeaderDate("12/31", anchor)
	if !ok || !got.Equal(date(2023, 12, 31)) {
		t.Fatalf("ParseHeaderDate(12/31) = (%v,%v)", got, ok)
	}

	// 前後 6 か月以内はアンカー年のまま
	got, ok = ParseHeaderDate("4/1", anchor)
	if !ok || !got.Equal(date(2024, 4, 1)) {
		t.Fatalf("ParseHeaderDate(4/1) = (%v,%v)", got, ok)
	}
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
