package parser

import (
	"errors"
	"reflect"
	"testing"
)

func TestExpandSlots_DayShift(t *testing.T) {
	t.Parallel()

	got, err := ExpandSlots("09:00", "17:00", 60)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected slots: %v", got)
	}
}

func TestExpandSlots_NightShiftWrapsMidnight(t *testing.T) {
	t.Parallel()

	got, err := ExpandSlots("22:00", "06:00", 60)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{"22:00", "23:00", "00:00", "01:00", "02:00", "03:00", "04:00", "05:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected slots: %v", got)
	}
}

func TestExpandSlots_EndOfDaySentinel(t *testing.T) {
	t.Parallel()

	got, err := ExpandSlots("22:00", "24:00", 30)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{"22:00", "22:30", "23:00", "23:30"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected slots: %v", got)
	}
}

func TestExpandSlots_FullDay(t *testing.T) {
	t.Parallel()

	// 00:00-24:00 は丸一日の勤務であって start == end ではない
	got, err := ExpandSlots("00:00", "24:00", 60)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(got) != 24 {
		t.Fatalf("want 24 slots, got %d: %v", len(got), got)
	}
	if got[0] != "00:00" || got[23] != "23:00" {
		t.Fatalf("unexpected boundary slots: %v", got)
	}

	// 字面どおり同時刻の 24:00-24:00 だけが長さ 0
	got, err = ExpandSlots("24:00", "24:00", 60)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty expansion, got %v", got)
	}
}

func TestExpandSlots_StartEqualsEnd(t *testing.T) {
	t.Parallel()

	got, err := ExpandSlots("09:00", "09:00", 30)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty expansion, got %v", got)
	}
}

func TestExpandSlots_SecondsAccepted(t *testing.T) {
	t.Parallel()

	got, err := ExpandSlots("09:00:00", "10:00:00", 30)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{"09:00", "09:30"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected slots: %v", got)
	}
}

func TestExpandSlots_IrregularGranularity(t *testing.T) {
	t.Parallel()

	// スロット幅が勤務長を割り切らないケース: 最後の部分スロットも開始が
	// [start, end) に入る限り出力される
	got, err := ExpandSlots("09:00", "10:10", 45)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{"09:00", "09:45"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected slots: %v", got)
	}

	// 日跨ぎ + 割り切れない幅でもラベルは単調に 1 日分を超えない
	got, err = ExpandSlots("23:30", "01:00", 40)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want = []string{"23:30", "00:10", "00:50"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected slots: %v", got)
	}
}

func TestExpandSlots_Malformed(t *testing.T) {
	t.Parallel()

	cases := [][2]string{
		{"9時", "17:00"},
		{"09:00", "25:00"},
		{"09:60", "17:00"},
		{"", "17:00"},
		{"abc", "def"},
	}
	for _, c := range cases {
		_, err := ExpandSlots(c[0], c[1], 30)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("(%q,%q) want ParseError, got %v", c[0], c[1], err)
		}
	}

	if _, err := ExpandSlots("09:00", "17:00", 0); err == nil {
		t.Fatalf("slotMinutes=0 should fail")
	}
}

func TestParseClock_EndOfDay(t *testing.T) {
	t.Parallel()

	min, err := ParseClock("24:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if min != 24*60 {
		t.Fatalf("unexpected minutes: %d", min)
	}
	if _, err := ParseClock("24:01"); err == nil {
		t.Fatalf("24:01 should fail")
	}
}
