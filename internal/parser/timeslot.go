package parser

import (
	"fmt"
	"regexp"
	"strconv"
)

// ParseError 時刻文字列の検証エラー
// 取込全体を止めるものではなく、該当コードを休暇扱いに落とすための局所エラー。
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("時刻文字列を解釈できません %q: %s", e.Input, e.Reason)
}

var reClock = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// ParseClock "HH:MM" / "HH:MM:SS" を 0:00 からの分数に変換する
// "24:00" は日末センチネルとして 1440 を返す。秒は切り捨てる。
func ParseClock(s string) (int, error) {
	m := reClock.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Input: s, Reason: "HH:MM 形式ではありません"}
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return 0, &ParseError{Input: s, Reason: "分が範囲外です"}
	}
	if hour > 24 || (hour == 24 && minute > 0) {
		return 0, &ParseError{Input: s, Reason: "時が範囲外です"}
	}
	return hour*60 + minute, nil
}

// FormatClock 分数を "HH:MM" ラベルにする（日跨ぎ分は翌日の時刻に畳む）
func FormatClock(minutes int) string {
	minutes %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ExpandSlots start から end 直前まで slotMinutes 刻みのスロット開始ラベルを生成する
// 区間は半開 [start, end)。end <= start のときは日跨ぎ勤務としてそのまま翌日に続け、
// 返すラベルは "HH:MM" のまま（日付の割り当ては行正規化側の責務）。
// start == end は長さ 0 の展開（休暇相当）。
func ExpandSlots(start, end string, slotMinutes int) ([]string, error) {
	if slotMinutes <= 0 {
		return nil, &ParseError{Input: fmt.Sprintf("%d", slotMinutes), Reason: "スロット幅は正の分数が必要です"}
	}

	startMin, err := ParseClock(start)
	if err != nil {
		return nil, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return nil, err
	}

	// 長さ 0 の展開は字面どおり同時刻の場合のみ。"24:00" は日末であって 0:00 ではないので、
	// 00:00-24:00 はここを通らず丸一日の勤務として展開される。
	if startMin == endMin {
		return []string{}, nil
	}

	// "24:00" 始まりは翌日 0:00 と同義
	startMin %= 24 * 60

	if endMin <= startMin {
		endMin += 24 * 60
	}

	slots := make([]string, 0, (endMin-startMin)/slotMinutes+1)
	for t := startMin; t < endMin; t += slotMinutes {
		slots = append(slots, FormatClock(t))
	}
	return slots, nil
}
