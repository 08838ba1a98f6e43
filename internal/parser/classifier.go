package parser

import (
	"strings"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
)

// Classifier 休暇コード分類器
// 分類の優先順位は 登録簿 > 時刻欠落（構造判定） > 備考文字列 > 通常勤務 で固定。
// 登録簿・備考ルールはコンストラクタで構築したあと変更しない。
type Classifier struct {
	registry    map[string]model.HolidayType
	remarkRules []remarkRule
}

type remarkRule struct {
	substr string
	htype  model.HolidayType
}

// NewClassifier 既定の登録簿を持つ分類器を作る
func NewClassifier() *Classifier {
	c := &Classifier{
		registry: map[string]model.HolidayType{
			// 希望休
			"×":   model.HolidayRequested,
			"X":   model.HolidayRequested,
			"希":   model.HolidayRequested,
			"希望休": model.HolidayRequested,
			// 有給
			"有":    model.HolidayPaid,
			"有給":   model.HolidayPaid,
			"有休":   model.HolidayPaid,
			"年休":   model.HolidayPaid,
			"有給休暇": model.HolidayPaid,
			// 施設休業
			"施設休": model.HolidayFacility,
			"休館":  model.HolidayFacility,
			// その他休暇
			"休":   model.HolidayOther,
			"公":   model.HolidayOther,
			"公休":  model.HolidayOther,
			"欠":   model.HolidayOther,
			"欠勤":  model.HolidayOther,
			"OFF": model.HolidayOther,
			"-":   model.HolidayOther,
			"−":   model.HolidayOther,
			"/":   model.HolidayOther,
		},
		remarkRules: []remarkRule{
			{"有給", model.HolidayPaid},
			{"年休", model.HolidayPaid},
			{"希望休", model.HolidayRequested},
			{"施設休", model.HolidayFacility},
			{"休業", model.HolidayFacility},
			{"欠勤", model.HolidayOther},
			{"休暇", model.HolidayOther},
			{"休み", model.HolidayOther},
		},
	}
	return c
}

// RegistryType 登録簿でのコード照合
// 照合は正規化（全角折り畳み・空白除去）後、英字は大文字に寄せて行う。
func (c *Classifier) RegistryType(code string) (model.HolidayType, bool) {
	key := strings.ToUpper(NormalizeCode(code))
	h, ok := c.registry[key]
	return h, ok
}

// IsLeaveCode コード単体で休暇と断定できるか（登録簿照合のみ）
func (c *Classifier) IsLeaveCode(code string) bool {
	_, ok := c.RegistryType(code)
	return ok
}

// Classify 勤務区分定義 1 行分の休暇区分を決める
// startRaw/endRaw は定義シートの生の時刻文字列（構造判定に使う）、
// remarks は同じ行の備考列。戻り値 2 つ目は is_leave。
func (c *Classifier) Classify(code, startRaw, endRaw, remarks string) (model.HolidayType, bool) {
	if h, ok := c.RegistryType(code); ok {
		return h, true
	}

	// 時刻の欠落は文言によらず休暇（構造判定）
	if IsEmptyCell(startRaw) || IsEmptyCell(endRaw) {
		return c.remarkType(remarks, model.HolidayOther), true
	}

	if h, ok := c.matchRemarks(remarks); ok {
		return h, true
	}

	return model.HolidayNormal, false
}

// remarkType 備考で区分を補正する（ヒットしなければ fallback）
func (c *Classifier) remarkType(remarks string, fallback model.HolidayType) model.HolidayType {
	if h, ok := c.matchRemarks(remarks); ok {
		return h
	}
	return fallback
}

func (c *Classifier) matchRemarks(remarks string) (model.HolidayType, bool) {
	r := NormalizeText(remarks)
	if r == "" {
		return model.HolidayNormal, false
	}
	for _, rule := range c.remarkRules {
		if strings.Contains(r, rule.substr) {
			return rule.htype, true
		}
	}
	return model.HolidayNormal, false
}
