package model

import "time"

// シート処理ステータス
const (
	SheetStatusImported = "imported"
	SheetStatusSkipped  = "skipped"
	SheetStatusError    = "error"
)

// SheetResult データシート 1 枚の取込結果
type SheetResult struct {
	SheetName    string        `json:"sheetName"`
	Status       string        `json:"status"` // imported/skipped/error
	Records      int           `json:"records"`
	SkippedRows  int           `json:"skippedRows"`  // 職員・職種とも空などで捨てた行数
	SkippedCells int           `json:"skippedCells"` // 未知コード・曜日ラベルで捨てたセル数
	Warnings     []string      `json:"warnings,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// IngestReport 取込 1 回分のレポート
type IngestReport struct {
	Filename       string        `json:"filename"`
	PatternSheet   string        `json:"patternSheet"`
	TotalSheets    int           `json:"totalSheets"`
	ImportedSheets int           `json:"importedSheets"`
	SkippedSheets  int           `json:"skippedSheets"`
	TotalRecords   int           `json:"totalRecords"`
	UnknownCodes   int           `json:"unknownCodes"`
	Warnings       []string      `json:"warnings,omitempty"` // 勤務区分シート由来の警告
	Duration       time.Duration `json:"duration"`
	Sheets         []SheetResult `json:"sheets"`
}

// Merge シート結果をレポートに反映する
func (r *IngestReport) Merge(res SheetResult) {
	r.Sheets = append(r.Sheets, res)
	switch res.Status {
	case SheetStatusImported:
		r.ImportedSheets++
		r.TotalRecords += res.Records
	case SheetStatusSkipped:
		r.SkippedSheets++
	}
}
