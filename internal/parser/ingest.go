package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
)

// 取込の致命エラー
// いずれも呼び出し側の設定不備を示すもので、推測で回復してはいけない。
var (
	ErrSheetNotFound    = errors.New("指定されたシートが存在しません")
	ErrPatternSheet     = errors.New("勤務区分定義シートが見つかりません")
	ErrAnchorUnreadable = errors.New("年月アンカーセルを読めません")
	ErrHeaderRowMissing = errors.New("ヘッダー行がシート範囲外です")
)

// IngestOptions 取込設定
type IngestOptions struct {
	Sheets        []string // 取り込むデータシート名（必須）
	HeaderRow     int      // ヘッダー行（0 始まり）
	SlotMinutes   int      // スロット幅（分）
	PatternSheet  string   // 勤務区分定義シート名（空ならマーカー検索）
	PatternMarker string   // 定義シート検索マーカー（空なら既定値）
	YearMonthCell string   // 年月アンカーセル（例 "A1"。空なら使わない）
}

// IngestResult 取込 1 回分の出力
// Records・Patterns・UnknownCodes は呼び出しごとに新規構築され、共有状態を持たない。
type IngestResult struct {
	Records      []model.ShiftRecord `json:"records"`
	Patterns     []model.WorkPattern `json:"patterns"`
	UnknownCodes []string            `json:"unknownCodes"`
	Report       model.IngestReport  `json:"report"`
}

// Ingestor 取込の実行体
// ワークブック 1 冊と設定を束ね、シート単位の取込を提供する。
// 勤務区分テーブルは構築後に変更されない。
type Ingestor struct {
	file       *excelize.File
	opts       IngestOptions
	patterns   *PatternTable
	classifier *Classifier
	unknown    model.CodeSet
	warnings   []string
	sheetName  string // 解決済みの定義シート名
}

// NewIngestor ワークブックに対する取込実行体を作る
// この時点で勤務区分テーブルを 1 回だけ構築する（全データシートで共有）。
func NewIngestor(f *excelize.File, opts IngestOptions) (*Ingestor, error) {
	if opts.SlotMinutes <= 0 {
		opts.SlotMinutes = 30
	}

	classifier := NewClassifier()

	patternSheet := opts.PatternSheet
	if patternSheet == "" {
		patternSheet = FindPatternSheet(f, opts.PatternMarker)
		if patternSheet == "" {
			return nil, ErrPatternSheet
		}
	} else if !sheetExists(f, patternSheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, patternSheet)
	}

	table, warnings, err := LoadWorkPatterns(f, patternSheet, opts.SlotMinutes, classifier)
	if err != nil {
		return nil, err
	}

	return &Ingestor{
		file:       f,
		opts:       opts,
		patterns:   table,
		classifier: classifier,
		unknown:    make(model.CodeSet),
		warnings:   warnings,
		sheetName:  patternSheet,
	}, nil
}

// PatternSheet 解決済みの定義シート名
func (ing *Ingestor) PatternSheet() string {
	return ing.sheetName
}

// Patterns 勤務区分テーブル
func (ing *Ingestor) Patterns() *PatternTable {
	return ing.patterns
}

// Unknown ここまでに見つかった未知コード
func (ing *Ingestor) Unknown() model.CodeSet {
	return ing.unknown
}

// Warnings 定義シート読込時の警告
func (ing *Ingestor) Warnings() []string {
	return ing.warnings
}

// IngestSheet データシート 1 枚を取り込む
// シートが開けない・アンカーが読めない場合のみエラー（致命）。
// 必須列の欠落はソフト失敗として SheetResult に載せ、エラーにはしない。
func (ing *Ingestor) IngestSheet(sheetName string) ([]model.ShiftRecord, model.SheetResult, error) {
	start := time.Now()
	result := model.SheetResult{SheetName: sheetName}

	rows, err := ing.file.GetRows(sheetName)
	if err != nil {
		return nil, result, fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
	}

	anchor, err := ing.readAnchor(sheetName)
	if err != nil {
		return nil, result, err
	}

	if ing.opts.HeaderRow < 0 || ing.opts.HeaderRow >= len(rows) {
		return nil, result, fmt.Errorf("%w: %q 行%d", ErrHeaderRowMissing, sheetName, ing.opts.HeaderRow)
	}

	layout, err := MapHeader(rows[ing.opts.HeaderRow], anchor)
	if err != nil {
		// シート単位のソフト失敗: このシートは 0 行で、取込自体は続行する
		result.Status = model.SheetStatusSkipped
		result.Warnings = append(result.Warnings, err.Error())
		result.Duration = time.Since(start)
		return nil, result, nil
	}

	normalizer := NewRowNormalizer(layout, ing.patterns, ing.classifier, sheetName)

	var records []model.ShiftRecord
	for i := ing.opts.HeaderRow + 1; i < len(rows); i++ {
		recs, kept := normalizer.NormalizeRow(rows[i], i+1, ing.unknown)
		if !kept {
			result.SkippedRows++
			continue
		}
		records = append(records, recs...)
	}

	result.Status = model.SheetStatusImported
	result.Records = len(records)
	result.SkippedCells = normalizer.SkippedCells()
	result.Duration = time.Since(start)
	return records, result, nil
}

// readAnchor シートの年月アンカーセルを読む
// セル指定がある場合、読めない・解釈できないときは致命エラー
// （曖昧な日付を黙って推測しない）。
func (ing *Ingestor) readAnchor(sheetName string) (*model.YearMonth, error) {
	cell := ing.opts.YearMonthCell
	if cell == "" {
		return nil, nil
	}

	value, err := ing.file.GetCellValue(sheetName, cell)
	if err != nil {
		return nil, fmt.Errorf("%w: %s!%s: %v", ErrAnchorUnreadable, sheetName, cell, err)
	}
	year, month, found := ExtractYearMonth(value)
	if !found {
		return nil, fmt.Errorf("%w: %s!%s = %q", ErrAnchorUnreadable, sheetName, cell, value)
	}
	return &model.YearMonth{Year: year, Month: month}, nil
}

// IngestWorkbook 開いたワークブックを設定どおり取り込む
func IngestWorkbook(f *excelize.File, filename string, opts IngestOptions) (*IngestResult, error) {
	start := time.Now()

	ing, err := NewIngestor(f, opts)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{
		Report: model.IngestReport{
			Filename:     filename,
			PatternSheet: ing.PatternSheet(),
			TotalSheets:  len(opts.Sheets),
			Warnings:     ing.Warnings(),
		},
	}

	for _, sheetName := range opts.Sheets {
		records, sheetResult, err := ing.IngestSheet(sheetName)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, records...)
		result.Report.Merge(sheetResult)
	}

	result.Patterns = ing.Patterns().Patterns()
	result.UnknownCodes = ing.Unknown().Sorted()
	result.Report.UnknownCodes = len(result.UnknownCodes)
	result.Report.Duration = time.Since(start)
	return result, nil
}

// IngestExcel ファイルパス指定の取込
// ファイルハンドルは成功・失敗を問わずここで閉じる。
func IngestExcel(path string, opts IngestOptions) (*IngestResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("Excel ファイルを開けません: %w", err)
	}
	defer f.Close()

	return IngestWorkbook(f, filepath.Base(path), opts)
}

func sheetExists(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}
