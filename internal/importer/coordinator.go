package importer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/makimaki1006/shift-suite-sub001/internal/model"
	"github.com/makimaki1006/shift-suite-sub001/internal/parser"
	"github.com/makimaki1006/shift-suite-sub001/internal/store"
)

// Coordinator 取込の調整役
// パーサーの出力をストアへ書き込み、進捗イベントを流す。
type Coordinator struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCoordinator 取込調整役を作る
func NewCoordinator(st *store.Store, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{store: st, logger: logger}
}

// ImportOptions 取込オプション
type ImportOptions struct {
	FilePath      string
	Ingest        parser.IngestOptions
	ClearExisting bool // 過去の取込をすべて消してから入れるか
}

// ProgressEvent 進捗イベント
type ProgressEvent struct {
	Type      string    `json:"type"`    // start/info/warning/sheet_start/sheet_done/done/error
	Message   string    `json:"message"` // イベントメッセージ
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ImportSummary done イベントに載せる取込結果
type ImportSummary struct {
	RunID  string             `json:"runId"`
	Report model.IngestReport `json:"report"`
}

// Import 取込を実行し、進捗チャネルを返す
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(opts, progressChan)
	}()

	return progressChan
}

func (c *Coordinator) doImport(opts ImportOptions, progressChan chan ProgressEvent) {
	startTime := time.Now()
	filename := filepath.Base(opts.FilePath)

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "start",
		Message:   "Excel ファイルの取込を開始します",
		Data:      map[string]string{"filename": filename},
		Timestamp: time.Now(),
	})

	file, err := excelize.OpenFile(opts.FilePath)
	if err != nil {
		c.fail(progressChan, fmt.Sprintf("ファイルを開けません: %v", err))
		return
	}
	defer file.Close()

	ing, err := parser.NewIngestor(file, opts.Ingest)
	if err != nil {
		c.fail(progressChan, fmt.Sprintf("取込を準備できません: %v", err))
		return
	}

	// 取込対象シート。指定がなければ定義シート以外のすべて
	sheets := opts.Ingest.Sheets
	if len(sheets) == 0 {
		for _, name := range file.GetSheetList() {
			if name != ing.PatternSheet() {
				sheets = append(sheets, name)
			}
		}
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("勤務区分 %d 件を読み込みました（定義シート: %s）", ing.Patterns().Len(), ing.PatternSheet()),
		Data: map[string]any{
			"pattern_sheet": ing.PatternSheet(),
			"patterns":      ing.Patterns().Len(),
			"total_sheets":  len(sheets),
		},
		Timestamp: time.Now(),
	})
	for _, w := range ing.Warnings() {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   w,
			Timestamp: time.Now(),
		})
	}

	if opts.ClearExisting {
		if err := c.clearExisting(progressChan); err != nil {
			c.fail(progressChan, fmt.Sprintf("既存データを消せません: %v", err))
			return
		}
	}

	runID, err := c.store.CreateRun(filename, ing.PatternSheet(), opts.Ingest.SlotMinutes)
	if err != nil {
		c.fail(progressChan, fmt.Sprintf("取込記録を作れません: %v", err))
		return
	}

	report := model.IngestReport{
		Filename:     filename,
		PatternSheet: ing.PatternSheet(),
		TotalSheets:  len(sheets),
		Warnings:     ing.Warnings(),
	}

	for _, sheetName := range sheets {
		c.processSheet(ing, runID, sheetName, &report, progressChan)
	}

	if err := c.store.SaveWorkPatterns(runID, ing.Patterns().Patterns()); err != nil {
		c.fail(progressChan, fmt.Sprintf("勤務区分を保存できません: %v", err))
		return
	}

	unknown := ing.Unknown().Sorted()
	if err := c.store.SaveUnknownCodes(runID, unknown); err != nil {
		c.fail(progressChan, fmt.Sprintf("未知コードを保存できません: %v", err))
		return
	}
	if len(unknown) > 0 {
		c.logger.Warn("未知の勤務コードがありました",
			zap.String("run_id", runID),
			zap.Strings("codes", unknown))
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   fmt.Sprintf("未知の勤務コード %d 件: %v", len(unknown), unknown),
			Data:      map[string]any{"codes": unknown},
			Timestamp: time.Now(),
		})
	}

	report.UnknownCodes = len(unknown)
	report.Duration = time.Since(startTime)

	if err := c.store.FinishRun(runID, report.TotalRecords, len(unknown), report.Duration); err != nil {
		c.logger.Warn("取込記録の更新に失敗しました", zap.String("run_id", runID), zap.Error(err))
	}

	c.logger.Info("取込が完了しました",
		zap.String("run_id", runID),
		zap.String("filename", filename),
		zap.Int("records", report.TotalRecords),
		zap.Int("sheets", report.ImportedSheets),
		zap.Duration("duration", report.Duration))

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "done",
		Message:   "取込が完了しました",
		Data:      ImportSummary{RunID: runID, Report: report},
		Timestamp: time.Now(),
	})
}

// processSheet データシート 1 枚を取り込んで保存する
// パーサーの致命エラーもここではシート単位の error 結果に落とし、取込全体は続行する。
func (c *Coordinator) processSheet(ing *parser.Ingestor, runID, sheetName string, report *model.IngestReport, progressChan chan ProgressEvent) {
	sheetStart := time.Now()

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "sheet_start",
		Message:   fmt.Sprintf("シートを解析しています: %s", sheetName),
		Data:      map[string]string{"sheet_name": sheetName},
		Timestamp: time.Now(),
	})

	records, result, err := ing.IngestSheet(sheetName)
	if err != nil {
		result.Status = model.SheetStatusError
		result.Warnings = append(result.Warnings, err.Error())
		result.Duration = time.Since(sheetStart)
		report.Merge(result)
		c.logger.Warn("シートの取込に失敗しました", zap.String("sheet", sheetName), zap.Error(err))
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("シート %q の取込に失敗: %v", sheetName, err),
			Timestamp: time.Now(),
		})
		return
	}

	if result.Status == model.SheetStatusSkipped {
		report.Merge(result)
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   fmt.Sprintf("シート %q をスキップしました: %v", sheetName, result.Warnings),
			Timestamp: time.Now(),
		})
		return
	}

	if err := c.store.BatchInsertRecords(runID, records); err != nil {
		result.Status = model.SheetStatusError
		result.Records = 0
		result.Warnings = append(result.Warnings, fmt.Sprintf("一括挿入に失敗しました: %v", err))
		result.Duration = time.Since(sheetStart)
		report.Merge(result)
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("シート %q の保存に失敗: %v", sheetName, err),
			Timestamp: time.Now(),
		})
		return
	}

	report.Merge(result)
	c.sendProgress(progressChan, ProgressEvent{
		Type:    "sheet_done",
		Message: fmt.Sprintf("シート %q の取込が完了: %d 件", sheetName, result.Records),
		Data: map[string]any{
			"sheet_name": sheetName,
			"records":    result.Records,
		},
		Timestamp: time.Now(),
	})
}

// clearExisting 過去の取込をすべて削除する
func (c *Coordinator) clearExisting(progressChan chan ProgressEvent) error {
	runs, err := c.store.ListRuns()
	if err != nil {
		return err
	}
	for _, run := range runs {
		if err := c.store.DeleteRun(run.ID); err != nil {
			return err
		}
	}
	if len(runs) > 0 {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "info",
			Message:   fmt.Sprintf("既存の取込 %d 件を削除しました", len(runs)),
			Timestamp: time.Now(),
		})
	}
	return nil
}

func (c *Coordinator) fail(progressChan chan ProgressEvent, message string) {
	c.logger.Error("取込に失敗しました", zap.String("reason", message))
	c.sendProgress(progressChan, ProgressEvent{
		Type:      "error",
		Message:   message,
		Timestamp: time.Now(),
	})
}

func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// チャネルが満杯なら捨てる
	}
}
