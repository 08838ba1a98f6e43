package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/makimaki1006/shift-suite-sub001/internal/importer"
	"github.com/makimaki1006/shift-suite-sub001/internal/parser"
)

// Ingest Excel ファイルを取り込む (SSE ストリーム応答)
// POST /api/ingest
func (h *Handler) Ingest(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "フォームデータが不正です"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "アップロードファイルがありません"})
		return
	}
	uploadedFile := files[0]

	tempFilePath := filepath.Join(os.TempDir(),
		fmt.Sprintf("shiftsuite_ingest_%d_%s", time.Now().Unix(), filepath.Base(uploadedFile.Filename)))
	if err := c.SaveUploadedFile(uploadedFile, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ファイルの保存に失敗しました"})
		return
	}
	defer os.Remove(tempFilePath)

	opts := importer.ImportOptions{
		FilePath:      tempFilePath,
		Ingest:        h.ingestOptions(c),
		ClearExisting: c.DefaultPostForm("clearExisting", "false") == "true",
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ストリーム応答に対応していません"})
		return
	}

	coordinator := importer.NewCoordinator(h.store, h.logger)
	for event := range coordinator.Import(opts) {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// ingestOptions フォーム値と設定から取込オプションを組み立てる
// フォーム値が優先、無指定は config.toml の値に従う。
func (h *Handler) ingestOptions(c *gin.Context) parser.IngestOptions {
	ing := h.cfg.Ingest
	opts := parser.IngestOptions{
		HeaderRow:     ing.HeaderRow,
		SlotMinutes:   ing.SlotMinutes,
		Sheets:        ing.Sheets,
		PatternSheet:  ing.PatternSheet,
		PatternMarker: ing.PatternMarker,
		YearMonthCell: ing.YearMonthCell,
	}

	if v := c.PostForm("sheets"); v != "" {
		var sheets []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sheets = append(sheets, s)
			}
		}
		opts.Sheets = sheets
	}
	if v := c.PostForm("headerRow"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.HeaderRow = n
		}
	}
	if v := c.PostForm("slotMinutes"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.SlotMinutes = n
		}
	}
	if v := c.PostForm("patternSheet"); v != "" {
		opts.PatternSheet = v
	}
	if v := c.PostForm("yearMonthCell"); v != "" {
		opts.YearMonthCell = v
	}
	return opts
}
