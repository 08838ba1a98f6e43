package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/makimaki1006/shift-suite-sub001/internal/store"
)

// resolveRunID クエリの run_id。無指定なら最新の取込
func (h *Handler) resolveRunID(c *gin.Context) (string, bool) {
	if runID := c.Query("run_id"); runID != "" {
		return runID, true
	}
	run, err := h.store.LatestRun()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return "", false
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "取込データがありません"})
		return "", false
	}
	return run.ID, true
}

// ListRecords ロング形式レコードを返す
// GET /api/records?run_id=&staff=&role=&holiday_type=&from=&to=&limit=&offset=
func (h *Handler) ListRecords(c *gin.Context) {
	runID, ok := h.resolveRunID(c)
	if !ok {
		return
	}

	opts := store.RecordQueryOptions{RunID: &runID}
	if v := c.Query("staff"); v != "" {
		opts.Staff = &v
	}
	if v := c.Query("role"); v != "" {
		opts.Role = &v
	}
	if v := c.Query("holiday_type"); v != "" {
		opts.HolidayType = &v
	}
	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from の形式が不正です (YYYY-MM-DD)"})
			return
		}
		opts.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to の形式が不正です (YYYY-MM-DD)"})
			return
		}
		opts.To = &t
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Offset = n
		}
	}

	records, err := h.store.QueryRecords(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runId":   runID,
		"count":   len(records),
		"records": records,
	})
}

// ListPatterns 勤務区分テーブルを返す
// GET /api/patterns?run_id=
func (h *Handler) ListPatterns(c *gin.Context) {
	runID, ok := h.resolveRunID(c)
	if !ok {
		return
	}

	patterns, err := h.store.ListWorkPatterns(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runId":    runID,
		"count":    len(patterns),
		"patterns": patterns,
	})
}

// ListUnknownCodes 未知コード集合を返す
// GET /api/unknown-codes?run_id=
func (h *Handler) ListUnknownCodes(c *gin.Context) {
	runID, ok := h.resolveRunID(c)
	if !ok {
		return
	}

	codes, err := h.store.ListUnknownCodes(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if codes == nil {
		codes = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"runId": runID,
		"codes": codes,
	})
}

// ListRuns 取込履歴を新しい順に返す
// GET /api/runs
func (h *Handler) ListRuns(c *gin.Context) {
	runs, err := h.store.ListRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []store.IngestRun{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// DeleteRun 取込 1 回分を削除する
// DELETE /api/runs/:id
func (h *Handler) DeleteRun(c *gin.Context) {
	runID := c.Param("id")
	if _, err := h.store.GetRun(runID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "取込記録が見つかりません"})
		return
	}
	if err := h.store.DeleteRun(runID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": runID})
}
