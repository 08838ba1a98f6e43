package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makimaki1006/shift-suite-sub001/internal/exporter"
)

// Export 取込 1 回分を xlsx でダウンロードさせる
// GET /api/export?run_id=
func (h *Handler) Export(c *gin.Context) {
	runID, ok := h.resolveRunID(c)
	if !ok {
		return
	}
	if _, err := h.store.GetRun(runID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "取込記録が見つかりません"})
		return
	}

	f, err := exporter.NewExporter(h.store).Export(runID)
	if err != nil {
		h.logger.Error("書き出しに失敗しました", zap.String("run_id", runID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	filename := exporter.Filename(runID)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if _, err := f.WriteTo(c.Writer); err != nil {
		h.logger.Warn("書き出しの送信に失敗しました", zap.String("run_id", runID), zap.Error(err))
	}
}
