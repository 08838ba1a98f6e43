package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makimaki1006/shift-suite-sub001/internal/config"
)

// ConfigResponse 取込既定値の応答
type ConfigResponse struct {
	SlotMinutes   int      `json:"slotMinutes"`
	HeaderRow     int      `json:"headerRow"`
	Sheets        []string `json:"sheets"`
	PatternSheet  string   `json:"patternSheet"`
	PatternMarker string   `json:"patternMarker"`
	YearMonthCell string   `json:"yearMonthCell"`
}

// ConfigUpdateRequest 取込既定値の更新要求
// nil のフィールドは変更しない。
type ConfigUpdateRequest struct {
	SlotMinutes   *int      `json:"slotMinutes"`
	HeaderRow     *int      `json:"headerRow"`
	Sheets        *[]string `json:"sheets"`
	PatternSheet  *string   `json:"patternSheet"`
	PatternMarker *string   `json:"patternMarker"`
	YearMonthCell *string   `json:"yearMonthCell"`
}

// GetConfig 現在の取込既定値を返す
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.configResponse())
}

func (h *Handler) configResponse() ConfigResponse {
	ing := h.cfg.Ingest
	return ConfigResponse{
		SlotMinutes:   ing.SlotMinutes,
		HeaderRow:     ing.HeaderRow,
		Sheets:        ing.Sheets,
		PatternSheet:  ing.PatternSheet,
		PatternMarker: ing.PatternMarker,
		YearMonthCell: ing.YearMonthCell,
	}
}

// UpdateConfig 取込既定値を更新して config.toml に書き戻す
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req ConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON が不正です"})
		return
	}

	if req.SlotMinutes != nil {
		if *req.SlotMinutes <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slotMinutes は正の値が必要です"})
			return
		}
		h.cfg.Ingest.SlotMinutes = *req.SlotMinutes
	}
	if req.HeaderRow != nil {
		if *req.HeaderRow < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "headerRow は 0 以上が必要です"})
			return
		}
		h.cfg.Ingest.HeaderRow = *req.HeaderRow
	}
	if req.Sheets != nil {
		h.cfg.Ingest.Sheets = *req.Sheets
	}
	if req.PatternSheet != nil {
		h.cfg.Ingest.PatternSheet = *req.PatternSheet
	}
	if req.PatternMarker != nil {
		h.cfg.Ingest.PatternMarker = *req.PatternMarker
	}
	if req.YearMonthCell != nil {
		h.cfg.Ingest.YearMonthCell = *req.YearMonthCell
	}

	if err := config.SaveConfig(h.cfg); err != nil {
		h.logger.Warn("config.toml への書き戻しに失敗しました", zap.Error(err))
	}

	c.JSON(http.StatusOK, h.configResponse())
}
