package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse システム状態の応答
type StatusResponse struct {
	Initialized  bool   `json:"initialized"`  // 取込済みデータがあるか
	LatestRunID  string `json:"latestRunId"`  // 最新の取込 ID
	Filename     string `json:"filename"`     // 最新取込のファイル名
	TotalRecords int    `json:"totalRecords"` // 最新取込のレコード数
	UnknownCodes int    `json:"unknownCodes"` // 最新取込の未知コード数
	LastIngestAt string `json:"lastIngestAt"` // 最新取込の開始時刻
	TotalRuns    int    `json:"totalRuns"`    // 取込履歴の件数
}

// GetStatus システム状態を返す
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	runs, err := h.store.ListRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(runs) == 0 {
		c.JSON(http.StatusOK, StatusResponse{Initialized: false})
		return
	}

	latest := runs[0]
	c.JSON(http.StatusOK, StatusResponse{
		Initialized:  true,
		LatestRunID:  latest.ID,
		Filename:     latest.Filename,
		TotalRecords: latest.TotalRecords,
		UnknownCodes: latest.UnknownCodes,
		LastIngestAt: latest.StartedAt.Format(time.RFC3339),
		TotalRuns:    len(runs),
	})
}
