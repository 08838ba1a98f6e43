package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makimaki1006/shift-suite-sub001/internal/config"
	"github.com/makimaki1006/shift-suite-sub001/internal/store"
)

// Handler API 処理器
type Handler struct {
	store  *store.Store
	cfg    *config.AppConfig
	logger *zap.Logger
}

// NewHandler API 処理器を作る
func NewHandler(st *store.Store, cfg *config.AppConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: st, cfg: cfg, logger: logger}
}

// RegisterRoutes API ルートを登録する
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// システム状態
	router.GET("/status", h.GetStatus)

	// 設定
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)

	// 取込
	router.POST("/ingest", h.Ingest)

	// データ照会
	router.GET("/records", h.ListRecords)
	router.GET("/patterns", h.ListPatterns)
	router.GET("/unknown-codes", h.ListUnknownCodes)

	// 取込履歴
	router.GET("/runs", h.ListRuns)
	router.DELETE("/runs/:id", h.DeleteRun)

	// 書き出し
	router.GET("/export", h.Export)
}
