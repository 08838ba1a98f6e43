package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makimaki1006/shift-suite-sub001/internal/api"
	"github.com/makimaki1006/shift-suite-sub001/internal/config"
	"github.com/makimaki1006/shift-suite-sub001/internal/store"
)

// Server HTTP サーバー
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
	logger *zap.Logger
}

// NewServer サーバーを作る
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "shiftsuite.db")

	st, err := store.New(dbPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: gin.Default(),
		store:  st,
		api:    api.NewHandler(st, cfg, logger),
		logger: logger,
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes ルートを設定する
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":   "shift-suite",
			"status": "ok",
		})
	})
}

// Run サーバーを起動する
func (s *Server) Run(addr string) error {
	s.logger.Info("サーバーを起動します", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close ストアを閉じる
func (s *Server) Close() error {
	return s.store.Close()
}

// Router テスト用
func (s *Server) Router() *gin.Engine {
	return s.router
}
