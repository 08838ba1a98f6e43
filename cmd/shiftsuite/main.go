package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/makimaki1006/shift-suite-sub001/internal/config"
	"github.com/makimaki1006/shift-suite-sub001/internal/server"
)

var (
	port    = flag.Int("port", 0, "サーバーポート (config.toml より優先)")
	devMode = flag.Bool("dev", false, "開発モード")
	dataDir = flag.String("dataDir", "", "データディレクトリ (設定ファイルを上書き)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Shift Suite - シフト表取込ツール")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("設定の読込に失敗したため既定値を使います: %v", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logger, err := newLogger(cfg.Server.DevMode)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}
	defer logger.Sync()

	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		logger.Warn("データディレクトリを作れません", zap.Error(err))
	} else {
		fmt.Printf("データディレクトリ: %s\n", dir)
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("サーバーの初期化に失敗しました", zap.Error(err))
	}
	defer srv.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		fmt.Printf("ポート %d で待ち受けています...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			logger.Fatal("サーバーの起動に失敗しました", zap.Error(err))
		}
	}()

	fmt.Println("\nCtrl+C で停止します...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nサービスを終了します...")
}

func newLogger(devMode bool) (*zap.Logger, error) {
	if devMode {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
