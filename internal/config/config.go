package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig アプリ設定
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Ingest IngestConfig `toml:"ingest"`
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig データ設定
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// IngestConfig 取込の既定設定
// アップロード時に指定が無かった項目はここの値が使われる。
type IngestConfig struct {
	SlotMinutes   int      `toml:"slot_minutes"`
	HeaderRow     int      `toml:"header_row"` // 0 始まり
	Sheets        []string `toml:"sheets"`     // 空なら勤務区分シート以外の全シート
	PatternSheet  string   `toml:"pattern_sheet"`
	PatternMarker string   `toml:"pattern_marker"`
	YearMonthCell string   `toml:"year_month_cell"`
}

// DefaultConfig 既定設定
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20412,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Ingest: IngestConfig{
			SlotMinutes:   30,
			HeaderRow:     0,
			PatternMarker: "勤務区分",
		},
	}
}

// GetExeDir 実行ファイルのあるディレクトリ
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig 実行ファイルと同じディレクトリの config.toml を読む
// 無ければ既定設定を返す。
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	data, err := os.ReadFile(filepath.Join(exeDir, "config.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig config.toml に書き戻す
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(exeDir, "config.toml"), data, 0644)
}

// EnsureDataDir データディレクトリと配下のサブディレクトリを用意する
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)
	for _, sub := range []string{"", "uploads", "exports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
