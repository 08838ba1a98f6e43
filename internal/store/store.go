package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store SQLite ストレージ層
// 取込結果（ロング形式テーブル・勤務区分・未知コード）の置き場で、
// 不足集計などの下流はこのテーブル群だけを読む。
type Store struct {
	db *sql.DB
}

// New Store を作る
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("データディレクトリを作れません: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("データベースを開けません: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("データベースに接続できません: %w", err)
	}

	// SQLite は単一接続運用
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗しました: %w", err)
	}

	return store, nil
}

// initSchema 埋め込みスキーマで初期化する
func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("schema.sql を読めません: %w", err)
	}

	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("スキーマ実行に失敗しました: %w", err)
	}

	return nil
}

// Close 接続を閉じる
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB 生の接続（トランザクション等の高度な操作用）
func (s *Store) DB() *sql.DB {
	return s.db
}

// Exec SQL を実行する
func (s *Store) Exec(query string, args ...any) error {
	_, err := s.db.Exec(query, args...)
	return err
}

// QueryRow 1 行クエリ
func (s *Store) QueryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(query, args...)
}

// Query 複数行クエリ
func (s *Store) Query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(query, args...)
}
