// Package database はストアへの接続とスキーマの適用を行います。
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"go-task-tracker/backend/internal/config"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// GetDSN は設定からドライバーごとの接続文字列 (DSN) を構築します。
func GetDSN(cfg *config.Config) string {
	if cfg.DBDriver == config.DriverSQLite {
		return cfg.DBPath + "?_foreign_keys=on"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// Open はデータベース接続を初期化し、疎通を確認します。
func Open(cfg *config.Config) (*sql.DB, error) {
	if cfg.DBDriver == config.DriverSQLite && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open(cfg.DBDriver, GetDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// SQLite は単一接続で書き込みを直列化する。:memory: は接続ごとに別DBになる。
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.WithField("driver", cfg.DBDriver).Info("Successfully connected to database")
	return db, nil
}

// Migrate は埋め込みスキーマを適用します。すべての文は IF NOT EXISTS なので繰り返し実行できます。
func Migrate(db *sql.DB, driver string) error {
	name := "schema/mysql.sql"
	if driver == config.DriverSQLite {
		name = "schema/sqlite.sql"
	}
	schema, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", name, err)
	}

	for _, stmt := range splitStatements(string(schema)) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %q: %w", firstLine(stmt), err)
		}
	}
	log.WithField("driver", driver).Info("Database schema is up to date")
	return nil
}

// splitStatements はスキーマをセミコロン区切りで分割します。
// MySQL ドライバーは multiStatements なしでは1回に1文しか実行できません。
func splitStatements(schema string) []string {
	var stmts []string
	for _, part := range strings.Split(schema, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
