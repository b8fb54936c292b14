// Package logger は logrus の初期化を行います。
package logger

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"go-task-tracker/backend/internal/config"
)

// Init はログレベルと出力先を設定します。
// LOG_FILE が指定されている場合は標準出力に加えてローテーションされるファイルにも書き込みます。
func Init(cfg *config.Config) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("unknown LOG_LEVEL %q, falling back to info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	log.SetOutput(Writer(cfg.LogFile))
}

// Writer はログの出力先を返します。
func Writer(file string) io.Writer {
	if file == "" {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   file,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
	})
}
