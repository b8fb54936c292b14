package main

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-task-tracker/backend/internal/config"
	"go-task-tracker/backend/internal/database"
	"go-task-tracker/backend/internal/logger"
	"go-task-tracker/backend/internal/routes"
)

// newRootCmd はサブコマンドなしで実行された場合 serve と同じ動作をします。
func newRootCmd() *cobra.Command {
	var envFile string

	serve := func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap(envFile)
		if err != nil {
			return err
		}
		defer db.Close()

		gin.SetMode(cfg.GinMode)
		r := routes.SetupRouter(db, cfg)

		// サーバー起動
		log.WithField("addr", cfg.Addr()).Info("Server listening")
		return r.Run(cfg.Addr())
	}

	root := &cobra.Command{
		Use:           "api",
		Short:         "Task tracker REST API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to the .env file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Apply the schema and start the HTTP server",
		RunE:  serve,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap(envFile)
			if err != nil {
				return err
			}
			return db.Close()
		},
	})
	return root
}

// bootstrap は設定とロガーを初期化し、スキーマ適用済みのDB接続を返します。
func bootstrap(envFile string) (*config.Config, *sql.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(cfg)

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, nil, err
	}
	return cfg, db, nil
}
