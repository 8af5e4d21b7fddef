package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"qna_web/internal/api"
	"qna_web/internal/logger"
	"qna_web/internal/repository"
	"qna_web/internal/service"
	"qna_web/internal/storage"
	"qna_web/pkg/config"
	"qna_web/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(configPath)
		},
	}

	root := &cobra.Command{
		Use:           "qna_web",
		Short:         "Q&A board backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "./pkg/config", "directory containing config.yaml")
	root.AddCommand(serveCmd, migrateCmd)

	return root
}

// bootstrap 載入配置、建立 logger 並連線資料庫
func bootstrap(configPath string) (*config.Config, zerolog.Logger, *storage.Database, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log := logger.New(config.LogConfig{Pretty: true})
		log.Error().Err(err).Msg("Failed to load config")
		return nil, log, nil, err
	}

	log := logger.New(cfg.Log)

	db, err := storage.Open(cfg.DB, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return nil, log, nil, err
	}

	// 自動遷移資料庫結構
	if err := db.AutoMigrate(); err != nil {
		db.Close()
		log.Error().Err(err).Msg("Failed to auto migrate database")
		return nil, log, nil, err
	}

	return cfg, log, db, nil
}

func migrate(configPath string) error {
	_, log, db, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info().Msg("database schema is up to date")
	return nil
}

func serve(ctx context.Context, configPath string) error {
	cfg, log, db, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tokens := utils.NewTokenManager(cfg.Auth.SecretKey, time.Duration(cfg.Auth.AccessTokenExpireMinutes)*time.Minute)
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, tokens, log)

	r := api.NewEngine(cfg.Server, log)
	api.SetupRoutes(r, services, cfg.Server)

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to run server")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// hijack 過的 websocket 連線不受 Shutdown 管理
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
