package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drewhammond/folio-api/internal/ai"
	"github.com/drewhammond/folio-api/internal/config"
	"github.com/drewhammond/folio-api/internal/content"
	"github.com/drewhammond/folio-api/internal/credentials"
	"github.com/drewhammond/folio-api/internal/generator"
	"github.com/drewhammond/folio-api/internal/ingestion"
	"github.com/drewhammond/folio-api/internal/observability"
	"github.com/drewhammond/folio-api/internal/pdf"
	"github.com/drewhammond/folio-api/internal/server"
	"github.com/drewhammond/folio-api/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for creating, inspecting, and retrying document generation runs.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := observability.SetDefault()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	if jwtCfg == nil {
		logger.Warn("JWT_SECRET not set, editor endpoints disabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pg.Close()

	files := store.NewLocalFiles(cfg.FilesDir)
	factory := ai.NewFactory(credentials.NewResolver(nil))
	orch := generator.New(pg, factory, pdf.NewRenderer(), files, logger)

	srv := server.New(cfg.Port, server.Deps{
		Orchestrator:    orch,
		Records:         pg,
		Content:         content.NewPGRepository(pg.Pool()),
		Fetcher:         ingestion.NewFetcher(),
		JWT:             server.NewJWTService(jwtCfg),
		Logger:          logger,
		DefaultProvider: cfg.Provider(),
	})

	return srv.Start()
}
