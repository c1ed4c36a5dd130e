package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/prp-extractor/internal/auth"
	"github.com/jonathan/prp-extractor/internal/config"
	"github.com/jonathan/prp-extractor/internal/db"
	"github.com/jonathan/prp-extractor/internal/llm"
	"github.com/jonathan/prp-extractor/internal/notion"
	"github.com/jonathan/prp-extractor/internal/tools"
	"github.com/jonathan/prp-extractor/internal/youtube"
)

const version = "0.1.0"

var serveLogLevel string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long:  `Start the PRP extractor as an MCP server speaking JSON-RPC over stdin/stdout.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Override LOG_LEVEL (trace, debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveLogLevel != "" {
		cfg.LogLevel = serveLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Stdout carries the MCP protocol; all logging goes to stderr.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.Development() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	videos, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey, logger)
	if err != nil {
		return fmt.Errorf("failed to create YouTube client: %w", err)
	}

	gemini, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer func() { _ = gemini.Close() }()

	extractor, err := llm.NewExtractor(gemini)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	var syncer tools.PageSyncer
	if cfg.NotionEnabled() {
		syncer = notion.NewClient(cfg.NotionToken, logger)
	}

	handler := tools.NewHandler(tools.Options{
		Store:             store,
		Videos:            videos,
		Extractor:         extractor,
		Syncer:            syncer,
		Authorizer:        auth.NewAllowList(cfg.AllowedUsers),
		Username:          cfg.Username,
		DefaultDatabaseID: cfg.NotionDatabaseID,
		Logger:            logger,
	})

	s := server.NewMCPServer(
		"prp-extractor",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	tools.Register(s, handler)

	logger.Info().
		Str("environment", cfg.Environment).
		Bool("notion_enabled", cfg.NotionEnabled()).
		Str("username", cfg.Username).
		Msg("starting prp extractor server")

	return server.ServeStdio(s)
}
