package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"ledgerlink/constants"
	"ledgerlink/internal/assemble"
	"ledgerlink/internal/classify"
	"ledgerlink/internal/common"
	"ledgerlink/internal/export"
	"ledgerlink/internal/ingest"
	"ledgerlink/internal/match"
	"ledgerlink/internal/normalize"
	"ledgerlink/internal/pipeline"
	"ledgerlink/internal/reconcile"
	repo "ledgerlink/internal/repository"
)

func main() {
	_ = godotenv.Load(".env")

	// Setup structured logger that outputs messages with variables but no time/level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pol := classify.DefaultPolicy()
	if cfg.Matching.FolioPattern != "" {
		re, err := regexp.Compile(cfg.Matching.FolioPattern)
		if err != nil {
			logger.Error("invalid FOLIO_PATTERN", "pattern", cfg.Matching.FolioPattern, "error", err)
			os.Exit(2)
		}
		pol.FolioPattern = re
	}
	if len(cfg.Matching.ExtraPlaceholder) > 0 {
		pol.Placeholders = make(map[string]struct{}, len(cfg.Matching.ExtraPlaceholder))
		for _, tok := range cfg.Matching.ExtraPlaceholder {
			pol.Placeholders[strings.ToLower(tok)] = struct{}{}
		}
	}

	aliases, err := match.LoadAliasTable(cfg.Matching.AliasTablePath)
	if err != nil {
		logger.Error("failed to load alias table", "path", cfg.Matching.AliasTablePath, "error", err)
		os.Exit(1)
	}

	raws, err := ingest.ReadPageRecordsCSV(cfg.Inputs.PagesPath, logger)
	if err != nil {
		logger.Error("failed to read page records", "path", cfg.Inputs.PagesPath, "error", err)
		os.Exit(1)
	}
	entries, err := ingest.ReadLedger(cfg.Inputs.LedgerPath, logger)
	if err != nil {
		logger.Error("failed to read ledger", "path", cfg.Inputs.LedgerPath, "error", err)
		os.Exit(1)
	}

	proc := pipeline.NewProcessor(logger,
		normalize.New(logger),
		assemble.New(pol, logger),
		reconcile.New(pol, logger),
		match.NewMatcher(aliases, logger),
	)
	res, err := proc.Run(ctx, raws, entries)
	if err != nil {
		logger.Error("reconciliation run failed", "error", err)
		os.Exit(1)
	}

	report, err := export.NewService(logger).BuildRunReportXLSX(res)
	if err != nil {
		logger.Error("failed to build report", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(cfg.Export.ReportPath, report, 0o644); err != nil {
		logger.Error("failed to write report", "path", cfg.Export.ReportPath, "error", err)
		os.Exit(1)
	}
	logger.Info("report written", "path", cfg.Export.ReportPath)

	if cfg.Database.DSN != "" {
		db, pool, err := repo.Open(ctx, repo.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer repo.Close(db, pool, logger)

		if err := repo.Migrate(ctx, db); err != nil {
			logger.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}
		runs := repo.NewRunRepository(db, pool != nil, logger)
		if err := runs.SaveRun(ctx, uuid.New(), constants.RunStatusReconciled, res); err != nil {
			logger.Error("failed to persist run", "error", err)
			os.Exit(1)
		}
	}
}
