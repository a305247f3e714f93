// Command sweep runs the folder integrity sweep against the database and
// prints the cleanup report as JSON. Run it before applying the unique
// root-folder migration; exit code 1 means some applications could not be
// fixed and the constraint must not be applied yet.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"loandesk/internal/config"
	"loandesk/internal/repository/postgres"
	"loandesk/internal/service"
)

var (
	confFile   = flag.String("config", "", "Optional YAML config file path")
	reportFile = flag.String("report", "", "Write JSON report to path instead of stdout")
)

// sweepConfig is the YAML file shape; every field falls back to the
// environment when empty
type sweepConfig struct {
	DatabaseURL string `yaml:"database_url"`
	TablePrefix string `yaml:"table_prefix"`
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg := config.Load()
	databaseURL := cfg.DatabaseURL
	tablePrefix := cfg.TablePrefix

	if *confFile != "" {
		fileCfg, err := loadSweepConfig(*confFile)
		if err != nil {
			logger.Error("unable to load config file", "path", *confFile, "error", err)
			os.Exit(2)
		}
		if fileCfg.DatabaseURL != "" {
			databaseURL = fileCfg.DatabaseURL
		}
		if fileCfg.TablePrefix != "" {
			tablePrefix = fileCfg.TablePrefix
		}
	}

	if databaseURL == "" {
		logger.Error("no database URL configured (set DATABASE_URL or use -config)")
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, databaseURL)
	if err != nil {
		logger.Error("unable to connect", "error", err)
		os.Exit(2)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(tablePrefix),
		Logger: logger,
	}
	appRepo := postgres.NewApplicationRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	consolidation := service.NewConsolidationService(appRepo, folderRepo, fileRepo, txManager, logger)
	sweep := service.NewSweepService(folderRepo, consolidation, logger)

	report, err := sweep.Run(ctx)
	if err != nil {
		logger.Error("sweep failed", "error", err)
		os.Exit(2)
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("unable to encode report", "error", err)
		os.Exit(2)
	}

	if *reportFile != "" {
		if err := os.WriteFile(*reportFile, payload, 0644); err != nil {
			logger.Error("unable to write report", "path", *reportFile, "error", err)
			os.Exit(2)
		}
	} else {
		fmt.Println(string(payload))
	}

	if report.Failures() > 0 {
		logger.Warn("sweep finished with failures", "failures", report.Failures())
		os.Exit(1)
	}
}

func loadSweepConfig(path string) (*sweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg sweepConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}
