// cmd/datacleaner/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/cleaner"
	"github.com/David-Botos/data-cleaner/pkg/config"
	"github.com/David-Botos/data-cleaner/pkg/connector"
	"github.com/David-Botos/data-cleaner/pkg/converter"
	"github.com/David-Botos/data-cleaner/pkg/loader"
	"github.com/David-Botos/data-cleaner/pkg/logging"
	"github.com/David-Botos/data-cleaner/pkg/model"
	"github.com/David-Botos/data-cleaner/pkg/transfer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, cleanup, err := logging.New(logging.Options{
		Dir:    cfg.LogDir,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Cleaning run failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting "+config.ProjectName,
		zap.String("version", config.Version),
		zap.String("source", cfg.Source.Type))

	factory := connector.NewConnectorFactory(cfg, logger)
	conv := converter.NewTypeConverter(logger.Named("converter"))

	var pg *connector.PostgresConnector
	if cfg.NeedsPostgres() {
		var err error
		pg, err = factory.CreatePostgresConnector(ctx)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.Validate(ctx); err != nil {
			return err
		}
	}

	input, err := loadSource(ctx, cfg, factory, pg, conv, logger)
	if err != nil {
		return err
	}

	tc, err := cleaner.NewTableCleaner(input, cleanerOptions(cfg.Cleaner), logger)
	if err != nil {
		return err
	}
	cleaned, report, _ := tc.RunPipeline()

	if err := report.WriteTable(os.Stdout); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}
	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	logger.Debug("Report", zap.ByteString("report", encoded))

	if cfg.AuditEnabled {
		recorder, err := cleaner.NewOperationRecorder(ctx, pg.DB(), logger)
		if err != nil {
			return err
		}
		if err := recorder.RecordCleaningOperations(ctx, tc.Operations()); err != nil {
			return err
		}
	}

	if cfg.TransformerPath != "" {
		if err := saveTransformer(cfg.TransformerPath, tc); err != nil {
			return err
		}
		logger.Info("Saved transformer parameters", zap.String("path", cfg.TransformerPath))
	}

	if cfg.Output.Table != "" {
		if err := writeOutput(ctx, cfg.Output, pg, conv, cleaned, logger); err != nil {
			return err
		}
	}

	logger.Info("Cleaning run completed", zap.String("run_id", tc.RunID()))
	return nil
}

func loadSource(
	ctx context.Context,
	cfg *config.Config,
	factory *connector.ConnectorFactory,
	pg *connector.PostgresConnector,
	conv *converter.TypeConverter,
	logger *zap.Logger,
) (*model.Table, error) {
	switch cfg.Source.Type {
	case config.SourceCSV:
		return loader.ReadCSVFile(cfg.Source.Path)
	case config.SourceXLSX:
		return loader.ReadXLSXFile(cfg.Source.Path, cfg.Source.Sheet)
	default:
		conn, err := factory.CreateSourceConnector(ctx, pg)
		if err != nil {
			return nil, err
		}
		if conn != connector.DatabaseConnector(pg) {
			defer conn.Close()
		}
		if err := conn.Validate(ctx); err != nil {
			return nil, err
		}
		return connector.LoadTable(ctx, conn, conv, cfg.Source.Query, cfg.Source.QueryTimeout, logger)
	}
}

// writeOutput loads the cleaned table into PostgreSQL and, when enabled,
// verifies what landed there
func writeOutput(
	ctx context.Context,
	out config.OutputConfig,
	pg *connector.PostgresConnector,
	conv *converter.TypeConverter,
	cleaned *model.Table,
	logger *zap.Logger,
) error {
	verifier := transfer.NewVerifier(pg, conv, logger.Named("verifier"))

	var baseline int64
	if out.Verify {
		var err error
		baseline, err = verifier.CountRows(ctx, out.Schema, out.Table)
		if err != nil {
			return err
		}
	}

	if _, err := pg.WriteTable(ctx, conv, out.Schema, out.Table, cleaned, out.BatchSize); err != nil {
		return fmt.Errorf("failed to write cleaned table: %w", err)
	}

	if !out.Verify {
		return nil
	}
	report, err := verifier.VerifyTable(ctx, out.Schema, out.Table, cleaned, baseline)
	if err != nil {
		return err
	}
	if !report.Passed() {
		return fmt.Errorf("verification of %s.%s failed: %d rows (expected %d), %d structure discrepancies",
			out.Schema, out.Table, report.TargetRowCount, report.ExpectedRowCount, len(report.StructureDiscrepancies))
	}
	return nil
}

func cleanerOptions(c config.CleanerConfig) cleaner.Options {
	opts := cleaner.DefaultOptions()
	opts.PresenceThreshold = c.PresenceThreshold
	opts.IQRMultiplier = c.IQRMultiplier
	opts.CoercionTolerance = c.CoercionTolerance
	opts.TemporalParseThreshold = c.TemporalParseThreshold
	opts.IdentifierRatio = c.IdentifierRatio
	opts.MaxCategories = c.MaxCategories
	opts.RareCategoryFrequency = c.RareCategoryFrequency
	opts.NearIdentifierRatio = c.NearIdentifierRatio
	opts.TemporalImputation = cleaner.TemporalImputation(c.TemporalImputation)
	return opts
}

func saveTransformer(path string, tc *cleaner.TableCleaner) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transformer file: %w", err)
	}
	defer f.Close()
	return tc.Transformer().Save(f)
}
