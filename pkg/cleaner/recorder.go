// pkg/cleaner/recorder.go
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// OperationRecorder persists the audit trail of cleaning runs
type OperationRecorder struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewOperationRecorder creates a recorder and ensures its tracking table exists
func NewOperationRecorder(ctx context.Context, db *sqlx.DB, logger *zap.Logger) (*OperationRecorder, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	recorder := &OperationRecorder{
		db:     db,
		logger: logger.Named("recorder"),
	}

	if err := recorder.setupCleaningTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to setup cleaning table: %w", err)
	}

	return recorder, nil
}

// setupCleaningTable ensures the cleaned_on_ingress tracking table exists
func (r *OperationRecorder) setupCleaningTable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS public.cleaned_on_ingress (
			id SERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			stage TEXT NOT NULL,
			column_name TEXT NOT NULL,
			original_value TEXT,
			new_value TEXT,
			affected_rows INTEGER NOT NULL,
			cleaning_operation TEXT NOT NULL,
			cleaning_reason TEXT NOT NULL,
			cleaned_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := r.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	r.logger.Info("Ensured cleaned_on_ingress table exists")
	return nil
}

// RecordCleaningOperations inserts operations in a single transaction
func (r *OperationRecorder) RecordCleaningOperations(ctx context.Context, operations []model.CleaningOperation) (err error) {
	if len(operations) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction",
					zap.NamedError("rollback_error", rbErr),
					zap.Error(err))
			}
		}
	}()

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO public.cleaned_on_ingress
		(run_id, stage, column_name, original_value, new_value,
		 affected_rows, cleaning_operation, cleaning_reason, cleaned_at)
		VALUES (:run_id, :stage, :column_name, :original_value, :new_value,
		 :affected_rows, :cleaning_operation, :cleaning_reason, :cleaned_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, op := range operations {
		if _, err = stmt.ExecContext(ctx, op); err != nil {
			return fmt.Errorf("failed to insert cleaning operation: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("Recorded cleaning operations", zap.Int("count", len(operations)))
	return nil
}
