// Package pipeline holds the background workers that run alongside the API:
// currently the cold-archive loop that copies old journal rows to object
// storage.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// Archiver copies aged purchase and audit rows from the database to S3 cold
// storage on a fixed interval.
type Archiver struct {
	blobArchiver  domain.Archiver
	retentionDays int
	logger        *slog.Logger
}

// NewArchiver creates a new Archiver.
func NewArchiver(blobArchiver domain.Archiver, retentionDays int, logger *slog.Logger) *Archiver {
	if retentionDays < 1 {
		retentionDays = 90
	}
	return &Archiver{
		blobArchiver:  blobArchiver,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Run executes a single archive pass. The cutoff is now minus the retention
// window; rows older than it are written to object storage. The journal rows
// stay in place, so a pass rewrites the same month object until they are
// pruned out of band; journal retention is a separate, explicit step run
// after an archive has been verified.
func (a *Archiver) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-time.Duration(a.retentionDays) * 24 * time.Hour)
	a.logger.InfoContext(ctx, "archiver: starting run",
		slog.Time("cutoff", cutoff),
		slog.Int("retention_days", a.retentionDays),
	)

	purchasePath, purchaseCount, err := a.blobArchiver.ArchivePurchases(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archiver: purchases before %v: %w", cutoff, err)
	}
	if purchaseCount > 0 {
		a.logger.InfoContext(ctx, "archiver: archived purchases",
			slog.Int("count", purchaseCount),
			slog.String("path", purchasePath),
		)
	}

	auditPath, auditCount, err := a.blobArchiver.ArchiveAudit(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archiver: audit entries before %v: %w", cutoff, err)
	}
	if auditCount > 0 {
		a.logger.InfoContext(ctx, "archiver: archived audit entries",
			slog.Int("count", auditCount),
			slog.String("path", auditPath),
		)
	}

	a.logger.InfoContext(ctx, "archiver: run complete",
		slog.Int("purchases_archived", purchaseCount),
		slog.Int("audit_archived", auditCount),
	)
	return nil
}

// RunLoop runs one archive pass immediately and then repeats on the given
// interval until the context is cancelled. Individual pass failures are
// logged, not fatal.
func (a *Archiver) RunLoop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	a.logger.InfoContext(ctx, "archiver: loop started",
		slog.Duration("interval", interval),
	)

	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		a.logger.ErrorContext(ctx, "archiver: run failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.InfoContext(ctx, "archiver: loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := a.Run(ctx); err != nil && ctx.Err() == nil {
				a.logger.ErrorContext(ctx, "archiver: run failed", slog.String("error", err.Error()))
			}
		}
	}
}
