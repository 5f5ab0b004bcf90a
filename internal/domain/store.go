package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination and time filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

// PurchaseStore journals accepted buy-flow submissions.
type PurchaseStore interface {
	Insert(ctx context.Context, p Purchase) error
	GetByID(ctx context.Context, id string) (Purchase, error)
	ListByMarket(ctx context.Context, marketID string, opts ListOpts) ([]Purchase, error)
	ListRecent(ctx context.Context, limit int) ([]Purchase, error)
	// ListBefore returns purchases created strictly before the cutoff,
	// used by the cold archiver.
	ListBefore(ctx context.Context, before time.Time) ([]Purchase, error)
}

// AuditEntry is a single audit log row.
type AuditEntry struct {
	ID        int64
	Event     string
	Detail    map[string]any
	CreatedAt time.Time
}

// AuditStore persists an append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
	List(ctx context.Context, opts ListOpts) ([]AuditEntry, error)
	ListBefore(ctx context.Context, before time.Time) ([]AuditEntry, error)
}
