package domain

import (
	"context"
	"io"
	"time"
)

// BlobWriter uploads objects to cold storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error
}

// Archiver moves aged journal rows out of the primary store into object
// storage. Deleting the archived rows is a separate, explicit step and is
// not part of this interface.
type Archiver interface {
	ArchivePurchases(ctx context.Context, before time.Time) (string, int, error)
	ArchiveAudit(ctx context.Context, before time.Time) (string, int, error)
}
