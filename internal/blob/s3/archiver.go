package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// ArchiveImpl implements domain.Archiver by querying the journal stores for
// aged rows, serializing them to JSONL, and uploading the result to S3.
//
// Deleting the archived rows from the primary store is intentionally NOT
// performed here; that is a separate, explicit step to run after the archive
// has been verified.
type ArchiveImpl struct {
	writer    domain.BlobWriter
	purchases domain.PurchaseStore
	audit     domain.AuditStore
}

// NewArchiver creates a new ArchiveImpl.
func NewArchiver(writer domain.BlobWriter, purchases domain.PurchaseStore, audit domain.AuditStore) *ArchiveImpl {
	return &ArchiveImpl{
		writer:    writer,
		purchases: purchases,
		audit:     audit,
	}
}

// ArchivePurchases uploads all purchases created before the cutoff to
// archive/purchases/YYYY-MM.jsonl and records the archival in the audit log.
// It returns the object path and the number of rows archived.
func (a *ArchiveImpl) ArchivePurchases(ctx context.Context, before time.Time) (string, int, error) {
	rows, err := a.purchases.ListBefore(ctx, before)
	if err != nil {
		return "", 0, fmt.Errorf("s3blob: archive purchases query: %w", err)
	}
	if len(rows) == 0 {
		return "", 0, nil
	}

	buf, err := marshalJSONL(rows)
	if err != nil {
		return "", 0, fmt.Errorf("s3blob: archive purchases marshal: %w", err)
	}

	path := archivePath("purchases", before)
	if err := a.upload(ctx, path, buf); err != nil {
		return "", 0, fmt.Errorf("s3blob: archive purchases upload: %w", err)
	}

	if err := a.audit.Log(ctx, "archive.purchases", map[string]any{
		"path":   path,
		"count":  len(rows),
		"before": before.Format(time.RFC3339),
	}); err != nil {
		return path, len(rows), fmt.Errorf("s3blob: archive purchases audit log: %w", err)
	}

	return path, len(rows), nil
}

// ArchiveAudit uploads all audit entries created before the cutoff to
// archive/audit/YYYY-MM.jsonl. It returns the object path and the number of
// rows archived.
func (a *ArchiveImpl) ArchiveAudit(ctx context.Context, before time.Time) (string, int, error) {
	rows, err := a.audit.ListBefore(ctx, before)
	if err != nil {
		return "", 0, fmt.Errorf("s3blob: archive audit query: %w", err)
	}
	if len(rows) == 0 {
		return "", 0, nil
	}

	buf, err := marshalJSONL(rows)
	if err != nil {
		return "", 0, fmt.Errorf("s3blob: archive audit marshal: %w", err)
	}

	path := archivePath("audit", before)
	if err := a.upload(ctx, path, buf); err != nil {
		return "", 0, fmt.Errorf("s3blob: archive audit upload: %w", err)
	}

	return path, len(rows), nil
}

// multipartThreshold is the payload size above which uploads switch from a
// single PutObject to the multipart manager.
const multipartThreshold = 8 * 1024 * 1024

// upload writes one JSONL archive object, choosing multipart for large
// months.
func (a *ArchiveImpl) upload(ctx context.Context, path string, buf []byte) error {
	if int64(len(buf)) >= multipartThreshold {
		return a.writer.PutMultipart(ctx, path, bytes.NewReader(buf), 0)
	}
	return a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson")
}

// archivePath builds the S3 key for an archive file, partitioned by the
// year-month of the cutoff time.
//
//	archive/purchases/2026-08.jsonl
//	archive/audit/2026-08.jsonl
func archivePath(kind string, before time.Time) string {
	return fmt.Sprintf("archive/%s/%s.jsonl", kind, before.Format("2006-01"))
}

// marshalJSONL serialises a slice of values as newline-delimited JSON. Each
// element becomes one compact JSON line.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// Compile-time interface check.
var _ domain.Archiver = (*ArchiveImpl)(nil)
