package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubArchiver struct {
	mu            sync.Mutex
	purchaseCalls int
	auditCalls    int
	cutoffs       []time.Time
	purchaseErr   error
}

func (s *stubArchiver) ArchivePurchases(_ context.Context, before time.Time) (string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchaseCalls++
	s.cutoffs = append(s.cutoffs, before)
	if s.purchaseErr != nil {
		return "", 0, s.purchaseErr
	}
	return "archive/purchases/2026-08.jsonl", 3, nil
}

func (s *stubArchiver) ArchiveAudit(_ context.Context, before time.Time) (string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditCalls++
	return "archive/audit/2026-08.jsonl", 1, nil
}

func (s *stubArchiver) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purchaseCalls, s.auditCalls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestArchiverRunUsesRetentionCutoff(t *testing.T) {
	stub := &stubArchiver{}
	a := NewArchiver(stub, 30, testLogger())

	require.NoError(t, a.Run(context.Background()))
	purchases, audits := stub.calls()
	assert.Equal(t, 1, purchases)
	assert.Equal(t, 1, audits)

	wantCutoff := time.Now().UTC().Add(-30 * 24 * time.Hour)
	require.Len(t, stub.cutoffs, 1)
	assert.WithinDuration(t, wantCutoff, stub.cutoffs[0], time.Minute)
}

func TestArchiverRunStopsOnPurchaseError(t *testing.T) {
	stub := &stubArchiver{purchaseErr: errors.New("bucket gone")}
	a := NewArchiver(stub, 30, testLogger())

	err := a.Run(context.Background())
	require.Error(t, err)
	_, audits := stub.calls()
	assert.Equal(t, 0, audits)
}

func TestArchiverDefaultsRetention(t *testing.T) {
	a := NewArchiver(&stubArchiver{}, 0, testLogger())
	assert.Equal(t, 90, a.retentionDays)
}

func TestArchiverLoopRunsImmediatelyAndStops(t *testing.T) {
	stub := &stubArchiver{}
	a := NewArchiver(stub, 30, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunLoop(ctx, time.Hour) }()

	require.Eventually(t, func() bool {
		purchases, _ := stub.calls()
		return purchases >= 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}
