package chain

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// MockWallet settles purchases instantly with deterministic transaction
// hashes. It backs simulated deployments and tests.
type MockWallet struct {
	mu      sync.Mutex
	rate    int
	balance float64
	seq     uint64
}

// NewMockWallet creates a MockWallet with the given starting balance in
// native tokens.
func NewMockWallet(balance float64) *MockWallet {
	return &MockWallet{rate: DefaultUSDCentsPerNative, balance: balance}
}

// Connected always reports true.
func (w *MockWallet) Connected() bool { return true }

// SubmitPurchase converts the USD amount at the fixed rate, debits the mock
// balance, and fabricates a stable hash from the call sequence.
func (w *MockWallet) SubmitPurchase(_ context.Context, marketID string, side domain.Side, usdAmount float64) (domain.TxResult, error) {
	native := usdAmount * 100 / float64(w.rate)

	w.mu.Lock()
	defer w.mu.Unlock()
	if native > w.balance {
		return domain.TxResult{}, fmt.Errorf("chain: insufficient mock balance %.4f for %.4f", w.balance, native)
	}
	w.balance -= native
	w.seq++

	digest := ethcrypto.Keccak256([]byte(fmt.Sprintf("%s|%s|%d", marketID, side, w.seq)))
	return domain.TxResult{
		Hash:         "0x" + hex.EncodeToString(digest),
		NativeAmount: native,
		GasUsed:      21_000,
	}, nil
}

// NativeBalance returns the remaining mock balance.
func (w *MockWallet) NativeBalance(_ context.Context) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance, nil
}

// Compile-time interface check.
var _ domain.Wallet = (*MockWallet)(nil)
