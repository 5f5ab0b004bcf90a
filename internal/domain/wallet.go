package domain

import "context"

// Wallet is the capability interface over the external chain wallet. The core
// treats it as a black box: no retries, no confirmation polling of its own.
// Implementations are the live EVM adapter and a deterministic mock, chosen
// by configuration at wire time.
type Wallet interface {
	// Connected reports whether the adapter holds a usable signing identity.
	Connected() bool

	// SubmitPurchase submits a side-specific purchase for the given market
	// and USD amount, converted to the native unit by the adapter's fixed
	// exchange rate. It blocks until the transaction is confirmed or the
	// context expires.
	SubmitPurchase(ctx context.Context, marketID string, side Side, usdAmount float64) (TxResult, error)

	// NativeBalance returns the signing account's native-token balance.
	NativeBalance(ctx context.Context) (float64, error)
}
