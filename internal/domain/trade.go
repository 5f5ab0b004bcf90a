package domain

import (
	"fmt"
	"strings"
	"time"
)

// Side is the outcome a user buys exposure to.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// ParseSide normalises a user-supplied side string.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return SideYes, nil
	case "no":
		return SideNo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSide, s)
	}
}

// PurchaseMode distinguishes how a submission was settled.
type PurchaseMode string

const (
	// PurchaseModeSimulated confirms immediately without touching a chain.
	PurchaseModeSimulated PurchaseMode = "simulated"
	// PurchaseModeWallet routed the purchase through the on-chain wallet
	// adapter.
	PurchaseModeWallet PurchaseMode = "wallet"
)

// Purchase is the journal record of one accepted buy-flow submission. It is a
// record of what the user asked for, not a settled position.
type Purchase struct {
	ID              string       `json:"id"`
	MarketID        string       `json:"market_id"`
	MarketTitle     string       `json:"market_title"`
	Side            Side         `json:"side"`
	USDAmount       float64      `json:"usd_amount"`
	NativeAmount    float64      `json:"native_amount,omitempty"`
	ProjectedProfit float64      `json:"projected_profit"`
	Mode            PurchaseMode `json:"mode"`
	TxHash          string       `json:"tx_hash,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// TxResult is what the wallet adapter reports back after a submitted
// transaction has been confirmed.
type TxResult struct {
	Hash         string
	NativeAmount float64
	GasUsed      uint64
}
