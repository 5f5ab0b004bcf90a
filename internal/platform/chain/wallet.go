// Package chain implements the on-chain wallet adapter for purchase
// settlement on an EVM network.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	appcrypto "github.com/aryanbaranwal001/multiverse-finance/internal/crypto"
	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// DefaultUSDCentsPerNative is the fixed USD-cents price of one native token
// used to convert order sizes.
const DefaultUSDCentsPerNative = 421

// purchaseGasLimit caps gas for one settlement call.
const purchaseGasLimit = 200_000

// Config holds connection and signing parameters for the wallet adapter.
type Config struct {
	// RPCURL is the JSON-RPC endpoint of the EVM node.
	RPCURL string

	// ChainID selects the network for EIP-155 replay protection.
	ChainID int64

	// ContractAddress is the settlement contract, hex encoded.
	ContractAddress string

	// Key resolves the signing key.
	Key appcrypto.KeyConfig

	// USDCentsPerNative overrides the fixed conversion rate when > 0.
	USDCentsPerNative int
}

// Wallet submits purchases as signed transactions against the settlement
// contract. It satisfies domain.Wallet.
type Wallet struct {
	client   *ethclient.Client
	pk       *ecdsa.PrivateKey
	address  common.Address
	contract common.Address
	chainID  *big.Int
	rate     int
	logger   *slog.Logger
}

// NewWallet dials the RPC endpoint, resolves the signing key, and returns a
// connected Wallet.
func NewWallet(ctx context.Context, cfg Config, logger *slog.Logger) (*Wallet, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("chain: rpc url is required")
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("chain: invalid contract address %q", cfg.ContractAddress)
	}

	keyHex, err := appcrypto.LoadKey(cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("chain: load key: %w", err)
	}
	pk, err := ethcrypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("chain: parse key: %w", err)
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", cfg.RPCURL, err)
	}

	rate := cfg.USDCentsPerNative
	if rate <= 0 {
		rate = DefaultUSDCentsPerNative
	}

	w := &Wallet{
		client:   client,
		pk:       pk,
		address:  ethcrypto.PubkeyToAddress(pk.PublicKey),
		contract: common.HexToAddress(cfg.ContractAddress),
		chainID:  big.NewInt(cfg.ChainID),
		rate:     rate,
		logger:   logger,
	}

	logger.InfoContext(ctx, "chain: wallet connected",
		slog.String("address", w.address.Hex()),
		slog.Int64("chain_id", cfg.ChainID),
	)
	return w, nil
}

// Connected reports whether the adapter holds a live client and key.
func (w *Wallet) Connected() bool {
	return w != nil && w.client != nil && w.pk != nil
}

// SubmitPurchase sends a signed settlement transaction and waits for it to be
// mined. The USD amount is converted to native value at the fixed rate; the
// market is identified on chain by the keccak hash of its ID.
func (w *Wallet) SubmitPurchase(ctx context.Context, marketID string, side domain.Side, usdAmount float64) (domain.TxResult, error) {
	native := usdAmount * 100 / float64(w.rate)
	value := nativeToWei(native)
	data := purchaseCalldata(marketID, side)

	nonce, err := w.client.PendingNonceAt(ctx, w.address)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: pending nonce: %w", err)
	}
	gasPrice, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: suggest gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, w.contract, value, purchaseGasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.NewEIP155Signer(w.chainID), w.pk)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: sign tx: %w", err)
	}

	if err := w.client.SendTransaction(ctx, signed); err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: send tx: %w", err)
	}

	w.logger.InfoContext(ctx, "chain: purchase submitted",
		slog.String("tx_hash", signed.Hash().Hex()),
		slog.String("market_id", marketID),
		slog.String("side", string(side)),
	)

	receipt, err := bind.WaitMined(ctx, w.client, signed)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("chain: wait mined %s: %w", signed.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return domain.TxResult{}, fmt.Errorf("chain: tx %s reverted", signed.Hash().Hex())
	}

	return domain.TxResult{
		Hash:         signed.Hash().Hex(),
		NativeAmount: native,
		GasUsed:      receipt.GasUsed,
	}, nil
}

// NativeBalance returns the signer's balance in whole native tokens.
func (w *Wallet) NativeBalance(ctx context.Context) (float64, error) {
	wei, err := w.client.BalanceAt(ctx, w.address, nil)
	if err != nil {
		return 0, fmt.Errorf("chain: balance: %w", err)
	}
	return weiToNative(wei), nil
}

// Address returns the signer's address.
func (w *Wallet) Address() string {
	return w.address.Hex()
}

// Close releases the RPC connection.
func (w *Wallet) Close() {
	w.client.Close()
}

// purchaseCalldata encodes a buyYes(uint256)/buyNo(uint256) call, passing the
// keccak hash of the market ID as the uint256 argument.
func purchaseCalldata(marketID string, side domain.Side) []byte {
	sig := "buyYes(uint256)"
	if side == domain.SideNo {
		sig = "buyNo(uint256)"
	}
	selector := ethcrypto.Keccak256([]byte(sig))[:4]
	arg := ethcrypto.Keccak256([]byte(marketID))

	data := make([]byte, 0, 4+32)
	data = append(data, selector...)
	data = append(data, arg...)
	return data
}

var weiPerNative = new(big.Float).SetFloat64(1e18)

func nativeToWei(native float64) *big.Int {
	f := new(big.Float).Mul(new(big.Float).SetFloat64(native), weiPerNative)
	wei, _ := f.Int(nil)
	return wei
}

func weiToNative(wei *big.Int) float64 {
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerNative)
	out, _ := f.Float64()
	return out
}

// Compile-time interface check.
var _ domain.Wallet = (*Wallet)(nil)
