package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// PurchaseStore implements domain.PurchaseStore using PostgreSQL.
type PurchaseStore struct {
	pool *pgxpool.Pool
}

// NewPurchaseStore creates a new PurchaseStore backed by the given pool.
func NewPurchaseStore(pool *pgxpool.Pool) *PurchaseStore {
	return &PurchaseStore{pool: pool}
}

const purchaseColumns = `id, market_id, market_title, side, usd_amount,
	native_amount, projected_profit, mode, tx_hash, created_at`

// Insert journals one accepted purchase.
func (s *PurchaseStore) Insert(ctx context.Context, p domain.Purchase) error {
	const query = `
		INSERT INTO purchases (id, market_id, market_title, side, usd_amount,
			native_amount, projected_profit, mode, tx_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.MarketID, p.MarketTitle, string(p.Side), p.USDAmount,
		p.NativeAmount, p.ProjectedProfit, string(p.Mode), p.TxHash, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert purchase %s: %w", p.ID, err)
	}
	return nil
}

// GetByID returns one purchase, or domain.ErrNotFound.
func (s *PurchaseStore) GetByID(ctx context.Context, id string) (domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`

	p, err := scanPurchase(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Purchase{}, domain.ErrNotFound
		}
		return domain.Purchase{}, fmt.Errorf("postgres: get purchase %s: %w", id, err)
	}
	return p, nil
}

// ListByMarket returns purchases for one market, newest first.
func (s *PurchaseStore) ListByMarket(ctx context.Context, marketID string, opts domain.ListOpts) ([]domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE market_id = $1`
	args := []any{marketID}
	argIdx := 2

	if opts.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}
	if opts.Until != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *opts.Until)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	return s.queryPurchases(ctx, query, args...)
}

// ListRecent returns the newest purchases across all markets.
func (s *PurchaseStore) ListRecent(ctx context.Context, limit int) ([]domain.Purchase, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + purchaseColumns + ` FROM purchases ORDER BY created_at DESC LIMIT $1`
	return s.queryPurchases(ctx, query, limit)
}

// ListBefore returns purchases created strictly before the cutoff, oldest
// first, for the cold archiver.
func (s *PurchaseStore) ListBefore(ctx context.Context, before time.Time) ([]domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE created_at < $1 ORDER BY created_at ASC`
	return s.queryPurchases(ctx, query, before)
}

func (s *PurchaseStore) queryPurchases(ctx context.Context, query string, args ...any) ([]domain.Purchase, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: purchases rows: %w", err)
	}
	return purchases, nil
}

func scanPurchase(row pgx.Row) (domain.Purchase, error) {
	var p domain.Purchase
	var side, mode string
	err := row.Scan(&p.ID, &p.MarketID, &p.MarketTitle, &side, &p.USDAmount,
		&p.NativeAmount, &p.ProjectedProfit, &mode, &p.TxHash, &p.CreatedAt)
	if err != nil {
		return domain.Purchase{}, err
	}
	p.Side = domain.Side(side)
	p.Mode = domain.PurchaseMode(mode)
	return p, nil
}

// Compile-time interface check.
var _ domain.PurchaseStore = (*PurchaseStore)(nil)
