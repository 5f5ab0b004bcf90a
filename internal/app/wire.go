package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/aryanbaranwal001/multiverse-finance/internal/blob/s3"
	"github.com/aryanbaranwal001/multiverse-finance/internal/cache/redis"
	"github.com/aryanbaranwal001/multiverse-finance/internal/catalog"
	"github.com/aryanbaranwal001/multiverse-finance/internal/config"
	appcrypto "github.com/aryanbaranwal001/multiverse-finance/internal/crypto"
	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
	"github.com/aryanbaranwal001/multiverse-finance/internal/platform/chain"
	"github.com/aryanbaranwal001/multiverse-finance/internal/platform/gemini"
	"github.com/aryanbaranwal001/multiverse-finance/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	// Catalog
	Catalog *catalog.Catalog

	// Redis is the shared hot-state client; the health endpoint pings it.
	Redis *redis.Client

	// Stores (nil in lite mode)
	PurchaseStore domain.PurchaseStore
	AuditStore    domain.AuditStore

	// Caches
	Bookmarks     domain.BookmarkStore
	Preferences   domain.PreferenceStore
	SentimentText domain.SentimentCache
	RateLimiter   domain.RateLimiter
	LockManager   domain.LockManager
	SignalBus     domain.SignalBus

	// Blob storage (nil unless archiving is wired)
	BlobWriter domain.BlobWriter
	Archiver   domain.Archiver

	// Settlement
	Wallet domain.Wallet

	// Sentiment generation (nil when no API key is configured)
	SentimentProvider domain.SentimentProvider
}

// needsPostgres returns true for modes that require the journal database.
func needsPostgres(mode string) bool {
	return mode == "full"
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Market catalog (embedded seed data) ---
	cat, err := catalog.LoadSeed()
	if err != nil {
		return nil, nil, fmt.Errorf("wire: catalog: %w", err)
	}
	deps.Catalog = cat

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.Redis = redisClient
	deps.Bookmarks = redis.NewBookmarkCache(redisClient)
	deps.Preferences = redis.NewPreferenceCache(redisClient)
	deps.SentimentText = redis.NewSentimentCache(redisClient)
	deps.RateLimiter = redis.NewRateLimiter(redisClient)
	deps.LockManager = redis.NewLockManager(redisClient)
	deps.SignalBus = redis.NewSignalBus(redisClient)

	// --- PostgreSQL journal (full mode only) ---
	if needsPostgres(cfg.Mode) {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.PurchaseStore = postgres.NewPurchaseStore(pool)
		deps.AuditStore = postgres.NewAuditStore(pool)
	}

	// --- S3 cold archive (requires the journal) ---
	if cfg.Archive.Enabled && deps.PurchaseStore != nil {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		deps.Archiver = s3blob.NewArchiver(deps.BlobWriter, deps.PurchaseStore, deps.AuditStore)
	}

	// --- Settlement wallet ---
	switch cfg.Trade.Mode {
	case "wallet":
		wallet, err := chain.NewWallet(ctx, chain.Config{
			RPCURL:          cfg.Wallet.RPCURL,
			ChainID:         cfg.Wallet.ChainID,
			ContractAddress: cfg.Wallet.ContractAddress,
			Key: appcrypto.KeyConfig{
				RawPrivateKey:    cfg.Wallet.PrivateKey,
				EncryptedKeyPath: cfg.Wallet.EncryptedKeyPath,
				KeyPassword:      cfg.Wallet.KeyPassword,
			},
			USDCentsPerNative: cfg.Wallet.USDCentsPerNative,
		}, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: wallet: %w", err)
		}
		closers = append(closers, wallet.Close)
		deps.Wallet = wallet
	default:
		deps.Wallet = chain.NewMockWallet(cfg.Trade.MockBalance)
	}

	// --- Sentiment provider (optional) ---
	if cfg.Sentiment.APIKey != "" {
		provider, err := gemini.NewProvider(ctx, gemini.Config{
			APIKey: cfg.Sentiment.APIKey,
			Model:  cfg.Sentiment.Model,
		}, logger)
		if err != nil {
			// The app still runs; sentiment degrades to canned text.
			logger.WarnContext(ctx, "wire: sentiment provider unavailable, using fallback text",
				slog.String("error", err.Error()),
			)
		} else {
			deps.SentimentProvider = provider
		}
	}

	return deps, cleanup, nil
}
