package app

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
	"github.com/aryanbaranwal001/multiverse-finance/internal/pipeline"
	"github.com/aryanbaranwal001/multiverse-finance/internal/server"
	"github.com/aryanbaranwal001/multiverse-finance/internal/server/handler"
	"github.com/aryanbaranwal001/multiverse-finance/internal/server/ws"
	"github.com/aryanbaranwal001/multiverse-finance/internal/service"
	"github.com/aryanbaranwal001/multiverse-finance/internal/session"
)

// LiteMode serves the API on Redis alone: no purchase journal, no archiver.
// Purchases still confirm and broadcast, they are just not persisted.
func (a *App) LiteMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting lite mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startAPI(ctx, g, deps)
	return g.Wait()
}

// FullMode serves the API with the Postgres journal behind it and, when
// enabled, runs the cold-archive loop.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startAPI(ctx, g, deps)

	if a.cfg.Archive.Enabled && deps.Archiver != nil {
		archiver := pipeline.NewArchiver(deps.Archiver, a.cfg.Archive.RetentionDays, a.logger)
		g.Go(func() error {
			err := archiver.RunLoop(ctx, a.cfg.Archive.Interval.Duration)
			if ctx.Err() != nil {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}

// startAPI builds the services, handlers, WebSocket hub, and HTTP server, and
// adds their goroutines to the errgroup. The server shuts down gracefully when
// the context is cancelled.
func (a *App) startAPI(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	marketSvc := service.NewMarketService(deps.Catalog, deps.Bookmarks, deps.SignalBus, a.logger)

	tradeMode := domain.PurchaseModeSimulated
	if strings.ToLower(a.cfg.Trade.Mode) == "wallet" {
		tradeMode = domain.PurchaseModeWallet
	}
	tradeSvc := service.NewTradeService(service.TradeConfig{
		Mode:          tradeMode,
		SubmitTimeout: a.cfg.Trade.SubmitTimeout.Duration,
		LockTTL:       a.cfg.Trade.LockTTL.Duration,
	}, marketSvc, deps.Wallet, deps.PurchaseStore, deps.AuditStore, deps.LockManager, deps.SignalBus, a.logger)

	ticketSvc := service.NewTicketService(tradeSvc, a.logger)

	sentimentSvc := service.NewSentimentService(service.SentimentConfig{
		GenerateTimeout: a.cfg.Sentiment.GenerateTimeout.Duration,
	}, deps.SentimentProvider, deps.SentimentText, nil, a.logger)

	sessions := session.NewManager(deps.Preferences, a.logger)

	hub := ws.NewHub(deps.SignalBus, a.logger, ws.Config{
		Mode:      a.cfg.Mode,
		StartedAt: time.Now().UTC(),
	})
	g.Go(func() error {
		err := hub.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		RateLimit:   a.cfg.Server.RateLimit,
		RateWindow:  a.cfg.Server.RateWindow.Duration,
	}, server.Handlers{
		Health:    handler.NewHealthHandler(deps.Redis, a.logger),
		Markets:   handler.NewMarketHandler(marketSvc, a.logger),
		Trades:    handler.NewTradeHandler(tradeSvc, a.logger),
		Tickets:   handler.NewTicketHandler(ticketSvc, a.logger),
		Sentiment: handler.NewSentimentHandler(marketSvc, sentimentSvc, a.logger),
		History:   handler.NewHistoryHandler(marketSvc, a.logger),
		Session:   handler.NewSessionHandler(sessions, a.logger),
	}, hub, deps.RateLimiter, a.logger)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}
