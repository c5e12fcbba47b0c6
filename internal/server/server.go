package server

import (
	"context"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lendingScope/internal/enrich"
	"lendingScope/internal/model"
	"lendingScope/internal/registry"
)

// PoolSource supplies the current pool set.
type PoolSource interface {
	FetchPools(ctx context.Context) ([]model.RawPool, error)
}

// PositionService derives per-account position figures.
type PositionService interface {
	Summary(ctx context.Context, pool *model.EnrichedPool, account common.Address, quoteSymbol string) (model.PositionSummary, error)
	TotalCollateral(ctx context.Context, pool *model.EnrichedPool, account common.Address, quoteSymbol string) (float64, error)
}

// QuoteService converts a human-readable amount between tokens.
type QuoteService interface {
	Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn float64, position common.Address) (float64, bool, error)
}

// TokenValueSource reads the price helper's unit value for a token.
type TokenValueSource interface {
	TokenValue(ctx context.Context, token common.Address) (*big.Int, bool, error)
}

// Server exposes the read pipeline over HTTP.
type Server struct {
	chainID     uint64
	pools       PoolSource
	enricher    *enrich.Enricher
	positions   PositionService
	quoter      QuoteService
	tokenValues TokenValueSource
	registry    *registry.Registry
	logger      *zap.Logger
}

func New(chainID uint64, pools PoolSource, enricher *enrich.Enricher, positions PositionService, quoter QuoteService, tokenValues TokenValueSource, reg *registry.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		chainID:     chainID,
		pools:       pools,
		enricher:    enricher,
		positions:   positions,
		quoter:      quoter,
		tokenValues: tokenValues,
		registry:    reg,
		logger:      logger.Named("server"),
	}
}

// Router builds the gin engine. corsOrigins empty means allow all origins.
func (s *Server) Router(corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) > 0 {
		corsCfg.AllowOrigins = corsOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/pools", s.handlePools)
		v1.GET("/tokens", s.handleTokens)
		v1.GET("/tokens/:address/value", s.handleTokenValue)
		v1.GET("/positions/:account", s.handlePositionSummary)
		v1.GET("/positions/:account/collateral", s.handleCollateral)
		v1.GET("/quote", s.handleQuote)
	}

	return router
}

// Run serves the router until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, listen string, corsOrigins []string) error {
	srv := &http.Server{
		Addr:    listen,
		Handler: s.Router(corsOrigins),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", listen))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// findPool fetches the current pool set and returns the enriched pool whose
// address matches, nil if none does.
func (s *Server) findPool(ctx context.Context, poolAddress string) (*model.EnrichedPool, error) {
	raw, err := s.pools.FetchPools(ctx)
	if err != nil {
		return nil, err
	}
	for i := range raw {
		if strings.EqualFold(raw[i].ID, poolAddress) {
			enriched := s.enricher.Enrich(&raw[i], s.chainID)
			return &enriched, nil
		}
	}
	return nil, nil
}
