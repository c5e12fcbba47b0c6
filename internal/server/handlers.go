package server

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lendingScope/internal/model"
)

type poolsResponse struct {
	Pools []model.EnrichedPool `json:"pools"`
}

type tokenEntry struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Logo     string `json:"logo,omitempty"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

type collateralResponse struct {
	Account         string  `json:"account"`
	Pool            string  `json:"pool"`
	QuoteSymbol     string  `json:"quote_symbol"`
	TotalCollateral float64 `json:"total_collateral"`
}

type quoteResponse struct {
	AmountOut float64 `json:"amount_out"`
	Quoted    bool    `json:"quoted"`
}

func (s *Server) handlePools(c *gin.Context) {
	raw, err := s.pools.FetchPools(c.Request.Context())
	if err != nil {
		s.logger.Warn("pools fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "indexer unavailable"})
		return
	}
	c.JSON(http.StatusOK, poolsResponse{Pools: s.enricher.EnrichAll(raw, s.chainID)})
}

func (s *Server) handleTokens(c *gin.Context) {
	tokens := s.registry.Tokens()
	out := make([]tokenEntry, 0, len(tokens))
	for _, token := range tokens {
		addr, ok := token.Addresses[s.chainID]
		if !ok {
			continue
		}
		out = append(out, tokenEntry{
			Name:     token.Name,
			Symbol:   token.Symbol,
			Logo:     token.Logo,
			Address:  addr.Hex(),
			Decimals: token.Decimals,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tokens": out})
}

func (s *Server) handleTokenValue(c *gin.Context) {
	token, ok := hexParam(c, c.Param("address"), "address")
	if !ok {
		return
	}

	value, issued, err := s.tokenValues.TokenValue(c.Request.Context(), token)
	if err != nil {
		s.logger.Warn("token value failed", zap.String("token", token.Hex()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "chain read failed"})
		return
	}
	if !issued {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token value not available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token.Hex(), "value": value.String()})
}

func (s *Server) handlePositionSummary(c *gin.Context) {
	account, poolAddr, ok := s.positionParams(c)
	if !ok {
		return
	}

	pool, err := s.findPool(c.Request.Context(), poolAddr)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "indexer unavailable"})
		return
	}

	summary, err := s.positions.Summary(c.Request.Context(), pool, account, c.Query("quote"))
	if err != nil {
		s.logger.Warn("summary failed", zap.String("pool", poolAddr), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "chain read failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleCollateral(c *gin.Context) {
	account, poolAddr, ok := s.positionParams(c)
	if !ok {
		return
	}

	pool, err := s.findPool(c.Request.Context(), poolAddr)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "indexer unavailable"})
		return
	}

	quote := c.Query("quote")
	total, err := s.positions.TotalCollateral(c.Request.Context(), pool, account, quote)
	if err != nil {
		s.logger.Warn("collateral failed", zap.String("pool", poolAddr), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "chain read failed"})
		return
	}
	c.JSON(http.StatusOK, collateralResponse{
		Account:         account.Hex(),
		Pool:            poolAddr,
		QuoteSymbol:     quote,
		TotalCollateral: total,
	})
}

func (s *Server) handleQuote(c *gin.Context) {
	tokenIn, ok := hexParam(c, c.Query("token_in"), "token_in")
	if !ok {
		return
	}
	tokenOut, ok := hexParam(c, c.Query("token_out"), "token_out")
	if !ok {
		return
	}
	position, ok := hexParam(c, c.Query("position"), "position")
	if !ok {
		return
	}
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number"})
		return
	}

	out, quoted, err := s.quoter.Quote(c.Request.Context(), tokenIn, tokenOut, amount, position)
	if err != nil {
		s.logger.Warn("quote failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "chain read failed"})
		return
	}
	c.JSON(http.StatusOK, quoteResponse{AmountOut: out, Quoted: quoted})
}

// positionParams validates the account path param and pool query param.
func (s *Server) positionParams(c *gin.Context) (common.Address, string, bool) {
	account, ok := hexParam(c, c.Param("account"), "account")
	if !ok {
		return common.Address{}, "", false
	}
	poolAddr := c.Query("pool")
	if !common.IsHexAddress(poolAddr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pool must be a hex address"})
		return common.Address{}, "", false
	}
	return account, poolAddr, true
}

func hexParam(c *gin.Context, value, name string) (common.Address, bool) {
	if !common.IsHexAddress(value) {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a hex address"})
		return common.Address{}, false
	}
	return common.HexToAddress(value), true
}
