package indexer

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"lendingScope/internal/metrics"
	"lendingScope/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// poolsQuery asks for every pool creation event the indexer has seen. The
// pool set is small enough that pagination is not worth the round trips.
const poolsQuery = `{ lendingPoolCreateds { id lendingPool collateralToken borrowToken ltv createdAt blockNumber transactionHash } }`

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxRetries   = 3
	defaultRetryBackoff = 500 * time.Millisecond
)

// Config controls the GraphQL client. Zero values fall back to defaults.
type Config struct {
	Endpoint     string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Client fetches pool records from the GraphQL indexer.
type Client struct {
	http         *fasthttp.Client
	endpoint     string
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewClient builds a Client for the given indexer endpoint.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	return &Client{
		http:         &fasthttp.Client{},
		endpoint:     cfg.Endpoint,
		timeout:      cfg.Timeout,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		logger:       logger.Named("indexer"),
	}
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type poolsResponse struct {
	Data struct {
		LendingPoolCreateds []rawPoolRecord `json:"lendingPoolCreateds"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// FetchPools returns the full pool set in one query. Records missing a pool,
// borrow, or collateral address are dropped here so downstream stages only
// ever see complete pools.
func (c *Client) FetchPools(ctx context.Context) ([]model.RawPool, error) {
	payload, err := json.Marshal(graphQLRequest{Query: poolsQuery})
	if err != nil {
		return nil, fmt.Errorf("marshal pools query: %w", err)
	}

	var body []byte
	err = withRetry(ctx, c.maxRetries, c.retryBackoff, func(ctx context.Context) error {
		var postErr error
		body, postErr = c.post(ctx, payload)
		return postErr
	})
	if err != nil {
		metrics.IndexerFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch pools from %s: %w", c.endpoint, err)
	}

	var resp poolsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.IndexerFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode pools response: %w", err)
	}
	if len(resp.Errors) > 0 {
		metrics.IndexerFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("indexer returned error: %s", resp.Errors[0].Message)
	}

	pools := make([]model.RawPool, 0, len(resp.Data.LendingPoolCreateds))
	for _, record := range resp.Data.LendingPoolCreateds {
		pool, ok := record.normalize()
		if !ok {
			c.logger.Warn("dropping malformed pool record",
				zap.String("id", record.ID),
				zap.String("lendingPool", firstNonEmpty(record.LendingPool, record.LendingPoolSnake)))
			continue
		}
		pools = append(pools, pool)
	}

	metrics.IndexerFetches.WithLabelValues("ok").Inc()
	c.logger.Debug("fetched pools",
		zap.Int("records", len(resp.Data.LendingPoolCreateds)),
		zap.Int("accepted", len(pools)))
	return pools, nil
}

func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.http.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("post to indexer: %w", err)
		}
	} else {
		if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
			return nil, fmt.Errorf("post to indexer: %w", err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("indexer responded %d: %s", resp.StatusCode(), resp.Body())
	}

	// The response buffer is pooled; copy before release.
	return append([]byte(nil), resp.Body()...), nil
}
