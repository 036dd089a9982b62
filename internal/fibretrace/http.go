package fibretrace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type HTTPConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	Transport http.RoundTripper
}

// HTTPClient calls the FibreTrace REST API with bearer auth. Requests are
// paced by a token bucket shared across all calls.
type HTTPClient struct {
	cfg     HTTPConfig
	http    *http.Client
	limiter *rate.Limiter
	logger  logger.ZapLogger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(cfg HTTPConfig, log logger.ZapLogger) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 5
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 1
	}
	return &HTTPClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:  log,
	}
}

type apiError struct {
	Message string `json:"message"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any) Response {
	if err := c.limiter.Wait(ctx); err != nil {
		return failed("rate limiter: %v", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return failed("encode request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	u := strings.TrimSuffix(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return failed("create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("FibreTrace API error: no response received", zap.String("path", path), zap.Error(err))
		return failed("No response received from FibreTrace API")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{Success: false, Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("FibreTrace API error", zap.String("path", path), zap.Int("status", resp.StatusCode))
		out := Response{
			Success: false,
			Status:  resp.StatusCode,
			Message: "An error occurred with the FibreTrace API",
		}
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Message != "" {
			out.Message = ae.Message
		}
		if json.Valid(data) {
			out.Data = data
		}
		return out
	}
	if !json.Valid(data) {
		return Response{Success: false, Status: resp.StatusCode, Message: "invalid JSON in FibreTrace response"}
	}
	return Response{Success: true, Status: resp.StatusCode, Data: data}
}

func (c *HTTPClient) GetBatchData(ctx context.Context, batchID string) Response {
	return c.do(ctx, http.MethodGet, "/batches/"+url.PathEscape(batchID), nil, nil)
}

func (c *HTTPClient) GetIsotopeData(ctx context.Context, batchID string) Response {
	return c.do(ctx, http.MethodGet, "/batches/"+url.PathEscape(batchID)+"/isotope-analysis", nil, nil)
}

func (c *HTTPClient) PushBatchData(ctx context.Context, batch model.Batch) Response {
	return c.do(ctx, http.MethodPost, "/batches", nil, batch)
}

func (c *HTTPClient) UpdateBatchData(ctx context.Context, batchID string, batch model.Batch) Response {
	return c.do(ctx, http.MethodPut, "/batches/"+url.PathEscape(batchID), nil, batch)
}

func (c *HTTPClient) PushIsotopeData(ctx context.Context, batchID string, record model.IsotopeRecord) Response {
	return c.do(ctx, http.MethodPost, "/batches/"+url.PathEscape(batchID)+"/isotope-analysis", nil, record)
}

func (c *HTTPClient) VerifyBatch(ctx context.Context, batchID string) Response {
	return c.do(ctx, http.MethodGet, "/verify/"+url.PathEscape(batchID), nil, nil)
}

func (c *HTTPClient) GetAllBatches(ctx context.Context, params ListParams) Response {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Region != "" {
		q.Set("region", params.Region)
	}
	if params.DateFrom != nil {
		q.Set("dateFrom", params.DateFrom.Format(time.RFC3339))
	}
	if params.DateTo != nil {
		q.Set("dateTo", params.DateTo.Format(time.RFC3339))
	}
	return c.do(ctx, http.MethodGet, "/batches", q, nil)
}
