// Package predict provides the client adapter for the AlphaGenome variant
// prediction API: rate limiting, bounded retry with exponential backoff, and
// the error taxonomy batch processing relies on.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/deluair/alphagenome/internal/variant"
)

// Defaults mirroring the hosted service limits.
const (
	DefaultBaseURL      = "https://alphagenome.googleapis.com"
	DefaultRateLimit    = 100 // requests per minute
	DefaultMaxAttempts  = 4
	DefaultIntervalSize = 1_000_000 // width of the centered analysis window
)

// defaultOntologyTerms is requested when the caller does not narrow the
// tissue context.
var defaultOntologyTerms = []string{"UBERON:0001157"}

// Predictor is the contract the batch orchestrator depends on. The HTTP
// Client implements it; tests substitute stubs.
type Predictor interface {
	PredictVariant(ctx context.Context, rec *variant.Record) (*variant.PredictionResult, error)
}

// Client calls the prediction API over HTTP. All methods are safe for
// concurrent use; the rate limiter is shared across callers.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	limiter       *rate.Limiter
	maxAttempts   int
	retryInterval time.Duration
	intervalSize  int64
	assays        []string
	ontologyTerms []string
	logger        *zap.Logger
}

// NewClient creates a prediction client for the given endpoint.
// Use an empty baseURL for the hosted service.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		limiter:       newLimiter(DefaultRateLimit),
		maxAttempts:   DefaultMaxAttempts,
		retryInterval: 500 * time.Millisecond,
		intervalSize:  DefaultIntervalSize,
		assays:        variant.DefaultAssays(),
		ontologyTerms: defaultOntologyTerms,
		logger:        zap.NewNop(),
	}
}

// newLimiter builds a token bucket admitting rpm requests per minute.
// Burst is kept at 1 so admissions stay evenly spaced; any 60-second window
// then holds at most rpm calls.
func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
}

// SetLogger sets the logger for request diagnostics.
func (c *Client) SetLogger(l *zap.Logger) {
	c.logger = l
}

// SetRateLimit replaces the request budget, in requests per minute.
// Zero or negative disables limiting.
func (c *Client) SetRateLimit(rpm int) {
	c.limiter = newLimiter(rpm)
}

// SetMaxAttempts bounds the number of tries per variant, including the
// first. Values below 1 are treated as 1.
func (c *Client) SetMaxAttempts(n int) {
	if n < 1 {
		n = 1
	}
	c.maxAttempts = n
}

// SetRetryInterval sets the initial backoff interval between retries.
func (c *Client) SetRetryInterval(d time.Duration) {
	c.retryInterval = d
}

// SetTimeout sets the per-request HTTP timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// SetIntervalSize sets the width of the analysis window centered on each
// variant.
func (c *Client) SetIntervalSize(n int64) {
	if n > 0 {
		c.intervalSize = n
	}
}

// SetAssays replaces the requested assay set.
func (c *Client) SetAssays(assays []string) {
	if len(assays) > 0 {
		c.assays = assays
	}
}

// predictRequest is the wire format of a prediction call.
type predictRequest struct {
	Interval struct {
		Chromosome string `json:"chromosome"`
		Start      int64  `json:"start"`
		End        int64  `json:"end"`
	} `json:"interval"`
	Variant struct {
		Chromosome     string `json:"chromosome"`
		Position       int64  `json:"position"`
		ReferenceBases string `json:"reference_bases"`
		AlternateBases string `json:"alternate_bases"`
	} `json:"variant"`
	OntologyTerms    []string `json:"ontology_terms"`
	RequestedOutputs []string `json:"requested_outputs"`
}

// predictResponse is the wire format of a prediction response.
type predictResponse struct {
	Predictions map[string]variant.AssayPrediction `json:"predictions"`
}

// PredictVariant issues a rate-limited prediction call for one variant,
// retrying transient failures with exponential backoff. On retry exhaustion
// the last failure is surfaced as a *TransientError; non-retryable responses
// surface as *PermanentError without further attempts.
func (c *Client) PredictVariant(ctx context.Context, rec *variant.Record) (*variant.PredictionResult, error) {
	var result *variant.PredictionResult
	attempts := 0

	op := func() error {
		attempts++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		res, err := c.doRequest(ctx, rec)
		if err != nil {
			var perm *PermanentError
			if errors.As(err, &perm) {
				return backoff.Permanent(err)
			}
			c.logger.Warn("retryable prediction failure",
				zap.String("variant", rec.ID()),
				zap.Int("attempt", attempts),
				zap.Error(err))
			return err
		}

		result = res
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.maxAttempts-1)), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		var perm *PermanentError
		if errors.As(err, &perm) {
			return nil, perm
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &TransientError{Attempts: attempts, Err: err}
	}

	c.logger.Debug("variant predicted",
		zap.String("variant", rec.ID()),
		zap.Int("attempts", attempts))
	return result, nil
}

// doRequest performs a single HTTP attempt. Plain errors are retryable;
// *PermanentError is not.
func (c *Client) doRequest(ctx context.Context, rec *variant.Record) (*variant.PredictionResult, error) {
	half := c.intervalSize / 2
	start := rec.Pos - half
	if start < 1 {
		start = 1
	}

	var req predictRequest
	req.Interval.Chromosome = rec.Chrom
	req.Interval.Start = start
	req.Interval.End = rec.Pos + half
	req.Variant.Chromosome = rec.Chrom
	req.Variant.Position = rec.Pos
	req.Variant.ReferenceBases = rec.Ref
	req.Variant.AlternateBases = rec.Alt
	req.OntologyTerms = c.ontologyTerms
	req.RequestedOutputs = c.assays

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &PermanentError{Message: fmt.Sprintf("encode request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/predict_variant", bytes.NewReader(body))
	if err != nil {
		return nil, &PermanentError{Message: fmt.Sprintf("build request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("prediction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if retryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("prediction API error %d: %s", resp.StatusCode, msg)
		}
		return nil, &PermanentError{StatusCode: resp.StatusCode, Message: string(msg)}
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode prediction response: %w", err)
	}

	return &variant.PredictionResult{
		Record:      *rec,
		Predictions: pr.Predictions,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// retryableStatus reports whether a status code indicates a transient
// server-side condition.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return code >= 500
}
