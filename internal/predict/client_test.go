package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deluair/alphagenome/internal/variant"
)

func mustRecord(t *testing.T) *variant.Record {
	t.Helper()
	rec, err := variant.New("chr17", 43106528, "G", "T")
	require.NoError(t, err)
	return rec
}

// fixedResponse returns a handler serving one canned prediction payload.
func fixedResponse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"predictions": map[string]any{
				"rna_seq": map[string]any{
					"reference":  map[string]any{"mean": 1.2, "std": 0.3, "max": 4.1, "min": 0.0, "length": 1000},
					"alternate":  map[string]any{"mean": 0.8, "std": 0.2, "max": 3.0, "min": 0.0, "length": 1000},
					"difference": map[string]any{"mean_difference": -0.4, "max_difference": 1.1, "total_effect": 400.0, "correlation": 0.92},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func newTestClient(url string) *Client {
	c := NewClient(url, "test-key")
	c.SetRateLimit(0) // disabled unless a test enables it
	c.SetRetryInterval(time.Millisecond)
	return c
}

func TestPredictVariantSuccess(t *testing.T) {
	var gotReq predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/predict_variant", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fixedResponse()(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.PredictVariant(context.Background(), mustRecord(t))
	require.NoError(t, err)

	assert.Equal(t, "chr17", res.Record.Chrom)
	require.Contains(t, res.Predictions, "rna_seq")
	assert.InDelta(t, -0.4, res.Predictions["rna_seq"].Difference.MeanDifference, 1e-9)
	assert.False(t, res.Timestamp.IsZero())

	// Interval is centered on the variant.
	assert.Equal(t, int64(43106528), gotReq.Variant.Position)
	assert.Equal(t, int64(43106528-500_000), gotReq.Interval.Start)
	assert.Equal(t, int64(43106528+500_000), gotReq.Interval.End)
	assert.Equal(t, []string{"rna_seq", "cage", "dnase"}, gotReq.RequestedOutputs)
}

func TestPredictVariantIntervalClampedToOne(t *testing.T) {
	var gotReq predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fixedResponse()(w, r)
	}))
	defer srv.Close()

	rec, err := variant.New("chr1", 100, "A", "T")
	require.NoError(t, err)

	c := newTestClient(srv.URL)
	_, err = c.PredictVariant(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gotReq.Interval.Start)
}

func TestPredictVariantRetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		fixedResponse()(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.PredictVariant(context.Background(), mustRecord(t))
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPredictVariantTransientExhaustion(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "overloaded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetMaxAttempts(3)

	_, err := c.PredictVariant(context.Background(), mustRecord(t))
	require.Error(t, err)

	var terr *TransientError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 3, terr.Attempts)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPredictVariantPermanentNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.PredictVariant(context.Background(), mustRecord(t))
	require.Error(t, err)

	var perr *PermanentError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode)
	assert.Equal(t, int32(1), calls.Load(), "permanent errors must not be retried")
}

func TestPredictVariantContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(srv.URL)
	_, err := c.PredictVariant(ctx, mustRecord(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiterSpacesRequests(t *testing.T) {
	srv := httptest.NewServer(fixedResponse())
	defer srv.Close()

	c := newTestClient(srv.URL)
	// 1200 req/min = one admission every 50ms after the initial token.
	c.SetRateLimit(1200)

	rec := mustRecord(t)
	start := time.Now()
	const n = 4
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.PredictVariant(context.Background(), rec)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// n concurrent calls share one bucket: the last admission cannot happen
	// before (n-1) refill intervals have elapsed.
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 3*45*time.Millisecond)
}

func TestRetryableStatus(t *testing.T) {
	assert.True(t, retryableStatus(http.StatusInternalServerError))
	assert.True(t, retryableStatus(http.StatusBadGateway))
	assert.True(t, retryableStatus(http.StatusTooManyRequests))
	assert.True(t, retryableStatus(http.StatusRequestTimeout))
	assert.False(t, retryableStatus(http.StatusBadRequest))
	assert.False(t, retryableStatus(http.StatusUnauthorized))
	assert.False(t, retryableStatus(http.StatusNotFound))
}
