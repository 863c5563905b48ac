package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{Timeout: time.Second, MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func getter(url string) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	resp, err := New(fastConfig()).Do(context.Background(), getter(srv.URL))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(fastConfig()).Do(context.Background(), getter(srv.URL))
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	resp, err := New(fastConfig()).Do(context.Background(), getter(srv.URL))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoBuildErrorIsPermanent(t *testing.T) {
	var builds int32
	_, err := New(fastConfig()).Do(context.Background(), func(ctx context.Context) (*http.Request, error) {
		atomic.AddInt32(&builds, 1)
		return nil, errors.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
}

func TestDoNonIdempotent(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantCode  int
		wantErr   bool
	}{
		{"server error returned once", []int{http.StatusServiceUnavailable, http.StatusCreated}, 1, http.StatusServiceUnavailable, false},
		{"rate limit retried", []int{http.StatusTooManyRequests, http.StatusCreated}, 2, http.StatusCreated, false},
		{"rate limit exhausted", []int{429, 429, 429, 429}, 3, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.statuses[n-1])
			}))
			defer srv.Close()

			cfg := fastConfig()
			cfg.NonIdempotent = true
			resp, err := New(cfg).Do(context.Background(), getter(srv.URL))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				defer resp.Body.Close()
				assert.Equal(t, tt.wantCode, resp.StatusCode)
			}
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestDoNonIdempotentRetriesDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var builds int32
	cfg := fastConfig()
	cfg.NonIdempotent = true
	_, err := New(cfg).Do(context.Background(), func(ctx context.Context) (*http.Request, error) {
		atomic.AddInt32(&builds, 1)
		return http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	})
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&builds))
}
