package fetchers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homepage = `<html><body><h2><a href="/2024/05/01/story">A headline long enough to keep</a></h2></body></html>`

type staticHeaders http.Header

func (h staticHeaders) GetHeaders() (http.Header, error) {
	return http.Header(h), nil
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Timeout = 5 * time.Second
	opts.Retries = 2
	opts.BackoffBase = time.Millisecond
	opts.MaxBackoff = 5 * time.Millisecond
	return opts
}

func TestStaticFetcher_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(homepage))
	}))
	defer srv.Close()

	f := NewStaticFetcher(testOptions(), nil)
	defer f.Close()

	page, err := f.Fetch(context.Background(), srv.URL+"/news")
	require.NoError(t, err)
	assert.Equal(t, homepage, page.HTML)
	assert.Equal(t, 200, page.StatusCode)
	assert.Equal(t, srv.URL+"/news", page.BaseURL())
	assert.Equal(t, 1, page.Attempts)
}

func TestStaticFetcher_FollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/international/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/international/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(homepage))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	page, err := NewStaticFetcher(testOptions(), nil).Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/", page.URL)
	assert.Equal(t, srv.URL+"/international/", page.FinalURL)
}

func TestStaticFetcher_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(homepage))
	}))
	defer srv.Close()

	page, err := NewStaticFetcher(testOptions(), nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, 3, page.Attempts)
}

func TestStaticFetcher_GivesUpAfterRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewStaticFetcher(testOptions(), nil).Fetch(context.Background(), srv.URL)

	var se *StatusError
	require.True(t, errors.As(err, &se), "err=%v", err)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, int32(3), hits.Load(), "1次请求 + 2次重试")
}

func TestStaticFetcher_NoRetryOnNotFound(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewStaticFetcher(testOptions(), nil).Fetch(context.Background(), srv.URL)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestStaticFetcher_NotHTML(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	_, err := NewStaticFetcher(testOptions(), nil).Fetch(context.Background(), srv.URL)
	assert.True(t, errors.Is(err, ErrNotHTML), "err=%v", err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestStaticFetcher_XHTMLAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xhtml+xml; charset=utf-8")
		_, _ = w.Write([]byte(homepage))
	}))
	defer srv.Close()

	_, err := NewStaticFetcher(testOptions(), nil).Fetch(context.Background(), srv.URL)
	assert.NoError(t, err)
}

func TestStaticFetcher_AppliesHeaders(t *testing.T) {
	var gotUA, gotLang atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		gotLang.Store(r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(homepage))
	}))
	defer srv.Close()

	headers := staticHeaders{
		"User-Agent":      []string{"HeadlineFind-Test/1.0"},
		"Accept-Language": []string{"nl-NL"},
	}
	_, err := NewStaticFetcher(testOptions(), headers).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "HeadlineFind-Test/1.0", gotUA.Load())
	assert.Equal(t, "nl-NL", gotLang.Load())
}

func TestStaticFetcher_Brotli(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		_, _ = bw.Write([]byte(homepage))
		_ = bw.Close()
	}))
	defer srv.Close()

	headers := staticHeaders{"Accept-Encoding": []string{"gzip, deflate, br"}}
	page, err := NewStaticFetcher(testOptions(), headers).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, homepage, page.HTML)
}

func TestStaticFetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	opts := testOptions()
	opts.BackoffBase = time.Hour
	opts.MaxBackoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewStaticFetcher(opts, nil).Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestStaticFetcher_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	opts := testOptions()
	opts.Retries = 0
	_, err := NewStaticFetcher(opts, nil).Fetch(context.Background(), addr)
	assert.Error(t, err)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-5"))
}

func TestBackoff(t *testing.T) {
	f := NewStaticFetcher(Options{BackoffBase: time.Second, MaxBackoff: 60 * time.Second}, nil)

	d := f.backoff(0, 0)
	assert.GreaterOrEqual(t, d, time.Second)
	assert.Less(t, d, 1500*time.Millisecond)

	d = f.backoff(3, 0)
	assert.GreaterOrEqual(t, d, 8*time.Second)

	d = f.backoff(10, 0)
	assert.GreaterOrEqual(t, d, 60*time.Second)
	assert.Less(t, d, 61*time.Second)

	assert.Equal(t, 60*time.Second, f.backoff(0, 5*time.Minute))
	assert.Equal(t, 7*time.Second, f.backoff(0, 7*time.Second))
}

func TestStatusError_Retryable(t *testing.T) {
	for code, want := range map[int]bool{429: true, 500: true, 503: true, 404: false, 403: false} {
		assert.Equal(t, want, (&StatusError{StatusCode: code}).Retryable(), "code=%d", code)
	}
}
