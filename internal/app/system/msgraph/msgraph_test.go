package msgraph_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/facultyhub/internal/app/system/fetchretry"
	"github.com/dalemusser/facultyhub/internal/app/system/msgraph"
	"go.uber.org/zap"
)

type staticTokens struct {
	refreshes atomic.Int64
}

func (s *staticTokens) Token(ctx context.Context) (string, error) { return "test-token", nil }
func (s *staticTokens) ForceRefresh(ctx context.Context) (string, error) {
	s.refreshes.Add(1)
	return "test-token", nil
}

func fastRetry() fetchretry.Config {
	return fetchretry.Config{
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
		RequiresAuth:   true,
		RateLimitFloor: time.Millisecond,
	}
}

func TestFetchPhoto_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := msgraph.New(srv.URL, srv.Client(), &staticTokens{}, zap.NewNop())
	c.SetRetryConfig(fastRetry())

	photo, err := c.FetchPhoto(context.Background(), "a@uni.edu")
	if err != nil {
		t.Fatalf("FetchPhoto failed: %v", err)
	}
	if string(photo.Data) != "png-bytes" || photo.ContentType != "image/png" {
		t.Fatalf("got %+v", photo)
	}
}

func TestFetchPhoto_MissingPhotoNotRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := msgraph.New(srv.URL, srv.Client(), &staticTokens{}, zap.NewNop())
	c.SetRetryConfig(fastRetry())

	_, err := c.FetchPhoto(context.Background(), "b@uni.edu")
	if !errors.Is(err, msgraph.ErrNoPhoto) {
		t.Fatalf("err = %v, want ErrNoPhoto", err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("server called %d times, want 1 (no retry on missing photo)", n)
	}
}

func TestFetchPhoto_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := msgraph.New(srv.URL, srv.Client(), &staticTokens{}, zap.NewNop())
	c.SetRetryConfig(fastRetry())

	photo, err := c.FetchPhoto(context.Background(), "c@uni.edu")
	if err != nil {
		t.Fatalf("FetchPhoto failed after retries: %v", err)
	}
	if string(photo.Data) != "ok" {
		t.Fatalf("got %q", photo.Data)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("server called %d times, want 3", n)
	}
}

func TestFetchPhoto_RateLimitedDoesNotConsumeBudget(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Four 429s exceed MaxRetries=2; success afterward proves the
		// rate-limited path keeps its own schedule.
		if calls.Add(1) <= 4 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := msgraph.New(srv.URL, srv.Client(), &staticTokens{}, zap.NewNop())
	c.SetRetryConfig(fastRetry())

	photo, err := c.FetchPhoto(context.Background(), "d@uni.edu")
	if err != nil {
		t.Fatalf("FetchPhoto failed: %v", err)
	}
	if string(photo.Data) != "ok" {
		t.Fatalf("got %q", photo.Data)
	}
}

func TestFetchPhoto_ExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := msgraph.New(srv.URL, srv.Client(), &staticTokens{}, zap.NewNop())
	c.SetRetryConfig(fastRetry())

	_, err := c.FetchPhoto(context.Background(), "e@uni.edu")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}
