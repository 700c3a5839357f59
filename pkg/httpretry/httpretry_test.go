package httpretry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func getReq(t *testing.T, url string) func() (*http.Request, error) {
	t.Helper()
	return func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	}
}

func TestDoRetriesServerErrorThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := Do(context.Background(), srv.Client(), fastPolicy(), getReq(t, srv.URL))
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	resp.Body.Close()

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected exactly 2 calls (one retry), got %d", got)
	}
}

func TestDoFailsFastOnUnauthorized(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := Do(context.Background(), srv.Client(), fastPolicy(), getReq(t, srv.URL))
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if got := StatusCode(err); got != http.StatusUnauthorized {
		t.Errorf("StatusCode(err) = %d, want 401", got)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly 1 call for non-retryable status, got %d", got)
	}
}

func TestDoExhaustsRetriesOnPersistentFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Do(context.Background(), srv.Client(), fastPolicy(), getReq(t, srv.URL))
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if got := StatusCode(err); got != http.StatusBadGateway {
		t.Errorf("StatusCode(err) = %d, want 502", got)
	}
	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Errorf("expected 4 calls (1 + 3 retries), got %d", got)
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		status int
		want   bool
	}{
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusTooManyRequests, true},
		{http.StatusRequestTimeout, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusNotFound, false},
	}
	for _, tc := range cases {
		if got := Retryable(tc.status); got != tc.want {
			t.Errorf("Retryable(%d) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestDelayGrowsAndCaps(t *testing.T) {
	p := Policy{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	if got := p.Delay(0); got != 100*time.Millisecond {
		t.Errorf("Delay(0) = %v, want 100ms", got)
	}
	if got := p.Delay(1); got != 200*time.Millisecond {
		t.Errorf("Delay(1) = %v, want 200ms", got)
	}
	if got := p.Delay(10); got != time.Second {
		t.Errorf("Delay(10) = %v, want cap of 1s", got)
	}
}

func TestDelayJitterStaysWithinFraction(t *testing.T) {
	p := Policy{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2, JitterFraction: 0.2}

	for i := 0; i < 50; i++ {
		d := p.Delay(0)
		if d < 100*time.Millisecond || d > 120*time.Millisecond {
			t.Fatalf("jittered Delay(0) = %v, want within [100ms, 120ms]", d)
		}
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{MaxRetries: 3, InitialDelay: 50 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}
	_, err := Do(ctx, srv.Client(), p, getReq(t, srv.URL))
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
}
