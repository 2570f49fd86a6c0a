package catalogclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastOpts(endpoint string) Options {
	return Options{
		Endpoint:       endpoint,
		MaxAttempts:    3,
		AttemptTimeout: 2 * time.Second,
		RetryDelays:    []time.Duration{time.Millisecond, 2 * time.Millisecond},
	}
}

func TestFetchSucceedsOnBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","name":"INVICTUS","price":45000}]`))
	}))
	defer srv.Close()

	f := New(fastOpts(srv.URL))
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 || items[0].Name != "INVICTUS" {
		t.Fatalf("items = %+v", items)
	}
	if f.State() != StateSucceeded {
		t.Fatalf("state = %s", f.State())
	}
}

func TestFetchAcceptsItemsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":"1","name":"SAUVAGE","price":52000}]}`))
	}))
	defer srv.Close()

	items, err := New(fastOpts(srv.URL)).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 || items[0].Name != "SAUVAGE" {
		t.Fatalf("items = %+v", items)
	}
}

func TestFetchDeclaredErrorSettlesEmpty(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`))
	}))
	defer srv.Close()

	f := New(fastOpts(srv.URL))
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("declared error must not surface: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %+v", items)
	}
	if f.State() != StateSucceeded {
		t.Fatalf("state = %s", f.State())
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("declared errors are terminal, expected 1 call, got %d", got)
	}
}

func TestFetchRetriesServerErrorsUntilBudget(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := New(fastOpts(srv.URL))
	_, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected exhausted budget error")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if f.State() != StateFailed {
		t.Fatalf("state = %s", f.State())
	}
}

func TestFetchRecoversAfterColdStart(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"1","name":"ANGEL","price":49000}]`))
	}))
	defer srv.Close()

	var phases []State
	opts := fastOpts(srv.URL)
	opts.OnPhase = func(state State, message string) { phases = append(phases, state) }

	items, err := New(opts).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %+v", items)
	}

	want := []State{StateFetching, StateRetrying, StateFetching, StateRetrying, StateFetching, StateSucceeded}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v", phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("phase %d = %s, want %s", i, phases[i], want[i])
		}
	}
}

func TestFetchClientErrorIsTerminal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := New(fastOpts(srv.URL))
	_, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected terminal error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", got)
	}
	if f.State() != StateFailed {
		t.Fatalf("state = %s", f.State())
	}
}

func TestFetchAttemptTimeoutCountsAsColdStart(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			time.Sleep(200 * time.Millisecond)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	opts := fastOpts(srv.URL)
	opts.AttemptTimeout = 50 * time.Millisecond

	items, err := New(opts).Fetch(context.Background())
	if err != nil {
		t.Fatalf("expected recovery after the slow first attempt: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %+v", items)
	}
	if got := atomic.LoadInt32(&calls); got < 2 {
		t.Fatalf("expected a retry after the timeout, got %d attempts", got)
	}
}

func TestFetchOverlapGuard(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := New(fastOpts(srv.URL))

	done := make(chan error, 1)
	go func() {
		_, err := f.Fetch(context.Background())
		done <- err
	}()

	// Wait for the first fetch to take the latch.
	deadline := time.After(2 * time.Second)
	for f.State() != StateFetching {
		select {
		case <-deadline:
			t.Fatal("first fetch never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := f.Fetch(context.Background()); !errors.Is(err, ErrFetchInProgress) {
		t.Fatalf("expected ErrFetchInProgress, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	// Latch released: a new cycle may start.
	if _, err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch after completion: %v", err)
	}
}

func TestFetchCancelAbortsRetryDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	opts := fastOpts(srv.URL)
	opts.RetryDelays = []time.Duration{10 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := New(opts).Fetch(ctx)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("cancellation must abort the delay immediately, took %v", elapsed)
	}
}

func TestDecodePayloadShapes(t *testing.T) {
	items, declared, err := decodePayload([]byte(`[]`))
	if err != nil || declared != "" || items == nil || len(items) != 0 {
		t.Fatalf("bare empty array: %v %q %v", err, declared, items)
	}

	items, declared, err = decodePayload([]byte(`{"items":null}`))
	if err != nil || declared != "" || items == nil {
		t.Fatalf("null items must decode to empty slice: %v %q %v", err, declared, items)
	}

	_, declared, err = decodePayload([]byte(`{"error":"boom"}`))
	if err != nil || declared == "" {
		t.Fatalf("declared error missed: %v %q", err, declared)
	}

	_, declared, err = decodePayload([]byte(`{"error":null,"items":[{"id":"1"}]}`))
	if err != nil || declared != "" {
		t.Fatalf("null error must not count as declared: %v %q", err, declared)
	}

	if _, _, err = decodePayload([]byte(`"nonsense"`)); err == nil {
		t.Fatal("expected decode failure for scalar payload")
	}
}
