package catalogclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/multierr"
)

// State is the phase of the fetch state machine.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateRetrying
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateRetrying:
		return "retrying"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrFetchInProgress reports that a fetch cycle is already running for this
// consumer; the caller must wait for it instead of racing it.
var ErrFetchInProgress = errors.New("catalog fetch already in progress")

const (
	defaultMaxAttempts    = 3
	defaultAttemptTimeout = 30 * time.Second
)

var defaultRetryDelays = []time.Duration{2 * time.Second, 5 * time.Second}

// Options configures a Fetcher.
type Options struct {
	// Endpoint is the full catalog listing URL.
	Endpoint string
	// HTTPClient defaults to http.DefaultClient. Its own Timeout is left
	// alone; per-attempt deadlines come from AttemptTimeout.
	HTTPClient *http.Client
	// MaxAttempts caps the retry budget, including the first attempt.
	MaxAttempts int
	// AttemptTimeout bounds each attempt; generous enough to absorb a
	// cold-started backend.
	AttemptTimeout time.Duration
	// RetryDelays holds the wait before each retry, escalating; the last
	// entry repeats if attempts outnumber entries.
	RetryDelays []time.Duration
	// OnPhase, when set, receives state transitions with a user-facing
	// message. Called synchronously from Fetch.
	OnPhase func(state State, message string)
}

// Fetcher drives the resilient catalog fetch for one consumer: bounded
// retries with escalating delays, per-attempt timeouts with hard aborts, and
// a start-once latch so attempts never overlap.
type Fetcher struct {
	opts Options

	mu       sync.Mutex
	state    State
	inFlight bool
}

// New builds a Fetcher with defaults applied.
func New(opts Options) *Fetcher {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = defaultAttemptTimeout
	}
	if len(opts.RetryDelays) == 0 {
		opts.RetryDelays = defaultRetryDelays
	}
	return &Fetcher{opts: opts, state: StateIdle}
}

// State returns the current machine state.
func (f *Fetcher) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fetch runs one full retry cycle and returns the catalog. A second Fetch
// while one is running fails fast with ErrFetchInProgress. Cancelling ctx
// aborts the in-flight attempt and any pending delay immediately.
func (f *Fetcher) Fetch(ctx context.Context) ([]Item, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil, ErrFetchInProgress
	}
	f.inFlight = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	var attemptErrs []error

	for attempt := 1; attempt <= f.opts.MaxAttempts; attempt++ {
		f.transition(StateFetching, "loading catalog")

		items, outcome, err := f.attempt(ctx)
		switch outcome {
		case outcomeSuccess:
			f.transition(StateSucceeded, "catalog loaded")
			return items, nil

		case outcomeEmptyDeclared:
			// The server answered with a declared error body: terminal,
			// successfully empty, never retried.
			f.transition(StateSucceeded, "catalog empty")
			return []Item{}, nil

		case outcomeCanceled:
			f.transition(StateFailed, "catalog fetch canceled")
			return nil, err

		case outcomeRetryColdStart, outcomeRetryServerError:
			attemptErrs = append(attemptErrs, err)
			if attempt == f.opts.MaxAttempts {
				break
			}
			msg := "server error, retrying shortly"
			if outcome == outcomeRetryColdStart {
				msg = "server is starting, retrying shortly"
			}
			f.transition(StateRetrying, msg)
			if waitErr := f.wait(ctx, f.delayFor(attempt)); waitErr != nil {
				f.transition(StateFailed, "catalog fetch canceled")
				return nil, multierr.Append(multierr.Combine(attemptErrs...), waitErr)
			}

		default: // outcomeTerminal
			f.transition(StateFailed, "catalog unavailable")
			return nil, multierr.Append(multierr.Combine(attemptErrs...), err)
		}
	}

	f.transition(StateFailed, "catalog unavailable, showing empty result")
	return nil, multierr.Combine(attemptErrs...)
}

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeEmptyDeclared
	outcomeRetryColdStart
	outcomeRetryServerError
	outcomeTerminal
	outcomeCanceled
)

func (f *Fetcher) attempt(ctx context.Context) ([]Item, outcome, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.opts.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, f.opts.Endpoint, nil)
	if err != nil {
		return nil, outcomeTerminal, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.opts.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, outcomeCanceled, ctx.Err()
		}
		if isColdStartError(err) {
			return nil, outcomeRetryColdStart, err
		}
		return nil, outcomeTerminal, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, outcomeCanceled, ctx.Err()
		}
		return nil, outcomeRetryColdStart, err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, outcomeRetryServerError, fmt.Errorf("server responded %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, outcomeTerminal, fmt.Errorf("server rejected request with %d", resp.StatusCode)
	}

	items, declaredErr, err := decodePayload(body)
	if err != nil {
		return nil, outcomeTerminal, err
	}
	if declaredErr != "" {
		return nil, outcomeEmptyDeclared, nil
	}
	return items, outcomeSuccess, nil
}

// isColdStartError classifies transport failures worth retrying: timeouts and
// aborted connections, the signature of a backend still waking up.
func isColdStartError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

func (f *Fetcher) delayFor(attempt int) time.Duration {
	idx := attempt - 1
	if idx >= len(f.opts.RetryDelays) {
		idx = len(f.opts.RetryDelays) - 1
	}
	return f.opts.RetryDelays[idx]
}

// wait sleeps for the retry delay but releases immediately on cancellation so
// an abandoned consumer never leaks its timer.
func (f *Fetcher) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *Fetcher) transition(state State, message string) {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
	if f.opts.OnPhase != nil {
		f.opts.OnPhase(state, message)
	}
}
