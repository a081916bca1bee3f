package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/jobpulse/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// counter calls fn on each invocation, tracking call count.
type counter struct {
	calls int
	fn    func(attempt int) (string, error)
}

func (c *counter) call(_ context.Context) (string, error) {
	c.calls++
	return c.fn(c.calls)
}

func TestDo_SucceedsOnFirstAttempt(t *testing.T) {
	c := &counter{fn: func(_ int) (string, error) { return "ok", nil }}

	got, err := Do(context.Background(), NewRetrier(2, 10*time.Millisecond, discardLogger()), "test", c.call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("got %q, want ok", got)
	}
	if c.calls != 1 {
		t.Fatalf("expected 1 call, got %d", c.calls)
	}
}

func TestDo_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	c := &counter{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return "ok", nil
	}}

	got, err := Do(context.Background(), NewRetrier(2, 10*time.Millisecond, discardLogger()), "test", c.call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("got %q, want ok", got)
	}
	if c.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", c.calls)
	}
}

func TestDo_DoesNotRetryOn4xx(t *testing.T) {
	c := &counter{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 401, Err: errors.New("unauthorized")}
	}}

	_, err := Do(context.Background(), NewRetrier(2, 10*time.Millisecond, discardLogger()), "test", c.call)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 401 {
		t.Fatalf("expected HTTPError with status 401, got %v", err)
	}
	if c.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", c.calls)
	}
}

func TestDo_RetriesOn429WithRetryAfter(t *testing.T) {
	c := &counter{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", &model.HTTPError{StatusCode: 429, RetryAfter: 20 * time.Millisecond}
		}
		return "ok", nil
	}}

	start := time.Now()
	if _, err := Do(context.Background(), NewRetrier(2, time.Hour, discardLogger()), "test", c.call); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Retry-After overrides the (huge) base delay.
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Retry-After not honoured, waited %v", elapsed)
	}
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	c := &counter{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	_, err := Do(context.Background(), NewRetrier(2, 10*time.Millisecond, discardLogger()), "test", c.call)
	if err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if c.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", c.calls)
	}
}

func TestDo_RespectsContextCancellation(t *testing.T) {
	c := &counter{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, NewRetrier(2, time.Second, discardLogger()), "test", c.call)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", c.calls)
	}
}
