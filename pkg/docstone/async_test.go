package docstone

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithContextReturnsValue(t *testing.T) {
	got, err := withContext(context.Background(), func() (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d", got)
	}
}

func TestWithContextPropagatesError(t *testing.T) {
	want := errors.New("native failure")
	_, err := withContext(context.Background(), func() (int, error) {
		return 0, want
	})
	if !errors.Is(err, want) {
		t.Fatalf("err = %v", err)
	}
}

func TestWithContextPreCancelledSkipsCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := withContext(ctx, func() (int, error) {
		called = true
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if called {
		t.Fatal("fn must not run when the context is already cancelled")
	}
}

func TestWithContextCancelledMidCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	defer close(release)

	done := make(chan error, 1)
	go func() {
		_, err := withContext(ctx, func() (int, error) {
			<-release
			return 1, nil
		})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("withContext did not observe cancellation")
	}
}

func TestWithContextNilContext(t *testing.T) {
	got, err := withContext(nil, func() (string, error) {
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("got %q, err %v", got, err)
	}
}
