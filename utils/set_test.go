package utils

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestOrderedSetNoDuplicates(t *testing.T) {
	s := NewOrderedSet()

	added := s.Add("alpha")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("alpha")
	if added {
		t.Error("second Add of same value should return false")
	}

	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestOrderedSetKeepsInsertionOrder(t *testing.T) {
	s := NewOrderedSet()
	for _, v := range []string{"c", "a", "c", "b", "a"} {
		s.Add(v)
	}

	got := strings.Join(s.Values(), ",")
	if got != "c,a,b" {
		t.Errorf("Values: got %q, want %q", got, "c,a,b")
	}
	if s.Index("b") != 2 {
		t.Errorf("Index(b): got %d, want 2", s.Index("b"))
	}
	if s.Index("z") != -1 {
		t.Errorf("Index(z): got %d, want -1", s.Index("z"))
	}
	if !s.Contains("a") || s.Contains("z") {
		t.Error("Contains returned the wrong membership")
	}
}

func TestOrderedSetValuesIsCopy(t *testing.T) {
	s := NewOrderedSet()
	s.Add("x")
	v := s.Values()
	v[0] = "mutated"
	if s.Values()[0] != "x" {
		t.Error("Values should not expose internal storage")
	}
}

func TestRetryStopsOnSuccess(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLoggerTo(&bytes.Buffer{})}

	calls := 0
	err := r.Do(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}

func TestRetryWrapsLastError(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewLoggerTo(&bytes.Buffer{})}
	boom := errors.New("boom")

	err := r.Do(context.Background(), "op", func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
}

func TestRetryHonoursCancellation(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour, Logger: NewLoggerTo(&bytes.Buffer{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := r.Do(ctx, "op", func(context.Context) error {
		calls++
		return errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestLoggerDebugWrites(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf)
	l.Debug("hello %d", 7)
	if !strings.Contains(buf.String(), "hello 7") {
		t.Errorf("debug output missing: %q", buf.String())
	}
}
