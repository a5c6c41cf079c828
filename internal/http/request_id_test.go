package http

import (
	"context"
	"testing"
)

func TestGenerateRequestIDIsUnique(t *testing.T) {
	a := generateRequestID()
	b := generateRequestID()
	if a == "" || b == "" {
		t.Fatalf("expected non-empty ids, got %q and %q", a, b)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := withRequestID(context.Background(), "abc123")
	if got := requestIDFromContext(ctx); got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}
	if got := requestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id for bare context, got %q", got)
	}
	if got := requestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty id for nil context, got %q", got)
	}
}
