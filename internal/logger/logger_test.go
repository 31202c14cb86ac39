package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	WithFields(l, zap.String(FieldRequestID, "req-1"), zap.String(FieldUserID, "  "), zap.Int("attempt", 2)).Info("hello")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx[FieldRequestID] != "req-1" {
		t.Fatalf("expected request id, got %v", ctx[FieldRequestID])
	}
	if _, ok := ctx[FieldUserID]; ok {
		t.Fatalf("empty user id should be dropped")
	}
	if ctx["attempt"] != int64(2) {
		t.Fatalf("expected attempt=2, got %v", ctx["attempt"])
	}

	if WithFields(nil, zap.String("a", "b")) == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
}

func TestFromContext(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	scoped := zap.New(core)

	ctx := WithContext(context.Background(), scoped)
	FromContext(ctx, nil).Info("scoped")
	if observed.Len() != 1 {
		t.Fatalf("expected scoped logger to be used")
	}

	if FromContext(context.Background(), nil) == nil {
		t.Fatalf("expected nop fallback")
	}
}

func TestNew(t *testing.T) {
	l, err := New(true, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level enabled")
	}
}
