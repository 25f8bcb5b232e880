package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env     string
		level   string
		wantErr bool
		enabled zapcore.Level
	}{
		{env: "local", enabled: zapcore.DebugLevel},
		{env: "docker", level: "warn", enabled: zapcore.WarnLevel},
		{env: "prod", enabled: zapcore.InfoLevel},
		{env: "staging", level: "error", enabled: zapcore.ErrorLevel},
		{env: "mars", wantErr: true},
		{env: "prod", level: "loud", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.env+"/"+tc.level, func(t *testing.T) {
			l, err := NewLogger(tc.env, tc.level)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Core().Enabled(tc.enabled) {
				t.Errorf("level %s not enabled", tc.enabled)
			}
			if tc.enabled > zapcore.DebugLevel && l.Core().Enabled(tc.enabled-1) {
				t.Errorf("level below %s enabled", tc.enabled)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger, got nil")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))
	FromContext(ctx).Info("hello")

	if logs.Len() != 1 || logs.All()[0].Message != "hello" {
		t.Errorf("logs = %v", logs.All())
	}
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	if With(ctx) != ctx {
		t.Error("With without fields should return ctx unchanged")
	}

	FromContext(With(ctx, zap.String("request_id", "r-1"))).Info("scored")
	FromContext(ctx).Info("plain")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "r-1" {
		t.Errorf("request_id = %v", got)
	}
	if _, ok := entries[1].ContextMap()["request_id"]; ok {
		t.Error("parent logger must not gain fields")
	}
}

func TestWith_NoLoggerInContext(t *testing.T) {
	ctx := With(context.Background(), zap.String("k", "v"))
	if FromContext(ctx) == nil {
		t.Fatal("expected a logger")
	}
}
