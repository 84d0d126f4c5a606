package debug

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestWithDebug(t *testing.T) {
	ctx := context.Background()

	if IsDebug(ctx) {
		t.Error("IsDebug should default to false")
	}
	if !IsDebug(WithDebug(ctx, true)) {
		t.Error("IsDebug should return true after WithDebug(true)")
	}
	if IsDebug(WithDebug(ctx, false)) {
		t.Error("IsDebug should return false after WithDebug(false)")
	}
}

func TestTraceCommand(t *testing.T) {
	argv := []string{"ssh", "-f", "-N", "-o", "Tag=tnl-web", "bastion"}

	var buf bytes.Buffer
	TraceCommand(context.Background(), &buf, argv)
	if buf.Len() != 0 {
		t.Errorf("trace emitted without debug mode: %q", buf.String())
	}

	ctx := WithDebug(context.Background(), true)
	TraceCommand(ctx, &buf, argv)
	got := buf.String()
	if !strings.Contains(got, "Tag=tnl-web") || !strings.HasPrefix(got, "--> exec: ssh") {
		t.Errorf("trace output = %q", got)
	}
}

func TestTracef(t *testing.T) {
	ctx := WithDebug(context.Background(), true)

	var buf bytes.Buffer
	Tracef(ctx, &buf, "matched pid %d", 42)
	if got := buf.String(); got != "matched pid 42\n" {
		t.Errorf("Tracef output = %q", got)
	}

	// nil writer must be a no-op, not a panic
	Tracef(ctx, nil, "ignored")
}
