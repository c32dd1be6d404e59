package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug event written without verbose: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info event missing: %s", out)
	}

	buf.Reset()
	log = New(&buf, true)
	log.Debug().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug event missing with verbose: %s", buf.String())
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(&buf, false)
	log.Info().Str("dataset", "default").Msg("poll")

	out := buf.String()
	if !strings.Contains(out, `"dataset":"default"`) || !strings.Contains(out, `"message":"poll"`) {
		t.Errorf("unexpected JSON output: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), NewJSON(&buf, false))

	FromContext(ctx).Info().Msg("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("logger not recovered from context: %q", buf.String())
	}
}

func TestFromContext_Missing(t *testing.T) {
	// A bare context yields a disabled logger rather than panicking.
	FromContext(context.Background()).Info().Msg("dropped")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := WithFields(NewJSON(&buf, false), map[string]any{"component": "daemon", "attempt": 2})
	log.Info().Msg("x")

	out := buf.String()
	if !strings.Contains(out, `"component":"daemon"`) || !strings.Contains(out, `"attempt":2`) {
		t.Errorf("fields missing: %s", out)
	}
}
