package pipeline

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleProgressCallback(t *testing.T) {
	var buf bytes.Buffer
	cb := NewConsoleProgressCallback(&buf, "scan ").WithWidth(10)

	cb.OnStart(4)
	cb.OnProgress(4, 4)
	cb.OnError(2, errors.New("boom"))
	cb.OnComplete()

	out := buf.String()
	assert.Contains(t, out, "scan 0/4 (0.0%)")
	assert.Contains(t, out, "[##########] 4/4 (100.0%)")
	assert.Contains(t, out, "Error at item 2: boom")
	assert.Contains(t, out, "scan Completed in")
}

func TestConsoleProgressThrottles(t *testing.T) {
	var buf bytes.Buffer
	cb := NewConsoleProgressCallback(&buf, "")
	cb.OnStart(100)
	cb.OnProgress(1, 100)
	cb.OnProgress(2, 100)

	assert.Equal(t, 1, strings.Count(buf.String(), "\r"))
}

func TestLogProgressCallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cb := NewLogProgressCallback(logger, slog.LevelInfo).WithInterval(2)

	cb.OnStart(3)
	cb.OnProgress(1, 3)
	cb.OnProgress(2, 3)
	cb.OnProgress(3, 3)
	cb.OnError(1, errors.New("bad input"))
	cb.OnComplete()

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"msg":"batch progress"`))
	assert.Contains(t, out, `"msg":"batch started"`)
	assert.Contains(t, out, `"level":"WARN","msg":"batch item failed"`)
	assert.Contains(t, out, `"msg":"batch completed"`)
}

func TestNoOpProgressCallback(t *testing.T) {
	var cb ProgressCallback = NoOpProgressCallback{}
	cb.OnStart(1)
	cb.OnProgress(1, 1)
	cb.OnError(0, nil)
	cb.OnComplete()
}
