package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// InputPlaceholder is replaced by the document path in command arguments.
const InputPlaceholder = "{input}"

// CommandReader runs an external OCR engine and returns its standard
// output, for example tesseract with args ["{input}", "-", "-l", "nep+eng"].
type CommandReader struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// ErrNoCommand is returned when no OCR command is configured.
var ErrNoCommand = errors.New("no OCR command configured")

func (r CommandReader) ReadText(ctx context.Context, path string) (string, error) {
	if r.Command == "" {
		return "", ErrNoCommand
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(r.Args)+1)
	substituted := false
	for _, a := range r.Args {
		if strings.Contains(a, InputPlaceholder) {
			substituted = true
		}
		args = append(args, strings.ReplaceAll(a, InputPlaceholder, path))
	}
	if !substituted {
		args = append(args, path)
	}

	//nolint:gosec // G204: the OCR command comes from trusted configuration
	cmd := exec.CommandContext(ctx, r.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("OCR command %s: %w", r.Command, ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("OCR command %s failed: %w", r.Command, err)
		}
		return "", fmt.Errorf("OCR command %s failed: %w: %s", r.Command, err, msg)
	}
	return stdout.String(), nil
}
