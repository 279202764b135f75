package testutil

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// Streams holds what a command printed while it was captured. Commands print
// results and JSON to stdout and human-readable errors to stderr.
type Streams struct {
	Stdout string
	Stderr string
}

// CaptureOutput runs fn and returns what it wrote to stdout
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()
	return CaptureStreams(t, fn).Stdout
}

// CaptureStreams runs fn with stdout and stderr redirected to pipes. The
// original files are restored before returning, and by t.Cleanup if fn
// stops the test goroutine.
func CaptureStreams(t *testing.T, fn func()) Streams {
	t.Helper()

	stdout := redirect(t, &os.Stdout)
	stderr := redirect(t, &os.Stderr)

	fn()

	return Streams{Stdout: stdout(), Stderr: stderr()}
}

// redirect points *target at a pipe and returns a func that restores it and
// yields everything written in between
func redirect(t *testing.T, target **os.File) func() string {
	t.Helper()

	original := *target
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	*target = w

	done := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		done <- buf.String()
	}()

	restored := false
	restore := func() {
		if restored {
			return
		}
		restored = true
		_ = w.Close()
		*target = original
	}
	t.Cleanup(restore)

	return func() string {
		restore()
		return <-done
	}
}
