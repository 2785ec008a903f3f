package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
)

// captureStdout replaces os.Stdout with a pipe, calls f, then returns the
// captured output and restores os.Stdout. It is NOT safe for parallel use
// because os.Stdout is a package-level variable.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		io.Copy(&buf, r)
		close(done)
	}()

	f()

	w.Close()
	<-done
	os.Stdout = orig
	r.Close()
	return buf.String()
}

// TestFormatJSON verifies that formatJSON emits indented JSON to stdout.
func TestFormatJSON(t *testing.T) {
	type sample struct {
		ID     string `json:"id"`
		Number string `json:"number"`
	}
	v := sample{ID: "abc-123", Number: "PDI-20260310-AB12CD34"}

	got := captureStdout(t, func() { formatJSON(v) })

	// Must be valid JSON.
	var out sample
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, got)
	}
	if out.ID != "abc-123" {
		t.Errorf("id: got %q, want %q", out.ID, "abc-123")
	}
	if out.Number != "PDI-20260310-AB12CD34" {
		t.Errorf("number: got %q, want %q", out.Number, "PDI-20260310-AB12CD34")
	}
}

// TestFormatTable verifies column alignment and the separator row.
func TestFormatTable(t *testing.T) {
	got := captureStdout(t, func() {
		formatTable(
			[]string{"ID", "STATUS"},
			[][]string{
				{"i1", "draft"},
				{"i2", "completed"},
			},
		)
	})

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4 (header, separator, 2 rows):\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("header: got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "--") {
		t.Errorf("separator: got %q", lines[1])
	}
	if !strings.Contains(lines[3], "completed") {
		t.Errorf("row: got %q, want completed", lines[3])
	}
}

// TestOutputQuiet verifies that quiet format prints only the identifier.
func TestOutputQuiet(t *testing.T) {
	resetFlags(t)
	flagFmt = "quiet"

	got := captureStdout(t, func() {
		output(map[string]string{"id": "i1", "status": "draft"}, "i1")
	})

	if strings.TrimSpace(got) != "i1" {
		t.Errorf("quiet output: got %q, want i1", got)
	}
}
