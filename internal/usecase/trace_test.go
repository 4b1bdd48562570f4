//go:build !integration

package usecase_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"tripsmith/internal/usecase"
)

func TestRedact(t *testing.T) {
	t.Parallel()

	in := "contact jane.doe@example.com or +1 (415) 555-0100 for details"
	out := usecase.Redact(in)
	if strings.Contains(out, "example.com") || strings.Contains(out, "555") {
		t.Fatalf("redaction leaked PII: %q", out)
	}
	if !strings.Contains(out, "[email]") || !strings.Contains(out, "[phone]") {
		t.Fatalf("placeholders missing: %q", out)
	}
}

func TestTraceRecorderRedactsInput(t *testing.T) {
	t.Parallel()

	tr := usecase.NewTraceRecorder()
	tr.Record("flights_search", map[string]any{"note": "mail me at a@b.io"}, "2 items", 10*time.Millisecond)

	calls := tr.Calls()
	if len(calls) != 1 {
		t.Fatalf("want 1 call, got %d", len(calls))
	}
	if strings.Contains(calls[0].Input, "a@b.io") {
		t.Fatalf("input not redacted: %q", calls[0].Input)
	}
	if calls[0].Tool != "flights_search" || calls[0].LatencyMS != 10 {
		t.Fatalf("call fields wrong: %+v", calls[0])
	}
}

func TestTraceRecorderCapsEntries(t *testing.T) {
	t.Parallel()

	tr := usecase.NewTraceRecorder()
	for i := 0; i < 100; i++ {
		tr.Record("route_estimate", fmt.Sprintf("leg-%d", i), "ok", time.Millisecond)
	}
	if got := len(tr.Calls()); got != 60 {
		t.Fatalf("trace length = %d, want 60", got)
	}
	// Oldest entries win; the tail is dropped.
	if !strings.Contains(tr.Calls()[0].Input, "leg-0") {
		t.Fatalf("first entry lost: %q", tr.Calls()[0].Input)
	}
}

func TestSummarizeNames(t *testing.T) {
	t.Parallel()

	if got := usecase.SummarizeNames(12, []string{"Louvre", "Orsay", "Pompidou", "Rodin"}); got != "12 items: Louvre, Orsay, Pompidou" {
		t.Fatalf("summary = %q", got)
	}
	if got := usecase.SummarizeNames(0, nil); got != "0 items" {
		t.Fatalf("empty summary = %q", got)
	}
}
