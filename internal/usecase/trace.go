package usecase

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tripsmith/internal/domain/model"
)

// maxTraceEntries bounds trace memory for long itinerary runs.
const maxTraceEntries = 60

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
)

// Redact replaces email addresses and phone-like digit runs with
// placeholders before anything reaches the audit record.
func Redact(s string) string {
	s = emailRe.ReplaceAllString(s, "[email]")
	s = phoneRe.ReplaceAllString(s, "[phone]")
	return s
}

// TraceRecorder accumulates the ordered tool-call trace for one generation
// run. Write-once: the run owns it, the audit record receives it.
type TraceRecorder struct {
	calls   []model.ToolCall
	dropped int
}

func NewTraceRecorder() *TraceRecorder {
	return &TraceRecorder{}
}

// Record appends one entry, redacting the input and truncating beyond the
// entry cap.
func (t *TraceRecorder) Record(tool string, input any, output string, latency time.Duration) {
	if len(t.calls) >= maxTraceEntries {
		t.dropped++
		return
	}
	in, err := json.Marshal(input)
	if err != nil {
		in = []byte(fmt.Sprintf("%+v", input))
	}
	t.calls = append(t.calls, model.ToolCall{
		Tool:      tool,
		Input:     Redact(string(in)),
		Output:    output,
		LatencyMS: latency.Milliseconds(),
	})
}

// Calls returns the recorded trace in call order.
func (t *TraceRecorder) Calls() []model.ToolCall {
	return t.calls
}

// SummarizeNames renders a bounded output summary: item count plus the
// first three names.
func SummarizeNames(count int, names []string) string {
	if len(names) > 3 {
		names = names[:3]
	}
	if len(names) == 0 {
		return fmt.Sprintf("%d items", count)
	}
	return fmt.Sprintf("%d items: %s", count, strings.Join(names, ", "))
}
