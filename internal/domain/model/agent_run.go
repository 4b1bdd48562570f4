package model

import "time"

// ToolCall is one recorded external capability invocation. Input is
// redacted before recording; output is a truncated summary, never the full
// provider payload.
type ToolCall struct {
	Tool      string `json:"tool"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	LatencyMS int64  `json:"latency_ms"`
}

// AgentRun is the append-only audit record written once per generation
// run. Used for replay and debugging; never read on the hot path.
type AgentRun struct {
	ID        string
	TripID    string
	CreatedAt time.Time

	Phase     string // plan | itinerary
	Input     map[string]any
	Output    map[string]any
	ToolCalls []ToolCall
	ModelInfo map[string]string
}
