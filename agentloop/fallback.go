package agentloop

import "strings"

// Fallback answer prefixes. A concrete tool result is more trustworthy
// evidence than the model's own unexecuted reasoning, so observations are
// preferred and each source is labeled for the reader.
const (
	observationFallbackPrefix = "No final answer was produced. The most recent tool result was:\n\n"
	reasoningFallbackPrefix   = "No final answer was produced. Partial reasoning collected during the run:\n\n"
)

// FallbackState tracks the best-effort answer material for one run: the most
// recent successful tool observation and any reasoning text the model
// emitted along the way. It is owned by a single run and never shared.
type FallbackState struct {
	lastObservation string
	partialAnswer   string
}

// RecordObservation stores the result of a successful tool invocation.
// Error observations must not be recorded; they are transcript content only.
func (f *FallbackState) RecordObservation(obs string) {
	if strings.TrimSpace(obs) == "" {
		return
	}
	f.lastObservation = obs
}

// RecordThought appends reasoning text to the accumulated partial answer.
func (f *FallbackState) RecordThought(thought string) {
	thought = strings.TrimSpace(thought)
	if thought == "" {
		return
	}
	if f.partialAnswer != "" {
		f.partialAnswer += "\n"
	}
	f.partialAnswer += thought
}

// LastObservation returns the most recent successful observation, if any.
func (f *FallbackState) LastObservation() (string, bool) {
	return f.lastObservation, f.lastObservation != ""
}

// Resolve produces the best-effort answer: the last observation wrapped in
// its explanatory prefix, else the partial reasoning wrapped in its own
// prefix, else nothing.
func (f *FallbackState) Resolve() (string, bool) {
	if f.lastObservation != "" {
		return observationFallbackPrefix + f.lastObservation, true
	}
	if f.partialAnswer != "" {
		return reasoningFallbackPrefix + f.partialAnswer, true
	}
	return "", false
}
