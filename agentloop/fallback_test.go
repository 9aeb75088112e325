package agentloop

import (
	"strings"
	"testing"
)

func TestFallbackStateEmptyDoesNotResolve(t *testing.T) {
	fb := &FallbackState{}
	if _, ok := fb.Resolve(); ok {
		t.Error("empty state must not resolve")
	}
}

func TestFallbackStateObservationOutranksReasoning(t *testing.T) {
	fb := &FallbackState{}
	fb.RecordThought("the answer is probably 5")
	fb.RecordObservation("42")

	text, ok := fb.Resolve()
	if !ok {
		t.Fatal("expected resolution")
	}
	if !strings.HasPrefix(text, observationFallbackPrefix) {
		t.Errorf("expected observation prefix, got %q", text)
	}
	if !strings.Contains(text, "42") {
		t.Errorf("expected observation content, got %q", text)
	}
}

func TestFallbackStateReasoningWhenNoObservation(t *testing.T) {
	fb := &FallbackState{}
	fb.RecordThought("first step")
	fb.RecordThought("second step")

	text, ok := fb.Resolve()
	if !ok {
		t.Fatal("expected resolution")
	}
	if !strings.HasPrefix(text, reasoningFallbackPrefix) {
		t.Errorf("expected reasoning prefix, got %q", text)
	}
	if !strings.Contains(text, "first step\nsecond step") {
		t.Errorf("expected thoughts appended in order, got %q", text)
	}
}

func TestFallbackStateLatestObservationWins(t *testing.T) {
	fb := &FallbackState{}
	fb.RecordObservation("stale")
	fb.RecordObservation("fresh")

	text, _ := fb.Resolve()
	if !strings.Contains(text, "fresh") || strings.Contains(text, "stale") {
		t.Errorf("expected only the latest observation, got %q", text)
	}
}

func TestFallbackStateIgnoresBlankRecords(t *testing.T) {
	fb := &FallbackState{}
	fb.RecordObservation("   ")
	fb.RecordThought("  \n ")
	if _, ok := fb.Resolve(); ok {
		t.Error("blank records must not make the state resolvable")
	}
}
