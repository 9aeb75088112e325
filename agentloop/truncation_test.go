package agentloop

import (
	"strings"
	"testing"
)

func TestTruncateObservationShortPassthrough(t *testing.T) {
	obs := "short output"
	if got := TruncateObservation(obs, 1000); got != obs {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestTruncateObservationKeepsHeadAndTail(t *testing.T) {
	obs := strings.Repeat("a", 500) + "MIDDLE" + strings.Repeat("z", 500)
	got := TruncateObservation(obs, 200)

	if !strings.HasPrefix(got, strings.Repeat("a", 100)) {
		t.Error("expected head to survive")
	}
	if !strings.HasSuffix(got, strings.Repeat("z", 100)) {
		t.Error("expected tail to survive")
	}
	if !strings.Contains(got, "Observation truncated") {
		t.Error("expected truncation marker")
	}
	if strings.Contains(got, "MIDDLE") {
		t.Error("expected middle to be removed")
	}
}

func TestTruncateObservationZeroLimitUsesDefault(t *testing.T) {
	obs := strings.Repeat("x", DefaultObservationLimit+100)
	got := TruncateObservation(obs, 0)
	if len(got) >= len(obs) {
		t.Error("expected output shorter than input under the default limit")
	}
}
