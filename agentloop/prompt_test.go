package agentloop

import (
	"strings"
	"testing"
)

func TestBuildSystemPromptListsToolsSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Zebra", "Alpha", "Middle"} {
		if err := r.Register(echoTool(name)); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	prompt := BuildSystemPrompt(r)

	alpha := strings.Index(prompt, "- Alpha:")
	middle := strings.Index(prompt, "- Middle:")
	zebra := strings.Index(prompt, "- Zebra:")
	if alpha < 0 || middle < 0 || zebra < 0 {
		t.Fatalf("expected all tools listed:\n%s", prompt)
	}
	if !(alpha < middle && middle < zebra) {
		t.Errorf("expected lexical tool order, got positions %d/%d/%d", alpha, middle, zebra)
	}
}

func TestBuildSystemPromptWithoutTools(t *testing.T) {
	prompt := BuildSystemPrompt(NewRegistry())
	if strings.Contains(prompt, "Available tools") {
		t.Errorf("expected no tool section for an empty registry:\n%s", prompt)
	}
	for _, want := range []string{"Thought:", "Action:", "Answer:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected format marker %q in prompt", want)
		}
	}
}
