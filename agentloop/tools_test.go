package agentloop

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func echoTool(name string) Tool {
	return ToolFunc{
		ToolName:        name,
		ToolDescription: "echoes its input",
		Fn: func(ctx context.Context, input string) (string, error) {
			return "echo: " + input, nil
		},
	}
}

func failingTool(name string, err error) Tool {
	return ToolFunc{
		ToolName:        name,
		ToolDescription: "always fails",
		Fn: func(ctx context.Context, input string) (string, error) {
			return "", err
		},
	}
}

func TestRegistryRegisterDuplicateFails(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(echoTool("Search")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(echoTool("Search")); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if err := r.Register(echoTool("SEARCH")); err == nil {
		t.Error("expected case-insensitive duplicate registration to fail")
	}
	if r.Count() != 1 {
		t.Errorf("expected 1 tool, got %d", r.Count())
	}
}

func TestRegistryRegisterEmptyNameFails(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(echoTool("   ")); err == nil {
		t.Error("expected empty name registration to fail")
	}
}

func TestRegistryResolveIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(echoTool("Calculator")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"Calculator", "calculator", "CALCULATOR", " calculator "} {
		if _, ok := r.Resolve(name); !ok {
			t.Errorf("expected %q to resolve", name)
		}
	}
	if _, ok := r.Resolve("Missing"); ok {
		t.Error("expected unknown name to not resolve")
	}
}

func TestRegistryDispatchForwardsInputVerbatim(t *testing.T) {
	r := NewRegistry()
	var seen string
	r.Register(ToolFunc{
		ToolName:        "Probe",
		ToolDescription: "records its input",
		Fn: func(ctx context.Context, input string) (string, error) {
			seen = input
			return "ok", nil
		},
	})

	input := "  raw   input with  spaces "
	obs, invoked := r.Dispatch(context.Background(), "probe", input)
	if !invoked {
		t.Fatal("expected invocation to succeed")
	}
	if obs != "ok" {
		t.Errorf("unexpected observation %q", obs)
	}
	if seen != input {
		t.Errorf("expected input forwarded verbatim, got %q", seen)
	}
}

func TestRegistryDispatchUnknownToolIsData(t *testing.T) {
	r := NewRegistry()
	obs, invoked := r.Dispatch(context.Background(), "Ghost", "x")
	if invoked {
		t.Error("expected invoked=false for unknown tool")
	}
	if obs != `Tool "Ghost" not found` {
		t.Errorf("unexpected observation %q", obs)
	}
}

func TestRegistryDispatchToolErrorIsData(t *testing.T) {
	r := NewRegistry()
	r.Register(failingTool("Flaky", errors.New("connection refused")))

	obs, invoked := r.Dispatch(context.Background(), "flaky", "x")
	if invoked {
		t.Error("expected invoked=false for failing tool")
	}
	if !strings.HasPrefix(obs, "Error: ") || !strings.Contains(obs, "connection refused") {
		t.Errorf("unexpected observation %q", obs)
	}
}

func TestRegistryNamesKeepRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		if err := r.Register(echoTool(name)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	names := r.Names()
	if len(names) != 3 || names[0] != "Zeta" || names[1] != "Alpha" || names[2] != "Mid" {
		t.Errorf("unexpected order %v", names)
	}

	sorted := r.SortedNames()
	if sorted[0] != "Alpha" || sorted[1] != "Mid" || sorted[2] != "Zeta" {
		t.Errorf("unexpected sorted order %v", sorted)
	}
}
