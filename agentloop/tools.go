package agentloop

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Tool is a named capability the agent can invoke with a single string input.
type Tool interface {
	// Name returns the tool's unique name. Lookup is case-insensitive.
	Name() string

	// Description explains the tool for the system prompt.
	Description() string

	// Invoke runs the tool with the given input and returns its output.
	Invoke(ctx context.Context, input string) (string, error)
}

// ToolFunc adapts a plain function into a Tool.
type ToolFunc struct {
	ToolName        string
	ToolDescription string
	Fn              func(ctx context.Context, input string) (string, error)
}

func (t ToolFunc) Name() string        { return t.ToolName }
func (t ToolFunc) Description() string { return t.ToolDescription }

func (t ToolFunc) Invoke(ctx context.Context, input string) (string, error) {
	return t.Fn(ctx, input)
}

// Registry manages tool registration and dispatch. Tool names are unique
// case-insensitively and immutable for the lifetime of a run.
type Registry struct {
	tools map[string]Tool // keyed by lowercased name
	order []string        // registration order, original casing
	mu    sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. It fails if a tool with the same name (ignoring
// case) is already registered.
func (r *Registry) Register(tool Tool) error {
	name := strings.TrimSpace(tool.Name())
	if name == "" {
		return fmt.Errorf("tool name is empty")
	}
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[key]; exists {
		return fmt.Errorf("tool %q is already registered", name)
	}
	r.tools[key] = tool
	r.order = append(r.order, name)
	return nil
}

// Resolve returns a registered tool by name, ignoring case.
func (r *Registry) Resolve(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[strings.ToLower(strings.TrimSpace(name))]
	return tool, ok
}

// Dispatch looks the tool up case-insensitively and invokes it with input
// forwarded verbatim. Failures are data, not control flow: an unknown name
// or an invocation error produces a textual observation, and invoked
// reports whether the output came from a successful tool run.
func (r *Registry) Dispatch(ctx context.Context, name, input string) (observation string, invoked bool) {
	tool, ok := r.Resolve(name)
	if !ok {
		return fmt.Sprintf("Tool %q not found", strings.TrimSpace(name)), false
	}

	output, err := tool.Invoke(ctx, input)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), false
	}
	return output, true
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// SortedNames returns the registered tool names in lexical order.
func (r *Registry) SortedNames() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}
