package agentloop

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/scoutagent/scout/llmclient"
)

// DefaultMaxSteps bounds the Thought/Action/Observation cycle per run.
const DefaultMaxSteps = 10

// CompletionClient is the completion contract the loop consumes. It is
// satisfied by *llmclient.Client.
type CompletionClient interface {
	Complete(ctx context.Context, transcript []llmclient.Message, stopSequences []string) (string, error)
}

// Config holds the engine's tunables. The zero value is usable: defaults
// are applied at construction.
type Config struct {
	// MaxSteps bounds the number of completion calls per run.
	MaxSteps int

	// SystemPrompt overrides the generated system message when non-empty.
	SystemPrompt string

	// ObservationLimit caps observation characters entering the transcript.
	ObservationLimit int

	// StopSequences are sent with every completion call. The default stops
	// the model before it hallucinates its own "Observation:" line.
	StopSequences []string
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxSteps:         DefaultMaxSteps,
		ObservationLimit: DefaultObservationLimit,
		StopSequences:    []string{"\nObservation:"},
	}
}

// Loop drives the Thought/Action/Observation cycle for single-task runs.
// A Loop is safe for concurrent runs: all per-run state (transcript,
// fallback material, run ID) lives on the stack of each Run call.
type Loop struct {
	client   CompletionClient
	registry *Registry
	config   Config
	emitter  *EventEmitter
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) LoopOption {
	return func(l *Loop) { l.config = cfg }
}

// WithEventEmitter attaches an emitter for run lifecycle events.
func WithEventEmitter(emitter *EventEmitter) LoopOption {
	return func(l *Loop) { l.emitter = emitter }
}

// New creates a Loop around a completion client and a tool registry.
func New(client CompletionClient, registry *Registry, opts ...LoopOption) *Loop {
	l := &Loop{
		client:   client,
		registry: registry,
		config:   DefaultConfig(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.config.MaxSteps <= 0 {
		l.config.MaxSteps = DefaultMaxSteps
	}
	if l.config.ObservationLimit <= 0 {
		l.config.ObservationLimit = DefaultObservationLimit
	}
	if l.registry == nil {
		l.registry = NewRegistry()
	}
	return l
}

// Registry returns the tool registry backing this loop.
func (l *Loop) Registry() *Registry {
	return l.registry
}

func (l *Loop) emit(runID string, kind EventKind, data map[string]interface{}) {
	if l.emitter != nil {
		l.emitter.Emit(runID, kind, data)
	}
}

// Run answers a single query. It always returns some answer text when any
// usable material exists: a clean Answer, a fallback built from the last
// tool observation or partial reasoning, or as a last resort the model's
// raw reply. It returns an error only when no text can be produced at all.
func (l *Loop) Run(ctx context.Context, query string) (string, error) {
	runID := uuid.New().String()
	fb := &FallbackState{}

	systemPrompt := l.config.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = BuildSystemPrompt(l.registry)
	}
	transcript := []llmclient.Message{
		llmclient.SystemMessage(systemPrompt),
		llmclient.UserMessage(query),
	}

	l.emit(runID, EventRunStart, map[string]interface{}{"query": query})

	for step := 1; step <= l.config.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			l.emit(runID, EventError, map[string]interface{}{"error": err.Error()})
			return "", &RunFailureError{RunID: runID, Cause: err}
		}

		l.emit(runID, EventStepStart, map[string]interface{}{"step": step})

		reply, err := l.client.Complete(ctx, transcript, l.config.StopSequences)
		if err != nil {
			// Both EmptyCompletion and exhausted provider retries land here;
			// either way the loop cannot continue and fallback decides.
			return l.resolveOrFail(runID, fb, err)
		}
		transcript = append(transcript, llmclient.AssistantMessage(reply))
		l.emit(runID, EventCompletion, map[string]interface{}{"step": step, "chars": len(reply)})

		directive := ParseDirective(reply)
		if directive.Thought != "" {
			fb.RecordThought(directive.Thought)
		}

		switch directive.Kind {
		case DirectiveAnswer:
			l.emit(runID, EventRunEnd, map[string]interface{}{"outcome": "answered", "steps": step})
			return directive.Answer, nil

		case DirectiveEmptyAnswer:
			if text, ok := fb.Resolve(); ok {
				l.emit(runID, EventFallbackResolved, map[string]interface{}{"step": step})
				return text, nil
			}
			// Nothing to fall back on yet; keep stepping.

		case DirectiveAction:
			l.emit(runID, EventToolCallStart, map[string]interface{}{
				"step": step, "tool": directive.Tool,
			})
			observation, invoked := l.registry.Dispatch(ctx, directive.Tool, directive.Input)
			observation = TruncateObservation(observation, l.config.ObservationLimit)
			l.emit(runID, EventToolCallEnd, map[string]interface{}{
				"step": step, "tool": directive.Tool, "invoked": invoked, "chars": len(observation),
			})

			transcript = append(transcript, llmclient.UserMessage("Observation: "+observation))
			if invoked {
				fb.RecordObservation(observation)
			}

		case DirectiveThought, DirectiveUnparseable:
			if text, ok := fb.Resolve(); ok {
				l.emit(runID, EventFallbackResolved, map[string]interface{}{"step": step})
				return text, nil
			}
			// Last-resort terminal behavior: hand back whatever the model
			// said, trimmed. Distinct from failing the run.
			l.emit(runID, EventRunEnd, map[string]interface{}{"outcome": "raw_reply", "steps": step})
			return strings.TrimSpace(reply), nil
		}
	}

	l.emit(runID, EventStepLimit, map[string]interface{}{"max_steps": l.config.MaxSteps})
	if text, ok := fb.Resolve(); ok {
		l.emit(runID, EventFallbackResolved, map[string]interface{}{"step": l.config.MaxSteps})
		return text, nil
	}
	return "", &RunFailureError{RunID: runID, Cause: ErrStepLimitExceeded}
}

// resolveOrFail attempts fallback resolution after an unrecoverable
// completion failure and fails the run when nothing is available.
func (l *Loop) resolveOrFail(runID string, fb *FallbackState, cause error) (string, error) {
	if text, ok := fb.Resolve(); ok {
		l.emit(runID, EventFallbackResolved, map[string]interface{}{"cause": cause.Error()})
		return text, nil
	}
	l.emit(runID, EventError, map[string]interface{}{"error": cause.Error()})
	return "", &RunFailureError{RunID: runID, Cause: cause}
}
