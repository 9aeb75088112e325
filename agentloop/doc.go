// Package agentloop implements the agent execution engine: a step-limited
// Thought/Action/Observation loop that pairs an LLM completion client with a
// small registry of text-in/text-out tools and always terminates with some
// answer when any usable material exists.
//
// # Architecture
//
// The package is organized around these core concepts:
//
//   - Loop: the orchestrator. Each Run owns its transcript and fallback
//     state, calls the completion client, parses the reply into a Directive,
//     dispatches tool actions, and terminates on an Answer, a resolved
//     fallback, or an error.
//   - Registry: case-insensitive registration and dispatch of Tools. Tool
//     failures and unknown names become textual observations rather than
//     aborting the run.
//   - ParseDirective: the small ad hoc grammar of assistant replies
//     (Thought / Action: Name[input] / Answer: text) with explicit
//     precedence rules.
//   - FallbackState: the layered best-effort answer policy. A successful
//     tool observation outranks partial reasoning; both outrank failing.
//   - EventEmitter: typed run events over a buffered channel for host
//     applications to log or display.
//
// # Termination
//
// A run ends in exactly one of three ways: a clean Answer, a
// fallback-prefixed answer (also used when the step budget runs out or the
// provider fails mid-run with observations in hand), or an error —
// *RunFailureError wrapping the cause, ErrStepLimitExceeded included.
//
// # Quick Start
//
//	registry := agentloop.NewRegistry()
//	registry.Register(searchTool)
//
//	loop := agentloop.New(client, registry)
//	answer, err := loop.Run(ctx, "Who wrote The Left Hand of Darkness?")
package agentloop
