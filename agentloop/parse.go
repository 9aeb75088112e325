package agentloop

import (
	"regexp"
	"strings"
)

// DirectiveKind classifies the parsed intent of one assistant reply.
type DirectiveKind string

const (
	// DirectiveAnswer carries a non-empty final answer. Terminal.
	DirectiveAnswer DirectiveKind = "answer"

	// DirectiveEmptyAnswer marks an "Answer:" marker with nothing after it.
	// Never accepted as a terminal answer.
	DirectiveEmptyAnswer DirectiveKind = "empty_answer"

	// DirectiveAction requests a tool invocation.
	DirectiveAction DirectiveKind = "action"

	// DirectiveThought is reasoning text with no answer and no action.
	DirectiveThought DirectiveKind = "thought"

	// DirectiveUnparseable is a reply matching none of the markers.
	DirectiveUnparseable DirectiveKind = "unparseable"
)

// Directive is the parsed shape of one assistant reply. Thought is populated
// whenever a "Thought:" segment is present, regardless of Kind, so callers
// can accumulate partial reasoning even on action replies.
type Directive struct {
	Kind    DirectiveKind
	Answer  string // final answer text, for DirectiveAnswer
	Tool    string // tool name, for DirectiveAction
	Input   string // tool input, for DirectiveAction
	Thought string // reasoning text, when present
}

const (
	answerMarker  = "Answer:"
	thoughtMarker = "Thought:"
)

// actionPattern matches "Action: <ToolName>[<ToolInput>]". The name is the
// run of characters between the marker and the opening bracket; the input is
// the run of characters inside the first matching bracket pair, so nested
// opening brackets survive but the input ends at the first "]".
var actionPattern = regexp.MustCompile(`Action:\s*([^\[\n]+)\[([^\]]*)\]`)

// ParseDirective extracts the structured directive from raw reply text.
//
// Precedence, first match wins:
//
//  1. A non-empty "Answer:" segment (content runs to end of text).
//  2. An "Action: Name[input]" segment.
//  3. A "Thought:" segment with non-empty content.
//  4. An empty "Answer:" marker, reported as DirectiveEmptyAnswer.
//  5. Otherwise DirectiveUnparseable.
//
// A whitespace-only "Answer:" does not satisfy rule 1 and does not shadow a
// well-formed Action in the same reply.
func ParseDirective(reply string) Directive {
	d := Directive{Thought: extractThought(reply)}

	answerFound := false
	if idx := strings.Index(reply, answerMarker); idx >= 0 {
		answerFound = true
		if content := strings.TrimSpace(reply[idx+len(answerMarker):]); content != "" {
			d.Kind = DirectiveAnswer
			d.Answer = content
			return d
		}
	}

	if m := actionPattern.FindStringSubmatch(reply); m != nil {
		d.Kind = DirectiveAction
		d.Tool = strings.TrimSpace(m[1])
		d.Input = m[2]
		return d
	}

	if d.Thought != "" {
		d.Kind = DirectiveThought
		return d
	}

	if answerFound {
		d.Kind = DirectiveEmptyAnswer
		return d
	}

	d.Kind = DirectiveUnparseable
	return d
}

// extractThought returns the content of the first "Thought:" segment, cut
// at the next directive marker so trailing Action/Answer text is excluded.
func extractThought(reply string) string {
	idx := strings.Index(reply, thoughtMarker)
	if idx < 0 {
		return ""
	}
	content := reply[idx+len(thoughtMarker):]

	for _, marker := range []string{"Action:", answerMarker} {
		if cut := strings.Index(content, marker); cut >= 0 {
			content = content[:cut]
		}
	}
	return strings.TrimSpace(content)
}
