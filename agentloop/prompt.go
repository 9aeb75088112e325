package agentloop

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt renders the reasoning/acting format contract and the
// registered tools into the system message sent on every completion call.
func BuildSystemPrompt(registry *Registry) string {
	var sb strings.Builder

	sb.WriteString("You are a research assistant that answers a single question ")
	sb.WriteString("by reasoning step by step and using the tools listed below.\n\n")

	sb.WriteString("Use exactly this format:\n\n")
	sb.WriteString("Thought: your reasoning about what to do next\n")
	sb.WriteString("Action: ToolName[tool input]\n")
	sb.WriteString("Observation: the result of the action (provided to you)\n")
	sb.WriteString("... (Thought/Action/Observation repeats as needed)\n")
	sb.WriteString("Thought: I now know the answer\n")
	sb.WriteString("Answer: the final answer to the question\n\n")

	if registry != nil && registry.Count() > 0 {
		// Lexical order keeps the prompt stable across restarts no matter
		// how the host happened to register the tools.
		sb.WriteString("Available tools:\n")
		for _, name := range registry.SortedNames() {
			tool, ok := registry.Resolve(name)
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "- %s: %s\n", tool.Name(), tool.Description())
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Rules:\n")
	sb.WriteString("- Emit at most one Action per reply and then stop; never write the Observation yourself.\n")
	sb.WriteString("- The tool input goes between the brackets, verbatim, on one line.\n")
	sb.WriteString("- When you are confident, reply with the final Answer and nothing after it.\n")

	return sb.String()
}
