package agentloop

import "fmt"

// DefaultObservationLimit caps how many characters of a tool observation
// enter the transcript. Oversized observations crowd out the context window
// long before they add information.
const DefaultObservationLimit = 8000

// TruncateObservation applies head/tail truncation to a tool observation so
// both the opening of the output and its ending survive.
func TruncateObservation(obs string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultObservationLimit
	}
	if len(obs) <= maxChars {
		return obs
	}

	half := maxChars / 2
	removed := len(obs) - maxChars
	return obs[:half] +
		fmt.Sprintf("\n\n[Observation truncated: %d characters removed from the middle. "+
			"Re-run the tool with a narrower input if you need the omitted part.]\n\n", removed) +
		obs[len(obs)-half:]
}
