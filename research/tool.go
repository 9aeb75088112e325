package research

import (
	"context"
	"fmt"
)

// Tool exposes the store to the agent loop as a Recall tool: the model can
// check whether a similar question was already answered before spending
// steps on the web.
type Tool struct {
	store *Store
}

// NewTool wraps a store as the agent's Recall tool.
func NewTool(store *Store) *Tool {
	return &Tool{store: store}
}

func (t *Tool) Name() string { return "Recall" }

func (t *Tool) Description() string {
	return "Looks up previously answered research questions. Input is a question; returns a stored answer if a similar question was answered before."
}

func (t *Tool) Invoke(ctx context.Context, input string) (string, error) {
	note, ok, err := t.store.FindSimilar(ctx, input)
	if err != nil {
		return "", err
	}
	if !ok {
		return "No stored answer matches this question.", nil
	}
	return fmt.Sprintf("A similar question was answered on %s.\nQuestion: %s\nAnswer: %s",
		note.CreatedAt.Format("2006-01-02"), note.Query, note.Answer), nil
}
