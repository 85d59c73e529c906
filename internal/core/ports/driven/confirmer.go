package driven

import "context"

// Confirmer asks the user to approve an irreversible action.
type Confirmer interface {
	// Confirm returns true if the user approved. An error means the prompt
	// itself failed and is treated as a refusal.
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}
