package mealplan

import "context"

type UseCase interface {
	// GeneratePlan formats the current inventory into a prompt and hands it
	// to the planner. Returns the generated plan text.
	GeneratePlan(ctx context.Context) (string, error)
}

// Planner is an opaque text-completion capability; the engine supplies only
// the prompt.
type Planner interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
