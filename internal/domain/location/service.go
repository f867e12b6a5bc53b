package location

import "context"

// Provider performs a single position query. Implementations may block.
type Provider interface {
	Position(ctx context.Context) (Position, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Position, error)

func (f ProviderFunc) Position(ctx context.Context) (Position, error) {
	return f(ctx)
}

// Sample is the outcome of a best-effort capture. Position is nil when the
// capture failed; Warning then carries the user-facing message.
type Sample struct {
	Position *Position
	Warning  string
}

// Capturer samples a position with a hard timeout. It never returns an
// error: failures are folded into Sample.Warning.
type Capturer interface {
	Capture(ctx context.Context, provider Provider) Sample
}
