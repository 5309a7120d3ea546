package match

import (
	"context"

	"buckshot-lite/roulette"
)

// Sink receives every batch of events in order, together with the snapshot
// taken right after they were emitted.
type Sink interface {
	OnEvents(ctx context.Context, matchID string, events []roulette.Event, snap roulette.Snapshot)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, matchID string, events []roulette.Event, snap roulette.Snapshot)

func (f SinkFunc) OnEvents(ctx context.Context, matchID string, events []roulette.Event, snap roulette.Snapshot) {
	f(ctx, matchID, events, snap)
}

// TurnObserver is implemented by sinks that render something before each
// decision, such as a status block.
type TurnObserver interface {
	OnTurn(ctx context.Context, matchID string, snap roulette.Snapshot)
}
