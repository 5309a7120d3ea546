package replay

import (
	"sync"

	"buckshot-lite/roulette"
)

// Recorder accumulates the accepted actions of a live match.
type Recorder struct {
	mu   sync.Mutex
	tape Tape
}

// NewRecorder starts a tape for g. Call it before the first action.
func NewRecorder(matchID string, g *roulette.Game, seats [roulette.NumChairs]roulette.ContestantSpec) *Recorder {
	return &Recorder{tape: Tape{
		TapeVersion: CurrentTapeVersion,
		MatchID:     matchID,
		Seed:        g.Seed(),
		Config:      configSpecFrom(g.Config()),
		Seats:       seats,
	}}
}

// Record appends an action the game accepted. Rejected actions must not be
// recorded since they leave no trace in the game state.
func (r *Recorder) Record(chair uint16, a roulette.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tape.Actions = append(r.tape.Actions, actionSpecFrom(chair, a))
}

// Tape returns a copy of the tape so far.
func (r *Recorder) Tape() *Tape {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.tape
	out.Actions = append([]ActionSpec(nil), r.tape.Actions...)
	return &out
}
