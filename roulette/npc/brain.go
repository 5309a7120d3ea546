package npc

import "buckshot-lite/roulette"

// GameView is the part of the game state the policy is allowed to see. The
// opponent's inventory is deliberately absent.
type GameView struct {
	Items               []roulette.ItemKind
	RemainingLive       int
	RemainingBlank      int
	NextShellKnownBlank bool
	DamageAmplified     bool
	OpponentSkip        roulette.SkipState
}

// Decision is what a BrainDecider returns.
type Decision struct {
	Action roulette.Action
	// Rule is the 1-based policy rule that produced the action, for logs.
	Rule int
}

// BrainDecider is the core interface all NPC types implement.
type BrainDecider interface {
	// Decide is called when it's the NPC's turn.
	Decide(view GameView) Decision
	// Name returns a human-readable identifier for debugging.
	Name() string
}

// BuildView projects a snapshot for the contestant in chair.
func BuildView(snap roulette.Snapshot, chair uint16) GameView {
	view := GameView{
		RemainingLive:       snap.RemainingLive,
		RemainingBlank:      snap.RemainingBlank,
		NextShellKnownBlank: snap.NextShellKnownBlank,
		DamageAmplified:     snap.DamageAmplified,
		OpponentSkip:        snap.TurnSkip,
	}
	if me := snap.Player(chair); me != nil {
		view.Items = append([]roulette.ItemKind(nil), me.Items...)
	}
	return view
}
