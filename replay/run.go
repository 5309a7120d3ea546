package replay

import (
	"errors"
	"fmt"

	"buckshot-lite/roulette"
)

// Run re-executes a tape and returns every emitted event plus the final
// snapshot. Any divergence is reported as a *ReplayError.
func Run(tape *Tape) (*Result, error) {
	if tape == nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "missing_tape", Message: "tape is nil"}
	}
	if tape.TapeVersion != CurrentTapeVersion {
		return nil, &ReplayError{
			StepIndex: -1,
			Reason:    "unsupported_version",
			Message:   fmt.Sprintf("tape version %d, want %d", tape.TapeVersion, CurrentTapeVersion),
		}
	}
	if tape.Seed == 0 {
		return nil, &ReplayError{StepIndex: -1, Reason: "missing_seed", Message: "tape has no seed"}
	}
	cfg, err := tape.Config.toConfig(tape.Seed)
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "invalid_config", Message: err.Error()}
	}

	game, err := roulette.NewGame(cfg, tape.Seats)
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "engine_init_failed", Message: err.Error()}
	}
	startEvents, err := game.Start()
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "start_failed", Message: err.Error()}
	}

	res := &Result{}
	var seq uint64
	emit := func(step int, events []roulette.Event) {
		for _, e := range events {
			seq++
			res.Events = append(res.Events, ReplayEvent{Seq: seq, Step: step, Event: e})
		}
	}
	emit(-1, startEvents)

	for stepIdx, spec := range tape.Actions {
		before := game.Snapshot()
		if before.Ended {
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    "no_action_expected",
				Message:   "match is already over; no further actions are allowed",
			}
		}
		action, err := spec.toAction()
		if err != nil {
			return nil, &ReplayError{StepIndex: stepIdx, Reason: "invalid_action", Message: err.Error()}
		}
		if before.ActionChair != spec.Chair {
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    "out_of_turn",
				Message:   fmt.Sprintf("expected action chair %d, got %d", before.ActionChair, spec.Chair),
				Expected:  expectedState(game, before),
			}
		}

		events, err := game.Act(spec.Chair, action)
		if err != nil {
			reason := "action_apply_failed"
			if errors.Is(err, roulette.ErrItemPreconditionFailed) {
				reason = "item_precondition_failed"
			}
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    reason,
				Message:   err.Error(),
				Expected:  expectedState(game, before),
			}
		}
		emit(stepIdx, events)
	}

	res.Final = game.Snapshot()
	return res, nil
}

func expectedState(g *roulette.Game, snap roulette.Snapshot) *ExpectedState {
	exp := &ExpectedState{
		ActionChair: snap.ActionChair,
		Phase:       snap.Phase.String(),
		Round:       snap.Round,
	}
	if acts, err := g.LegalActions(snap.ActionChair); err == nil {
		for _, a := range acts {
			exp.LegalActions = append(exp.LegalActions, a.String())
		}
	}
	return exp
}
