package replay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buckshot-lite/roulette"
)

var testSeats = [roulette.NumChairs]roulette.ContestantSpec{
	{Name: "alice"},
	{Name: "dealer", Robot: true},
}

// playRecorded drives a match to completion with a fixed strategy and
// returns the tape, every emitted event and the final snapshot.
func playRecorded(t *testing.T, seed int64) (*Tape, []roulette.Event, roulette.Snapshot) {
	t.Helper()
	cfg := roulette.DefaultConfig()
	cfg.Seed = seed
	g, err := roulette.NewGame(cfg, testSeats)
	require.NoError(t, err)

	rec := NewRecorder("match-1", g, testSeats)
	all, err := g.Start()
	require.NoError(t, err)

	for step := 0; step < 500 && !g.Ended(); step++ {
		chair := g.ActionChair()
		action := roulette.ShootOpponent()
		if len(g.Player(chair).Items()) > 0 {
			action = roulette.UseItem(1)
		}
		events, err := g.Act(chair, action)
		if errors.Is(err, roulette.ErrItemPreconditionFailed) {
			action = roulette.ShootOpponent()
			events, err = g.Act(chair, action)
		}
		require.NoError(t, err, "step %d", step)
		rec.Record(chair, action)
		all = append(all, events...)
	}
	require.True(t, g.Ended(), "match did not finish")
	return rec.Tape(), all, g.Snapshot()
}

func TestRun_ReproducesRecordedMatch(t *testing.T) {
	tape, liveEvents, liveFinal := playRecorded(t, 77)

	res, err := Run(tape)
	require.NoError(t, err)
	assert.Equal(t, liveFinal, res.Final)
	require.Len(t, res.Events, len(liveEvents))
	for i, e := range res.Events {
		assert.Equal(t, uint64(i+1), e.Seq)
		assert.Equal(t, liveEvents[i], e.Event, "event %d", i)
	}
	assert.Equal(t, roulette.EventGameOver, res.Events[len(res.Events)-1].Event.Type)
}

func TestRun_SurvivesEncodeDecode(t *testing.T) {
	tape, _, liveFinal := playRecorded(t, 5)

	data, err := tape.Encode()
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "match-1", decoded.MatchID)

	res, err := Run(decoded)
	require.NoError(t, err)
	assert.Equal(t, liveFinal.Winner, res.Final.Winner)
	assert.Equal(t, liveFinal.Round, res.Final.Round)
}

func TestRun_ReturnsReplayErrorOnOutOfTurnAction(t *testing.T) {
	tape, _, _ := playRecorded(t, 11)
	tape.Actions[0].Chair = 1

	_, err := Run(tape)
	var replayErr *ReplayError
	require.ErrorAs(t, err, &replayErr)
	assert.Equal(t, "out_of_turn", replayErr.Reason)
	assert.Equal(t, 0, replayErr.StepIndex)
	require.NotNil(t, replayErr.Expected)
	assert.Equal(t, uint16(0), replayErr.Expected.ActionChair)
	assert.Contains(t, replayErr.Expected.LegalActions, "SHOOT_SELF")
}

func TestRun_RejectsActionsAfterGameOver(t *testing.T) {
	tape, _, final := playRecorded(t, 3)
	tape.Actions = append(tape.Actions, ActionSpec{Chair: final.Winner, Type: "SHOOT_SELF"})

	_, err := Run(tape)
	var replayErr *ReplayError
	require.ErrorAs(t, err, &replayErr)
	assert.Equal(t, "no_action_expected", replayErr.Reason)
	assert.Equal(t, len(tape.Actions)-1, replayErr.StepIndex)
}

func TestRun_ValidatesHeader(t *testing.T) {
	tape, _, _ := playRecorded(t, 9)

	noSeed := *tape
	noSeed.Seed = 0
	_, err := Run(&noSeed)
	var replayErr *ReplayError
	require.ErrorAs(t, err, &replayErr)
	assert.Equal(t, "missing_seed", replayErr.Reason)

	badVersion := *tape
	badVersion.TapeVersion = 99
	_, err = Run(&badVersion)
	require.ErrorAs(t, err, &replayErr)
	assert.Equal(t, "unsupported_version", replayErr.Reason)

	badPreset := *tape
	badPreset.Config.Preset = "nightmare"
	_, err = Run(&badPreset)
	require.ErrorAs(t, err, &replayErr)
	assert.Equal(t, "invalid_config", replayErr.Reason)
}
