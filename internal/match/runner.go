package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"buckshot-lite/internal/ledger"
	"buckshot-lite/replay"
	"buckshot-lite/roulette"
)

// ErrAborted is returned when the match context is cancelled mid-game.
var ErrAborted = errors.New("match aborted")

type Options struct {
	MatchID     string
	Game        roulette.Config
	Seats       [roulette.NumChairs]roulette.ContestantSpec
	Controllers [roulette.NumChairs]Controller
	Sinks       []Sink
	Ledger      ledger.Service
	Logger      logrus.FieldLogger
}

// Result summarises a finished match.
type Result struct {
	MatchID    string
	Winner     uint16
	WinnerName string
	Rounds     int
	Actions    int
	Final      roulette.Snapshot
	Tape       *replay.Tape
}

// Runner plays one match to completion. It is single-use.
type Runner struct {
	id          string
	game        *roulette.Game
	controllers [roulette.NumChairs]Controller
	sinks       []Sink
	recorder    *replay.Recorder
	ledger      ledger.Service
	log         logrus.FieldLogger
	actions     int
}

func New(opts Options) (*Runner, error) {
	for chair, c := range opts.Controllers {
		if c == nil {
			return nil, fmt.Errorf("chair %d has no controller", chair)
		}
	}
	game, err := roulette.NewGame(opts.Game, opts.Seats)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	id := strings.TrimSpace(opts.MatchID)
	if id == "" {
		id = uuid.NewString()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Runner{
		id:          id,
		game:        game,
		controllers: opts.Controllers,
		sinks:       opts.Sinks,
		recorder:    replay.NewRecorder(id, game, opts.Seats),
		ledger:      opts.Ledger,
		log:         log.WithFields(logrus.Fields{"component": "match", "match": id}),
	}
	return r, nil
}

func (r *Runner) ID() string { return r.id }

func (r *Runner) Game() *roulette.Game { return r.game }

// Run drives the game until a contestant dies or ctx is cancelled. Rejected
// actions are reported to observers and the same contestant is asked again.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.log.WithField("seed", r.game.Seed()).Info("match started")
	events, err := r.game.Start()
	if err != nil {
		return nil, err
	}
	r.dispatch(ctx, events)

	for !r.game.Ended() {
		if err := ctx.Err(); err != nil {
			return nil, r.abort(err)
		}
		snap := r.game.Snapshot()
		chair := snap.ActionChair
		r.notifyTurn(ctx, snap)

		action, err := r.controllers[chair].Decide(ctx, chair, snap)
		if err != nil {
			if ctx.Err() != nil {
				return nil, r.abort(ctx.Err())
			}
			return nil, r.abort(err)
		}

		events, err := r.game.Act(chair, action)
		switch {
		case err == nil:
		case errors.Is(err, roulette.ErrInvalidAction), errors.Is(err, roulette.ErrItemPreconditionFailed):
			r.log.WithFields(logrus.Fields{"chair": chair, "action": action.String()}).WithError(err).Debug("action rejected")
			r.notifyRejected(chair, action, err)
			continue
		case errors.Is(err, roulette.ErrEmptyQueue):
			return nil, fmt.Errorf("%w: %w", roulette.ErrInvalidState("match "+r.id), err)
		default:
			return nil, fmt.Errorf("act chair %d: %w", chair, err)
		}

		r.recorder.Record(chair, action)
		r.actions++
		r.dispatch(ctx, events)
	}

	final := r.game.Snapshot()
	res := &Result{
		MatchID: r.id,
		Winner:  final.Winner,
		Rounds:  final.Round + 1,
		Actions: r.actions,
		Final:   final,
		Tape:    r.recorder.Tape(),
	}
	if p := final.Player(final.Winner); p != nil {
		res.WinnerName = p.Name
	}
	r.log.WithFields(logrus.Fields{"winner": res.WinnerName, "rounds": res.Rounds, "actions": res.Actions}).Info("match finished")
	r.persist(res)
	return res, nil
}

func (r *Runner) abort(cause error) error {
	r.log.WithError(cause).Warn("match aborted")
	return fmt.Errorf("%w: %w", ErrAborted, cause)
}

func (r *Runner) dispatch(ctx context.Context, events []roulette.Event) {
	if len(events) == 0 {
		return
	}
	snap := r.game.Snapshot()
	for _, s := range r.sinks {
		s.OnEvents(ctx, r.id, events, snap)
	}
}

func (r *Runner) notifyTurn(ctx context.Context, snap roulette.Snapshot) {
	for _, s := range r.sinks {
		if obs, ok := s.(TurnObserver); ok {
			obs.OnTurn(ctx, r.id, snap)
		}
	}
}

func (r *Runner) notifyRejected(chair uint16, action roulette.Action, err error) {
	if obs, ok := r.controllers[chair].(RejectionObserver); ok {
		obs.OnRejected(chair, action, err)
	}
	for _, s := range r.sinks {
		if obs, ok := s.(RejectionObserver); ok {
			obs.OnRejected(chair, action, err)
		}
	}
}

// persist writes the finished match. Failures are logged only.
func (r *Runner) persist(res *Result) {
	if r.ledger == nil {
		return
	}
	tape, err := res.Tape.Encode()
	if err != nil {
		r.log.WithError(err).Warn("encode tape failed")
		return
	}
	cfg := r.game.Config()
	rec := ledger.MatchRecord{
		MatchID:  r.id,
		PlayedAt: time.Now().UTC(),
		Preset:   cfg.Preset.String(),
		Seed:     r.game.Seed(),
		Players:  [2]string{res.Final.Players[0].Name, res.Final.Players[1].Name},
		Winner:   res.Winner,
		Rounds:   res.Rounds,
		Actions:  res.Actions,
		Tape:     tape,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.ledger.RecordMatch(ctx, rec); err != nil {
		r.log.WithError(err).Warn("record match failed")
	}
}
