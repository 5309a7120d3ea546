package roulette

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"buckshot-lite/shell"
)

type Game struct {
	cfg  Config
	seed int64
	rng  *rand.Rand

	mu sync.Mutex

	players [NumChairs]*Contestant

	// round state
	round    int
	phase    Phase
	queue    shell.Queue
	curChair uint16

	// pending effects
	damageAmplified bool
	turnSkip        SkipState

	// Remembered Scope reveal; starts true so the opening decision treats the
	// chambered shell as a blank.
	nextShellKnownBlank bool

	ended  bool
	winner uint16
}

func NewGame(cfg Config, specs [NumChairs]ContestantSpec) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:                 cfg,
		seed:                seed,
		rng:                 rand.New(rand.NewSource(seed)),
		phase:               PhaseTypeIdle,
		curChair:            InvalidChair,
		winner:              InvalidChair,
		nextShellKnownBlank: true,
	}
	for chair, spec := range specs {
		maxHealth := spec.MaxHealth
		if maxHealth == 0 {
			maxHealth = cfg.Preset.Health()
		}
		if maxHealth < 0 {
			return nil, fmt.Errorf("chair %d: max health must be > 0", chair)
		}
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			name = fmt.Sprintf("player%d", chair+1)
		}
		g.players[chair] = &Contestant{
			Chair:     uint16(chair),
			Name:      name,
			Robot:     spec.Robot,
			health:    maxHealth,
			maxHealth: maxHealth,
		}
	}
	return g, nil
}

// Seed returns the effective RNG seed, needed to replay the game.
func (g *Game) Seed() int64 { return g.seed }

func (g *Game) Config() Config { return g.cfg }

func (g *Game) Player(chair uint16) *Contestant {
	if int(chair) >= NumChairs {
		return nil
	}
	return g.players[chair]
}

// Start loads the first round. Chair 0 acts first; no items are dealt until
// the first reload.
func (g *Game) Start() ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseTypeIdle {
		return nil, ErrInvalidState("game already started")
	}
	g.curChair = 0
	g.phase = PhaseTypeAwaitingAction
	load := g.cfg.roundLoad(g.round)
	g.queue.Load(g.rng, load.Live, load.Blank)
	return []Event{{
		Type:  EventRoundLoaded,
		Round: g.round,
		Chair: g.curChair,
		Live:  load.Live,
		Blank: load.Blank,
	}}, nil
}

// LegalActions is a pure projection of current state.
func (g *Game) LegalActions(chair uint16) ([]Action, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ended {
		return nil, ErrGameOver
	}
	if g.phase != PhaseTypeAwaitingAction {
		return nil, ErrInvalidState("game not started")
	}
	if chair != g.curChair {
		return nil, ErrOutOfTurn
	}
	p := g.players[chair]
	acts := []Action{ShootSelf(), ShootOpponent()}
	for slot := range p.items {
		acts = append(acts, UseItem(slot+1))
	}
	return acts, nil
}

// Act applies an action for the current contestant and returns the events it
// produced. Item failures leave the state untouched.
func (g *Game) Act(chair uint16, action Action) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ended {
		return nil, ErrGameOver
	}
	if g.phase != PhaseTypeAwaitingAction {
		return nil, ErrInvalidState("game not started")
	}
	if chair != g.curChair {
		return nil, ErrOutOfTurn
	}
	if g.queue.Empty() {
		return nil, fmt.Errorf("awaiting action: %w", ErrEmptyQueue)
	}

	actor := g.players[chair]
	switch action.Type {
	case ActionTypeShootSelf:
		return g.shootLocked(actor, actor, action.ClearReveal)
	case ActionTypeShootOpponent:
		return g.shootLocked(actor, g.players[otherChair(chair)], action.ClearReveal)
	case ActionTypeUseItem:
		return g.useItemLocked(actor, action.Slot)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidAction, action.Type)
	}
}

func (g *Game) useItemLocked(actor *Contestant, slot int) ([]Event, error) {
	kind, ok := actor.ItemAt(slot)
	if !ok {
		return nil, fmt.Errorf("%w: no item in slot %d", ErrInvalidAction, slot)
	}
	effects, err := g.applyItemEffect(kind, actor)
	if err != nil {
		return nil, err
	}
	actor.removeItem(slot)

	events := make([]Event, 0, len(effects)+4)
	events = append(events, Event{
		Type:  EventItemUsed,
		Round: g.round,
		Chair: actor.Chair,
		Item:  kind,
		Slot:  slot,
	})
	events = append(events, effects...)

	// Liquor can eject the last shell.
	if g.queue.Empty() {
		events = append(events, g.endRoundLocked()...)
	}
	return events, nil
}

func (g *Game) shootLocked(shooter, target *Contestant, clearReveal bool) ([]Event, error) {
	if clearReveal {
		g.nextShellKnownBlank = true
	}
	fired, err := g.queue.Fire()
	if err != nil {
		return nil, fmt.Errorf("shoot: %w", err)
	}

	dmg := 0
	if fired.IsLive() {
		dmg = 1
		if g.damageAmplified {
			dmg++
		}
		target.damage(dmg)
	}
	// Amplify is spent by any shot.
	g.damageAmplified = false

	events := []Event{{
		Type:   EventShotFired,
		Round:  g.round,
		Chair:  shooter.Chair,
		Target: target.Chair,
		Shell:  fired,
		Damage: dmg,
		Health: target.health,
	}}

	if !target.Alive() {
		return append(events, g.endGameLocked(target)...), nil
	}
	if g.queue.Empty() {
		return append(events, g.endRoundLocked()...), nil
	}
	keep := fired.IsBlank() && target == shooter
	return append(events, g.nextTurnLocked(!keep)), nil
}

// nextTurnLocked is only evaluated after a shot.
func (g *Game) nextTurnLocked(changePlayer bool) Event {
	if !changePlayer {
		return Event{Type: EventTurnKept, Round: g.round, Chair: g.curChair}
	}
	expected := otherChair(g.curChair)
	switch g.turnSkip {
	case SkipPending:
		g.turnSkip = SkipConsumed
		return Event{Type: EventTurnSkipped, Round: g.round, Chair: expected, Target: g.curChair}
	case SkipConsumed:
		g.turnSkip = SkipNone
		g.curChair = expected
	default:
		g.curChair = expected
	}
	return Event{Type: EventTurnPassed, Round: g.round, Chair: expected}
}

func (g *Game) endGameLocked(loser *Contestant) []Event {
	g.ended = true
	g.phase = PhaseTypeGameOver
	g.winner = otherChair(loser.Chair)
	return []Event{
		{Type: EventContestantDied, Round: g.round, Chair: loser.Chair},
		{Type: EventGameOver, Round: g.round, Chair: g.winner, Target: loser.Chair, Health: g.players[g.winner].health},
	}
}

// endRoundLocked reloads from the escalation table and deals items. The
// current chair keeps the turn.
func (g *Game) endRoundLocked() []Event {
	events := []Event{{Type: EventQueueEmptied, Round: g.round, Chair: g.curChair}}

	g.round++
	load := g.cfg.roundLoad(g.round)
	g.queue.Load(g.rng, load.Live, load.Blank)
	events = append(events, Event{
		Type:  EventRoundLoaded,
		Round: g.round,
		Chair: g.curChair,
		Live:  load.Live,
		Blank: load.Blank,
	})

	for _, p := range g.players {
		drawn := make([]ItemKind, 0, g.cfg.ItemsPerRound)
		for i := 0; i < g.cfg.ItemsPerRound; i++ {
			kind := ItemKinds[g.rng.Intn(len(ItemKinds))]
			drawn = append(drawn, kind)
			events = append(events, Event{Type: EventItemGranted, Round: g.round, Chair: p.Chair, Item: kind})
		}
		for _, kind := range p.addItems(g.cfg.InventoryCap, drawn...) {
			events = append(events, Event{Type: EventItemDiscarded, Round: g.round, Chair: p.Chair, Item: kind})
		}
	}
	return events
}

func (g *Game) Ended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ended
}

// Winner returns InvalidChair until the game is over.
func (g *Game) Winner() uint16 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}

func (g *Game) ActionChair() uint16 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.curChair
}
