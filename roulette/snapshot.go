package roulette

type ContestantSnapshot struct {
	Chair     uint16     `json:"chair"`
	Name      string     `json:"name"`
	Robot     bool       `json:"robot"`
	Health    int        `json:"health"`
	MaxHealth int        `json:"max_health"`
	Items     []ItemKind `json:"items"`
}

type Snapshot struct {
	Round       int    `json:"round"`
	Phase       Phase  `json:"phase"`
	Ended       bool   `json:"ended"`
	Winner      uint16 `json:"winner"`
	ActionChair uint16 `json:"action_chair"`

	Remaining      int `json:"remaining"`
	RemainingLive  int `json:"remaining_live"`
	RemainingBlank int `json:"remaining_blank"`

	DamageAmplified     bool      `json:"damage_amplified"`
	TurnSkip            SkipState `json:"turn_skip"`
	NextShellKnownBlank bool      `json:"next_shell_known_blank"`

	Players []ContestantSnapshot `json:"players"`
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Round:               g.round,
		Phase:               g.phase,
		Ended:               g.ended,
		Winner:              g.winner,
		ActionChair:         g.curChair,
		Remaining:           g.queue.Remaining(),
		RemainingLive:       g.queue.RemainingLive(),
		RemainingBlank:      g.queue.RemainingBlank(),
		DamageAmplified:     g.damageAmplified,
		TurnSkip:            g.turnSkip,
		NextShellKnownBlank: g.nextShellKnownBlank,
	}
	for _, p := range g.players {
		s.Players = append(s.Players, ContestantSnapshot{
			Chair:     p.Chair,
			Name:      p.Name,
			Robot:     p.Robot,
			Health:    p.health,
			MaxHealth: p.maxHealth,
			Items:     p.Items(),
		})
	}
	return s
}

// Player returns the snapshot for chair, or nil.
func (s Snapshot) Player(chair uint16) *ContestantSnapshot {
	for i := range s.Players {
		if s.Players[i].Chair == chair {
			return &s.Players[i]
		}
	}
	return nil
}

// Opponent returns the snapshot of the contestant not in chair.
func (s Snapshot) Opponent(chair uint16) *ContestantSnapshot {
	return s.Player(otherChair(chair))
}
