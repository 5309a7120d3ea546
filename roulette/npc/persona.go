package npc

import "time"

// PolicyProfile holds the weighted coins used by RuleBrain.
type PolicyProfile struct {
	LiquorChance        float64 `json:"liquorChance" yaml:"liquor_chance"`                // use Liquor when blanks outnumber lives
	PressChance         float64 `json:"pressChance" yaml:"press_chance"`                  // shoot opponent when lives are the majority
	CautiousPressChance float64 `json:"cautiousPressChance" yaml:"cautious_press_chance"` // shoot opponent when a miss would favour them
}

func DefaultProfile() PolicyProfile {
	return PolicyProfile{
		LiquorChance:        0.8,
		PressChance:         0.8,
		CautiousPressChance: 0.2,
	}
}

const (
	DefaultThinkMin = 8 * time.Second
	DefaultThinkMax = 9 * time.Second
)

// NPCPersona defines a named opponent.
type NPCPersona struct {
	ID      string        `json:"id" yaml:"id"`
	Name    string        `json:"name" yaml:"name"`
	Tagline string        `json:"tagline" yaml:"tagline"`
	Brain   PolicyProfile `json:"brain" yaml:"brain"`
	// Think window in milliseconds; zero falls back to the defaults.
	ThinkMinMs int `json:"thinkMinMs" yaml:"think_min_ms"`
	ThinkMaxMs int `json:"thinkMaxMs" yaml:"think_max_ms"`
}

// ThinkRange returns the persona's think window.
func (p *NPCPersona) ThinkRange() (time.Duration, time.Duration) {
	lo, hi := DefaultThinkMin, DefaultThinkMax
	if p.ThinkMinMs > 0 {
		lo = time.Duration(p.ThinkMinMs) * time.Millisecond
	}
	if p.ThinkMaxMs > 0 {
		hi = time.Duration(p.ThinkMaxMs) * time.Millisecond
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// DefaultPersona is used when no persona is configured.
func DefaultPersona() *NPCPersona {
	return &NPCPersona{
		ID:      "dealer",
		Name:    "Dealer",
		Tagline: "Counts the shells. Trusts the odds.",
		Brain:   DefaultProfile(),
	}
}
