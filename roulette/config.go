package roulette

import "fmt"

type Config struct {
	// Starting health preset, used for contestants without an explicit MaxHealth.
	Preset Preset

	// Shell counts per round; rounds past the end reuse the last row.
	Escalation []RoundLoad

	// Items granted to each contestant on every reload.
	ItemsPerRound int
	InventoryCap  int

	// RNG seed (0 => time-based)
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		Preset:        PresetNormal,
		Escalation:    append([]RoundLoad(nil), DefaultEscalation...),
		ItemsPerRound: 3,
		InventoryCap:  8,
	}
}

func (c Config) validate() error {
	if c.Preset.Health() <= 0 {
		return fmt.Errorf("invalid preset %d", c.Preset)
	}
	if len(c.Escalation) == 0 {
		return fmt.Errorf("escalation table must not be empty")
	}
	for i, row := range c.Escalation {
		if row.Live < 0 || row.Blank < 0 || row.Live+row.Blank == 0 {
			return fmt.Errorf("invalid escalation row %d: live=%d blank=%d", i, row.Live, row.Blank)
		}
	}
	if c.ItemsPerRound < 0 {
		return fmt.Errorf("ItemsPerRound must be >= 0")
	}
	if c.InventoryCap <= 0 {
		return fmt.Errorf("InventoryCap must be > 0")
	}
	return nil
}

// roundLoad clamps to the last row once the table is exhausted.
func (c Config) roundLoad(round int) RoundLoad {
	if round >= len(c.Escalation) {
		return c.Escalation[len(c.Escalation)-1]
	}
	return c.Escalation[round]
}

// ContestantSpec describes one seat at construction time.
type ContestantSpec struct {
	Name      string `json:"name"`
	MaxHealth int    `json:"max_health,omitempty"`
	Robot     bool   `json:"robot,omitempty"`
}
