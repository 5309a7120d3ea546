package replay

import (
	"encoding/json"
	"fmt"

	"buckshot-lite/roulette"
)

const CurrentTapeVersion = 1

// Tape is everything needed to re-run a match: the effective seed, the game
// config, both seats and every accepted action in order.
type Tape struct {
	TapeVersion int                                        `json:"tape_version"`
	MatchID     string                                     `json:"match_id"`
	Seed        int64                                      `json:"seed"`
	Config      ConfigSpec                                 `json:"config"`
	Seats       [roulette.NumChairs]roulette.ContestantSpec `json:"seats"`
	Actions     []ActionSpec                               `json:"actions"`
}

type ConfigSpec struct {
	Preset        string               `json:"preset"`
	Escalation    []roulette.RoundLoad `json:"escalation,omitempty"`
	ItemsPerRound int                  `json:"items_per_round"`
	InventoryCap  int                  `json:"inventory_cap"`
}

type ActionSpec struct {
	Chair       uint16 `json:"chair"`
	Type        string `json:"type"`
	Slot        int    `json:"slot,omitempty"`
	ClearReveal bool   `json:"clear_reveal,omitempty"`
}

// ReplayEvent is one engine event tagged with its position in the match.
type ReplayEvent struct {
	Seq   uint64         `json:"seq"`
	Step  int            `json:"step"`
	Event roulette.Event `json:"event"`
}

// Result is the outcome of re-running a tape.
type Result struct {
	Events []ReplayEvent     `json:"events"`
	Final  roulette.Snapshot `json:"final"`
}

func configSpecFrom(cfg roulette.Config) ConfigSpec {
	return ConfigSpec{
		Preset:        cfg.Preset.String(),
		Escalation:    append([]roulette.RoundLoad(nil), cfg.Escalation...),
		ItemsPerRound: cfg.ItemsPerRound,
		InventoryCap:  cfg.InventoryCap,
	}
}

func (c ConfigSpec) toConfig(seed int64) (roulette.Config, error) {
	cfg := roulette.DefaultConfig()
	preset, err := roulette.ParsePreset(c.Preset)
	if err != nil {
		return cfg, err
	}
	cfg.Preset = preset
	if len(c.Escalation) > 0 {
		cfg.Escalation = append([]roulette.RoundLoad(nil), c.Escalation...)
	}
	cfg.ItemsPerRound = c.ItemsPerRound
	cfg.InventoryCap = c.InventoryCap
	cfg.Seed = seed
	return cfg, nil
}

func actionSpecFrom(chair uint16, a roulette.Action) ActionSpec {
	return ActionSpec{
		Chair:       chair,
		Type:        a.Type.String(),
		Slot:        a.Slot,
		ClearReveal: a.ClearReveal,
	}
}

func (s ActionSpec) toAction() (roulette.Action, error) {
	for t, name := range roulette.ActionTypeDictionary {
		if name == s.Type && t != roulette.ActionTypeNone {
			return roulette.Action{Type: t, Slot: s.Slot, ClearReveal: s.ClearReveal}, nil
		}
	}
	return roulette.Action{}, fmt.Errorf("unknown action type %q", s.Type)
}

func (t *Tape) Encode() ([]byte, error) {
	return json.Marshal(t)
}

func Decode(data []byte) (*Tape, error) {
	var t Tape
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tape: %w", err)
	}
	return &t, nil
}
