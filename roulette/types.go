package roulette

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	InvalidChair uint16 = 65535
	NumChairs           = 2
)

// Phase of the state machine as seen between actions.
type Phase byte

const (
	PhaseTypeIdle           Phase = 0
	PhaseTypeAwaitingAction Phase = 1
	PhaseTypeGameOver       Phase = 2
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseTypeIdle:           "idle",
	PhaseTypeAwaitingAction: "awaiting_action",
	PhaseTypeGameOver:       "game_over",
}

func (p Phase) String() string { return PhaseTypeDictionary[p] }

// ActionType 动作类型：0-NONE 1-SHOOT_SELF 2-SHOOT_OPPONENT 3-USE_ITEM
type ActionType byte

const (
	ActionTypeNone          ActionType = 0
	ActionTypeShootSelf     ActionType = 1
	ActionTypeShootOpponent ActionType = 2
	ActionTypeUseItem       ActionType = 3
)

var ActionTypeDictionary = map[ActionType]string{
	ActionTypeNone:          "NONE",
	ActionTypeShootSelf:     "SHOOT_SELF",
	ActionTypeShootOpponent: "SHOOT_OPPONENT",
	ActionTypeUseItem:       "USE_ITEM",
}

func (a ActionType) String() string {
	if s, ok := ActionTypeDictionary[a]; ok {
		return s
	}
	return "ActionType(" + strconv.Itoa(int(a)) + ")"
}

// Action is one decision by the acting contestant.
type Action struct {
	Type ActionType `json:"type"`
	// Slot is the 1-based inventory index for ActionTypeUseItem.
	Slot int `json:"slot,omitempty"`
	// ClearReveal resets the remembered Scope reveal before the action resolves.
	ClearReveal bool `json:"clear_reveal,omitempty"`
}

func ShootSelf() Action     { return Action{Type: ActionTypeShootSelf} }
func ShootOpponent() Action { return Action{Type: ActionTypeShootOpponent} }
func UseItem(slot int) Action {
	return Action{Type: ActionTypeUseItem, Slot: slot}
}

func (a Action) String() string {
	if a.Type == ActionTypeUseItem {
		return fmt.Sprintf("%s(%d)", a.Type, a.Slot)
	}
	return a.Type.String()
}

// SkipState tracks Restraints: pending skips the next hand-off once, consumed
// blocks a second activation until the following hand-off clears it.
type SkipState byte

const (
	SkipNone     SkipState = 0
	SkipPending  SkipState = 1
	SkipConsumed SkipState = 2
)

var SkipStateDictionary = map[SkipState]string{
	SkipNone:     "none",
	SkipPending:  "pending",
	SkipConsumed: "consumed",
}

func (s SkipState) String() string { return SkipStateDictionary[s] }

// RoundLoad is one row of the escalation table.
type RoundLoad struct {
	Live  int `json:"live" mapstructure:"live"`
	Blank int `json:"blank" mapstructure:"blank"`
}

var DefaultEscalation = []RoundLoad{
	{Live: 1, Blank: 2},
	{Live: 2, Blank: 2},
	{Live: 3, Blank: 2},
	{Live: 3, Blank: 3},
	{Live: 4, Blank: 4},
	{Live: 5, Blank: 3},
	{Live: 6, Blank: 2},
}

// Preset selects the starting health of both contestants.
type Preset byte

const (
	PresetEasy   Preset = 1
	PresetNormal Preset = 2
	PresetHard   Preset = 3
)

var presetHealth = map[Preset]int{
	PresetEasy:   2,
	PresetNormal: 4,
	PresetHard:   6,
}

var PresetDictionary = map[Preset]string{
	PresetEasy:   "easy",
	PresetNormal: "normal",
	PresetHard:   "hard",
}

func (p Preset) String() string { return PresetDictionary[p] }

// Health returns the max health for the preset, 0 if unknown.
func (p Preset) Health() int { return presetHealth[p] }

// ParsePreset accepts a level number or a preset name.
func ParsePreset(raw string) (Preset, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for p, name := range PresetDictionary {
		if raw == name || raw == strconv.Itoa(int(p)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown preset %q (supported: 1/easy, 2/normal, 3/hard)", raw)
}
