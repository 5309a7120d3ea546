package roulette

import "buckshot-lite/shell"

// EventType names a state change emitted by Game.
type EventType string

const (
	EventRoundLoaded       EventType = "round_loaded"
	EventItemGranted       EventType = "item_granted"
	EventItemDiscarded     EventType = "item_discarded"
	EventItemUsed          EventType = "item_used"
	EventShellRevealed     EventType = "shell_revealed"
	EventDamageAmplified   EventType = "damage_amplified"
	EventHealed            EventType = "healed"
	EventShellEjected      EventType = "shell_ejected"
	EventRestraintsApplied EventType = "restraints_applied"
	EventShotFired         EventType = "shot_fired"
	EventTurnKept          EventType = "turn_kept"
	EventTurnSkipped       EventType = "turn_skipped"
	EventTurnPassed        EventType = "turn_passed"
	EventQueueEmptied      EventType = "queue_emptied"
	EventContestantDied    EventType = "contestant_died"
	EventGameOver          EventType = "game_over"
)

// Event is one entry of the narration stream returned by Start and Act.
// Chair is always the contestant the event is about: the actor for item and
// shot events, the receiver for turn events, the winner for EventGameOver.
type Event struct {
	Type   EventType   `json:"type"`
	Round  int         `json:"round"`
	Chair  uint16      `json:"chair"`
	Target uint16      `json:"target"`
	Item   ItemKind    `json:"item,omitempty"`
	Slot   int         `json:"slot,omitempty"`
	Shell  shell.Shell `json:"shell,omitempty"`
	Damage int         `json:"damage,omitempty"`
	Amount int         `json:"amount,omitempty"`
	Health int         `json:"health"`
	Live   int         `json:"live,omitempty"`
	Blank  int         `json:"blank,omitempty"`
}
