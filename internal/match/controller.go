package match

import (
	"context"
	"time"

	"buckshot-lite/roulette"
	"buckshot-lite/roulette/npc"
)

// Controller picks the action for the contestant in chair. It may block
// (human input, thinking delay) and must honour ctx.
type Controller interface {
	Decide(ctx context.Context, chair uint16, snap roulette.Snapshot) (roulette.Action, error)
}

// RejectionObserver is implemented by controllers or sinks that want to know
// when the game refused an action.
type RejectionObserver interface {
	OnRejected(chair uint16, action roulette.Action, err error)
}

// NPCController drives a seat with a persona-backed policy.
type NPCController struct {
	manager *npc.Manager
	inst    *npc.NPCInstance
	// Pacing scales the think delay; 0 disables it.
	Pacing float64
}

func NewNPCController(manager *npc.Manager, inst *npc.NPCInstance, pacing float64) *NPCController {
	return &NPCController{manager: manager, inst: inst, Pacing: pacing}
}

func (c *NPCController) Instance() *npc.NPCInstance { return c.inst }

func (c *NPCController) Decide(ctx context.Context, chair uint16, snap roulette.Snapshot) (roulette.Action, error) {
	if c.Pacing > 0 {
		delay := time.Duration(float64(c.inst.ThinkDelay()) * c.Pacing)
		if err := Sleep(ctx, delay); err != nil {
			return roulette.Action{}, err
		}
	}
	return c.manager.OnTurn(c.inst, snap).Action, nil
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
