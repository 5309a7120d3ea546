package roulette

import (
	"errors"
	"testing"

	"buckshot-lite/shell"
)

// Blanks at the tail: the Scope shows a blank, and the reveal agrees with
// PeekNext before and after a fire.
func TestScope_RevealsChamberedShell(t *testing.T) {
	g := newTestGame(t, 4)
	g.players[0].items = []ItemKind{ItemScope}
	loadShells(g, shell.Live, shell.Blank, shell.Blank)
	g.nextShellKnownBlank = false

	peek, _ := g.queue.PeekNext()
	events := mustAct(t, g, 0, UseItem(1))
	if events[0].Type != EventItemUsed || events[0].Item != ItemScope || events[0].Slot != 1 {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Type != EventShellRevealed || events[1].Shell != shell.Blank || events[1].Shell != peek {
		t.Fatalf("unexpected reveal: %+v (peek %v)", events[1], peek)
	}

	snap := g.Snapshot()
	if snap.Remaining != 3 {
		t.Fatalf("scope must not consume shells, remaining=%d", snap.Remaining)
	}
	if !snap.NextShellKnownBlank {
		t.Fatalf("expected belief updated to blank")
	}
	if len(snap.Players[0].Items) != 0 {
		t.Fatalf("scope should be consumed, items=%v", snap.Players[0].Items)
	}
	if snap.ActionChair != 0 {
		t.Fatalf("item use must not advance the turn")
	}

	fired := mustAct(t, g, 0, ShootSelf())
	if fired[0].Shell != peek {
		t.Fatalf("fired %v, scope showed %v", fired[0].Shell, peek)
	}
	next, _ := g.queue.PeekNext()
	if next != shell.Blank {
		t.Fatalf("second shell: got %v want blank", next)
	}
}

func TestScope_RevealingLiveClearsBelief(t *testing.T) {
	g := newTestGame(t, 4)
	g.players[0].items = []ItemKind{ItemScope}
	loadShells(g, shell.Blank, shell.Live)

	mustAct(t, g, 0, UseItem(1))
	if g.Snapshot().NextShellKnownBlank {
		t.Fatalf("expected belief false after revealing a live shell")
	}

	a := ShootOpponent()
	a.ClearReveal = true
	mustAct(t, g, 0, a)
	if !g.Snapshot().NextShellKnownBlank {
		t.Fatalf("ClearReveal should reset the belief")
	}
}

func TestBlade_AppliesToOneShotOnly(t *testing.T) {
	g := newTestGame(t, 4)
	g.players[0].items = []ItemKind{ItemBlade, ItemBlade}
	loadShells(g, shell.Live, shell.Live, shell.Blank)

	mustAct(t, g, 0, UseItem(1))
	if !g.Snapshot().DamageAmplified {
		t.Fatalf("expected damage amplified")
	}

	_, err := g.Act(0, UseItem(1))
	var pe *ItemPreconditionError
	if !errors.As(err, &pe) || pe.Item != ItemBlade || !errors.Is(err, ErrItemPreconditionFailed) {
		t.Fatalf("expected blade precondition error, got %v", err)
	}
	if items := g.Player(0).Items(); len(items) != 1 || items[0] != ItemBlade {
		t.Fatalf("failed item must be retained, items=%v", items)
	}

	// Blank self-shot spends the amplify without damage.
	events := mustAct(t, g, 0, ShootSelf())
	if events[0].Damage != 0 {
		t.Fatalf("blank dealt damage: %+v", events[0])
	}
	if g.Snapshot().DamageAmplified {
		t.Fatalf("amplify must clear after any shot")
	}

	events = mustAct(t, g, 0, ShootOpponent())
	if events[0].Damage != 1 || g.Player(1).Health() != 3 {
		t.Fatalf("expected plain damage after amplify was spent: %+v", events[0])
	}
}

func TestBlade_DoublesLiveHit(t *testing.T) {
	g := newTestGame(t, 4)
	g.players[0].items = []ItemKind{ItemBlade}
	loadShells(g, shell.Blank, shell.Live)

	mustAct(t, g, 0, UseItem(1))
	events := mustAct(t, g, 0, ShootOpponent())
	if events[0].Damage != 2 || g.Player(1).Health() != 2 {
		t.Fatalf("expected double damage, got %+v", events[0])
	}
}

func TestCigarette_HealClampedToMax(t *testing.T) {
	g := newTestGame(t, 4)
	g.players[0].items = []ItemKind{ItemCigarette, ItemCigarette}
	g.players[0].health = 3

	events := mustAct(t, g, 0, UseItem(1))
	if events[1].Type != EventHealed || events[1].Amount != 1 || events[1].Health != 4 {
		t.Fatalf("unexpected heal event: %+v", events[1])
	}
	events = mustAct(t, g, 0, UseItem(1))
	if events[1].Amount != 0 || g.Player(0).Health() != 4 {
		t.Fatalf("heal above max: %+v health=%d", events[1], g.Player(0).Health())
	}
	if len(g.Player(0).Items()) != 0 {
		t.Fatalf("cigarettes should be consumed even at full health")
	}
}

func TestLiquor_EjectsWithoutDamage(t *testing.T) {
	g := newTestGame(t, 4)
	g.players[0].items = []ItemKind{ItemLiquor}
	loadShells(g, shell.Blank, shell.Live)

	events := mustAct(t, g, 0, UseItem(1))
	if events[1].Type != EventShellEjected || events[1].Shell != shell.Live {
		t.Fatalf("unexpected eject event: %+v", events[1])
	}
	snap := g.Snapshot()
	if snap.Remaining != 1 || snap.RemainingLive != 0 {
		t.Fatalf("expected one blank left: %+v", snap)
	}
	if snap.Players[0].Health != 4 || snap.Players[1].Health != 4 {
		t.Fatalf("liquor must not damage")
	}
	if snap.ActionChair != 0 {
		t.Fatalf("item use must not advance the turn")
	}
}

func TestLiquor_EmptyingQueueReloads(t *testing.T) {
	g := newTestGame(t, 4)
	g.players[0].items = []ItemKind{ItemLiquor}
	loadShells(g, shell.Blank)

	events := mustAct(t, g, 0, UseItem(1))
	if !hasEvent(events, EventQueueEmptied) || !hasEvent(events, EventRoundLoaded) {
		t.Fatalf("expected reload after last shell ejected: %+v", events)
	}
	snap := g.Snapshot()
	if snap.Round != 1 || snap.Remaining != 4 || snap.ActionChair != 0 {
		t.Fatalf("unexpected snapshot after reload: %+v", snap)
	}
}

// Restraints while the skip state is none: the opponent's next turn is
// absorbed, the one after proceeds, and the state returns to none.
func TestRestraints_SkipsExactlyOneTurn(t *testing.T) {
	g := newTestGame(t, 4)
	g.players[0].items = []ItemKind{ItemRestraints, ItemRestraints}
	loadShells(g, shell.Blank, shell.Blank, shell.Blank, shell.Blank, shell.Blank)

	events := mustAct(t, g, 0, UseItem(1))
	if events[1].Type != EventRestraintsApplied || events[1].Target != 1 {
		t.Fatalf("unexpected restraints event: %+v", events[1])
	}
	if g.Snapshot().TurnSkip != SkipPending {
		t.Fatalf("expected pending skip")
	}

	if _, err := g.Act(0, UseItem(1)); !errors.Is(err, ErrItemPreconditionFailed) {
		t.Fatalf("second restraints while pending: got %v", err)
	}

	events = mustAct(t, g, 0, ShootOpponent())
	if !hasEvent(events, EventTurnSkipped) {
		t.Fatalf("expected skipped turn, got %+v", events)
	}
	snap := g.Snapshot()
	if snap.ActionChair != 0 || snap.TurnSkip != SkipConsumed {
		t.Fatalf("expected chair 0 to act again with consumed skip: %+v", snap)
	}

	if _, err := g.Act(0, UseItem(1)); !errors.Is(err, ErrItemPreconditionFailed) {
		t.Fatalf("restraints while consumed: got %v", err)
	}

	events = mustAct(t, g, 0, ShootOpponent())
	if !hasEvent(events, EventTurnPassed) {
		t.Fatalf("expected hand-off, got %+v", events)
	}
	snap = g.Snapshot()
	if snap.ActionChair != 1 || snap.TurnSkip != SkipNone {
		t.Fatalf("expected chair 1 with skip cleared: %+v", snap)
	}

	mustAct(t, g, 1, ShootOpponent())
	if g.ActionChair() != 0 {
		t.Fatalf("following hand-off should proceed normally")
	}
}

func TestRestraints_SelfBlankDoesNotConsumeSkip(t *testing.T) {
	g := newTestGame(t, 4)
	g.players[0].items = []ItemKind{ItemRestraints}
	loadShells(g, shell.Blank, shell.Blank, shell.Blank)

	mustAct(t, g, 0, UseItem(1))
	mustAct(t, g, 0, ShootSelf())
	if snap := g.Snapshot(); snap.TurnSkip != SkipPending || snap.ActionChair != 0 {
		t.Fatalf("self blank must not touch the skip: %+v", snap)
	}
}

func TestItemKindJSON(t *testing.T) {
	raw, err := ItemRestraints.MarshalJSON()
	if err != nil || string(raw) != `"restraints"` {
		t.Fatalf("marshal: %s %v", raw, err)
	}
	var k ItemKind
	if err := k.UnmarshalJSON([]byte(`"liquor"`)); err != nil || k != ItemLiquor {
		t.Fatalf("unmarshal: %v %v", k, err)
	}
	if _, err := ParseItemKind("knife"); err == nil {
		t.Fatalf("expected error for unknown item")
	}
}
