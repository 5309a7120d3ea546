package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"buckshot-lite/internal/match"
	"buckshot-lite/roulette"
	"buckshot-lite/shell"
)

const (
	shotDelayMin   = 1 * time.Second
	reloadAnnounce = 1 * time.Second
	reloadCounts   = 3 * time.Second
	reloadLoaded   = 2 * time.Second
	itemDrawDelay  = 3 * time.Second
	itemUseDelay   = 1 * time.Second
)

// Renderer narrates a match as text. It implements match.Sink,
// match.TurnObserver and match.RejectionObserver.
type Renderer struct {
	out io.Writer
	// Pacing scales every presentation delay; 0 disables them.
	Pacing float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRenderer(out io.Writer, pacing float64) *Renderer {
	return &Renderer{
		out:    out,
		Pacing: pacing,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *Renderer) OnTurn(ctx context.Context, _ string, snap roulette.Snapshot) {
	fmt.Fprintln(r.out)
	RenderStatus(r.out, snap)
	if p := snap.Player(snap.ActionChair); p != nil && p.Robot {
		C.Muted.Fprintf(r.out, "%s is thinking...\n", p.Name)
	}
}

func (r *Renderer) OnRejected(chair uint16, action roulette.Action, err error) {
	var pe *roulette.ItemPreconditionError
	if errors.As(err, &pe) {
		C.Warn.Fprintf(r.out, "%s: %s. Try something else.\n", pe.Item, pe.Reason)
		return
	}
	C.Warn.Fprintf(r.out, "Invalid move (%s). Try again.\n", action)
}

func (r *Renderer) OnEvents(ctx context.Context, _ string, events []roulette.Event, snap roulette.Snapshot) {
	name := func(chair uint16) string {
		if p := snap.Player(chair); p != nil {
			return p.Name
		}
		return fmt.Sprintf("chair %d", chair)
	}

	drawing := false
	lastDrawChair := roulette.InvalidChair
	for _, e := range events {
		switch e.Type {
		case roulette.EventRoundLoaded:
			if e.Round == 0 {
				C.Header.Fprintf(r.out, "Round 1: %d live, %d blank. Shells loaded in random order.\n", e.Live, e.Blank)
				continue
			}
			C.Header.Fprintf(r.out, "\nRound %d begins\n", e.Round+1)
			r.pause(ctx, reloadAnnounce)
			fmt.Fprintf(r.out, "This load: %s, %s\n", C.Live.Sprintf("%d live", e.Live), C.Blank.Sprintf("%d blank", e.Blank))
			r.pause(ctx, reloadCounts)
			fmt.Fprintln(r.out, "Shells loaded in random order!")
			r.pause(ctx, reloadLoaded)
			fmt.Fprintln(r.out, "Drawing items...")
			drawing = true

		case roulette.EventItemGranted:
			if e.Chair != lastDrawChair {
				r.pause(ctx, itemDrawDelay)
				lastDrawChair = e.Chair
			}
			fmt.Fprintf(r.out, "%s received %s\n", name(e.Chair), C.Info.Sprint(e.Item))

		case roulette.EventItemDiscarded:
			C.Muted.Fprintf(r.out, "%s has no room; %s was discarded\n", name(e.Chair), e.Item)

		case roulette.EventItemUsed:
			r.pause(ctx, itemUseDelay)
			fmt.Fprintf(r.out, "%s uses %s\n", name(e.Chair), C.Info.Sprint(e.Item))

		case roulette.EventShellRevealed:
			fmt.Fprintf(r.out, "The chambered shell is %s!\n", shellText(e.Shell))

		case roulette.EventDamageAmplified:
			fmt.Fprintln(r.out, "The barrel is sawn off: a live hit deals +1 damage")

		case roulette.EventHealed:
			if e.Amount == 0 {
				fmt.Fprintf(r.out, "%s is already at full health\n", name(e.Chair))
				continue
			}
			C.Good.Fprintf(r.out, "%s recovers %d health (%d)\n", name(e.Chair), e.Amount, e.Health)

		case roulette.EventShellEjected:
			fmt.Fprintf(r.out, "Ejected a %s shell\n", shellText(e.Shell))

		case roulette.EventRestraintsApplied:
			fmt.Fprintf(r.out, "%s is restrained and will lose their next turn\n", name(e.Target))

		case roulette.EventShotFired:
			target := "themselves"
			if e.Target != e.Chair {
				target = name(e.Target)
			}
			fmt.Fprintf(r.out, "%s shoots %s\n", name(e.Chair), target)
			C.Header.Fprintln(r.out, "BANG!")
			r.pause(ctx, r.jitter(shotDelayMin))
			if e.Shell == shell.Live {
				C.Live.Fprintf(r.out, "%s fired a live shell: %s takes %d damage (%d left)\n",
					name(e.Chair), name(e.Target), e.Damage, e.Health)
			} else {
				C.Blank.Fprintf(r.out, "%s fired a blank\n", name(e.Chair))
			}

		case roulette.EventTurnKept:
			fmt.Fprintf(r.out, "Brave. %s keeps the turn.\n", name(e.Chair))

		case roulette.EventTurnSkipped:
			C.Warn.Fprintf(r.out, "%s is restrained and cannot act...\n", name(e.Chair))

		case roulette.EventQueueEmptied:
			fmt.Fprintln(r.out, "Out of shells")

		case roulette.EventContestantDied:
			C.Live.Fprintf(r.out, "%s is dead\n", name(e.Chair))

		case roulette.EventGameOver:
			C.Header.Fprintln(r.out, "Game over")
			C.Good.Fprintf(r.out, "%s wins the $1,000,000 prize\n", name(e.Chair))
		}
	}
	if drawing {
		fmt.Fprintln(r.out, "Items drawn!")
		r.pause(ctx, itemDrawDelay)
	}
}

func shellText(s shell.Shell) string {
	if s == shell.Live {
		return C.Live.Sprint("LIVE")
	}
	return C.Blank.Sprint("blank")
}

// jitter returns a duration in [base, 2*base).
func (r *Renderer) jitter(base time.Duration) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return base + time.Duration(r.rng.Int63n(int64(base)))
}

func (r *Renderer) pause(ctx context.Context, d time.Duration) {
	if r.Pacing <= 0 {
		return
	}
	_ = match.Sleep(ctx, time.Duration(float64(d)*r.Pacing))
}
