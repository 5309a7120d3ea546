package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"buckshot-lite/roulette"
)

// ErrQuit is returned when the player aborts input with Ctrl-C or EOF.
var ErrQuit = errors.New("player quit")

// Prompter reads one line. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// HumanController reads one decision per line: -1 shoots self, 0 shoots the
// opponent, 1..N uses the item in that slot.
type HumanController struct {
	in  Prompter
	out io.Writer
}

func NewHumanController(in Prompter, out io.Writer) *HumanController {
	return &HumanController{in: in, out: out}
}

func (h *HumanController) Decide(ctx context.Context, chair uint16, snap roulette.Snapshot) (roulette.Action, error) {
	me := snap.Player(chair)
	if me == nil {
		return roulette.Action{}, fmt.Errorf("no contestant in chair %d", chair)
	}
	for {
		if err := ctx.Err(); err != nil {
			return roulette.Action{}, err
		}
		C.Prompt.Fprintf(h.out, "%s, your move: ", me.Name)
		input, err := h.in.Prompt("")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return roulette.Action{}, ErrQuit
			}
			return roulette.Action{}, fmt.Errorf("read input: %w", err)
		}
		action, err := ParseInput(input, len(me.Items))
		if err != nil {
			C.Warn.Fprintln(h.out, "Invalid input, please try again")
			continue
		}
		h.in.AppendHistory(strings.TrimSpace(input))
		return action, nil
	}
}

// ParseInput maps one input line to an action for a holder of itemCount items.
func ParseInput(input string, itemCount int) (roulette.Action, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return roulette.Action{}, fmt.Errorf("%w: %q", roulette.ErrInvalidAction, input)
	}
	switch {
	case n == -1:
		return roulette.ShootSelf(), nil
	case n == 0:
		return roulette.ShootOpponent(), nil
	case n >= 1 && n <= itemCount:
		return roulette.UseItem(n), nil
	default:
		return roulette.Action{}, fmt.Errorf("%w: %d out of range", roulette.ErrInvalidAction, n)
	}
}
