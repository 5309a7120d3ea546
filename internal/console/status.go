package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"buckshot-lite/roulette"
)

// RenderStatus writes the block shown before every decision.
func RenderStatus(w io.Writer, snap roulette.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Round %d", snap.Round+1))
	t.AppendHeader(table.Row{"", "Contestant", "Health", "Items"})
	for _, p := range snap.Players {
		marker := ""
		if p.Chair == snap.ActionChair && !snap.Ended {
			marker = "▶"
		}
		t.AppendRow(table.Row{marker, p.Name, healthBar(p.Health, p.MaxHealth), len(p.Items)})
	}
	t.AppendFooter(table.Row{"", "Shells", fmt.Sprintf("%d left", snap.Remaining),
		fmt.Sprintf("%s / %s", C.Live.Sprintf("%d live", snap.RemainingLive), C.Blank.Sprintf("%d blank", snap.RemainingBlank))})
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.Style().Format.Footer = text.FormatDefault
	t.Render()

	me := snap.Player(snap.ActionChair)
	foe := snap.Opponent(snap.ActionChair)
	if me == nil || foe == nil || snap.Ended {
		return
	}
	C.Header.Fprintf(w, "%s to act\n", me.Name)
	fmt.Fprintf(w, "  -1  shoot yourself\n")
	fmt.Fprintf(w, "   0  shoot %s\n", foe.Name)
	for i, item := range me.Items {
		fmt.Fprintf(w, "  %2d  use %s\n", i+1, item)
	}
}

func healthBar(health, max int) string {
	if health < 0 {
		health = 0
	}
	if max < health {
		max = health
	}
	return fmt.Sprintf("%s%s %d/%d", strings.Repeat("♥", health), strings.Repeat("♡", max-health), health, max)
}
