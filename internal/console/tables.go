package console

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"buckshot-lite/internal/ledger"
	"buckshot-lite/roulette/npc"
)

func RenderHistory(w io.Writer, items []ledger.HistoryItem) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Match", "Played", "Preset", "Contestants", "Winner", "Rounds", "Actions"})
	for _, it := range items {
		winner := "-"
		if int(it.Winner) < len(it.Players) {
			winner = it.Players[it.Winner]
		}
		t.AppendRow(table.Row{
			it.MatchID,
			it.PlayedAt.Local().Format("2006-01-02 15:04"),
			it.Preset,
			fmt.Sprintf("%s vs %s", it.Players[0], it.Players[1]),
			winner,
			it.Rounds,
			it.Actions,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func RenderPersonas(w io.Writer, personas []*npc.NPCPersona) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Name", "Think", "Liquor", "Press", "Cautious", "Tagline"})
	for _, p := range personas {
		lo, hi := p.ThinkRange()
		t.AppendRow(table.Row{
			p.ID,
			p.Name,
			fmt.Sprintf("%s-%s", lo, hi),
			p.Brain.LiquorChance,
			p.Brain.PressChance,
			p.Brain.CautiousPressChance,
			p.Tagline,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
