package console

import "github.com/fatih/color"

// C is the shared palette.
var C = struct {
	Header, Info, Warn, Live, Blank, Good, Prompt, Muted *color.Color
}{
	Header: color.New(color.FgWhite, color.Bold),
	Info:   color.New(color.FgCyan),
	Warn:   color.New(color.FgHiYellow),
	Live:   color.New(color.FgRed, color.Bold),
	Blank:  color.New(color.FgHiBlack, color.Bold),
	Good:   color.New(color.FgGreen),
	Prompt: color.New(color.FgHiWhite),
	Muted:  color.New(color.FgHiBlack),
}
