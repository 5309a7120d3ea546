package shell

import (
	"encoding/json"
	"fmt"
)

// Shell is one round in the queue.
//
// Encoding: 0 invalid, 1 live, 2 blank.
type Shell byte

const (
	Invalid Shell = 0
	Live    Shell = 1
	Blank   Shell = 2
)

func (s Shell) String() string {
	switch s {
	case Live:
		return "live"
	case Blank:
		return "blank"
	default:
		return "invalid"
	}
}

func (s Shell) IsLive() bool  { return s == Live }
func (s Shell) IsBlank() bool { return s == Blank }

// Parse is the inverse of String.
func Parse(raw string) (Shell, error) {
	switch raw {
	case "live":
		return Live, nil
	case "blank":
		return Blank, nil
	default:
		return Invalid, fmt.Errorf("unknown shell %q", raw)
	}
}

func (s Shell) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Shell) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := Parse(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Batch builds live shells followed by blank shells, unshuffled.
func Batch(live, blank int) []Shell {
	if live < 0 {
		live = 0
	}
	if blank < 0 {
		blank = 0
	}
	out := make([]Shell, 0, live+blank)
	for i := 0; i < live; i++ {
		out = append(out, Live)
	}
	for i := 0; i < blank; i++ {
		out = append(out, Blank)
	}
	return out
}
