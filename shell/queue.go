package shell

import (
	"errors"
	"math/rand"
)

var ErrEmptyQueue = errors.New("shell queue is empty")

// Queue holds the shells of the current round. The chambered shell is the
// last element; shells are only ever removed from that end.
type Queue struct {
	shells []Shell
	live   int
	blank  int
}

// Load replaces the queue with live+blank shells in a uniformly random order.
func (q *Queue) Load(rng *rand.Rand, live, blank int) {
	shells := Batch(live, blank)
	rng.Shuffle(len(shells), func(i, j int) { shells[i], shells[j] = shells[j], shells[i] })
	q.Override(shells)
}

// Override installs shells in exactly the given order (last element fires
// first). Invalid entries are dropped.
func (q *Queue) Override(shells []Shell) {
	q.shells = make([]Shell, 0, len(shells))
	q.live, q.blank = 0, 0
	for _, s := range shells {
		switch s {
		case Live:
			q.live++
		case Blank:
			q.blank++
		default:
			continue
		}
		q.shells = append(q.shells, s)
	}
}

func (q *Queue) Remaining() int      { return len(q.shells) }
func (q *Queue) RemainingLive() int  { return q.live }
func (q *Queue) RemainingBlank() int { return q.blank }
func (q *Queue) Empty() bool         { return len(q.shells) == 0 }

// PeekNext reports the chambered shell without consuming it.
func (q *Queue) PeekNext() (Shell, error) {
	n := len(q.shells)
	if n == 0 {
		return Invalid, ErrEmptyQueue
	}
	return q.shells[n-1], nil
}

// Fire removes and returns the chambered shell.
func (q *Queue) Fire() (Shell, error) {
	return q.pop()
}

// Eject discards the chambered shell. The caller decides what to reveal.
func (q *Queue) Eject() (Shell, error) {
	return q.pop()
}

// Shells returns a copy in queue order (chambered shell last).
func (q *Queue) Shells() []Shell {
	return append([]Shell(nil), q.shells...)
}

func (q *Queue) pop() (Shell, error) {
	n := len(q.shells)
	if n == 0 {
		return Invalid, ErrEmptyQueue
	}
	s := q.shells[n-1]
	q.shells = q.shells[:n-1]
	if s == Live {
		q.live--
	} else {
		q.blank--
	}
	return s, nil
}
