package roulette

import (
	"errors"
	"fmt"

	"buckshot-lite/shell"
)

var (
	ErrGameOver               = errors.New("game already over")
	ErrOutOfTurn              = errors.New("action out of turn")
	ErrInvalidAction          = errors.New("invalid action")
	ErrItemPreconditionFailed = errors.New("item precondition failed")
	ErrEmptyQueue             = shell.ErrEmptyQueue
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }

// ItemPreconditionError reports an item that could not be used. The item
// stays in the holder's inventory.
type ItemPreconditionError struct {
	Item   ItemKind
	Reason string
}

func (e *ItemPreconditionError) Error() string {
	return fmt.Sprintf("cannot use %s: %s", e.Item, e.Reason)
}

func (e *ItemPreconditionError) Unwrap() error { return ErrItemPreconditionFailed }
