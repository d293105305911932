package game

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds      = errors.New("coordinate out of bounds")
	ErrWrongOccupant    = errors.New("origin not occupied by the player on turn")
	ErrIllegalDirection = errors.New("illegal direction")
	ErrBlockedHop       = errors.New("hop destination is not a free lily pad")
	ErrBlockedJump      = errors.New("jump is blocked")
	ErrEmptyHistory     = errors.New("no actions to undo")
)

// IllegalActionError is returned when an action is rejected. The board is left untouched.
type IllegalActionError struct {
	Color  PlayerColor
	Action Action
	Err    error
	Detail string
}

func (e *IllegalActionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("illegal action %v by %v: %v", e.Action, e.Color, e.Err)
	}
	return fmt.Sprintf("illegal action %v by %v: %v: %s", e.Action, e.Color, e.Err, e.Detail)
}

func (e *IllegalActionError) Unwrap() error {
	return e.Err
}

func illegal(color PlayerColor, action Action, err error, format string, args ...any) *IllegalActionError {
	return &IllegalActionError{
		Color:  color,
		Action: action,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}
