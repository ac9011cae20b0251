package game

import "errors"

// ErrInvalidConfig is returned by New when the player or card counts are out
// of range. Construction fails outright; there is no partial game to recover.
var ErrInvalidConfig = errors.New("invalid game configuration")

// IllegalMoveError reports a rejected move. The engine state is never mutated
// by a rejected move, so callers can simply re-prompt.
type IllegalMoveError struct {
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return "illegal move: " + e.Reason
}
