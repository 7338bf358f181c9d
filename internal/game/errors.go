package game

import (
	"errors"
	"fmt"
)

var (
	ErrLobbyNotFound    = errors.New("lobby not found")
	ErrNotOwner         = errors.New("not owner")
	ErrNotLead          = errors.New("not lead")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrCardNotOnTable   = errors.New("card not on table")
	ErrNotAllRevealed   = errors.New("not all table cards revealed")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrAlreadyReady     = errors.New("player already ready")
	ErrScoreTooLow      = errors.New("score too low")
	ErrLeadCannotSubmit = errors.New("lead cannot submit a card")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrDeckExhausted    = errors.New("deck exhausted")
	ErrLobbyFull        = errors.New("lobby is full")
	ErrNotEnoughCards   = errors.New("not enough punchline cards to deal every hand")
)

// PhaseError reports an action the active phase does not support. It means
// the caller is out of sync with the lobby, not that the player did
// something wrong.
type PhaseError struct {
	Phase  Phase
	Action string
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("action %s not expected in phase %s", e.Action, e.Phase)
}

func unsupported(p Phase, action string) error {
	return &PhaseError{Phase: p, Action: action}
}
