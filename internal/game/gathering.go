package game

import (
	"errors"
	"fmt"
)

var ErrInvalidSettings = errors.New("invalid settings")

func validateSettings(s Settings) error {
	switch {
	case s.WinningScore < 1:
		return fmt.Errorf("%w: winning score must be at least 1", ErrInvalidSettings)
	case s.TurnDuration < 0, s.FinishDelay < 0, s.StartTurnDelay < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidSettings)
	}
	return nil
}

// checkStart validates a start request without touching the lobby.
func (l *Lobby) checkStart(p *Player, settings Settings, setups *Deck[SetupCard], punchlines *Deck[PunchlineCard]) error {
	if err := l.requireOwner(p); err != nil {
		return err
	}
	if len(l.allPlayers()) < 2 {
		return ErrNotEnoughPlayers
	}
	if err := validateSettings(settings); err != nil {
		return err
	}
	if setups == nil || punchlines == nil || setups.Size() == 0 {
		return fmt.Errorf("%w: decks are required", ErrInvalidSettings)
	}
	if need := l.seats() * HandSize; punchlines.Size() < need {
		return fmt.Errorf("%w: need %d, deck has %d", ErrNotEnoughCards, need, punchlines.Size())
	}
	return nil
}

func (l *Lobby) gatheringStartGame(p *Player, settings Settings, setups *Deck[SetupCard], punchlines *Deck[PunchlineCard]) error {
	if err := l.checkStart(p, settings, setups, punchlines); err != nil {
		return err
	}

	l.setups = setups
	l.punchlines = punchlines
	l.settings = settings
	l.endless = false

	for _, pl := range l.allPlayers() {
		if _, err := l.topUp(pl); err != nil {
			return err
		}
		pl.sink.GameStarted(pl)
	}
	l.log.Info().Int("players", len(l.allPlayers())).Int("winningScore", settings.WinningScore).Msg("game started")

	return l.startTurn()
}
