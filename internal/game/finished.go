package game

// finishedContinue keeps playing after a win with the score threshold
// switched off.
func (l *Lobby) finishedContinue(p *Player) error {
	if err := l.requireOwner(p); err != nil {
		return err
	}
	l.endless = true
	return l.nextTurn()
}

func (l *Lobby) finishedStartGame(p *Player, settings Settings, setups *Deck[SetupCard], punchlines *Deck[PunchlineCard]) error {
	if err := l.checkStart(p, settings, setups, punchlines); err != nil {
		return err
	}

	l.setups.Discard(l.phase.setup)
	l.resetGame()
	if err := l.transitTo(phaseState{kind: PhaseGathering}); err != nil {
		return err
	}
	return l.gatheringStartGame(p, settings, setups, punchlines)
}
