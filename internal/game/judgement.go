package game

import (
	"time"
)

func (l *Lobby) judgementReveal(p *Player, cardID int) error {
	if p != l.lead {
		return ErrNotLead
	}
	if l.phase.concluded {
		return unsupported(PhaseJudgement, "reveal_table_card")
	}
	entry := l.table.byCard(cardID)
	if entry == nil {
		return ErrCardNotOnTable
	}
	entry.Revealed = true
	l.broadcast(func(s EventSink) { s.TableCardRevealed(entry) })
	return nil
}

func (l *Lobby) judgementPickWinner(p *Player, cardID int) error {
	if p != l.lead {
		return ErrNotLead
	}
	if l.phase.concluded {
		return unsupported(PhaseJudgement, "pick_turn_winner")
	}
	if !l.table.allRevealed() {
		return ErrNotAllRevealed
	}
	entry := l.table.byCard(cardID)
	if entry == nil {
		return ErrCardNotOnTable
	}

	winner := entry.Player
	winner.score++
	l.phase.winner = winner
	l.phase.concluded = true
	l.broadcast(func(s EventSink) { s.TurnEnded(winner, entry.Card) })
	l.log.Info().Int("round", l.round).Str("winner", winner.ID).Int("score", winner.score).Msg("turn ended")

	l.punchlines.Discard(l.table.cards()...)
	l.table = nil

	if !l.endless {
		// This round's scorer wins ahead of anyone who got there earlier.
		for _, pl := range append([]*Player{winner}, l.allPlayers()...) {
			if pl.connected && pl.score >= l.settings.WinningScore {
				champion := pl
				l.phase.timer = l.schedule(l.settings.FinishDelay, "finish_game", func() error {
					return l.finishGame(champion)
				})
				return nil
			}
		}
	}

	l.phase.timer = l.schedule(l.settings.StartTurnDelay, "start_turn", l.nextTurn)
	return nil
}

// judgementRemovePlayer voids the round when it can no longer be judged:
// the lead is gone or nothing is left on the table.
func (l *Lobby) judgementRemovePlayer(wasLead bool) error {
	if l.phase.concluded {
		return nil
	}
	if wasLead || len(l.table) == 0 {
		return l.voidRound()
	}
	return nil
}

func (l *Lobby) finishGame(winner *Player) error {
	l.broadcast(func(s EventSink) { s.GameFinished(winner) })
	if err := l.transitTo(phaseState{kind: PhaseFinished, setup: l.phase.setup, winner: winner}); err != nil {
		return err
	}
	l.log.Info().Str("winner", winner.ID).Int("rounds", l.round).Msg("game finished")

	if l.archive != nil {
		if err := l.archive.RecordGame(l.result(winner)); err != nil {
			l.log.Error().Err(err).Msg("failed to archive game")
		}
	}
	return nil
}

func (l *Lobby) result(winner *Player) GameResult {
	res := GameResult{
		LobbyCode:  l.Code,
		Winner:     winner.Profile,
		Rounds:     l.round,
		FinishedAt: time.Now().UTC(),
	}
	for _, p := range l.allPlayers() {
		res.Scores = append(res.Scores, PlayerScore{PlayerID: p.ID, Name: p.Profile.Name, Score: p.score})
	}
	return res
}
