package game

import (
	"math/rand"
)

func (l *Lobby) turnsSubmitCard(p *Player, cardID int) error {
	if p == l.lead {
		return ErrLeadCannotSubmit
	}
	if err := l.putCardOnTable(p, cardID); err != nil {
		return err
	}
	return l.tryEndTurn()
}

// putCardOnTable places p's card, taking back any earlier submission of
// this round first.
func (l *Lobby) putCardOnTable(p *Player, cardID int) error {
	if p.handIndex(cardID) < 0 {
		return ErrCardNotInHand
	}
	if prev := l.table.of(p); prev != nil {
		l.table = l.table.without(prev)
		p.addToHand(prev.Card)
	}
	card, _ := p.takeFromHand(cardID)
	l.table = append(l.table, &CardOnTable{Card: card, Player: p})
	p.ready = true
	l.broadcast(func(s EventSink) { s.PlayerReady(p) })
	return nil
}

// tryEndTurn resolves the round once every connected non-lead participant
// has a card on the table.
func (l *Lobby) tryEndTurn() error {
	for _, p := range l.players {
		if p.connected && !p.ready {
			return nil
		}
	}
	l.phase.timer.cancel()
	return l.resolveTurn()
}

// resolveTurn closes submissions. Connected players who did not pick a card
// get a random one played for them; disconnected players sit the round out.
func (l *Lobby) resolveTurn() error {
	for _, p := range l.players {
		if p.connected && !p.ready && len(p.hand) > 0 {
			card := p.hand[rand.Intn(len(p.hand))]
			if err := l.putCardOnTable(p, card.ID); err != nil {
				return err
			}
		}
	}

	l.table.shuffle()
	l.broadcast(func(s EventSink) { s.AllReady() })

	if l.lead == nil || len(l.table) == 0 {
		return l.voidRound()
	}
	return l.transitTo(phaseState{kind: PhaseJudgement, setup: l.phase.setup})
}

func (l *Lobby) turnsRefreshHand(p *Player) error {
	if l.table.of(p) != nil {
		return ErrAlreadyReady
	}
	if p.score < 0 {
		return ErrScoreTooLow
	}

	fresh := make([]PunchlineCard, 0, HandSize)
	for i := 0; i < HandSize; i++ {
		c, err := l.punchlines.Draw()
		if err != nil {
			l.punchlines.Discard(fresh...)
			return err
		}
		fresh = append(fresh, c)
	}
	l.punchlines.Discard(p.hand...)
	p.hand = fresh
	p.score--

	p.sink.HandRefreshed(p.Hand())
	l.broadcast(func(s EventSink) { s.ScoreChanged(p) })
	return nil
}
