package game

import (
	"math/rand"
)

// CardOnTable is one participant's submission for the current round.
type CardOnTable struct {
	Card     PunchlineCard
	Player   *Player
	Revealed bool
}

type table []*CardOnTable

func (t table) of(p *Player) *CardOnTable {
	for _, e := range t {
		if e.Player == p {
			return e
		}
	}
	return nil
}

func (t table) byCard(cardID int) *CardOnTable {
	for _, e := range t {
		if e.Card.ID == cardID {
			return e
		}
	}
	return nil
}

func (t table) without(entry *CardOnTable) table {
	out := t[:0]
	for _, e := range t {
		if e != entry {
			out = append(out, e)
		}
	}
	return out
}

func (t table) allRevealed() bool {
	for _, e := range t {
		if !e.Revealed {
			return false
		}
	}
	return true
}

func (t table) cards() []PunchlineCard {
	out := make([]PunchlineCard, 0, len(t))
	for _, e := range t {
		out = append(out, e.Card)
	}
	return out
}

func (t table) shuffle() {
	rand.Shuffle(len(t), func(i, j int) { t[i], t[j] = t[j], t[i] })
}
