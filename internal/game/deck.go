package game

import (
	"math/rand"
)

// Deck is a draw pile plus a discard pile over a fixed universe of cards.
// Every card is always in exactly one of the two piles or held outside the
// deck by a player or the table.
type Deck[C Card] struct {
	cards   []C
	discard []C
	byID    map[int]C
}

func NewDeck[C Card](cards []C) *Deck[C] {
	d := &Deck[C]{
		cards: append([]C(nil), cards...),
		byID:  make(map[int]C, len(cards)),
	}
	for _, c := range cards {
		d.byID[c.CardID()] = c
	}
	d.shuffle()
	return d
}

func (d *Deck[C]) shuffle() {
	rand.Shuffle(len(d.cards), func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] })
}

// Draw pops a card, recycling the shuffled discard pile when the draw pile
// runs out.
func (d *Deck[C]) Draw() (C, error) {
	if len(d.cards) == 0 {
		d.cards, d.discard = d.discard, nil
		d.shuffle()
	}
	if len(d.cards) == 0 {
		var zero C
		return zero, ErrDeckExhausted
	}
	last := len(d.cards) - 1
	c := d.cards[last]
	d.cards = d.cards[:last]
	return c, nil
}

func (d *Deck[C]) Discard(cards ...C) {
	d.discard = append(d.discard, cards...)
}

// ByID resolves a card of this deck's universe.
func (d *Deck[C]) ByID(id int) (C, bool) {
	c, ok := d.byID[id]
	return c, ok
}

func (d *Deck[C]) Len() int        { return len(d.cards) }
func (d *Deck[C]) DiscardLen() int { return len(d.discard) }
func (d *Deck[C]) Size() int       { return len(d.byID) }
