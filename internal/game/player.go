package game

import (
	"time"

	"github.com/google/uuid"
)

// Player is a participant of one lobby. All fields are owned by the lobby
// and must only be read through the accessors while the lobby is not
// mutating them, i.e. from inside an EventSink callback or a test.
type Player struct {
	ID       string
	Token    string
	Profile  Profile
	JoinedAt time.Time

	hand      []PunchlineCard
	score     int
	ready     bool
	connected bool
	sink      EventSink
}

func NewPlayer(profile Profile, token string) *Player {
	return &Player{
		ID:       uuid.NewString(),
		Token:    token,
		Profile:  profile,
		JoinedAt: time.Now().UTC(),
		sink:     NopSink{},
	}
}

func (p *Player) Hand() []PunchlineCard {
	return append([]PunchlineCard(nil), p.hand...)
}

func (p *Player) Score() int        { return p.score }
func (p *Player) IsReady() bool     { return p.ready }
func (p *Player) IsConnected() bool { return p.connected }

func (p *Player) handIndex(cardID int) int {
	for i, c := range p.hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// takeFromHand removes and returns the card with the given id.
func (p *Player) takeFromHand(cardID int) (PunchlineCard, bool) {
	i := p.handIndex(cardID)
	if i < 0 {
		return PunchlineCard{}, false
	}
	c := p.hand[i]
	p.hand = append(p.hand[:i], p.hand[i+1:]...)
	return c, true
}

func (p *Player) addToHand(c PunchlineCard) {
	p.hand = append(p.hand, c)
}

func (p *Player) String() string {
	return "Player(" + p.Profile.Name + ")"
}
