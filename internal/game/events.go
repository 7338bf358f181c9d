package game

// EventSink receives the notifications addressed to one participant. The
// lobby calls it while holding its lock, so implementations must return
// quickly and must not call back into the lobby.
type EventSink interface {
	OwnerChanged(owner *Player)
	PlayerDisconnected(p *Player)
	PlayerConnected(p *Player)
	PlayerJoined(p *Player)
	PlayerLeft(p *Player)
	GameStarted(p *Player)
	TurnStarted(info TurnInfo)
	PlayerReady(p *Player)
	TableCardRevealed(entry *CardOnTable)
	TurnEnded(winner *Player, card PunchlineCard)
	AllReady()
	GameFinished(winner *Player)
	Welcome(snapshot Snapshot)
	HandRefreshed(hand []PunchlineCard)
	ScoreChanged(p *Player)
}

// NopSink absorbs every notification. Disconnected players hold one.
type NopSink struct{}

var _ EventSink = NopSink{}

func (NopSink) OwnerChanged(*Player)             {}
func (NopSink) PlayerDisconnected(*Player)       {}
func (NopSink) PlayerConnected(*Player)          {}
func (NopSink) PlayerJoined(*Player)             {}
func (NopSink) PlayerLeft(*Player)               {}
func (NopSink) GameStarted(*Player)              {}
func (NopSink) TurnStarted(TurnInfo)             {}
func (NopSink) PlayerReady(*Player)              {}
func (NopSink) TableCardRevealed(*CardOnTable)   {}
func (NopSink) TurnEnded(*Player, PunchlineCard) {}
func (NopSink) AllReady()                        {}
func (NopSink) GameFinished(*Player)             {}
func (NopSink) Welcome(Snapshot)                 {}
func (NopSink) HandRefreshed([]PunchlineCard)    {}
func (NopSink) ScoreChanged(*Player)             {}
