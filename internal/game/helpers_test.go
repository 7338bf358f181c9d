package game

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	c       *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance fires every due timer in deadline order, including timers that
// firing callbacks schedule within the window.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type event struct {
	name     string
	player   *Player
	card     PunchlineCard
	info     TurnInfo
	hand     []PunchlineCard
	snapshot Snapshot
	entry    CardOnTable
}

// recorder is an EventSink that remembers everything it was told.
type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) add(e event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OwnerChanged(p *Player)       { r.add(event{name: "owner_changed", player: p}) }
func (r *recorder) PlayerDisconnected(p *Player) { r.add(event{name: "player_disconnected", player: p}) }
func (r *recorder) PlayerConnected(p *Player)    { r.add(event{name: "player_connected", player: p}) }
func (r *recorder) PlayerJoined(p *Player)       { r.add(event{name: "player_joined", player: p}) }
func (r *recorder) PlayerLeft(p *Player)         { r.add(event{name: "player_left", player: p}) }
func (r *recorder) GameStarted(p *Player)        { r.add(event{name: "game_started", player: p}) }
func (r *recorder) TurnStarted(info TurnInfo)    { r.add(event{name: "turn_started", info: info}) }
func (r *recorder) PlayerReady(p *Player)        { r.add(event{name: "player_ready", player: p}) }
func (r *recorder) TableCardRevealed(e *CardOnTable) {
	r.add(event{name: "table_card_revealed", entry: *e})
}
func (r *recorder) TurnEnded(p *Player, c PunchlineCard) {
	r.add(event{name: "turn_ended", player: p, card: c})
}
func (r *recorder) AllReady()              { r.add(event{name: "all_ready"}) }
func (r *recorder) GameFinished(p *Player) { r.add(event{name: "game_finished", player: p}) }
func (r *recorder) Welcome(s Snapshot)     { r.add(event{name: "welcome", snapshot: s}) }
func (r *recorder) HandRefreshed(h []PunchlineCard) {
	r.add(event{name: "hand_refreshed", hand: h})
}
func (r *recorder) ScoreChanged(p *Player) { r.add(event{name: "score_changed", player: p}) }

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.name == name {
			n++
		}
	}
	return n
}

func (r *recorder) last(name string) (event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].name == name {
			return r.events[i], true
		}
	}
	return event{}, false
}

type memArchive struct {
	results []GameResult
}

func (a *memArchive) RecordGame(res GameResult) error {
	a.results = append(a.results, res)
	return nil
}

func testDecks(setups, punchlines int) (*Deck[SetupCard], *Deck[PunchlineCard]) {
	s := make([]SetupCard, setups)
	for i := range s {
		s[i] = SetupCard{ID: i + 1}
	}
	p := make([]PunchlineCard, punchlines)
	for i := range p {
		p[i] = PunchlineCard{ID: i + 1, Text: []Fragment{{Text: "a", Forms: []string{"b"}}}}
	}
	return NewDeck(s), NewDeck(p)
}

func quickSettings() Settings {
	return Settings{WinningScore: 1}
}

type fixture struct {
	t       *testing.T
	clock   *fakeClock
	archive *memArchive
	lobby   *Lobby

	egor, anton, yura *Player
	sinks             map[*Player]*recorder
}

// newFixture builds a lobby owned by egor with egor, anton and yura joined
// and connected, in that order.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:       t,
		clock:   &fakeClock{},
		archive: &memArchive{},
		egor:    NewPlayer(Profile{Name: "egor", Emoji: "🍎"}, "egor-token"),
		anton:   NewPlayer(Profile{Name: "anton", Emoji: "🍐"}, "anton-token"),
		yura:    NewPlayer(Profile{Name: "yura", Emoji: "🍋"}, "yura-token"),
		sinks:   make(map[*Player]*recorder),
	}
	f.lobby = NewLobby(f.egor,
		WithCode("TEST1"),
		WithClock(f.clock),
		WithArchive(f.archive),
		WithLogger(zerolog.Nop()),
	)
	for _, p := range []*Player{f.egor, f.anton, f.yura} {
		require.NoError(t, f.lobby.AddPlayer(p))
	}
	for _, p := range []*Player{f.egor, f.anton, f.yura} {
		f.connect(p)
	}
	return f
}

func (f *fixture) connect(p *Player) *recorder {
	f.t.Helper()
	r := &recorder{}
	require.NoError(f.t, f.lobby.Connect(p, r))
	f.sinks[p] = r
	return r
}

func (f *fixture) start(s Settings) {
	f.t.Helper()
	setups, punchlines := testDecks(10, 100)
	require.NoError(f.t, f.lobby.StartGame(f.egor, s, setups, punchlines))
}

// submitAll plays the first card of every connected non-lead player.
func (f *fixture) submitAll() {
	f.t.Helper()
	for _, p := range append([]*Player(nil), f.lobby.players...) {
		if p.connected && !p.ready {
			require.NoError(f.t, f.lobby.SubmitCard(p, p.hand[0].ID))
		}
	}
}

func (f *fixture) revealAll() {
	f.t.Helper()
	lead := f.lobby.Lead()
	for _, e := range append(table(nil), f.lobby.table...) {
		require.NoError(f.t, f.lobby.RevealCard(lead, e.Card.ID))
	}
}

// playRound runs a whole round in which winner's card is picked.
func (f *fixture) playRound(winner *Player) {
	f.t.Helper()
	f.submitAll()
	require.Equal(f.t, PhaseJudgement, f.lobby.Phase())
	f.revealAll()
	entry := f.lobby.table.of(winner)
	require.NotNil(f.t, entry)
	require.NoError(f.t, f.lobby.PickWinner(f.lobby.Lead(), entry.Card.ID))
	f.clock.Advance(0)
}
