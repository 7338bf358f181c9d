package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Lobby is the aggregate root of one game session. Every exported method
// and every scheduled callback runs under mu, so the phase logic below never
// sees two actions interleaved.
type Lobby struct {
	Code      string
	CreatedAt time.Time

	mu sync.Mutex

	players []*Player // roster, lead excluded
	lead    *Player
	owner   *Player
	grave   map[*Player]struct{}
	table   table

	setups     *Deck[SetupCard]
	punchlines *Deck[PunchlineCard]
	settings   Settings
	round      int
	endless    bool
	maxPlayers int // zero means unlimited

	phase phaseState

	clock   Clock
	archive Archive
	log     zerolog.Logger
}

type Option func(*Lobby)

func WithClock(c Clock) Option {
	return func(l *Lobby) { l.clock = c }
}

func WithArchive(a Archive) Option {
	return func(l *Lobby) { l.archive = a }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(l *Lobby) { l.log = logger }
}

func WithCode(code string) Option {
	return func(l *Lobby) { l.Code = code }
}

// WithMaxPlayers caps the number of seats, departed participants included.
func WithMaxPlayers(n int) Option {
	return func(l *Lobby) { l.maxPlayers = n }
}

// NewLobby creates a lobby in the Gathering phase. The owner still has to
// be added with AddPlayer.
func NewLobby(owner *Player, opts ...Option) *Lobby {
	l := &Lobby{
		CreatedAt: time.Now().UTC(),
		owner:     owner,
		grave:     make(map[*Player]struct{}),
		phase:     phaseState{kind: PhaseGathering},
		clock:     wallClock{},
	}
	l.log = log.Logger
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With().Str("lobby", l.Code).Logger()
	return l
}

func (l *Lobby) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase.kind
}

func (l *Lobby) Owner() *Player {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner
}

func (l *Lobby) Lead() *Player {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lead
}

// PlayerByToken finds an active or departed participant by session token.
func (l *Lobby) PlayerByToken(token string) *Player {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.allPlayers() {
		if p.Token == token {
			return p
		}
	}
	for p := range l.grave {
		if p.Token == token {
			return p
		}
	}
	return nil
}

func (l *Lobby) allPlayers() []*Player {
	if l.lead == nil {
		return append([]*Player(nil), l.players...)
	}
	return append([]*Player{l.lead}, l.players...)
}

func (l *Lobby) isMember(p *Player) bool {
	if p == nil {
		return false
	}
	if p == l.lead {
		return true
	}
	for _, pl := range l.players {
		if pl == p {
			return true
		}
	}
	return false
}

func (l *Lobby) broadcast(notify func(EventSink)) {
	for _, p := range l.allPlayers() {
		notify(p.sink)
	}
}

func (l *Lobby) broadcastExcept(except *Player, notify func(EventSink)) {
	for _, p := range l.allPlayers() {
		if p != except {
			notify(p.sink)
		}
	}
}

// AddPlayer appends p to the roster and announces the join to everyone,
// p included. It fails with ErrLobbyFull when no seat is left or, during a
// game, when the punchline deck cannot deal one more hand.
func (l *Lobby) AddPlayer(p *Player) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seats := l.seats() + 1
	if l.maxPlayers > 0 && seats > l.maxPlayers {
		return ErrLobbyFull
	}
	if l.punchlines != nil && seats*HandSize > l.punchlines.Size() {
		return ErrLobbyFull
	}
	l.addPlayer(p)
	return nil
}

// seats counts everyone who may hold a hand: participants and the grave.
func (l *Lobby) seats() int {
	return len(l.allPlayers()) + len(l.grave)
}

func (l *Lobby) addPlayer(p *Player) {
	l.players = append(l.players, p)
	l.broadcast(func(s EventSink) { s.PlayerJoined(p) })
	l.log.Info().Str("playerId", p.ID).Str("name", p.Profile.Name).Msg("player joined")
}

// Connect attaches a live event sink to p. Departed players are taken back
// from the grave into the roster.
func (l *Lobby) Connect(p *Player, sink EventSink) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	member := l.isMember(p)
	if _, buried := l.grave[p]; !member && !buried {
		return ErrUnknownPlayer
	}

	if l.phase.kind != PhaseGathering {
		if dealt, err := l.topUp(p); err != nil {
			p.hand = p.hand[:len(p.hand)-len(dealt)]
			l.punchlines.Discard(dealt...)
			return err
		}
	}

	if !member {
		delete(l.grave, p)
		l.addPlayer(p)
	}

	if sink == nil {
		sink = NopSink{}
	}
	p.sink = sink
	p.connected = true

	if l.owner == nil {
		l.owner = p
		l.broadcast(func(s EventSink) { s.OwnerChanged(p) })
	}

	sink.Welcome(l.snapshotFor(p))
	l.broadcastExcept(p, func(s EventSink) { s.PlayerConnected(p) })
	l.log.Info().Str("playerId", p.ID).Msg("player connected")
	return nil
}

// Disconnect detaches p's event sink. p stays in the game.
func (l *Lobby) Disconnect(p *Player) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	member := l.isMember(p)
	if _, buried := l.grave[p]; !member && !buried {
		return ErrUnknownPlayer
	}
	p.sink = NopSink{}
	p.connected = false
	if !member {
		return nil
	}
	l.broadcastExcept(p, func(s EventSink) { s.PlayerDisconnected(p) })
	l.log.Info().Str("playerId", p.ID).Msg("player disconnected")

	if l.phase.kind == PhaseTurns {
		return l.tryEndTurn()
	}
	return nil
}

// RemovePlayer handles a permanent departure. The player moves to the grave
// and may come back through Connect.
func (l *Lobby) RemovePlayer(p *Player) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isMember(p) {
		return ErrUnknownPlayer
	}

	wasLead := p == l.lead
	if wasLead {
		l.lead = nil
	}
	for i, pl := range l.players {
		if pl == p {
			l.players = append(l.players[:i], l.players[i+1:]...)
			break
		}
	}

	if p == l.owner {
		l.changeOwner()
		owner := l.owner
		l.broadcast(func(s EventSink) { s.OwnerChanged(owner) })
	}

	if e := l.table.of(p); e != nil {
		l.punchlines.Discard(e.Card)
		l.table = l.table.without(e)
	}

	p.sink = NopSink{}
	p.connected = false
	p.ready = false
	l.grave[p] = struct{}{}

	l.broadcast(func(s EventSink) { s.PlayerLeft(p) })
	l.log.Info().Str("playerId", p.ID).Bool("lead", wasLead).Msg("player left")

	switch l.phase.kind {
	case PhaseTurns:
		return l.tryEndTurn()
	case PhaseJudgement:
		return l.judgementRemovePlayer(wasLead)
	}
	return nil
}

// changeOwner hands ownership to the first connected participant, lead
// first, or leaves the seat vacant.
func (l *Lobby) changeOwner() {
	l.owner = nil
	for _, p := range l.allPlayers() {
		if p.connected {
			l.owner = p
			return
		}
	}
}

func (l *Lobby) anyConnected() bool {
	for _, p := range l.allPlayers() {
		if p.connected {
			return true
		}
	}
	return false
}

func (l *Lobby) rotateLead() {
	if l.lead != nil {
		l.players = append(l.players, l.lead)
	}
	l.lead = l.players[0]
	l.players = l.players[1:]
}

// topUp deals p punchline cards until the hand is full and returns the
// cards dealt.
func (l *Lobby) topUp(p *Player) ([]PunchlineCard, error) {
	var dealt []PunchlineCard
	for len(p.hand) < HandSize {
		c, err := l.punchlines.Draw()
		if err != nil {
			return dealt, fmt.Errorf("deal punchline: %w", err)
		}
		p.addToHand(c)
		dealt = append(dealt, c)
	}
	return dealt, nil
}

// startTurn begins the next round. With fewer than two participants left,
// or nobody connected, the lobby falls back to Gathering and waits for the
// owner.
func (l *Lobby) startTurn() error {
	if len(l.allPlayers()) < 2 {
		l.log.Warn().Msg("not enough players, back to gathering")
		l.resetGame()
		return l.transitTo(phaseState{kind: PhaseGathering})
	}
	if !l.anyConnected() {
		l.log.Warn().Msg("nobody connected, back to gathering")
		l.resetGame()
		return l.transitTo(phaseState{kind: PhaseGathering})
	}

	l.rotateLead()
	setup, err := l.setups.Draw()
	if err != nil {
		return fmt.Errorf("draw setup: %w", err)
	}
	l.round++

	if err := l.transitTo(phaseState{kind: PhaseTurns, setup: setup}); err != nil {
		return err
	}
	if d := l.settings.TurnDuration; d > 0 {
		l.phase.timer = l.schedule(d, "end_turn", l.resolveTurn)
	}

	for _, p := range l.allPlayers() {
		p.ready = false
		dealt, err := l.topUp(p)
		if err != nil {
			return err
		}
		p.sink.TurnStarted(TurnInfo{
			Setup:        setup,
			TurnDuration: l.settings.TurnDuration,
			Lead:         l.lead,
			Round:        l.round,
			NewCards:     dealt,
		})
	}
	return nil
}

// voidRound abandons the current round without a winner: submitted cards go
// back to their owners and the next round starts after StartTurnDelay.
func (l *Lobby) voidRound() error {
	for _, e := range l.table {
		e.Player.addToHand(e.Card)
		e.Player.sink.HandRefreshed(e.Player.Hand())
	}
	l.table = nil
	for _, p := range l.allPlayers() {
		p.ready = false
	}
	l.log.Warn().Int("round", l.round).Msg("round voided")

	setup := l.phase.setup
	if l.phase.kind != PhaseJudgement {
		if err := l.transitTo(phaseState{kind: PhaseJudgement, setup: setup}); err != nil {
			return err
		}
	}
	l.phase.concluded = true
	l.phase.timer = l.schedule(l.settings.StartTurnDelay, "start_turn", l.nextTurn)
	return nil
}

// nextTurn returns the finished round's setup card and starts a new round.
func (l *Lobby) nextTurn() error {
	l.setups.Discard(l.phase.setup)
	return l.startTurn()
}

// resetGame clears everything a game accumulates so the next StartGame
// begins from scratch.
func (l *Lobby) resetGame() {
	if l.punchlines != nil {
		l.punchlines.Discard(l.table.cards()...)
	}
	l.table = nil
	l.round = 0
	l.endless = false
	everyone := l.allPlayers()
	for p := range l.grave {
		everyone = append(everyone, p)
	}
	for _, p := range everyone {
		if l.punchlines != nil {
			l.punchlines.Discard(p.hand...)
		}
		p.hand = nil
		p.score = 0
		p.ready = false
	}
}

func (l *Lobby) requireOwner(p *Player) error {
	if l.owner == nil || p != l.owner {
		return ErrNotOwner
	}
	return nil
}

// StartGame starts a new game, or restarts a finished one, with the given
// settings and decks.
func (l *Lobby) StartGame(p *Player, settings Settings, setups *Deck[SetupCard], punchlines *Deck[PunchlineCard]) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.phase.kind {
	case PhaseGathering:
		return l.gatheringStartGame(p, settings, setups, punchlines)
	case PhaseFinished:
		return l.finishedStartGame(p, settings, setups, punchlines)
	default:
		return unsupported(l.phase.kind, "start_game")
	}
}

func (l *Lobby) SubmitCard(p *Player, cardID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isMember(p) {
		return ErrUnknownPlayer
	}
	if l.phase.kind != PhaseTurns {
		return unsupported(l.phase.kind, "submit_card")
	}
	return l.turnsSubmitCard(p, cardID)
}

func (l *Lobby) RefreshHand(p *Player) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isMember(p) {
		return ErrUnknownPlayer
	}
	if l.phase.kind != PhaseTurns {
		return unsupported(l.phase.kind, "refresh_hand")
	}
	return l.turnsRefreshHand(p)
}

func (l *Lobby) RevealCard(p *Player, cardID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase.kind != PhaseJudgement {
		return unsupported(l.phase.kind, "reveal_table_card")
	}
	return l.judgementReveal(p, cardID)
}

func (l *Lobby) PickWinner(p *Player, cardID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase.kind != PhaseJudgement {
		return unsupported(l.phase.kind, "pick_turn_winner")
	}
	return l.judgementPickWinner(p, cardID)
}

func (l *Lobby) ContinueGame(p *Player) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase.kind != PhaseFinished {
		return unsupported(l.phase.kind, "continue_game")
	}
	return l.finishedContinue(p)
}
