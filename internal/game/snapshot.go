package game

import (
	"time"
)

type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	Score     int    `json:"score"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
	IsLead    bool   `json:"isLead"`
	IsOwner   bool   `json:"isOwner"`
}

// TableView hides the card of an unrevealed entry and, once judging has
// begun, who played it.
type TableView struct {
	PlayerID string         `json:"playerId,omitempty"`
	Card     *PunchlineCard `json:"card,omitempty"`
	Revealed bool           `json:"revealed"`
}

// Snapshot is a read-only copy of the lobby as one participant may see it.
type Snapshot struct {
	Code         string          `json:"code"`
	Phase        Phase           `json:"phase"`
	Round        int             `json:"round"`
	Endless      bool            `json:"endless"`
	Setup        *SetupCard      `json:"setup,omitempty"`
	TurnDuration time.Duration   `json:"turnDuration"`
	WinningScore int             `json:"winningScore"`
	Players      []PlayerView    `json:"players"`
	Table        []TableView     `json:"table"`
	Hand         []PunchlineCard `json:"hand,omitempty"`
	Winner       string          `json:"winner,omitempty"`
}

// Snapshot returns the public view of the lobby.
func (l *Lobby) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotFor(nil)
}

// SnapshotFor returns the lobby as seen by p, including p's hand.
func (l *Lobby) SnapshotFor(p *Player) Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotFor(p)
}

func (l *Lobby) snapshotFor(viewer *Player) Snapshot {
	s := Snapshot{
		Code:         l.Code,
		Phase:        l.phase.kind,
		Round:        l.round,
		Endless:      l.endless,
		TurnDuration: l.settings.TurnDuration,
		WinningScore: l.settings.WinningScore,
		Players:      []PlayerView{},
		Table:        []TableView{},
	}
	if l.phase.kind != PhaseGathering {
		setup := l.phase.setup
		s.Setup = &setup
	}
	if l.phase.winner != nil {
		s.Winner = l.phase.winner.ID
	}
	for _, p := range l.allPlayers() {
		s.Players = append(s.Players, PlayerView{
			ID:        p.ID,
			Name:      p.Profile.Name,
			Emoji:     p.Profile.Emoji,
			Score:     p.score,
			Ready:     p.ready,
			Connected: p.connected,
			IsLead:    p == l.lead,
			IsOwner:   p == l.owner,
		})
	}
	for _, e := range l.table {
		tv := TableView{Revealed: e.Revealed}
		if e.Revealed || e.Player == viewer {
			card := e.Card
			tv.Card = &card
		}
		if l.phase.kind == PhaseTurns {
			tv.PlayerID = e.Player.ID
		}
		s.Table = append(s.Table, tv)
	}
	if viewer != nil {
		s.Hand = viewer.Hand()
	}
	return s
}
