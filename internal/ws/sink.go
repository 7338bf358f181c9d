package ws

import (
	"github.com/kiliankoe/punchline/internal/game"
)

type emitter interface {
	Emit(event string, v ...interface{})
}

// socketSink forwards one participant's lobby notifications to their socket.
type socketSink struct {
	c emitter
}

var _ game.EventSink = socketSink{}

func newSink(c emitter) socketSink {
	return socketSink{c: c}
}

type playerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	Score     int    `json:"score"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
}

func playerView(p *game.Player) *playerDTO {
	if p == nil {
		return nil
	}
	return &playerDTO{
		ID:        p.ID,
		Name:      p.Profile.Name,
		Emoji:     p.Profile.Emoji,
		Score:     p.Score(),
		Ready:     p.IsReady(),
		Connected: p.IsConnected(),
	}
}

type turnDTO struct {
	Setup        game.SetupCard       `json:"setup"`
	TurnDuration int                  `json:"turnDuration"` // seconds, 0 for unbounded
	LeadID       string               `json:"leadId"`
	Round        int                  `json:"round"`
	NewCards     []game.PunchlineCard `json:"newCards"`
}

func (s socketSink) OwnerChanged(owner *game.Player) {
	s.c.Emit("lobby:ownerChanged", map[string]any{"owner": playerView(owner)})
}

func (s socketSink) PlayerDisconnected(p *game.Player) {
	s.c.Emit("lobby:playerDisconnected", map[string]any{"playerId": p.ID})
}

func (s socketSink) PlayerConnected(p *game.Player) {
	s.c.Emit("lobby:playerConnected", map[string]any{"player": playerView(p)})
}

func (s socketSink) PlayerJoined(p *game.Player) {
	s.c.Emit("lobby:playerJoined", map[string]any{"player": playerView(p)})
}

func (s socketSink) PlayerLeft(p *game.Player) {
	s.c.Emit("lobby:playerLeft", map[string]any{"playerId": p.ID})
}

func (s socketSink) GameStarted(p *game.Player) {
	s.c.Emit("game:started", map[string]any{"hand": p.Hand()})
}

func (s socketSink) TurnStarted(info game.TurnInfo) {
	dto := turnDTO{
		Setup:        info.Setup,
		TurnDuration: int(info.TurnDuration.Seconds()),
		Round:        info.Round,
		NewCards:     info.NewCards,
	}
	if info.Lead != nil {
		dto.LeadID = info.Lead.ID
	}
	if dto.NewCards == nil {
		dto.NewCards = []game.PunchlineCard{}
	}
	s.c.Emit("game:turnStarted", dto)
}

func (s socketSink) PlayerReady(p *game.Player) {
	s.c.Emit("game:playerReady", map[string]any{"playerId": p.ID})
}

func (s socketSink) TableCardRevealed(entry *game.CardOnTable) {
	s.c.Emit("game:cardRevealed", map[string]any{"card": entry.Card})
}

func (s socketSink) TurnEnded(winner *game.Player, card game.PunchlineCard) {
	s.c.Emit("game:turnEnded", map[string]any{"winner": playerView(winner), "card": card})
}

func (s socketSink) AllReady() {
	s.c.Emit("game:allReady")
}

func (s socketSink) GameFinished(winner *game.Player) {
	s.c.Emit("game:finished", map[string]any{"winner": playerView(winner)})
}

func (s socketSink) Welcome(snapshot game.Snapshot) {
	s.c.Emit("lobby:welcome", snapshot)
}

func (s socketSink) HandRefreshed(hand []game.PunchlineCard) {
	s.c.Emit("game:hand", map[string]any{"hand": hand})
}

func (s socketSink) ScoreChanged(p *game.Player) {
	s.c.Emit("game:score", map[string]any{"playerId": p.ID, "score": p.Score()})
}
