package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/punchline/internal/cards"
	"github.com/kiliankoe/punchline/internal/game"
)

// conn is the part of socketio.Conn the handlers use.
type conn interface {
	ID() string
	Emit(event string, v ...interface{})
	Context() interface{}
	SetContext(v interface{})
}

// ConnCtx binds a socket to the participant it speaks for.
type ConnCtx struct {
	Lobby  *game.Lobby
	Player *game.Player
}

type Server struct {
	Manager  *game.Manager
	Library  cards.Library
	Defaults game.Settings
	Origins  []string

	log zerolog.Logger

	mu     sync.Mutex
	owners map[*game.Player]conn // socket currently speaking for each player
}

func New(m *game.Manager, lib cards.Library, defaults game.Settings) *Server {
	return &Server{
		Manager:  m,
		Library:  lib,
		Defaults: defaults,
		log:      log.Logger,
		owners:   make(map[*game.Player]conn),
	}
}

func (srv *Server) SetLogger(l zerolog.Logger) { srv.log = l }

type profileReq struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type resumeReq struct {
	Code  string `json:"code"`
	Token string `json:"token"`
}

// startReq carries durations in seconds. Missing fields fall back to the
// server defaults.
type startReq struct {
	TurnDuration *int `json:"turnDuration"`
	WinningScore *int `json:"winningScore"`
}

type cardReq struct {
	CardID int `json:"cardId"`
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(srv.engineOptions())

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		srv.log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "lobby:create", func(s socketio.Conn, req profileReq) map[string]any {
		return srv.create(s, req)
	})
	io.OnEvent("/", "lobby:join", func(s socketio.Conn, req profileReq) map[string]any {
		return srv.join(s, req)
	})
	io.OnEvent("/", "lobby:resume", func(s socketio.Conn, req resumeReq) map[string]any {
		return srv.resume(s, req)
	})
	io.OnEvent("/", "lobby:leave", func(s socketio.Conn) map[string]any {
		return srv.leave(s)
	})
	io.OnEvent("/", "game:start", func(s socketio.Conn, req startReq) map[string]any {
		return srv.start(s, req)
	})
	io.OnEvent("/", "game:continue", func(s socketio.Conn) map[string]any {
		return srv.act(s, "game:continue", func(l *game.Lobby, p *game.Player) error {
			return l.ContinueGame(p)
		})
	})
	io.OnEvent("/", "game:refreshHand", func(s socketio.Conn) map[string]any {
		return srv.act(s, "game:refreshHand", func(l *game.Lobby, p *game.Player) error {
			return l.RefreshHand(p)
		})
	})
	io.OnEvent("/", "game:submit", func(s socketio.Conn, req cardReq) map[string]any {
		return srv.act(s, "game:submit", func(l *game.Lobby, p *game.Player) error {
			return l.SubmitCard(p, req.CardID)
		})
	})
	io.OnEvent("/", "game:reveal", func(s socketio.Conn, req cardReq) map[string]any {
		return srv.act(s, "game:reveal", func(l *game.Lobby, p *game.Player) error {
			return l.RevealCard(p, req.CardID)
		})
	})
	io.OnEvent("/", "game:pick", func(s socketio.Conn, req cardReq) map[string]any {
		return srv.act(s, "game:pick", func(l *game.Lobby, p *game.Player) error {
			return l.PickWinner(p, req.CardID)
		})
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		srv.log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.detach(s)
		srv.log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			srv.log.Error().Err(err).Msg("socket.io server stopped")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	return io
}

func (srv *Server) engineOptions() *engineio.Options {
	check := func(r *http.Request) bool { return srv.originAllowed(r.Header.Get("Origin")) }
	return &engineio.Options{
		Transports: []transport.Transport{
			&polling.Transport{CheckOrigin: check},
			&websocket.Transport{CheckOrigin: check},
		},
	}
}

func (srv *Server) originAllowed(origin string) bool {
	if origin == "" || len(srv.Origins) == 0 {
		return true
	}
	for _, o := range srv.Origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (srv *Server) create(s conn, req profileReq) map[string]any {
	srv.detach(s)
	l, p, err := srv.Manager.CreateLobby(game.Profile{Name: req.Name, Emoji: req.Emoji})
	if err != nil {
		return srv.err(s, err)
	}
	srv.log.Info().Str("sid", s.ID()).Str("code", l.Code).Str("playerId", p.ID).Msg("lobby:create")
	if err := srv.attach(s, l, p); err != nil {
		return srv.err(s, err)
	}
	return map[string]any{"code": l.Code, "token": p.Token, "playerId": p.ID}
}

func (srv *Server) join(s conn, req profileReq) map[string]any {
	srv.detach(s)
	l, p, err := srv.Manager.Join(req.Code, game.Profile{Name: req.Name, Emoji: req.Emoji})
	if err != nil {
		return srv.err(s, err)
	}
	srv.log.Info().Str("sid", s.ID()).Str("code", l.Code).Str("playerId", p.ID).Msg("lobby:join")
	if err := srv.attach(s, l, p); err != nil {
		return srv.err(s, err)
	}
	return map[string]any{"code": l.Code, "token": p.Token, "playerId": p.ID}
}

func (srv *Server) resume(s conn, req resumeReq) map[string]any {
	srv.detach(s)
	l, p, err := srv.Manager.Resume(req.Code, req.Token)
	if err != nil {
		return srv.err(s, err)
	}
	srv.log.Info().Str("sid", s.ID()).Str("code", l.Code).Str("playerId", p.ID).Msg("lobby:resume")
	if err := srv.attach(s, l, p); err != nil {
		return srv.err(s, err)
	}
	return map[string]any{"code": l.Code, "playerId": p.ID}
}

func (srv *Server) leave(s conn) map[string]any {
	ctx := srv.session(s)
	if ctx.Player == nil {
		return srv.err(s, game.ErrUnknownPlayer)
	}
	if err := ctx.Lobby.RemovePlayer(ctx.Player); err != nil {
		return srv.err(s, err)
	}
	srv.mu.Lock()
	if srv.owners[ctx.Player] == s {
		delete(srv.owners, ctx.Player)
	}
	srv.mu.Unlock()
	srv.log.Info().Str("sid", s.ID()).Str("code", ctx.Lobby.Code).Str("playerId", ctx.Player.ID).Msg("lobby:leave")
	s.SetContext(&ConnCtx{})
	return map[string]any{"ok": true}
}

func (srv *Server) start(s conn, req startReq) map[string]any {
	settings := srv.Defaults
	if req.TurnDuration != nil {
		settings.TurnDuration = time.Duration(*req.TurnDuration) * time.Second
	}
	if req.WinningScore != nil {
		settings.WinningScore = *req.WinningScore
	}
	return srv.act(s, "game:start", func(l *game.Lobby, p *game.Player) error {
		setups, punchlines := srv.Library.Decks()
		return l.StartGame(p, settings, setups, punchlines)
	})
}

// act runs one player action against the connection's lobby.
func (srv *Server) act(s conn, event string, fn func(*game.Lobby, *game.Player) error) map[string]any {
	ctx := srv.session(s)
	if ctx.Player == nil {
		return srv.err(s, game.ErrUnknownPlayer)
	}
	if err := fn(ctx.Lobby, ctx.Player); err != nil {
		srv.log.Debug().Err(err).Str("code", ctx.Lobby.Code).Str("playerId", ctx.Player.ID).Msg(event + " rejected")
		return srv.err(s, err)
	}
	srv.log.Info().Str("sid", s.ID()).Str("code", ctx.Lobby.Code).Str("playerId", ctx.Player.ID).Msg(event)
	return map[string]any{"ok": true}
}

// attach makes s the socket speaking for p. A socket that spoke for p
// before keeps its context but loses the player.
func (srv *Server) attach(s conn, l *game.Lobby, p *game.Player) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := l.Connect(p, newSink(s)); err != nil {
		return err
	}
	if prev, ok := srv.owners[p]; ok && prev != s {
		srv.log.Info().Str("sid", prev.ID()).Str("playerId", p.ID).Msg("socket replaced")
	}
	srv.owners[p] = s
	s.SetContext(&ConnCtx{Lobby: l, Player: p})
	return nil
}

// detach releases whatever participant the socket spoke for before. The
// player is only disconnected if no newer socket has taken over.
func (srv *Server) detach(s conn) {
	ctx := connCtx(s)
	if ctx.Player == nil {
		return
	}
	s.SetContext(&ConnCtx{})

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.owners[ctx.Player] != s {
		return
	}
	delete(srv.owners, ctx.Player)
	if err := ctx.Lobby.Disconnect(ctx.Player); err != nil {
		srv.log.Warn().Err(err).Str("sid", s.ID()).Msg("detach")
	}
}

// session is the socket's context, or an empty one once another socket has
// taken the player over.
func (srv *Server) session(s conn) *ConnCtx {
	ctx := connCtx(s)
	if ctx.Player == nil {
		return ctx
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.owners[ctx.Player] != s {
		return &ConnCtx{}
	}
	return ctx
}

func connCtx(s conn) *ConnCtx {
	if ctx, ok := s.Context().(*ConnCtx); ok && ctx != nil {
		return ctx
	}
	return &ConnCtx{}
}

var errorCodes = []struct {
	err  error
	code string
}{
	{game.ErrLobbyNotFound, "lobby_not_found"},
	{game.ErrNotOwner, "not_owner"},
	{game.ErrNotLead, "not_lead"},
	{game.ErrCardNotInHand, "card_not_in_hand"},
	{game.ErrCardNotOnTable, "card_not_on_table"},
	{game.ErrNotAllRevealed, "not_all_revealed"},
	{game.ErrUnknownPlayer, "unknown_player"},
	{game.ErrAlreadyReady, "already_ready"},
	{game.ErrScoreTooLow, "score_too_low"},
	{game.ErrLeadCannotSubmit, "lead_cannot_submit"},
	{game.ErrNotEnoughPlayers, "not_enough_players"},
	{game.ErrInvalidSettings, "invalid_settings"},
	{game.ErrDeckExhausted, "deck_exhausted"},
	{game.ErrLobbyFull, "lobby_full"},
	{game.ErrNotEnoughCards, "not_enough_cards"},
}

func errorCode(err error) string {
	var pe *game.PhaseError
	if errors.As(err, &pe) {
		return "protocol_violation"
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}

func (srv *Server) err(s conn, err error) map[string]any {
	code := errorCode(err)
	if code == "internal" {
		srv.log.Error().Err(err).Str("sid", s.ID()).Msg("action failed")
	}
	s.Emit("error", map[string]any{"code": code, "message": err.Error()})
	return map[string]any{"error": code}
}
