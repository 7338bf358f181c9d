package game

import (
	"time"
)

// HandSize is the number of punchline cards every participant holds at the
// start of a round.
const HandSize = 10

type Phase string

const (
	PhaseGathering Phase = "Gathering"
	PhaseTurns     Phase = "Turns"
	PhaseJudgement Phase = "Judgement"
	PhaseFinished  Phase = "Finished"
)

const (
	DefaultFinishDelay    = 5 * time.Second
	DefaultStartTurnDelay = 5 * time.Second
)

// Settings are supplied by the owner when a game is started.
type Settings struct {
	TurnDuration   time.Duration `json:"turnDuration"` // zero means unbounded
	WinningScore   int           `json:"winningScore"`
	FinishDelay    time.Duration `json:"finishDelay"`
	StartTurnDelay time.Duration `json:"startTurnDelay"`
}

// Card is implemented by both card kinds so decks can be generic over them.
type Card interface {
	CardID() int
}

type SetupCard struct {
	ID                  int    `json:"id"`
	Text                string `json:"text"`
	Case                string `json:"case"`
	StartsWithPunchline bool   `json:"startsWithPunchline"`
}

func (c SetupCard) CardID() int { return c.ID }

// Fragment is one piece of a punchline's text. Forms holds the inflections
// used to fill a setup's blank.
type Fragment struct {
	Text  string   `json:"text"`
	Forms []string `json:"forms"`
}

type PunchlineCard struct {
	ID   int        `json:"id"`
	Text []Fragment `json:"text"`
}

func (c PunchlineCard) CardID() int { return c.ID }

type Profile struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// TurnInfo is delivered with TurnStarted. NewCards holds the cards dealt to
// the receiving participant to refill their hand, usually one, none when the
// hand was already full.
type TurnInfo struct {
	Setup        SetupCard
	TurnDuration time.Duration
	Lead         *Player
	Round        int
	NewCards     []PunchlineCard
}

// GameResult is handed to an Archive once a game reaches Finished.
type GameResult struct {
	LobbyCode  string
	Winner     Profile
	Rounds     int
	Scores     []PlayerScore
	FinishedAt time.Time
}

type PlayerScore struct {
	PlayerID string
	Name     string
	Score    int
}

// Archive stores completed games. Implementations must not call back into
// the lobby.
type Archive interface {
	RecordGame(result GameResult) error
}
