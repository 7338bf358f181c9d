// Package cards loads card packs and builds decks from them.
package cards

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kiliankoe/punchline/internal/game"
)

//go:embed default.json
var defaultPack []byte

var ErrInvalidPack = errors.New("invalid card pack")

// Library is the full universe of cards a lobby's decks are built from.
type Library struct {
	Setups     []game.SetupCard     `json:"setups"`
	Punchlines []game.PunchlineCard `json:"punchlines"`
}

// Default returns the pack compiled into the binary.
func Default() (Library, error) {
	return Parse(defaultPack)
}

// Load reads a pack from path. An empty path yields the default pack.
func Load(path string) (Library, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Library{}, fmt.Errorf("read card pack: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (Library, error) {
	var lib Library
	if err := json.Unmarshal(b, &lib); err != nil {
		return Library{}, fmt.Errorf("decode card pack: %w", err)
	}
	if err := lib.Validate(); err != nil {
		return Library{}, err
	}
	return lib, nil
}

// Validate checks that both kinds are present, ids are unique per kind, and
// there are enough punchlines to deal a full hand.
func (lib Library) Validate() error {
	if len(lib.Setups) == 0 {
		return fmt.Errorf("%w: no setup cards", ErrInvalidPack)
	}
	if len(lib.Punchlines) < game.HandSize {
		return fmt.Errorf("%w: need at least %d punchline cards, got %d", ErrInvalidPack, game.HandSize, len(lib.Punchlines))
	}
	seen := make(map[int]bool, len(lib.Setups))
	for _, c := range lib.Setups {
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate setup id %d", ErrInvalidPack, c.ID)
		}
		seen[c.ID] = true
	}
	seen = make(map[int]bool, len(lib.Punchlines))
	for _, c := range lib.Punchlines {
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate punchline id %d", ErrInvalidPack, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// Decks builds a fresh, shuffled pair of decks. Every game gets its own.
func (lib Library) Decks() (*game.Deck[game.SetupCard], *game.Deck[game.PunchlineCard]) {
	return game.NewDeck(lib.Setups), game.NewDeck(lib.Punchlines)
}

// MaxPlayers is how many full hands the pack can deal at once.
func (lib Library) MaxPlayers() int {
	return len(lib.Punchlines) / game.HandSize
}
