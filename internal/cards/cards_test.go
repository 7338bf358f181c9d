package cards

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiliankoe/punchline/internal/game"
)

func TestDefaultPack(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, lib.Setups)
	assert.GreaterOrEqual(t, len(lib.Punchlines), 3*game.HandSize)

	setups, punchlines := lib.Decks()
	assert.Equal(t, len(lib.Setups), setups.Size())
	assert.Equal(t, len(lib.Punchlines), punchlines.Len())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.json")
	pack := `{"setups":[{"id":1,"text":"a ___","case":"","startsWithPunchline":false}],"punchlines":[` +
		`{"id":1,"text":[{"text":"x","forms":["x"]}]},{"id":2,"text":[]},{"id":3,"text":[]},{"id":4,"text":[]},` +
		`{"id":5,"text":[]},{"id":6,"text":[]},{"id":7,"text":[]},{"id":8,"text":[]},{"id":9,"text":[]},{"id":10,"text":[]}]}`
	require.NoError(t, os.WriteFile(path, []byte(pack), 0o644))

	lib, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, lib.Setups, 1)
	assert.Len(t, lib.Punchlines, 10)
	assert.Equal(t, "x", lib.Punchlines[0].Text[0].Text)
	assert.Equal(t, 1, lib.MaxPlayers())
}

func TestLoadEmptyPathFallsBackToDefault(t *testing.T) {
	lib, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, lib.Setups)
}

func TestValidate(t *testing.T) {
	punchlines := make([]game.PunchlineCard, game.HandSize)
	for i := range punchlines {
		punchlines[i] = game.PunchlineCard{ID: i + 1}
	}

	cases := []struct {
		name string
		lib  Library
	}{
		{name: "no setups", lib: Library{Punchlines: punchlines}},
		{name: "too few punchlines", lib: Library{Setups: []game.SetupCard{{ID: 1}}, Punchlines: punchlines[:3]}},
		{name: "duplicate setup", lib: Library{Setups: []game.SetupCard{{ID: 1}, {ID: 1}}, Punchlines: punchlines}},
		{name: "duplicate punchline", lib: Library{Setups: []game.SetupCard{{ID: 1}}, Punchlines: append(punchlines, game.PunchlineCard{ID: 1})}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.lib.Validate(), ErrInvalidPack)
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.Error(t, err)
}
