package game

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// Manager is the registry of running lobbies. It only guards the registry
// itself; each lobby serialises its own actions.
type Manager struct {
	mu      sync.RWMutex
	lobbies map[string]*Lobby
	active  string // most recently created lobby
	opts    []Option
}

// NewManager returns a manager whose lobbies are created with opts.
func NewManager(opts ...Option) *Manager {
	return &Manager{lobbies: make(map[string]*Lobby), opts: opts}
}

// CreateLobby opens a lobby owned by a new player with the given profile.
// The owner is already added to the roster but not yet connected.
func (m *Manager) CreateLobby(owner Profile) (*Lobby, *Player, error) {
	m.mu.Lock()
	code := randomCode(5)
	for m.lobbies[code] != nil {
		code = randomCode(5)
	}
	p := NewPlayer(owner, uuid.NewString())
	opts := append(append([]Option(nil), m.opts...), WithCode(code))
	l := NewLobby(p, opts...)
	m.lobbies[code] = l
	m.active = code
	m.mu.Unlock()

	if err := l.AddPlayer(p); err != nil {
		m.mu.Lock()
		delete(m.lobbies, code)
		m.mu.Unlock()
		return nil, nil, err
	}
	return l, p, nil
}

func (m *Manager) Get(code string) (*Lobby, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l := m.lobbies[code]
	if l == nil {
		return nil, ErrLobbyNotFound
	}
	return l, nil
}

func (m *Manager) Active() (string, *Lobby) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == "" {
		return "", nil
	}
	return m.active, m.lobbies[m.active]
}

// Join adds a new player to the lobby with the given code.
func (m *Manager) Join(code string, profile Profile) (*Lobby, *Player, error) {
	l, err := m.Get(code)
	if err != nil {
		return nil, nil, err
	}
	p := NewPlayer(profile, uuid.NewString())
	if err := l.AddPlayer(p); err != nil {
		return nil, nil, err
	}
	return l, p, nil
}

// Resume finds the player holding token in the lobby with the given code.
func (m *Manager) Resume(code, token string) (*Lobby, *Player, error) {
	l, err := m.Get(code)
	if err != nil {
		return nil, nil, err
	}
	p := l.PlayerByToken(token)
	if p == nil {
		return nil, nil, ErrUnknownPlayer
	}
	return l, p, nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lobbies)
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
