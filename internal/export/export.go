package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kiliankoe/punchline/internal/game"
)

// FileArchive appends a plain text summary of every finished game to a file.
type FileArchive struct {
	Path string

	mu sync.Mutex
}

var _ game.Archive = (*FileArchive)(nil)

func NewFileArchive(path string) *FileArchive {
	return &FileArchive{Path: path}
}

// RecordGame writes one result block. Lobbies finish independently, so
// writes are serialised here.
func (a *FileArchive) RecordGame(res game.GameResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Create directory if it doesn't exist
	dir := filepath.Dir(a.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(a.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(Format(res)); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

// Format renders a result the way RecordGame stores it.
func Format(res game.GameResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Punchline Game Results - Lobby %s\n", res.LobbyCode))
	sb.WriteString(fmt.Sprintf("Finished: %s\n", res.FinishedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	sb.WriteString(fmt.Sprintf("Winner: %s %s\n", res.Winner.Emoji, res.Winner.Name))
	sb.WriteString(fmt.Sprintf("Rounds played: %d\n", res.Rounds))

	scores := append([]game.PlayerScore(nil), res.Scores...)
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	sb.WriteString("\nFinal scores:\n")
	for _, ps := range scores {
		sb.WriteString(fmt.Sprintf("- %s: %d points\n", ps.Name, ps.Score))
	}
	sb.WriteString("\n")
	return sb.String()
}
