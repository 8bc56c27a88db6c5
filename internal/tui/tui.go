package tui

import (
	"time"

	"meeting-board/internal/dictation"
	"meeting-board/internal/editor"
	"meeting-board/internal/speech"
	"meeting-board/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Options wires the board TUI to its collaborators. Capture, Player and Persist
// may be nil; the matching features then report themselves unavailable.
type Options struct {
	Controller *editor.Controller
	Capture    dictation.Capture
	Player     speech.Player
	// PlayerErr explains why Player is nil.
	PlayerErr error
	// Persist is subscribed to Controller changes by the TUI; callers must not
	// subscribe it as well.
	Persist   *store.Bridge
	ExportDir string
	Preview   bool
	Log       *logrus.Entry
	Now       func() time.Time
}

// NewModel builds the board model without starting a program.
func NewModel(opt Options) tea.Model { return newAppModel(opt) }

func Run(opt Options) error {
	applyColorProfilePreference()
	m := newAppModel(opt)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	m.shutdown()
	return err
}
