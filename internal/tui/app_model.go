package tui

import (
	"time"

	"meeting-board/internal/dictation"
	"meeting-board/internal/editor"
	"meeting-board/internal/model"
	"meeting-board/internal/speech"
	"meeting-board/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// focusMsg completes a deferred focus transfer after the target row has rendered.
type focusMsg struct{}

type flashDoneMsg struct{ seq int }

// captureMsg signals that the dictation capture has new state.
type captureMsg struct{}

type speechDoneMsg struct{}

type appModel struct {
	ctrl *editor.Controller
	keys keyMap

	// input edits the item whose id is boundID.
	input   textinput.Model
	boundID string

	capture dictation.Capture
	dict    *dictation.Bridge

	player    speech.Player
	playerErr error
	speaking  bool

	persist        *store.Bridge
	lastPersistErr string

	exportDir string
	now       func() time.Time
	log       *logrus.Entry

	width  int
	height int

	showPreview  bool
	confirmClear bool

	flash    string
	flashSeq int
}

func newAppModel(opt Options) appModel {
	log := opt.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	ctrl := opt.Controller
	if ctrl == nil {
		ctrl = editor.New(model.New())
	}
	if opt.Persist != nil {
		ctrl.OnChange(opt.Persist.Save)
	}
	now := opt.Now
	if now == nil {
		now = time.Now
	}

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "Type or speak..."
	in.Focus()

	m := appModel{
		ctrl:        ctrl,
		keys:        defaultKeyMap(),
		input:       in,
		capture:     opt.Capture,
		dict:        dictation.NewBridge(log),
		player:      opt.Player,
		playerErr:   opt.PlayerErr,
		persist:     opt.Persist,
		exportDir:   opt.ExportDir,
		now:         now,
		log:         log.WithField("component", "tui"),
		width:       80,
		height:      24,
		showPreview: opt.Preview,
	}
	m.syncInput()
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForCapture(m.capture))
}

// shutdown stops external processes when the program exits.
func (m appModel) shutdown() {
	if m.capture != nil {
		_ = m.capture.Stop()
	}
	if m.player != nil {
		_ = m.player.Stop()
	}
}

// syncInput binds the text input to the focused item, or refreshes its value when
// the item text changed underneath it (e.g. dictation).
func (m *appModel) syncInput() {
	it, ok := m.ctrl.FocusedItem()
	if !ok {
		return
	}
	if it.ID != m.boundID {
		m.boundID = it.ID
		m.input.SetValue(it.Text)
		m.input.CursorEnd()
		return
	}
	if m.input.Value() != it.Text {
		m.input.SetValue(it.Text)
		m.input.CursorEnd()
	}
}

// flushFocus lands any pending focus transfer before input is processed.
func (m *appModel) flushFocus() {
	if _, ok := m.ctrl.PendingFocus(); ok {
		m.ctrl.ResolveFocus()
		m.syncInput()
	}
}

func (m *appModel) showFlash(s string) tea.Cmd {
	m.flash = s
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m *appModel) recording() bool {
	return m.capture != nil && m.capture.Recording()
}

func waitForCapture(c dictation.Capture) tea.Cmd {
	if c == nil {
		return nil
	}
	ch := c.Updates()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		<-ch
		return captureMsg{}
	}
}

func waitForSpeech(done <-chan struct{}) tea.Cmd {
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		<-done
		return speechDoneMsg{}
	}
}

func focusCmd() tea.Cmd {
	return func() tea.Msg { return focusMsg{} }
}
