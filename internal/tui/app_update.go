package tui

import (
	"fmt"

	"meeting-board/internal/dictation"
	"meeting-board/internal/editor"
	"meeting-board/internal/export"
	"meeting-board/internal/speech"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// doneNotifier is implemented by players that can signal the end of an utterance.
type doneNotifier interface {
	Done() <-chan struct{}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case focusMsg:
		m.flushFocus()
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case captureMsg:
		return m.onCapture()

	case speechDoneMsg:
		m.speaking = m.player != nil && m.player.Speaking()
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flushFocus()

	if m.confirmClear {
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirmClear = false
			m.ctrl.Clear()
			// Transcript and cursor reset as a pair.
			if m.capture != nil {
				m.capture.ResetTranscript()
			}
			m.dict.Reset()
			m.syncInput()
			return m, m.afterMutation(m.showFlash("Board cleared"))
		case "n", "N", "esc", "ctrl+c", "ctrl+q":
			m.confirmClear = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Record):
		return m.toggleRecording()
	case key.Matches(msg, m.keys.Speak):
		return m.toggleSpeech()
	case key.Matches(msg, m.keys.Export):
		return m.exportMarkdown()
	case key.Matches(msg, m.keys.Copy):
		if err := copyToClipboard(export.Markdown(m.ctrl.Outline())); err != nil {
			m.log.WithError(err).Warn("clipboard copy failed")
			return m, m.showFlash("Copy failed: " + err.Error())
		}
		return m, m.showFlash("Copied markdown")
	case key.Matches(msg, m.keys.Preview):
		m.showPreview = !m.showPreview
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.confirmClear = true
		return m, nil
	}

	if k := editorKey(msg); k != editor.KeyNone {
		res := m.ctrl.HandleKey(k)
		if res.Handled {
			if res.FocusPending {
				return m, m.afterMutation(focusCmd())
			}
			m.syncInput()
			return m, m.afterMutation(nil)
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.ctrl.SetText(m.boundID, v)
		return m, m.afterMutation(cmd)
	}
	return m, cmd
}

// afterMutation surfaces a persistence failure once per distinct error.
func (m *appModel) afterMutation(cmd tea.Cmd) tea.Cmd {
	if m.persist == nil {
		return cmd
	}
	err := m.persist.Err()
	if err == nil {
		m.lastPersistErr = ""
		return cmd
	}
	if err.Error() == m.lastPersistErr {
		return cmd
	}
	m.lastPersistErr = err.Error()
	return tea.Batch(cmd, m.showFlash("Save failed: "+err.Error()))
}

func (m appModel) toggleRecording() (tea.Model, tea.Cmd) {
	if m.capture == nil {
		return m, m.showFlash("Dictation unavailable: " + dictation.ErrNoCommand.Error())
	}
	recording, err := m.dict.Toggle(m.capture)
	if err != nil {
		m.log.WithError(err).Warn("dictation toggle failed")
		return m, m.showFlash("Dictation error: " + err.Error())
	}
	if recording {
		m.log.Info("recording started")
		return m, m.showFlash("Recording started")
	}
	m.log.Info("recording stopped")
	return m, m.showFlash("Recording stopped")
}

// onCapture feeds new transcript text through the dictation bridge.
func (m appModel) onCapture() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForCapture(m.capture)}
	if m.dict.Consume(m.capture.Transcript(), m.ctrl) {
		m.syncInput()
		cmds = append(cmds, m.afterMutation(nil))
	}
	if err := m.capture.Err(); err != nil && !m.capture.Recording() {
		cmds = append(cmds, m.showFlash("Dictation error: "+err.Error()))
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) toggleSpeech() (tea.Model, tea.Cmd) {
	if m.player == nil {
		err := m.playerErr
		if err == nil {
			err = speech.ErrNoSynthesizer
		}
		return m, m.showFlash("Speech unavailable: " + err.Error())
	}
	if m.player.Speaking() {
		if err := m.player.Stop(); err != nil {
			m.log.WithError(err).Warn("speech stop failed")
		}
		m.speaking = false
		return m, nil
	}
	text := speech.ReadAloudText(m.ctrl.Outline())
	if text == "" {
		return m, m.showFlash("Nothing to read")
	}
	if err := m.player.Speak(text); err != nil {
		m.log.WithError(err).Warn("speech failed")
		return m, m.showFlash("Speech error: " + err.Error())
	}
	m.speaking = true
	if dn, ok := m.player.(doneNotifier); ok {
		return m, waitForSpeech(dn.Done())
	}
	return m, nil
}

func (m appModel) exportMarkdown() (tea.Model, tea.Cmd) {
	path, err := export.WriteFile(m.exportDir, m.ctrl.Outline(), m.now())
	if err != nil {
		m.log.WithError(err).Warn("export failed")
		return m, m.showFlash("Export failed: " + err.Error())
	}
	m.log.WithField("path", path).Info("board exported")
	return m, m.showFlash(fmt.Sprintf("Exported %s", path))
}
