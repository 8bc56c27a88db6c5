// Package speech reads the board aloud through a local speech synthesizer.
package speech

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"meeting-board/internal/model"

	"github.com/sirupsen/logrus"
)

var ErrNoSynthesizer = errors.New("no speech synthesizer found (install espeak-ng or set speech.command)")

// Player is the speech playback collaborator.
type Player interface {
	Speak(text string) error
	Stop() error
	Speaking() bool
}

// ReadAloudText joins item texts with ". " into a single utterance. Blank rows
// are skipped.
func ReadAloudText(o model.Outline) string {
	var parts []string
	for _, it := range o.Items() {
		if t := strings.TrimSpace(it.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ". ")
}

// Known synthesizers, tried in order when no command is configured.
var defaultSynthesizers = [][]string{
	{"say"},
	{"espeak-ng"},
	{"espeak"},
	{"spd-say", "--wait"},
}

// DetectCommand returns argv for the first installed synthesizer.
func DetectCommand() ([]string, error) {
	for _, argv := range defaultSynthesizers {
		if _, err := exec.LookPath(argv[0]); err == nil {
			return argv, nil
		}
	}
	return nil, ErrNoSynthesizer
}

// CommandPlayer speaks by running argv with the text appended as the last argument.
type CommandPlayer struct {
	argv []string
	log  *logrus.Entry

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

func NewCommandPlayer(argv []string, log *logrus.Entry) (*CommandPlayer, error) {
	if len(argv) == 0 {
		detected, err := DetectCommand()
		if err != nil {
			return nil, err
		}
		argv = detected
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &CommandPlayer{argv: argv, log: log.WithField("component", "speech")}, nil
}

func (p *CommandPlayer) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

// Speak starts speaking text, interrupting any current utterance. It does not block.
func (p *CommandPlayer) Speak(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := p.Stop(); err != nil {
		return err
	}

	args := append(append([]string{}, p.argv[1:]...), text)
	cmd := exec.Command(p.argv[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("speech: start %s: %w", p.argv[0], err)
	}
	done := make(chan struct{})

	p.mu.Lock()
	p.cmd = cmd
	p.done = done
	p.mu.Unlock()

	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		if p.cmd == cmd {
			p.cmd = nil
			if err != nil {
				p.log.WithError(err).Warn("synthesizer exited")
			}
		}
		p.mu.Unlock()
		close(done)
	}()
	return nil
}

// Done returns a channel closed when the current utterance ends, or nil when idle.
func (p *CommandPlayer) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil {
		return nil
	}
	return p.done
}

// Wait blocks until the current utterance ends.
func (p *CommandPlayer) Wait() {
	if ch := p.Done(); ch != nil {
		<-ch
	}
}

// Stop interrupts playback. Stopping an idle player is a no-op.
func (p *CommandPlayer) Stop() error {
	p.mu.Lock()
	cmd := p.cmd
	p.cmd = nil
	p.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
