package dictation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrNoCommand is returned by Start when no recognizer command is configured.
var ErrNoCommand = errors.New("no dictation command configured (set dictation.command)")

// Capture is a speech-to-text source whose transcript grows while recording.
type Capture interface {
	Start() error
	// Stop ends recording. Stopping an already stopped capture is a no-op.
	Stop() error
	ResetTranscript()
	Transcript() string
	// Err returns the last capture error, if any.
	Err() error
	Recording() bool
	// Updates receives a signal whenever Transcript, Err or Recording may have changed.
	Updates() <-chan struct{}
}

// JoinPhrase appends a recognized phrase to a transcript.
func JoinPhrase(transcript, phrase string) string {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return transcript
	}
	if transcript == "" {
		return phrase
	}
	return transcript + " " + phrase
}

// CommandCapture runs an external recognizer and treats every line it prints on
// stdout as a recognized phrase.
type CommandCapture struct {
	argv []string
	log  *logrus.Entry

	mu         sync.Mutex
	cmd        *exec.Cmd
	transcript string
	err        error

	updates chan struct{}
}

func NewCommandCapture(argv []string, log *logrus.Entry) *CommandCapture {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &CommandCapture{
		argv:    argv,
		log:     log.WithField("component", "capture"),
		updates: make(chan struct{}, 1),
	}
}

func (c *CommandCapture) Updates() <-chan struct{} { return c.updates }

func (c *CommandCapture) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

func (c *CommandCapture) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cmd != nil
}

func (c *CommandCapture) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

func (c *CommandCapture) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *CommandCapture) ResetTranscript() {
	c.mu.Lock()
	c.transcript = ""
	c.mu.Unlock()
}

func (c *CommandCapture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd != nil {
		return nil
	}
	c.err = nil
	if len(c.argv) == 0 {
		c.err = ErrNoCommand
		return c.err
	}

	cmd := exec.Command(c.argv[0], c.argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		c.err = fmt.Errorf("dictation: %w", err)
		return c.err
	}
	if err := cmd.Start(); err != nil {
		c.err = fmt.Errorf("dictation: start %s: %w", c.argv[0], err)
		return c.err
	}
	c.cmd = cmd
	c.log.WithField("argv", c.argv).Info("recording started")
	go c.read(cmd, stdout)
	return nil
}

func (c *CommandCapture) read(cmd *exec.Cmd, stdout io.Reader) {
	sc := bufio.NewScanner(stdout)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.mu.Lock()
		// Lines from a stopped (stale) process are dropped.
		if c.cmd == cmd {
			c.transcript = JoinPhrase(c.transcript, line)
		}
		c.mu.Unlock()
		c.notify()
	}
	waitErr := cmd.Wait()

	c.mu.Lock()
	if c.cmd == cmd {
		c.cmd = nil
		if waitErr != nil {
			c.err = fmt.Errorf("dictation: %s exited: %w", c.argv[0], waitErr)
			c.log.WithError(waitErr).Warn("recognizer exited")
		}
	}
	c.mu.Unlock()
	c.notify()
}

func (c *CommandCapture) Stop() error {
	c.mu.Lock()
	cmd := c.cmd
	c.cmd = nil
	c.mu.Unlock()
	if cmd == nil {
		return nil
	}
	c.log.Info("recording stopped")
	if cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return err
		}
	}
	c.notify()
	return nil
}
