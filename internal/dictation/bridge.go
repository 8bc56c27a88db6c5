package dictation

import (
	"strings"

	"meeting-board/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// Sink is the part of the editor controller dictation writes through.
type Sink interface {
	LastItem() (model.Item, bool)
	SetText(id, text string) bool
	AppendDictation(text string) model.Item
}

// Bridge feeds the unconsumed tail of a growing transcript into a Sink.
//
// Within one recording segment, text keeps extending the item the bridge last
// wrote as long as that item is still last and unchanged. Otherwise the text goes
// through AppendDictation (fill a blank last item or start a new one).
type Bridge struct {
	consumed int

	lastID   string
	lastText string

	log *logrus.Entry
}

func NewBridge(log *logrus.Entry) *Bridge {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bridge{log: log.WithField("component", "dictation")}
}

// Consumed returns the transcript length already applied.
func (b *Bridge) Consumed() int { return b.consumed }

// Reset rewinds the cursor; call it whenever the transcript is reset.
func (b *Bridge) Reset() {
	b.consumed = 0
	b.lastID = ""
	b.lastText = ""
}

// Consume applies the part of transcript not seen yet. It reports whether the
// outline was written.
func (b *Bridge) Consume(transcript string, sink Sink) bool {
	if len(transcript) < b.consumed {
		// The collaborator restarted its transcript underneath us.
		b.log.WithFields(logrus.Fields{"consumed": b.consumed, "len": len(transcript)}).Debug("transcript shrank; resetting cursor")
		b.Reset()
	}
	if len(transcript) == b.consumed {
		return false
	}
	delta := strings.TrimSpace(norm.NFC.String(transcript[b.consumed:]))
	b.consumed = len(transcript)
	if delta == "" {
		return false
	}

	if b.lastID != "" {
		if last, ok := sink.LastItem(); ok && last.ID == b.lastID && last.Text == b.lastText {
			text := last.Text + " " + delta
			sink.SetText(last.ID, text)
			b.lastText = text
			return true
		}
	}

	it := sink.AppendDictation(delta)
	b.lastID = it.ID
	b.lastText = it.Text
	b.log.WithField("item", it.ID).Debug("dictation appended")
	return true
}

// Toggle flips capture between recording and stopped. Starting resets both the
// transcript and the cursor so earlier speech is never replayed.
func (b *Bridge) Toggle(c Capture) (recording bool, err error) {
	if c.Recording() {
		return false, c.Stop()
	}
	c.ResetTranscript()
	b.Reset()
	if err := c.Start(); err != nil {
		return false, err
	}
	return true, nil
}
