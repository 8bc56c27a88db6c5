package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"meeting-board/internal/model"

	"github.com/sirupsen/logrus"
)

// SessionKey is the fixed key the board snapshot is stored under.
const SessionKey = "meeting-board-data"

var ErrInvalidSnapshot = errors.New("invalid board snapshot")

// snapshotItem is the stored shape of one item. Editing focus is not persisted.
type snapshotItem struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Indent int    `json:"indent"`
}

func EncodeOutline(o model.Outline) (string, error) {
	items := o.Items()
	out := make([]snapshotItem, 0, len(items))
	for _, it := range items {
		out = append(out, snapshotItem{ID: it.ID, Text: it.Text, Indent: it.Indent})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeOutline(s string) (model.Outline, error) {
	var raw []snapshotItem
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return model.Outline{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if len(raw) == 0 {
		return model.Outline{}, fmt.Errorf("%w: no items", ErrInvalidSnapshot)
	}
	items := make([]model.Item, 0, len(raw))
	for _, it := range raw {
		items = append(items, model.Item{ID: it.ID, Text: it.Text, Indent: it.Indent})
	}
	return model.FromItems(items), nil
}

// SaveOutline overwrites the stored snapshot with o.
func SaveOutline(kv KV, o model.Outline) error {
	s, err := EncodeOutline(o)
	if err != nil {
		return err
	}
	return kv.Save(SessionKey, s)
}

// LoadOutline returns the stored outline. A missing snapshot yields a fresh
// outline; an unreadable one is logged and treated as missing.
func LoadOutline(kv KV, log *logrus.Entry) model.Outline {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s, ok, err := kv.Load(SessionKey)
	if err != nil {
		log.WithError(err).Warn("failed to load saved board data")
		return model.New()
	}
	if !ok {
		return model.New()
	}
	o, err := DecodeOutline(s)
	if err != nil {
		log.WithError(err).Warn("failed to parse saved board data")
		return model.New()
	}
	return o
}

// Bridge mirrors every outline change into the store.
type Bridge struct {
	kv  KV
	log *logrus.Entry

	// OnError is called after a failed save, if set.
	OnError func(error)

	lastErr error
}

func NewBridge(kv KV, log *logrus.Entry) *Bridge {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bridge{kv: kv, log: log.WithField("component", "persistence")}
}

// Save writes o; errors are logged and reported, never fatal.
func (b *Bridge) Save(o model.Outline) {
	err := SaveOutline(b.kv, o)
	b.lastErr = err
	if err != nil {
		b.log.WithError(err).Warn("failed to save board data")
		if b.OnError != nil {
			b.OnError(err)
		}
		return
	}
	b.log.WithField("items", o.Len()).Debug("board saved")
}

// Err returns the error of the most recent save.
func (b *Bridge) Err() error { return b.lastErr }
