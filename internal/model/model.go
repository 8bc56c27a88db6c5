package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	MinIndent = 0
	MaxIndent = 4
)

// Item is one row of the outline.
type Item struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Indent int    `json:"indent"`
}

// NewItem returns an item with a fresh identity. The indent is clamped into range.
func NewItem(text string, indent int) Item {
	return Item{
		ID:     newID(),
		Text:   text,
		Indent: ClampIndent(indent),
	}
}

// newID is swapped in tests that need deterministic ids.
var newID = uuid.NewString

func ClampIndent(n int) int {
	if n < MinIndent {
		return MinIndent
	}
	if n > MaxIndent {
		return MaxIndent
	}
	return n
}

// Outline is the ordered list of items on the board.
//
// Operations never mutate the receiver: each returns a new Outline backed by
// its own slice, so a value handed to a renderer or a snapshot writer stays valid.
type Outline struct {
	items []Item
}

// New returns an outline holding a single empty item.
func New() Outline {
	return Outline{items: []Item{NewItem("", MinIndent)}}
}

// FromItems builds an outline from existing items (e.g. a loaded snapshot).
// Indents are clamped and missing ids are regenerated; an empty input yields New().
func FromItems(items []Item) Outline {
	if len(items) == 0 {
		return New()
	}
	out := make([]Item, 0, len(items))
	seen := map[string]bool{}
	for _, it := range items {
		it.Indent = ClampIndent(it.Indent)
		if strings.TrimSpace(it.ID) == "" || seen[it.ID] {
			it.ID = newID()
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return Outline{items: out}
}

func (o Outline) Len() int { return len(o.items) }

// At returns the item at index i.
func (o Outline) At(i int) (Item, bool) {
	if i < 0 || i >= len(o.items) {
		return Item{}, false
	}
	return o.items[i], true
}

// Last returns the final item in document order.
func (o Outline) Last() (Item, bool) {
	return o.At(len(o.items) - 1)
}

func (o Outline) IndexOf(id string) int {
	for i := range o.items {
		if o.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Items returns a copy of the items in document order.
func (o Outline) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o Outline) clone(extra int) []Item {
	out := make([]Item, len(o.items), len(o.items)+extra)
	copy(out, o.items)
	return out
}

// InsertAfter inserts a new item immediately after index (-1 inserts at the head)
// and returns the new outline along with the created item.
func (o Outline) InsertAfter(index int, text string, indent int) (Outline, Item) {
	if index < -1 {
		index = -1
	}
	if index > len(o.items)-1 {
		index = len(o.items) - 1
	}
	it := NewItem(text, indent)
	items := o.clone(1)
	pos := index + 1
	items = append(items, Item{})
	copy(items[pos+1:], items[pos:])
	items[pos] = it
	return Outline{items: items}, it
}

// RemoveAt deletes the item at index. The outline never becomes empty: removing
// the sole item, or an index out of range, returns the outline unchanged.
func (o Outline) RemoveAt(index int) Outline {
	if len(o.items) <= 1 || index < 0 || index >= len(o.items) {
		return o
	}
	items := make([]Item, 0, len(o.items)-1)
	items = append(items, o.items[:index]...)
	items = append(items, o.items[index+1:]...)
	return Outline{items: items}
}

// SetText replaces the text of the item with the given id. Unknown ids are a no-op.
func (o Outline) SetText(id, text string) Outline {
	i := o.IndexOf(id)
	if i < 0 || o.items[i].Text == text {
		return o
	}
	items := o.clone(0)
	items[i].Text = text
	return Outline{items: items}
}

// SetIndent moves the indent of the item at index by delta, clamped to [MinIndent, MaxIndent].
func (o Outline) SetIndent(index, delta int) Outline {
	if index < 0 || index >= len(o.items) {
		return o
	}
	next := ClampIndent(o.items[index].Indent + delta)
	if next == o.items[index].Indent {
		return o
	}
	items := o.clone(0)
	items[index].Indent = next
	return Outline{items: items}
}

// AppendTextToLastOrCreate fills the last item when its text is blank, otherwise
// it appends a new top-level item holding text. The touched item is returned.
func (o Outline) AppendTextToLastOrCreate(text string) (Outline, Item) {
	if last, ok := o.Last(); ok && strings.TrimSpace(last.Text) == "" {
		items := o.clone(0)
		items[len(items)-1].Text = text
		return Outline{items: items}, items[len(items)-1]
	}
	return o.InsertAfter(len(o.items)-1, text, MinIndent)
}

// Equal reports whether both outlines hold the same items in the same order.
func (o Outline) Equal(other Outline) bool {
	if len(o.items) != len(other.items) {
		return false
	}
	for i := range o.items {
		if o.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

var ErrEmptyOutline = errors.New("outline has no items")

// Validate checks the outline invariants.
func (o Outline) Validate() error {
	if len(o.items) == 0 {
		return ErrEmptyOutline
	}
	seen := map[string]bool{}
	for i, it := range o.items {
		if it.Indent < MinIndent || it.Indent > MaxIndent {
			return fmt.Errorf("item %d: indent %d out of range [%d,%d]", i, it.Indent, MinIndent, MaxIndent)
		}
		if strings.TrimSpace(it.ID) == "" {
			return fmt.Errorf("item %d: missing id", i)
		}
		if seen[it.ID] {
			return fmt.Errorf("item %d: duplicate id %s", i, it.ID)
		}
		seen[it.ID] = true
	}
	return nil
}
