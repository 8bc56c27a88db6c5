// Package editor owns the board outline for one session and maps keyboard and
// dictation events onto outline mutations.
package editor

import (
	"meeting-board/internal/model"
)

// Key is a key the controller owns. Anything else is plain text input.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeyBackspace
	KeyTab
	KeyShiftTab
	KeyUp
	KeyDown
)

func (k Key) String() string {
	switch k {
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyTab:
		return "tab"
	case KeyShiftTab:
		return "shift+tab"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	default:
		return "none"
	}
}

// Result describes what a key did.
type Result struct {
	// Handled means the controller consumed the key; the caller must not apply
	// its default behavior (e.g. a text input deleting a character).
	Handled bool
	// Changed means the outline was mutated.
	Changed bool
	// FocusPending means a focus transfer waits for the next render; call ResolveFocus then.
	FocusPending bool
}

// Controller is the single owner of the session outline and the focus pointer.
type Controller struct {
	outline model.Outline
	focus   int

	// pendingFocus holds the id of the item to focus once it is rendered.
	// It is a single slot: a newer request replaces an older one.
	pendingFocus string

	observers []func(model.Outline)
}

func New(o model.Outline) *Controller {
	if o.Len() == 0 {
		o = model.New()
	}
	return &Controller{outline: o}
}

func (c *Controller) Outline() model.Outline { return c.outline }

func (c *Controller) FocusIndex() int { return c.focus }

func (c *Controller) FocusedItem() (model.Item, bool) { return c.outline.At(c.focus) }

func (c *Controller) PendingFocus() (string, bool) {
	return c.pendingFocus, c.pendingFocus != ""
}

// OnChange registers fn to run after every outline mutation.
func (c *Controller) OnChange(fn func(model.Outline)) {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
}

func (c *Controller) commit(next model.Outline) bool {
	if next.Equal(c.outline) {
		return false
	}
	c.outline = next
	if c.focus >= c.outline.Len() {
		c.focus = c.outline.Len() - 1
	}
	for _, fn := range c.observers {
		fn(c.outline)
	}
	return true
}

// Focus moves focus to index immediately. Out-of-range indices are ignored.
func (c *Controller) Focus(index int) bool {
	if index < 0 || index >= c.outline.Len() {
		return false
	}
	c.focus = index
	c.pendingFocus = ""
	return true
}

func (c *Controller) requestFocus(id string) {
	c.pendingFocus = id
}

// ResolveFocus completes a pending focus transfer. It reports whether focus moved.
func (c *Controller) ResolveFocus() bool {
	id := c.pendingFocus
	if id == "" {
		return false
	}
	c.pendingFocus = ""
	i := c.outline.IndexOf(id)
	if i < 0 {
		return false
	}
	c.focus = i
	return true
}

// HandleKey applies a controller-owned key to the focused item.
func (c *Controller) HandleKey(k Key) Result {
	// A deferred focus must land before the next input is processed.
	c.ResolveFocus()

	i := c.focus
	cur, ok := c.outline.At(i)
	if !ok {
		return Result{}
	}

	switch k {
	case KeyEnter:
		next, it := c.outline.InsertAfter(i, "", cur.Indent)
		c.commit(next)
		c.requestFocus(it.ID)
		return Result{Handled: true, Changed: true, FocusPending: true}

	case KeyBackspace:
		if cur.Text != "" || c.outline.Len() <= 1 {
			return Result{}
		}
		target := ""
		if prev, ok := c.outline.At(i - 1); ok {
			target = prev.ID
		}
		c.commit(c.outline.RemoveAt(i))
		if target == "" {
			c.focus = 0
			return Result{Handled: true, Changed: true}
		}
		c.requestFocus(target)
		return Result{Handled: true, Changed: true, FocusPending: true}

	case KeyTab:
		return Result{Handled: true, Changed: c.commit(c.outline.SetIndent(i, +1))}

	case KeyShiftTab:
		return Result{Handled: true, Changed: c.commit(c.outline.SetIndent(i, -1))}

	case KeyUp:
		if i > 0 {
			c.focus = i - 1
			return Result{Handled: true}
		}
		return Result{}

	case KeyDown:
		if i < c.outline.Len()-1 {
			c.focus = i + 1
			return Result{Handled: true}
		}
		return Result{}
	}
	return Result{}
}

// SetText replaces the text of the item with id (typed input).
func (c *Controller) SetText(id, text string) bool {
	return c.commit(c.outline.SetText(id, text))
}

// LastItem returns the final item of the outline.
func (c *Controller) LastItem() (model.Item, bool) { return c.outline.Last() }

// AppendDictation fills the last blank item or appends a new one with text.
func (c *Controller) AppendDictation(text string) model.Item {
	next, it := c.outline.AppendTextToLastOrCreate(text)
	c.commit(next)
	return it
}

// Clear replaces the board with a single empty item.
func (c *Controller) Clear() model.Item {
	o := model.New()
	c.pendingFocus = ""
	c.focus = 0
	c.outline = o
	for _, fn := range c.observers {
		fn(c.outline)
	}
	it, _ := o.At(0)
	return it
}
