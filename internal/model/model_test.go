package model

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func withSeqIDs(t *testing.T) {
	t.Helper()
	n := 0
	prev := newID
	newID = func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
	t.Cleanup(func() { newID = prev })
}

func texts(o Outline) []string {
	var out []string
	for _, it := range o.Items() {
		out = append(out, it.Text)
	}
	return out
}

func TestNew_HasSingleEmptyItem(t *testing.T) {
	o := New()
	if o.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", o.Len())
	}
	it, _ := o.At(0)
	if it.Text != "" || it.Indent != 0 || it.ID == "" {
		t.Fatalf("unexpected item: %+v", it)
	}
}

func TestInsertAfter_PlacesItemAndShiftsRest(t *testing.T) {
	withSeqIDs(t)
	o := FromItems([]Item{{ID: "a", Text: "A"}, {ID: "b", Text: "B", Indent: 2}})

	got, it := o.InsertAfter(0, "X", 3)
	if diff := cmp.Diff([]string{"A", "X", "B"}, texts(got)); diff != "" {
		t.Fatalf("texts mismatch (-want +got):\n%s", diff)
	}
	if it.Indent != 3 || it.ID == "" {
		t.Fatalf("unexpected inserted item: %+v", it)
	}

	head, _ := o.InsertAfter(-1, "H", 0)
	if diff := cmp.Diff([]string{"H", "A", "B"}, texts(head)); diff != "" {
		t.Fatalf("head insert mismatch (-want +got):\n%s", diff)
	}

	tail, _ := o.InsertAfter(1, "T", 0)
	if diff := cmp.Diff([]string{"A", "B", "T"}, texts(tail)); diff != "" {
		t.Fatalf("tail insert mismatch (-want +got):\n%s", diff)
	}

	// Receiver is untouched.
	if diff := cmp.Diff([]string{"A", "B"}, texts(o)); diff != "" {
		t.Fatalf("receiver mutated (-want +got):\n%s", diff)
	}
}

func TestInsertAfter_ClampsIndent(t *testing.T) {
	_, it := New().InsertAfter(0, "", 99)
	if it.Indent != MaxIndent {
		t.Fatalf("expected indent %d, got %d", MaxIndent, it.Indent)
	}
	_, it = New().InsertAfter(0, "", -7)
	if it.Indent != MinIndent {
		t.Fatalf("expected indent %d, got %d", MinIndent, it.Indent)
	}
}

func TestRemoveAt_NeverEmpties(t *testing.T) {
	o := New()
	for i := 0; i < 5; i++ {
		o, _ = o.InsertAfter(o.Len()-1, fmt.Sprint(i), 0)
	}
	for i := 0; i < 20; i++ {
		o = o.RemoveAt(0)
		if o.Len() < 1 {
			t.Fatalf("outline became empty after %d removals", i+1)
		}
	}
	if o.Len() != 1 {
		t.Fatalf("expected 1 item left, got %d", o.Len())
	}
}

func TestRemoveAt_RemovesExactlyThatItem(t *testing.T) {
	o := FromItems([]Item{{ID: "a", Text: "A"}, {ID: "b"}, {ID: "c", Text: "C"}})
	got := o.RemoveAt(1)
	if diff := cmp.Diff([]Item{{ID: "a", Text: "A"}, {ID: "c", Text: "C"}}, got.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if same := o.RemoveAt(9); !same.Equal(o) {
		t.Fatalf("out-of-range remove should be a no-op")
	}
}

func TestSetText_UnknownIDIsNoop(t *testing.T) {
	o := FromItems([]Item{{ID: "a", Text: "A"}})
	if got := o.SetText("zzz", "B"); !got.Equal(o) {
		t.Fatalf("expected no change")
	}
	got := o.SetText("a", "B")
	if it, _ := got.At(0); it.Text != "B" || it.ID != "a" {
		t.Fatalf("unexpected item after SetText: %+v", it)
	}
}

func TestSetIndent_AlwaysWithinBounds(t *testing.T) {
	for start := -3; start <= 8; start++ {
		for _, delta := range []int{-100, -5, -1, 0, 1, 5, 100} {
			o := Outline{items: []Item{{ID: "a", Indent: start}}}
			got := o.SetIndent(0, delta)
			it, _ := got.At(0)
			if it.Indent < MinIndent || it.Indent > MaxIndent {
				t.Fatalf("start=%d delta=%d: indent %d out of bounds", start, delta, it.Indent)
			}
		}
	}
}

func TestSetIndent_Clamps(t *testing.T) {
	o := FromItems([]Item{{ID: "a", Indent: 4}, {ID: "b", Indent: 0}})
	o = o.SetIndent(0, 1).SetIndent(1, -1)
	a, _ := o.At(0)
	b, _ := o.At(1)
	if a.Indent != 4 || b.Indent != 0 {
		t.Fatalf("expected clamped indents 4/0, got %d/%d", a.Indent, b.Indent)
	}
}

func TestAppendTextToLastOrCreate(t *testing.T) {
	o := FromItems([]Item{{ID: "a", Text: "  "}})
	o, it := o.AppendTextToLastOrCreate("hello")
	if o.Len() != 1 || it.ID != "a" || it.Text != "hello" {
		t.Fatalf("expected blank last item to be filled, got %+v (len %d)", it, o.Len())
	}

	o, it = o.AppendTextToLastOrCreate("world")
	if o.Len() != 2 || it.ID == "a" || it.Indent != 0 {
		t.Fatalf("expected new top-level item, got %+v (len %d)", it, o.Len())
	}
	if diff := cmp.Diff([]string{"hello", "world"}, texts(o)); diff != "" {
		t.Fatalf("texts mismatch (-want +got):\n%s", diff)
	}
}

func TestFromItems_RepairsSnapshot(t *testing.T) {
	o := FromItems([]Item{{ID: "", Text: "A", Indent: 9}, {ID: "x", Text: "B"}, {ID: "x", Text: "C", Indent: -1}})
	if err := o.Validate(); err != nil {
		t.Fatalf("expected valid outline, got %v", err)
	}
	if FromItems(nil).Len() != 1 {
		t.Fatalf("expected empty input to yield a single item")
	}
}

func TestValidate_RejectsBrokenOutlines(t *testing.T) {
	if err := (Outline{}).Validate(); err != ErrEmptyOutline {
		t.Fatalf("expected ErrEmptyOutline, got %v", err)
	}
	bad := Outline{items: []Item{{ID: "a", Indent: 5}}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected indent error")
	}
	dup := Outline{items: []Item{{ID: "a"}, {ID: "a"}}}
	if err := dup.Validate(); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
