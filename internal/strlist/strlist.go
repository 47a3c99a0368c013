// Package strlist implements an ordered sequence of owned byte-strings,
// used for selection sets, rename targets, and edited line buffers.
package strlist

import "strings"

// List is an ordered sequence of strings. A zero-value entry (empty string
// at an index that has been explicitly cleared) is permitted and represents
// a blank/consumed slot; Clear marks a slot blank without shifting the
// remaining entries.
type List struct {
	items []string
	blank []bool
}

// New returns an empty list.
func New() *List { return &List{} }

// FromSlice builds a list from an existing slice of strings, copying it.
func FromSlice(s []string) *List {
	l := &List{items: append([]string(nil), s...), blank: make([]bool, len(s))}
	return l
}

// Push appends s to the end of the list.
func (l *List) Push(s string) {
	l.items = append(l.items, s)
	l.blank = append(l.blank, false)
}

// Len returns the number of slots, including blanked ones.
func (l *List) Len() int { return len(l.items) }

// At returns the string at index i, or "" if the slot is blank.
func (l *List) At(i int) string {
	if i < 0 || i >= len(l.items) || l.blank[i] {
		return ""
	}
	return l.items[i]
}

// IsBlank reports whether slot i has been cleared.
func (l *List) IsBlank(i int) bool {
	return i < 0 || i >= len(l.items) || l.blank[i]
}

// Set overwrites the string at index i and un-blanks it.
func (l *List) Set(i int, s string) {
	l.items[i] = s
	l.blank[i] = false
}

// Clear blanks the slot at index i without shifting other entries, leaving
// a NULL slot.
func (l *List) Clear(i int) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.items[i] = ""
	l.blank[i] = true
}

// Lookup returns the index of the first non-blank entry equal to s, or -1.
func (l *List) Lookup(s string) int {
	for i, v := range l.items {
		if !l.blank[i] && v == s {
			return i
		}
	}
	return -1
}

// Contains reports whether sub occurs as a contiguous byte-substring of the
// entry at index i.
func (l *List) Contains(i int, sub string) bool {
	return Contains(l.At(i), sub)
}

// Contains reports whether sub occurs as a contiguous byte-substring of s.
func Contains(s, sub string) bool {
	return strings.Contains(s, sub)
}

// Copy returns an independent deep copy of the list.
func (l *List) Copy() *List {
	c := &List{
		items: append([]string(nil), l.items...),
		blank: append([]bool(nil), l.blank...),
	}
	return c
}

// Free releases the list's backing storage. Provided for parity with the
// spec's ownership model; in Go this simply drops references so the backing
// arrays become eligible for garbage collection.
func (l *List) Free() {
	l.items = nil
	l.blank = nil
}

// Slice returns the non-blank entries in order, as a new []string.
func (l *List) Slice() []string {
	out := make([]string, 0, len(l.items))
	for i, v := range l.items {
		if !l.blank[i] {
			out = append(out, v)
		}
	}
	return out
}
