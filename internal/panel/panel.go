// Package panel implements one pane's state: a working directory, file
// list, selection cursor, marked set, hidden-file policy, and sort order,
// along with navigation and selection operations.
package panel

import (
	"github.com/rivo/uniseg"

	"github.com/mxk/dpane/internal/pathbuf"
	"github.com/mxk/dpane/internal/record"
	"github.com/mxk/dpane/internal/scan"
	"github.com/mxk/dpane/internal/strlist"
)

// Panel owns a working directory, an ordered array of file records, a
// selection cursor, and sort/visibility policy.
type Panel struct {
	Wd          *pathbuf.Path
	Files       []*record.Record
	Cursor      int
	NumSelected int
	NumHidden   int
	ShowHidden  bool
	Asc         bool
	Order       record.OrderVector
}

// New returns a Panel rooted at wd with the default sort order, ascending,
// and hidden files shown.
func New(wd string) *Panel {
	return &Panel{
		Wd:         pathbuf.FromString(wd),
		ShowHidden: true,
		Asc:        true,
		Order:      record.DefaultOrder(),
	}
}

// Visible reports whether file i would be drawn: in range, and either
// ShowHidden is true or the name doesn't start with '.'.
func (p *Panel) Visible(i int) bool {
	return i >= 0 && i < len(p.Files) && (p.ShowHidden || !p.Files[i].Hidden())
}

// Rescan reloads the file list from the current working directory and
// clamps the selection cursor to the refreshed list.
func (p *Panel) Rescan() error {
	res, err := scan.Scan(p.Wd.String(), p.Order, p.Asc)
	if err != nil {
		return err
	}
	p.Files = res.Files
	p.NumHidden = res.Hidden
	p.NumSelected = 0
	p.clampCursor()
	return nil
}

// clampCursor enforces the post-scan cursor invariants: an empty list
// puts the cursor at 0; a cursor past the last visible entry moves to the
// last visible entry; a cursor on a now-hidden entry (while hiding) moves
// to the next visible entry.
func (p *Panel) clampCursor() {
	if len(p.Files) == 0 {
		p.Cursor = 0
		return
	}
	if p.Cursor >= len(p.Files) {
		if last := p.lastVisible(); last >= 0 {
			p.Cursor = last
		} else {
			p.Cursor = len(p.Files) - 1
		}
		return
	}
	if !p.Visible(p.Cursor) {
		if nx := p.nextVisible(p.Cursor); nx >= 0 {
			p.Cursor = nx
		} else if last := p.lastVisible(); last >= 0 {
			p.Cursor = last
		}
	}
}

func (p *Panel) firstVisible() int {
	for i := 0; i < len(p.Files); i++ {
		if p.Visible(i) {
			return i
		}
	}
	return -1
}

func (p *Panel) lastVisible() int {
	for i := len(p.Files) - 1; i >= 0; i-- {
		if p.Visible(i) {
			return i
		}
	}
	return -1
}

func (p *Panel) nextVisible(i int) int {
	for j := i + 1; j < len(p.Files); j++ {
		if p.Visible(j) {
			return j
		}
	}
	return -1
}

func (p *Panel) prevVisible(i int) int {
	for j := i - 1; j >= 0; j-- {
		if p.Visible(j) {
			return j
		}
	}
	return -1
}

// Jump advances the cursor by n visible entries, negative meaning
// backwards. It stops at list boundaries; if the list is empty, the cursor
// is silently set to 0.
func (p *Panel) Jump(n int) {
	if len(p.Files) == 0 {
		p.Cursor = 0
		return
	}
	cur := p.Cursor
	for ; n > 0; n-- {
		nx := p.nextVisible(cur)
		if nx < 0 {
			break
		}
		cur = nx
	}
	for ; n < 0; n++ {
		pv := p.prevVisible(cur)
		if pv < 0 {
			break
		}
		cur = pv
	}
	p.Cursor = cur
}

// First moves the cursor to the first visible entry.
func (p *Panel) First() {
	if i := p.firstVisible(); i >= 0 {
		p.Cursor = i
	} else {
		p.Cursor = 0
	}
}

// Last moves the cursor to the last visible entry.
func (p *Panel) Last() {
	if i := p.lastVisible(); i >= 0 {
		p.Cursor = i
	} else {
		p.Cursor = 0
	}
}

// Enter pushes name onto the working directory and rescans; on failure it
// pops the directory back and returns the error.
func (p *Panel) Enter(name string) error {
	if err := p.Wd.Push(name); err != nil {
		return err
	}
	if err := p.Rescan(); err != nil {
		p.Wd.Pop()
		return err
	}
	return nil
}

// Up remembers the current leaf name, pops the working directory, rescans,
// and positions the cursor on the remembered name (or the first entry if
// it no longer exists).
func (p *Panel) Up() error {
	leaf := p.Wd.Leaf()
	p.Wd.Pop()
	if err := p.Rescan(); err != nil {
		return err
	}
	for i, r := range p.Files {
		if r.Name == leaf {
			p.Cursor = i
			return nil
		}
	}
	p.First()
	return nil
}

// ToggleHidden flips ShowHidden. If hiding is being turned on and the
// cursor now points at a hidden record, the cursor moves to the first
// visible entry; selected flags on newly-hidden records are cleared and
// NumSelected decremented to match.
func (p *Panel) ToggleHidden() {
	p.ShowHidden = !p.ShowHidden
	if p.ShowHidden {
		return
	}
	if !p.Visible(p.Cursor) {
		p.First()
	}
	for _, r := range p.Files {
		if r.Hidden() && r.Selected {
			r.Selected = false
			p.NumSelected--
		}
	}
}

// Find scans visible entries in the inclusive range [start,end] (forward
// if start<=end, backward otherwise) for the first name containing needle,
// placing the cursor there and returning true on a hit. Matching is done by
// grapheme cluster rather than byte, so a needle can't split a combining
// character sequence in a name apart from its base rune.
func (p *Panel) Find(needle string, start, end int) bool {
	if start <= end {
		for i := start; i <= end && i < len(p.Files); i++ {
			if i < 0 {
				continue
			}
			if p.Visible(i) && graphemeContains(p.Files[i].Name, needle) {
				p.Cursor = i
				return true
			}
		}
		return false
	}
	for i := start; i >= end && i >= 0; i-- {
		if i >= len(p.Files) {
			continue
		}
		if p.Visible(i) && graphemeContains(p.Files[i].Name, needle) {
			p.Cursor = i
			return true
		}
	}
	return false
}

// graphemeContains reports whether needle occurs in s as a contiguous run
// of grapheme clusters, matched byte-for-byte. Plain strings.Contains
// would happily match inside a multi-rune grapheme cluster (e.g. a base
// letter plus combining accents); splitting into clusters first keeps a
// match aligned to what the user actually sees as one character.
func graphemeContains(s, needle string) bool {
	if needle == "" {
		return true
	}
	sc := graphemeClusters(s)
	nc := graphemeClusters(needle)
	if len(nc) == 0 || len(nc) > len(sc) {
		return false
	}
	for i := 0; i+len(nc) <= len(sc); i++ {
		if clustersEqual(sc[i:i+len(nc)], nc) {
			return true
		}
	}
	return false
}

func graphemeClusters(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

func clustersEqual(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ToggleSelect flips the selected flag on the highlighted record, keeping
// NumSelected consistent.
func (p *Panel) ToggleSelect() {
	if p.Cursor < 0 || p.Cursor >= len(p.Files) {
		return
	}
	r := p.Files[p.Cursor]
	r.Selected = !r.Selected
	if r.Selected {
		p.NumSelected++
	} else {
		p.NumSelected--
	}
}

// SelectedToList collects the names of selected records, in list order,
// into a string list. If no record is selected, the highlighted record is
// implicitly selected and emitted as a singleton list; if there is no
// highlight either, an empty list is returned.
func (p *Panel) SelectedToList() *strlist.List {
	l := strlist.New()
	if p.NumSelected > 0 {
		for _, r := range p.Files {
			if r.Selected {
				l.Push(r.Name)
			}
		}
		return l
	}
	if p.Cursor >= 0 && p.Cursor < len(p.Files) {
		r := p.Files[p.Cursor]
		r.Selected = true
		p.NumSelected++
		l.Push(r.Name)
	}
	return l
}
