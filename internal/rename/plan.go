// Package rename implements the rename planner: it validates an edited
// name list against an existing directory and emits a
// safe schedule of rename(2) calls, resolving cyclic swaps through a
// single temporary name.
package rename

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mxk/dpane/internal/fserr"
	"github.com/mxk/dpane/internal/strlist"
)

// Pair is one (from, to) rename assignment.
type Pair struct {
	From, To string
}

// Plan is the planner's output: a trivial pass of non-colliding renames,
// plus zero or more interdependent cycles, each resolved through one
// temporary name.
type Plan struct {
	Trivial []Pair
	Cycles  [][]Pair
}

// Build validates s (existing names) against r (proposed names) within
// dir and produces a Plan. On success it also nulls out no-op pairs in s
// and r in place. On failure, s and r are left unmodified.
func Build(dir string, s, r *strlist.List) (*Plan, error) {
	if s.Len() != r.Len() {
		return nil, fmt.Errorf("rename: source and renamed lists differ in length (%d != %d)", s.Len(), r.Len())
	}

	type raw struct {
		idx        int
		from, to   string
	}
	var all []raw
	for i := 0; i < s.Len(); i++ {
		if s.IsBlank(i) || r.IsBlank(i) {
			continue
		}
		from, to := s.At(i), r.At(i)
		if to == "" || strings.ContainsRune(to, '/') {
			return nil, fserr.New(fserr.InvalidName, to, nil)
		}
		all = append(all, raw{i, from, to})
	}

	var active []raw
	var noOpIdx []int
	for _, e := range all {
		if e.from == e.to {
			noOpIdx = append(noOpIdx, e.idx)
			continue
		}
		active = append(active, e)
	}

	fromSet := make(map[string]bool, len(active))
	for _, e := range active {
		fromSet[e.from] = true
	}

	type resolved struct {
		from, to string
		inter    bool
	}
	entries := make([]resolved, 0, len(active))
	for _, e := range active {
		exists := false
		if _, err := os.Lstat(filepath.Join(dir, e.to)); err == nil {
			exists = true
		}
		if exists {
			if !fromSet[e.to] {
				return nil, fserr.New(fserr.Conflict, e.to, nil)
			}
			entries = append(entries, resolved{e.from, e.to, true})
		} else {
			entries = append(entries, resolved{e.from, e.to, false})
		}
	}

	seenFrom := make(map[string]bool, len(entries))
	seenTo := make(map[string]bool, len(entries))
	for _, en := range entries {
		if seenFrom[en.from] || seenTo[en.to] {
			return nil, fserr.New(fserr.Conflict, en.to, nil)
		}
		seenFrom[en.from], seenTo[en.to] = true, true
	}

	plan := &Plan{}
	var inter []Pair
	for _, en := range entries {
		if en.inter {
			inter = append(inter, Pair{en.from, en.to})
		} else {
			plan.Trivial = append(plan.Trivial, Pair{en.from, en.to})
		}
	}
	plan.Cycles = groupCycles(inter)

	for _, i := range noOpIdx {
		s.Clear(i)
		r.Clear(i)
	}
	return plan, nil
}

// groupCycles partitions a flat set of interdependent assignments into
// disjoint groups by following to->from chains. A group is either a closed
// permutation cycle or an open chain whose last target is vacated by the
// trivial pass or by an earlier group.
func groupCycles(inter []Pair) [][]Pair {
	if len(inter) == 0 {
		return nil
	}
	fromIndex := make(map[string]Pair, len(inter))
	for _, p := range inter {
		fromIndex[p.From] = p
	}
	visited := make(map[string]bool, len(inter))
	var cycles [][]Pair
	for _, p := range inter {
		if visited[p.From] {
			continue
		}
		var cycle []Pair
		cur := p
		for {
			cycle = append(cycle, cur)
			visited[cur.From] = true
			nxt, ok := fromIndex[cur.To]
			if !ok || visited[nxt.From] {
				break
			}
			cur = nxt
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

// Apply executes plan within dir: the trivial pass first, stopping at the
// first error, then each interdependent cycle via a temporary name.
func Apply(dir string, plan *Plan) error {
	for _, p := range plan.Trivial {
		if err := os.Rename(filepath.Join(dir, p.From), filepath.Join(dir, p.To)); err != nil {
			return fserr.From(p.From, err)
		}
	}
	for _, cycle := range plan.Cycles {
		if err := executeCycle(dir, cycle); err != nil {
			return err
		}
	}
	return nil
}

// executeCycle breaks one permutation cycle using a single temporary name:
// the first entry's source is moved aside, each displaced slot is filled
// by the entry that wants to occupy it, and the temporary name finally
// lands at the first entry's target. An open chain needs no temporary
// name: its entries are renamed from last to first.
func executeCycle(dir string, cycle []Pair) error {
	if len(cycle) == 0 {
		return nil
	}
	if cycle[len(cycle)-1].To != cycle[0].From {
		for i := len(cycle) - 1; i >= 0; i-- {
			p := cycle[i]
			if err := os.Rename(filepath.Join(dir, p.From), filepath.Join(dir, p.To)); err != nil {
				return fserr.From(p.From, err)
			}
		}
		return nil
	}
	byTo := make(map[string]Pair, len(cycle))
	for _, p := range cycle {
		byTo[p.To] = p
	}

	p0 := cycle[0]
	tmp := tempName()
	if err := os.Rename(filepath.Join(dir, p0.From), filepath.Join(dir, tmp)); err != nil {
		return fserr.From(p0.From, err)
	}

	slot := p0.From
	for slot != p0.To {
		q, ok := byTo[slot]
		if !ok {
			return fmt.Errorf("rename: broken cycle at %q", slot)
		}
		if err := os.Rename(filepath.Join(dir, q.From), filepath.Join(dir, slot)); err != nil {
			return fserr.From(q.From, err)
		}
		slot = q.From
	}
	if err := os.Rename(filepath.Join(dir, tmp), filepath.Join(dir, p0.To)); err != nil {
		return fserr.From(tmp, err)
	}
	return nil
}

func tempName() string {
	return fmt.Sprintf(".hund.rename.tmpdir.%x", os.Getpid())
}
