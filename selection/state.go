package selection

import "slices"

// None marks an absent anchor or primary index.
const None = -1

// State is a snapshot of the selection over the current list.
// Selected is sorted ascending and holds no duplicates.
type State struct {
	Selected []int
	Anchor   int
	Primary  int
}

func emptyState() State {
	return State{Anchor: None, Primary: None}
}

// Contains reports whether i is selected.
func (s State) Contains(i int) bool {
	_, ok := slices.BinarySearch(s.Selected, i)
	return ok
}

func (s State) Clone() State {
	s.Selected = slices.Clone(s.Selected)
	return s
}

func (s State) Empty() bool {
	return len(s.Selected) == 0
}

func replaceSelect(i int) State {
	return State{Selected: []int{i}, Anchor: i, Primary: i}
}

// extendRange selects the inclusive range between the anchor and i. With
// additive the range is merged into the current selection. Without an anchor
// it falls back to a plain selection of i.
func extendRange(s State, i int, additive bool) State {
	if s.Anchor == None {
		return replaceSelect(i)
	}
	sel := indexRange(s.Anchor, i)
	if additive {
		sel = union(s.Selected, sel)
	}
	return State{Selected: sel, Anchor: s.Anchor, Primary: i}
}

func toggle(s State, i int) State {
	var (
		sel     []int
		primary int
	)
	if pos, found := slices.BinarySearch(s.Selected, i); found {
		sel = slices.Delete(slices.Clone(s.Selected), pos, pos+1)
		primary = last(sel)
	} else {
		sel = slices.Insert(slices.Clone(s.Selected), pos, i)
		primary = i
	}
	return State{
		Selected: sel,
		Anchor:   ReassignAnchor(s.Anchor, sel, primary),
		Primary:  primary,
	}
}

// ReassignAnchor picks the anchor after a toggle. The previous anchor is kept
// while it is still selected, otherwise the primary takes over, otherwise the
// first selected index. An empty selection has no anchor.
func ReassignAnchor(prevAnchor int, selected []int, primary int) int {
	switch {
	case len(selected) == 0:
		return None
	case prevAnchor != None && slices.Contains(selected, prevAnchor):
		return prevAnchor
	case primary != None:
		return primary
	default:
		return slices.Min(selected)
	}
}

func selectMultiple(ids []int, n int) State {
	s := emptyState()
	for _, id := range ids {
		if id < 0 || id >= n {
			continue
		}
		if pos, found := slices.BinarySearch(s.Selected, id); !found {
			s.Selected = slices.Insert(s.Selected, pos, id)
		}
		s.Anchor, s.Primary = id, id
	}
	return s
}

func selectAll(s State, n int) State {
	if n == 0 {
		return emptyState()
	}
	all := indexRange(0, n-1)
	anchor, primary := s.Anchor, s.Primary
	if anchor == None {
		anchor = 0
	}
	if primary == None {
		primary = anchor
	}
	return State{Selected: all, Anchor: anchor, Primary: primary}
}

// reconcile drops everything that fell outside a list of n entries.
func reconcile(s State, n int) State {
	sel := make([]int, 0, len(s.Selected))
	for _, i := range s.Selected {
		if i >= 0 && i < n {
			sel = append(sel, i)
		}
	}
	anchor := s.Anchor
	if anchor >= n {
		anchor = None
	}
	primary := s.Primary
	if !slices.Contains(sel, primary) {
		primary = last(sel)
	}
	if len(sel) == 0 {
		sel = nil
	}
	return State{Selected: sel, Anchor: anchor, Primary: primary}
}

// indexRange returns the inclusive range between a and b in ascending order.
func indexRange(a, b int) []int {
	if a > b {
		a, b = b, a
	}
	out := make([]int, 0, b-a+1)
	for i := a; i <= b; i++ {
		out = append(out, i)
	}
	return out
}

func union(a, b []int) []int {
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}

func last(sel []int) int {
	if len(sel) == 0 {
		return None
	}
	return sel[len(sel)-1]
}
