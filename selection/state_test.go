package selection

import (
	"reflect"
	"testing"
)

func TestExtendRange_BothDirections(t *testing.T) {
	for _, tc := range []struct {
		anchor, to int
		want       []int
	}{
		{1, 3, []int{1, 2, 3}},
		{3, 1, []int{1, 2, 3}},
		{2, 2, []int{2}},
	} {
		s := extendRange(replaceSelect(tc.anchor), tc.to, false)
		if !reflect.DeepEqual(s.Selected, tc.want) {
			t.Errorf("anchor %d to %d: expected %v, got %v", tc.anchor, tc.to, tc.want, s.Selected)
		}
		if s.Anchor != tc.anchor || s.Primary != tc.to {
			t.Errorf("anchor %d to %d: unexpected anchor/primary %d/%d", tc.anchor, tc.to, s.Anchor, s.Primary)
		}
	}
}

func TestExtendRange_Additive(t *testing.T) {
	s := State{Selected: []int{0, 7}, Anchor: 5, Primary: 7}
	s = extendRange(s, 3, true)
	if want := []int{0, 3, 4, 5, 7}; !reflect.DeepEqual(s.Selected, want) {
		t.Fatalf("Expected %v, got %v", want, s.Selected)
	}
	if s.Anchor != 5 || s.Primary != 3 {
		t.Fatalf("Unexpected anchor/primary %d/%d", s.Anchor, s.Primary)
	}
}

func TestExtendRange_NoAnchorSelectsTarget(t *testing.T) {
	s := extendRange(emptyState(), 4, false)
	if !reflect.DeepEqual(s, replaceSelect(4)) {
		t.Fatalf("Expected plain selection of 4, got %+v", s)
	}
}

func TestToggle(t *testing.T) {
	// Toggle-off of the sole selection empties everything.
	s := toggle(replaceSelect(2), 2)
	if !s.Empty() || s.Anchor != None || s.Primary != None {
		t.Fatalf("Expected empty selection, got %+v", s)
	}

	// Adding moves the primary, keeps the anchor.
	s = toggle(replaceSelect(2), 5)
	if want := (State{Selected: []int{2, 5}, Anchor: 2, Primary: 5}); !reflect.DeepEqual(s, want) {
		t.Fatalf("Expected %+v, got %+v", want, s)
	}

	// Removing the primary falls back to the last remaining index.
	s = toggle(State{Selected: []int{1, 4, 6}, Anchor: 1, Primary: 6}, 6)
	if want := (State{Selected: []int{1, 4}, Anchor: 1, Primary: 4}); !reflect.DeepEqual(s, want) {
		t.Fatalf("Expected %+v, got %+v", want, s)
	}

	// Removing the anchor hands it to the new primary.
	s = toggle(State{Selected: []int{1, 4, 6}, Anchor: 6, Primary: 4}, 6)
	if want := (State{Selected: []int{1, 4}, Anchor: 4, Primary: 4}); !reflect.DeepEqual(s, want) {
		t.Fatalf("Expected %+v, got %+v", want, s)
	}

	// Toggling on an empty selection sets the anchor.
	s = toggle(emptyState(), 3)
	if want := replaceSelect(3); !reflect.DeepEqual(s, want) {
		t.Fatalf("Expected %+v, got %+v", want, s)
	}
}

func TestReassignAnchor(t *testing.T) {
	for _, tc := range []struct {
		name     string
		prev     int
		selected []int
		primary  int
		want     int
	}{
		{"empty selection", 3, nil, None, None},
		{"empty selection ignores primary", 3, []int{}, 2, None},
		{"anchor still selected", 3, []int{1, 3, 5}, 5, 3},
		{"anchor gone, primary set", 3, []int{1, 5}, 5, 5},
		{"anchor gone, no primary", 3, []int{4, 1}, None, 1},
		{"no anchor, primary set", None, []int{2, 4}, 4, 4},
		{"no anchor, no primary", None, []int{6, 2}, None, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReassignAnchor(tc.prev, tc.selected, tc.primary); got != tc.want {
				t.Fatalf("Expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	s := State{Selected: []int{1, 3, 8, 9}, Anchor: 9, Primary: 8}
	got := reconcile(s, 5)
	if want := (State{Selected: []int{1, 3}, Anchor: None, Primary: 3}); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %+v, got %+v", want, got)
	}

	got = reconcile(s, 0)
	if !got.Empty() || got.Anchor != None || got.Primary != None {
		t.Fatalf("Expected empty state, got %+v", got)
	}

	// In range state is left alone.
	s = State{Selected: []int{0, 2}, Anchor: 1, Primary: 2}
	if got := reconcile(s, 3); !reflect.DeepEqual(got, s) {
		t.Fatalf("Expected %+v unchanged, got %+v", s, got)
	}
}

func TestSelectMultipleAndAll(t *testing.T) {
	s := selectMultiple([]int{4, -1, 2, 9, 2}, 5)
	if want := (State{Selected: []int{2, 4}, Anchor: 2, Primary: 2}); !reflect.DeepEqual(s, want) {
		t.Fatalf("Expected %+v, got %+v", want, s)
	}
	if s := selectMultiple(nil, 5); !s.Empty() || s.Primary != None {
		t.Fatalf("Expected empty state, got %+v", s)
	}

	all := selectAll(replaceSelect(2), 4)
	if want := (State{Selected: []int{0, 1, 2, 3}, Anchor: 2, Primary: 2}); !reflect.DeepEqual(all, want) {
		t.Fatalf("Expected %+v, got %+v", want, all)
	}
	all = selectAll(emptyState(), 2)
	if want := (State{Selected: []int{0, 1}, Anchor: 0, Primary: 0}); !reflect.DeepEqual(all, want) {
		t.Fatalf("Expected %+v, got %+v", want, all)
	}
	if all := selectAll(emptyState(), 0); !all.Empty() {
		t.Fatalf("Expected empty state, got %+v", all)
	}
}
