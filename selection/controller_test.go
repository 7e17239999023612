package selection

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/alexballas/xassetbrowser/asset"
)

type fakeResolver struct {
	mu    sync.Mutex
	calls []string
	// gates lets a test hold a resolution until it closes the channel.
	gates map[string]chan struct{}
}

func (f *fakeResolver) Resolve(ctx context.Context, e asset.Entry) (*asset.Resolved, error) {
	f.mu.Lock()
	f.calls = append(f.calls, e.Path)
	gate := f.gates[e.Path]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if e.IsDir() {
		return nil, asset.ErrNotPreviewable
	}
	return &asset.Resolved{Prompt: e.DisplayName(), Images: []string{e.Path}}, nil
}

func (f *fakeResolver) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func testEntries(names ...string) []asset.Entry {
	out := make([]asset.Entry, len(names))
	for i, n := range names {
		out[i] = asset.Entry{Path: "/lib/" + n}
	}
	return out
}

func newTestController(t *testing.T, r Resolver, debounce time.Duration) (*Controller, chan Preview) {
	t.Helper()
	previews := make(chan Preview, 32)
	c := NewController(r, Options{
		Debounce:  debounce,
		OnPreview: func(p Preview) { previews <- p },
	})
	t.Cleanup(c.Close)
	return c, previews
}

func waitPreview(t *testing.T, ch chan Preview) Preview {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for preview")
	}
	return Preview{}
}

func expectNoPreview(t *testing.T, ch chan Preview, wait time.Duration) {
	t.Helper()
	select {
	case p := <-ch:
		t.Fatalf("unexpected preview %+v", p)
	case <-time.After(wait):
	}
}

func TestController_ShiftSelectScenario(t *testing.T) {
	r := &fakeResolver{}
	c, previews := newTestController(t, r, 0)
	c.SetList(testEntries("a.png", "b.png", "c.png", "d.png", "e.png"))

	c.Select(1)
	if p := waitPreview(t, previews); p.Index != 1 || p.Resolved.Prompt != "b.png" {
		t.Fatalf("Expected preview of index 1, got %+v", p)
	}

	c.Extend(3, false)
	want := State{Selected: []int{1, 2, 3}, Anchor: 1, Primary: 3}
	if got := c.State(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %+v, got %+v", want, got)
	}
	if p := waitPreview(t, previews); p.Index != 3 || p.Entry.Path != "/lib/d.png" {
		t.Fatalf("Expected preview of index 3, got %+v", p)
	}

	entries := c.SelectedEntries()
	if len(entries) != 3 || entries[0].Path != "/lib/b.png" || entries[2].Path != "/lib/d.png" {
		t.Fatalf("Unexpected selected entries %+v", entries)
	}
	if !c.IsSelected(2) || c.IsSelected(4) {
		t.Fatal("IsSelected disagrees with state")
	}
}

func TestController_ToggleOffSoleSelectionClearsPreview(t *testing.T) {
	c, previews := newTestController(t, &fakeResolver{}, 0)
	c.SetList(testEntries("a.png", "b.png"))

	c.Select(0)
	waitPreview(t, previews)

	c.Toggle(0)
	st := c.State()
	if !st.Empty() || st.Anchor != None || st.Primary != None {
		t.Fatalf("Expected empty state, got %+v", st)
	}
	if p := waitPreview(t, previews); !p.Cleared() {
		t.Fatalf("Expected cleared preview, got %+v", p)
	}
	if _, ok := c.Primary(); ok {
		t.Fatal("Expected no primary entry")
	}
}

func TestController_OutOfRangeIgnored(t *testing.T) {
	c, previews := newTestController(t, &fakeResolver{}, 0)
	c.SetList(testEntries("a.png", "b.png"))

	c.Select(5)
	c.Toggle(-1)
	c.Extend(2, true)
	if st := c.State(); !st.Empty() {
		t.Fatalf("Expected untouched state, got %+v", st)
	}
	expectNoPreview(t, previews, 50*time.Millisecond)
}

func TestController_ReselectingSameEntryDoesNotResolveAgain(t *testing.T) {
	r := &fakeResolver{}
	c, previews := newTestController(t, r, 0)
	c.SetList(testEntries("a.png", "b.png", "c.png"))

	c.Select(0)
	waitPreview(t, previews)
	c.Extend(0, false)
	c.Select(0)
	expectNoPreview(t, previews, 50*time.Millisecond)
	if calls := r.Calls(); len(calls) != 1 {
		t.Fatalf("Expected one resolution, got %v", calls)
	}
}

func TestController_DebounceResolvesOnlyLatest(t *testing.T) {
	r := &fakeResolver{}
	c, previews := newTestController(t, r, 40*time.Millisecond)
	c.SetList(testEntries("a.png", "b.png", "c.png", "d.png", "e.png"))

	c.Select(0)
	for i := 0; i < 4; i++ {
		c.Move(MoveRight, 1, false)
	}

	p := waitPreview(t, previews)
	if p.Index != 4 {
		t.Fatalf("Expected preview of index 4, got %+v", p)
	}
	expectNoPreview(t, previews, 100*time.Millisecond)
	if calls := r.Calls(); !reflect.DeepEqual(calls, []string{"/lib/e.png"}) {
		t.Fatalf("Expected only the settled entry to resolve, got %v", calls)
	}
}

func TestController_FlushCommitsImmediately(t *testing.T) {
	r := &fakeResolver{}
	c, previews := newTestController(t, r, time.Hour)
	c.SetList(testEntries("a.png", "b.png"))

	c.Select(1)
	expectNoPreview(t, previews, 20*time.Millisecond)
	c.Flush()
	if p := waitPreview(t, previews); p.Index != 1 {
		t.Fatalf("Expected preview of index 1, got %+v", p)
	}
}

func TestController_StaleResultDiscarded(t *testing.T) {
	slow := make(chan struct{})
	r := &fakeResolver{gates: map[string]chan struct{}{"/lib/a.png": slow}}
	c, previews := newTestController(t, r, 0)
	c.SetList(testEntries("a.png", "b.png"))

	c.Select(0) // blocks in the resolver
	c.Select(1)
	if p := waitPreview(t, previews); p.Index != 1 {
		t.Fatalf("Expected preview of index 1, got %+v", p)
	}

	close(slow)
	expectNoPreview(t, previews, 100*time.Millisecond)
	if p := c.State().Primary; p != 1 {
		t.Fatalf("Expected primary 1, got %d", p)
	}
}

func TestController_SetListReconciles(t *testing.T) {
	r := &fakeResolver{}
	c, previews := newTestController(t, r, 0)
	c.SetList(testEntries("a.png", "b.png", "c.png", "d.png"))

	c.Select(1)
	waitPreview(t, previews)
	c.Extend(3, false)
	waitPreview(t, previews)

	// The list shrinks: 3 is gone, the primary falls back to 2.
	c.SetList(testEntries("a.png", "b.png", "c.png"))
	want := State{Selected: []int{1, 2}, Anchor: 1, Primary: 2}
	if got := c.State(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %+v, got %+v", want, got)
	}
	if p := waitPreview(t, previews); p.Index != 2 || p.Entry.Path != "/lib/c.png" {
		t.Fatalf("Expected preview of index 2, got %+v", p)
	}

	// Same indices, different entry under the primary: resolve again.
	c.SetList(testEntries("a.png", "b.png", "z.png"))
	if p := waitPreview(t, previews); p.Index != 2 || p.Entry.Path != "/lib/z.png" {
		t.Fatalf("Expected preview of the new entry, got %+v", p)
	}

	// An empty list clears everything.
	c.SetList(nil)
	if st := c.State(); !st.Empty() || st.Primary != None || st.Anchor != None {
		t.Fatalf("Expected empty state, got %+v", st)
	}
	if p := waitPreview(t, previews); !p.Cleared() {
		t.Fatalf("Expected cleared preview, got %+v", p)
	}
}

func TestController_ResolveErrorIsDelivered(t *testing.T) {
	c, previews := newTestController(t, &fakeResolver{}, 0)
	c.SetList([]asset.Entry{{Path: "/lib/dir", Dir: true}})

	c.Select(0)
	p := waitPreview(t, previews)
	if !errors.Is(p.Err, asset.ErrNotPreviewable) || p.Resolved != nil {
		t.Fatalf("Expected not previewable error, got %+v", p)
	}
}

func TestController_OnChangeAndDispatch(t *testing.T) {
	var (
		mu         sync.Mutex
		states     []State
		dispatched int
	)
	c := NewController(&fakeResolver{}, Options{
		Dispatch: func(f func()) {
			mu.Lock()
			dispatched++
			mu.Unlock()
			f()
		},
		OnChange: func(s State) {
			mu.Lock()
			states = append(states, s)
			mu.Unlock()
		},
	})
	defer c.Close()
	c.SetList(testEntries("a.png", "b.png", "c.png"))

	c.SelectAll()
	c.SelectAll() // no change, no callback
	c.SelectMultiple([]int{2, 0})
	c.Clear()

	mu.Lock()
	defer mu.Unlock()
	want := []State{
		{Selected: []int{0, 1, 2}, Anchor: 0, Primary: 0},
		{Selected: []int{0, 2}, Anchor: 0, Primary: 0},
		{Anchor: None, Primary: None},
	}
	if !reflect.DeepEqual(states, want) {
		t.Fatalf("Expected %+v, got %+v", want, states)
	}
	if dispatched < len(want) {
		t.Fatalf("Expected callbacks to go through Dispatch, got %d", dispatched)
	}
}

func TestController_MoveExtend(t *testing.T) {
	c, _ := newTestController(t, &fakeResolver{}, 0)
	c.SetList(testEntries("a", "b", "c", "d", "e", "f", "g", "h"))

	c.Select(1)
	c.Move(MoveDown, 3, true)
	want := State{Selected: []int{1, 2, 3, 4}, Anchor: 1, Primary: 4}
	if got := c.State(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %+v, got %+v", want, got)
	}

	c.Move(MoveEnd, 3, false)
	if got := c.State(); !reflect.DeepEqual(got, replaceSelect(7)) {
		t.Fatalf("Expected only the last entry, got %+v", got)
	}
}
