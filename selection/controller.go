package selection

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/alexballas/xassetbrowser/asset"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period before a new primary entry is resolved.
const DefaultDebounce = 80 * time.Millisecond

// Resolver produces the preview record for an entry.
type Resolver interface {
	Resolve(ctx context.Context, e asset.Entry) (*asset.Resolved, error)
}

// Preview is delivered whenever the shown entry changes. Index is None when
// the preview was cleared. Err is set when the entry could not be resolved.
type Preview struct {
	Index    int
	Entry    asset.Entry
	Resolved *asset.Resolved
	Err      error
}

func (p Preview) Cleared() bool {
	return p.Index == None
}

type Options struct {
	// Debounce coalesces bursts of selection changes. Zero resolves on
	// every change.
	Debounce time.Duration
	// Dispatch runs callbacks on the caller's UI thread, e.g. fyne.Do.
	// Defaults to calling inline.
	Dispatch  func(func())
	OnPreview func(Preview)
	OnChange  func(State)
	Logger    *logrus.Entry
}

type target struct {
	index int
	entry asset.Entry
}

func (t target) same(o target) bool {
	return t.index == o.index && t.entry.Path == o.entry.Path
}

var noTarget = target{index: None}

// Controller owns the selection over one filtered list and keeps the
// preview of the primary entry up to date.
type Controller struct {
	resolver Resolver
	opts     Options
	log      *logrus.Entry
	bounce   *debouncer

	mu        sync.Mutex
	entries   []asset.Entry
	state     State
	pending   target
	committed target
	gen       uint64
	closed    bool
}

func NewController(r Resolver, opts Options) *Controller {
	if opts.Dispatch == nil {
		opts.Dispatch = func(f func()) { f() }
	}
	c := &Controller{
		resolver:  r,
		opts:      opts,
		log:       opts.Logger,
		state:     emptyState(),
		pending:   noTarget,
		committed: noTarget,
	}
	if c.log == nil {
		c.log = logrus.WithField("component", "selection")
	}
	c.bounce = newDebouncer(opts.Debounce, c.commit)
	return c
}

// SetList replaces the list the indices refer to, e.g. after a refresh or a
// new filter. Indices past the end are dropped. If the primary entry is gone
// or changed the preview follows the new primary.
func (c *Controller) SetList(entries []asset.Entry) {
	list := slices.Clone(entries)
	c.update(reconcile, &list)
}

// Select replaces the selection with i.
func (c *Controller) Select(i int) {
	c.update(func(s State, n int) State {
		if !inRange(i, n) {
			return s
		}
		return replaceSelect(i)
	}, nil)
}

// SelectIndex is Select for keyboard navigation and external sync.
func (c *Controller) SelectIndex(i int) {
	c.Select(i)
}

// Extend selects the range from the anchor to i. With additive the range
// is added to the current selection (ctrl+shift), otherwise it replaces it.
func (c *Controller) Extend(i int, additive bool) {
	c.update(func(s State, n int) State {
		if !inRange(i, n) {
			return s
		}
		return extendRange(s, i, additive)
	}, nil)
}

// Toggle adds or removes i.
func (c *Controller) Toggle(i int) {
	c.update(func(s State, n int) State {
		if !inRange(i, n) {
			return s
		}
		return toggle(s, i)
	}, nil)
}

// SelectMultiple replaces the selection with ids. The last valid id becomes
// anchor and primary.
func (c *Controller) SelectMultiple(ids []int) {
	c.update(func(_ State, n int) State {
		return selectMultiple(ids, n)
	}, nil)
}

func (c *Controller) SelectAll() {
	c.update(selectAll, nil)
}

func (c *Controller) Clear() {
	c.update(func(State, int) State {
		return emptyState()
	}, nil)
}

// Move steps the primary in direction m. Vertical steps jump columns entries.
// With extend the range from the anchor is selected instead.
func (c *Controller) Move(m Movement, columns int, extend bool) {
	c.mu.Lock()
	next := m.target(c.state.Primary, columns, len(c.entries))
	c.mu.Unlock()
	if next == None {
		return
	}
	if extend {
		c.Extend(next, false)
		return
	}
	c.SelectIndex(next)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *Controller) IsSelected(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Contains(i)
}

// SelectedEntries returns the selected entries in list order.
func (c *Controller) SelectedEntries() []asset.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]asset.Entry, 0, len(c.state.Selected))
	for _, i := range c.state.Selected {
		out = append(out, c.entries[i])
	}
	return out
}

// Primary returns the primary entry, if any.
func (c *Controller) Primary() (asset.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Primary == None {
		return asset.Entry{}, false
	}
	return c.entries[c.state.Primary], true
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Flush resolves a debounced change right away.
func (c *Controller) Flush() {
	c.bounce.Flush()
}

// Close stops pending work. Results still in flight are dropped.
func (c *Controller) Close() {
	c.bounce.Stop()
	c.mu.Lock()
	c.closed = true
	c.gen++
	c.mu.Unlock()
}

func (c *Controller) update(fn func(State, int) State, list *[]asset.Entry) {
	c.mu.Lock()
	if list != nil {
		c.entries = *list
	}
	prev := c.state
	c.state = fn(c.state, len(c.entries))

	want := noTarget
	if c.state.Primary != None {
		want = target{index: c.state.Primary, entry: c.entries[c.state.Primary]}
	}
	retarget := !want.same(c.pending)
	if retarget {
		c.pending = want
	}
	changed := prev.Anchor != c.state.Anchor || prev.Primary != c.state.Primary ||
		!slices.Equal(prev.Selected, c.state.Selected)
	snapshot := c.state.Clone()
	c.mu.Unlock()

	if changed && c.opts.OnChange != nil {
		c.opts.Dispatch(func() { c.opts.OnChange(snapshot) })
	}
	if retarget {
		c.bounce.Trigger()
	}
}

// commit promotes the pending target. Intermediate targets that were
// replaced before the debounce fired are never resolved.
func (c *Controller) commit() {
	c.mu.Lock()
	if c.closed || c.pending.same(c.committed) {
		c.mu.Unlock()
		return
	}
	t := c.pending
	c.committed = t
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	if t.index == None {
		c.deliver(gen, Preview{Index: None})
		return
	}
	go func() {
		res, err := c.resolver.Resolve(context.Background(), t.entry)
		c.deliver(gen, Preview{Index: t.index, Entry: t.entry, Resolved: res, Err: err})
	}()
}

func (c *Controller) deliver(gen uint64, p Preview) {
	if c.opts.OnPreview == nil {
		return
	}
	c.opts.Dispatch(func() {
		if !c.current(gen, p) {
			c.log.WithField("path", p.Entry.Path).Debug("dropping stale preview")
			return
		}
		c.opts.OnPreview(p)
	})
}

func (c *Controller) current(gen uint64, p Preview) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen && c.committed.index == p.Index && c.committed.entry.Path == p.Entry.Path
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
