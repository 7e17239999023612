// Package preview drives the full screen viewer over the previewable
// entries of a listing.
package preview

import (
	"context"
	"errors"
	"sync"

	"github.com/alexballas/xassetbrowser/asset"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotPreviewable = errors.New("entry is not previewable")
	ErrNoImages       = errors.New("entry has no images to show")
	ErrSuperseded     = errors.New("preview superseded by a newer request")
	ErrNotOpen        = errors.New("no preview is open")
)

const none = -1

type Resolver interface {
	Resolve(ctx context.Context, e asset.Entry) (*asset.Resolved, error)
}

// Selector is told which list index the viewer is showing.
type Selector interface {
	SelectIndex(i int)
}

// Active describes the entry on screen.
type Active struct {
	// Position in the previewable subset, 0..Len()-1.
	Position int
	// Index in the filtered list.
	Index    int
	Entry    asset.Entry
	Resolved *asset.Resolved
}

type Navigator struct {
	resolver Resolver
	selector Selector
	log      *logrus.Entry

	mu        sync.Mutex
	entries   []asset.Entry
	indices   []int       // position -> list index
	positions map[int]int // list index -> position
	active    Active
	open      bool
	gen       uint64
}

// NewNavigator returns a navigator. selector may be nil.
func NewNavigator(r Resolver, selector Selector) *Navigator {
	return &Navigator{
		resolver:  r,
		selector:  selector,
		log:       logrus.WithField("component", "preview"),
		positions: map[int]int{},
	}
}

// Rebuild indexes the previewable entries of list and closes the viewer.
func (n *Navigator) Rebuild(list []asset.Entry) {
	indices := make([]int, 0, len(list))
	positions := make(map[int]int, len(list))
	for i, e := range list {
		if !e.Kind().Previewable() {
			continue
		}
		positions[i] = len(indices)
		indices = append(indices, i)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = list
	n.indices = indices
	n.positions = positions
	n.reset()
}

// Len returns the number of previewable entries.
func (n *Navigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.indices)
}

// Position maps a list index to its place among the previewable entries.
func (n *Navigator) Position(index int) (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	pos, ok := n.positions[index]
	return pos, ok
}

// OpenAt shows the entry at list index. Entries that are not previewable,
// fail to resolve or have no image leave the viewer as it was.
func (n *Navigator) OpenAt(ctx context.Context, index int) (Active, error) {
	n.mu.Lock()
	pos, ok := n.positions[index]
	n.mu.Unlock()
	if !ok {
		return Active{}, ErrNotPreviewable
	}
	return n.show(ctx, pos)
}

// Next moves one entry forward. At the last entry it does nothing.
func (n *Navigator) Next(ctx context.Context) (Active, error) {
	return n.step(ctx, 1)
}

// Previous moves one entry back. At the first entry it does nothing.
func (n *Navigator) Previous(ctx context.Context) (Active, error) {
	return n.step(ctx, -1)
}

// Active returns the entry on screen.
func (n *Navigator) Active() (Active, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active, n.open
}

// Close hides the viewer. Opens still in flight are discarded.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reset()
}

func (n *Navigator) reset() {
	n.active = Active{Position: none, Index: none}
	n.open = false
	n.gen++
}

func (n *Navigator) step(ctx context.Context, delta int) (Active, error) {
	n.mu.Lock()
	if !n.open {
		n.mu.Unlock()
		return Active{}, ErrNotOpen
	}
	current := n.active
	pos := current.Position + delta
	if pos < 0 || pos >= len(n.indices) {
		n.mu.Unlock()
		return current, nil
	}
	n.mu.Unlock()
	return n.show(ctx, pos)
}

func (n *Navigator) show(ctx context.Context, pos int) (Active, error) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	index := n.indices[pos]
	entry := n.entries[index]
	n.mu.Unlock()

	res, err := n.resolver.Resolve(ctx, entry)
	if err != nil {
		return Active{}, err
	}
	if len(res.Images) == 0 {
		return Active{}, ErrNoImages
	}

	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		n.log.WithField("path", entry.Path).Debug("dropping superseded preview")
		return Active{}, ErrSuperseded
	}
	n.active = Active{Position: pos, Index: index, Entry: entry, Resolved: res}
	n.open = true
	active := n.active
	n.mu.Unlock()

	if n.selector != nil {
		n.selector.SelectIndex(index)
	}
	return active, nil
}
