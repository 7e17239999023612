// Package browser ties listing, selection, preview and drag and drop
// together for one open root folder.
package browser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alexballas/xassetbrowser/asset"
	"github.com/alexballas/xassetbrowser/config"
	"github.com/alexballas/xassetbrowser/listing"
	"github.com/alexballas/xassetbrowser/preview"
	"github.com/alexballas/xassetbrowser/selection"
	"github.com/alexballas/xassetbrowser/transfer"
	"github.com/sirupsen/logrus"
)

var ErrNoRoot = errors.New("no root folder is open")

type Options struct {
	Config   *config.Config
	Lister   listing.Lister
	Resolver *asset.Resolver
	FileOps  FileOps
	Picker   FolderPicker
	Tracker  *transfer.Tracker
	// Dispatch runs callbacks on the UI thread, e.g. fyne.Do.
	Dispatch func(func())

	OnPreview   func(selection.Preview)
	OnSelection func(selection.State)
	OnListing   func(listing.Result)
}

// Session is the browser state for one window.
type Session struct {
	cfg      *config.Config
	lister   listing.Lister
	resolver *asset.Resolver
	thumbs   *asset.ThumbnailLoader
	sel      *selection.Controller
	nav      *preview.Navigator
	ops      FileOps
	picker   FolderPicker
	tracker  *transfer.Tracker
	watcher  *listing.Watcher
	dispatch func(func())
	onList   func(listing.Result)
	log      *logrus.Entry

	mu      sync.Mutex
	root    string
	dir     string
	raw     []asset.Entry
	sort    listing.SortSpec
	filter  listing.FilterSpec
	search  string
	visible listing.Result
	// pushing is set while one goroutine hands listings to the controllers,
	// dirty asks it for another round.
	pushing bool
	dirty   bool
}

func NewSession(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:      cfg,
		lister:   opts.Lister,
		resolver: opts.Resolver,
		ops:      opts.FileOps,
		picker:   opts.Picker,
		tracker:  opts.Tracker,
		dispatch: opts.Dispatch,
		onList:   opts.OnListing,
		sort:     cfg.Sort(),
		filter:   cfg.Filter(),
		log:      logrus.WithField("component", "session"),
	}
	if s.lister == nil {
		s.lister = listing.DirLister{}
	}
	if s.resolver == nil {
		s.resolver = asset.NewResolver()
	}
	if s.ops == nil {
		s.ops = OSFileOps{}
	}
	if s.picker == nil {
		s.picker = DefaultPicker()
	}
	if s.tracker == nil {
		s.tracker = transfer.DefaultTracker
	}
	if s.dispatch == nil {
		s.dispatch = func(f func()) { f() }
	}

	s.thumbs = asset.NewThumbnailLoader(s.resolver, cfg.Thumbnails.Workers, cfg.Thumbnails.Queue)
	s.sel = selection.NewController(s.resolver, selection.Options{
		Debounce:  cfg.SelectionDebounce(),
		Dispatch:  s.dispatch,
		OnPreview: opts.OnPreview,
		OnChange:  opts.OnSelection,
	})
	s.nav = preview.NewNavigator(s.resolver, s.sel)

	if cfg.Watch.Enabled {
		w, err := listing.NewWatcher(cfg.WatchDelay(), s.watchRefresh)
		if err != nil {
			// Auto refresh is a convenience, browse without it.
			s.log.WithError(err).Warn("folder watcher unavailable")
		} else {
			s.watcher = w
		}
	}
	return s, nil
}

func (s *Session) Selection() *selection.Controller { return s.sel }
func (s *Session) Navigator() *preview.Navigator { return s.nav }
func (s *Session) Thumbnails() *asset.ThumbnailLoader { return s.thumbs }
func (s *Session) Resolver() *asset.Resolver { return s.resolver }

// OpenRoot makes dir the new root folder. Parsed snapshots of the previous
// root are dropped.
func (s *Session) OpenRoot(ctx context.Context, dir string) error {
	dir = filepath.Clean(dir)
	s.resolver.RootChanged()
	s.mu.Lock()
	s.root = dir
	s.mu.Unlock()
	s.log.WithField("root", dir).Info("root opened")
	return s.SetLocation(ctx, dir)
}

// PickRoot asks the folder picker for a new root and opens it.
func (s *Session) PickRoot(ctx context.Context) error {
	s.mu.Lock()
	start := s.root
	s.mu.Unlock()

	dir, err := s.picker.PickFolder(ctx, start)
	if err != nil {
		return err
	}
	return s.OpenRoot(ctx, dir)
}

// SetLocation lists dir, which is normally below the root. On a read error
// the listing becomes empty and the error is returned.
func (s *Session) SetLocation(ctx context.Context, dir string) error {
	dir = filepath.Clean(dir)
	s.mu.Lock()
	if s.root == "" {
		s.mu.Unlock()
		return ErrNoRoot
	}
	s.dir = dir
	s.mu.Unlock()

	if s.watcher != nil {
		if err := s.watcher.Watch(dir); err != nil {
			s.log.WithError(err).WithField("directory", dir).Warn("cannot watch directory")
		}
	}

	err := s.load(ctx, dir)
	if err == nil {
		s.thumbs.Prewarm(s.Visible())
	}
	return err
}

// Refresh lists the current directory again.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	dir := s.dir
	s.mu.Unlock()
	if dir == "" {
		return ErrNoRoot
	}
	return s.load(ctx, dir)
}

func (s *Session) watchRefresh() {
	if err := s.Refresh(context.Background()); err != nil && !errors.Is(err, ErrNoRoot) {
		s.log.WithError(err).Error("auto refresh failed")
	}
}

func (s *Session) load(ctx context.Context, dir string) error {
	entries, err := s.lister.List(ctx, dir)
	if err != nil {
		s.log.WithError(err).WithField("directory", dir).Warn("directory listing failed")
		entries = nil
	}

	s.mu.Lock()
	if s.dir != dir {
		// The user moved on while we were listing.
		s.mu.Unlock()
		return err
	}
	s.raw = entries
	s.mu.Unlock()

	s.apply()
	return err
}

func (s *Session) SetSort(spec listing.SortSpec) {
	s.mu.Lock()
	s.sort = spec
	s.mu.Unlock()
	s.apply()
}

func (s *Session) SetFilter(f listing.FilterSpec) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	s.apply()
}

func (s *Session) SetSearch(q string) {
	s.mu.Lock()
	s.search = q
	s.mu.Unlock()
	s.apply()
}

// apply recomputes the visible listing and pushes it to the controllers.
// Callbacks run without any session lock held, so they may change sort,
// filter or search again; such calls made during a push are folded into
// another round by the pushing goroutine.
func (s *Session) apply() {
	s.mu.Lock()
	s.dirty = true
	if s.pushing {
		s.mu.Unlock()
		return
	}
	s.pushing = true
	for s.dirty {
		s.dirty = false
		res := listing.Apply(s.raw, s.sort, s.filter, s.search)
		s.visible = res
		s.mu.Unlock()

		s.sel.SetList(res.Entries)
		s.nav.Rebuild(res.Entries)
		if s.onList != nil {
			s.dispatch(func() { s.onList(res) })
		}

		s.mu.Lock()
	}
	s.pushing = false
	s.mu.Unlock()
}

// Visible returns the filtered, sorted listing.
func (s *Session) Visible() []asset.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible.Entries
}

// HiddenCount is how many entries of the directory the filters hide.
func (s *Session) HiddenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible.Hidden
}

func (s *Session) Root() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

func (s *Session) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

func (s *Session) Breadcrumbs() []listing.Crumb {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listing.Breadcrumbs(s.root, s.dir)
}

// BeginDrag starts dragging the entry at index. When it is part of the
// selection the whole selection is dragged with it.
func (s *Session) BeginDrag(index int) (transfer.Payload, error) {
	visible := s.Visible()
	if index < 0 || index >= len(visible) {
		return nil, fmt.Errorf("drag index %d out of range", index)
	}
	primary := visible[index].Path

	var all []string
	if s.sel.IsSelected(index) {
		for _, e := range s.sel.SelectedEntries() {
			all = append(all, e.Path)
		}
	}
	s.tracker.Begin(primary)
	return transfer.Encode(primary, all), nil
}

func (s *Session) EndDrag() {
	s.tracker.End()
}

// Drop moves the dragged files into targetDir and returns their new paths.
// Payloads that decode to nothing are ignored. Paths already in targetDir
// and folders dropped onto themselves or their children are skipped.
func (s *Session) Drop(ctx context.Context, payload transfer.Payload, targetDir string) ([]string, error) {
	paths := s.tracker.DecodePaths(payload)
	s.tracker.End()
	if len(paths) == 0 {
		return nil, nil
	}
	targetDir = filepath.Clean(targetDir)

	var (
		moved []string
		errs  []error
	)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		p = filepath.Clean(p)
		if filepath.Dir(p) == targetDir || isWithin(targetDir, p) {
			s.log.WithField("path", p).Debug("drop skipped")
			continue
		}
		dst, err := s.ops.Move(p, targetDir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		moved = append(moved, dst)
	}

	if len(moved) > 0 {
		s.log.WithField("count", len(moved)).WithField("target", targetDir).Info("files moved")
		s.refreshIfOpen(ctx)
	}
	return moved, errors.Join(errs...)
}

// Rename renames the entry at index.
func (s *Session) Rename(ctx context.Context, index int, newName string) (string, error) {
	visible := s.Visible()
	if index < 0 || index >= len(visible) {
		return "", fmt.Errorf("rename index %d out of range", index)
	}
	dst, err := s.ops.Rename(visible[index].Path, newName)
	if err != nil {
		return "", err
	}
	s.refreshIfOpen(ctx)
	return dst, nil
}

// DeleteSelected removes every selected entry.
func (s *Session) DeleteSelected(ctx context.Context) error {
	entries := s.sel.SelectedEntries()
	if len(entries) == 0 {
		return nil
	}
	var errs []error
	for _, e := range entries {
		if err := s.ops.Delete(e.Path); err != nil {
			errs = append(errs, err)
		}
	}
	s.refreshIfOpen(ctx)
	return errors.Join(errs...)
}

func (s *Session) refreshIfOpen(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrNoRoot) {
		s.log.WithError(err).Warn("refresh after file operation failed")
	}
}

// Close stops background work.
func (s *Session) Close() {
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.log.WithError(err).Debug("closing watcher")
		}
	}
	s.sel.Close()
	s.nav.Close()
	s.thumbs.Close()
}

// isWithin reports whether path is dir itself or below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
