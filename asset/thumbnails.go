package asset

import (
	"context"
	"sync"
	"time"
)

type thumbnailRequest struct {
	entry    Entry
	callback func(string)
}

// ThumbnailLoader resolves thumbnails for listed entries in the background.
// Requests are served newest first so the rows the user is looking at win.
type ThumbnailLoader struct {
	resolver *Resolver
	cache    *ThumbnailCache

	requests []thumbnailRequest
	maxQueue int
	reqLock  sync.Mutex
	reqCond  *sync.Cond
	closed   bool
	wg       sync.WaitGroup
}

const (
	DefaultThumbnailWorkers = 4
	DefaultThumbnailQueue   = 100
)

func NewThumbnailLoader(r *Resolver, workers, queue int) *ThumbnailLoader {
	if workers <= 0 {
		workers = DefaultThumbnailWorkers
	}
	if queue <= 0 {
		queue = DefaultThumbnailQueue
	}
	m := &ThumbnailLoader{
		resolver: r,
		cache:    r.Thumbnails(),
		requests: make([]thumbnailRequest, 0, queue),
		maxQueue: queue,
	}
	m.reqCond = sync.NewCond(&m.reqLock)

	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker()
	}
	return m
}

// LoadMemoryOnly returns a cached thumbnail or "".
func (m *ThumbnailLoader) LoadMemoryOnly(path string) string {
	src, _ := m.cache.Load(path)
	return src
}

// Load calls back with the thumbnail source of e. Cached thumbnails are
// delivered synchronously, everything else is queued. The callback is not
// invoked for entries that cannot be previewed.
func (m *ThumbnailLoader) Load(e Entry, callback func(string)) {
	if !e.Kind().Previewable() {
		return
	}
	if src, ok := m.cache.Load(e.Path); ok {
		if callback != nil {
			callback(src)
		}
		return
	}

	m.reqLock.Lock()
	defer m.reqLock.Unlock()
	if m.closed {
		return
	}
	// Full queue: drop the oldest request, it is the least likely to be visible.
	if len(m.requests) >= m.maxQueue {
		m.requests = m.requests[1:]
	}
	m.requests = append(m.requests, thumbnailRequest{entry: e, callback: callback})
	m.reqCond.Signal()
}

// Prewarm queues every previewable entry without a callback.
func (m *ThumbnailLoader) Prewarm(entries []Entry) {
	go func() {
		for _, e := range entries {
			if !e.Kind().Previewable() {
				continue
			}
			if _, ok := m.cache.Load(e.Path); ok {
				continue
			}
			m.Load(e, nil)
			// Small sleep to avoid I/O spikes
			time.Sleep(5 * time.Millisecond)
		}
	}()
}

// Close stops the workers. Pending requests are dropped.
func (m *ThumbnailLoader) Close() {
	m.reqLock.Lock()
	m.closed = true
	m.requests = nil
	m.reqCond.Broadcast()
	m.reqLock.Unlock()
	m.wg.Wait()
}

func (m *ThumbnailLoader) worker() {
	defer m.wg.Done()
	for {
		m.reqLock.Lock()
		for len(m.requests) == 0 && !m.closed {
			m.reqCond.Wait()
		}
		if m.closed {
			m.reqLock.Unlock()
			return
		}
		// Pop LAST request (LIFO)
		lastIdx := len(m.requests) - 1
		req := m.requests[lastIdx]
		m.requests = m.requests[:lastIdx]
		m.reqLock.Unlock()

		src, ok := m.cache.Load(req.entry.Path)
		if !ok {
			res, err := m.resolver.Resolve(context.Background(), req.entry)
			if err != nil || res.Thumbnail() == "" {
				continue
			}
			src = res.Thumbnail()
			m.cache.Store(req.entry.Path, src)
		}
		if req.callback != nil {
			req.callback(src)
		}
	}
}
