package asset

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnailLoaderResolvesInBackground(t *testing.T) {
	r, _, _ := newTestResolver(map[string]string{"/lib/shot.plib": validLibrary})
	loader := NewThumbnailLoader(r, 2, 10)
	defer loader.Close()

	got := make(chan string, 1)
	loader.Load(Entry{Path: "/lib/shot.plib"}, func(src string) { got <- src })

	select {
	case src := <-got:
		assert.Equal(t, "asset://localhost/lib/out/one.png", src)
	case <-time.After(2 * time.Second):
		t.Fatal("thumbnail callback never fired")
	}
	assert.Equal(t, "asset://localhost/lib/out/one.png", loader.LoadMemoryOnly("/lib/shot.plib"))
}

func TestThumbnailLoaderCacheHitIsSynchronous(t *testing.T) {
	r, reader, _ := newTestResolver(nil)
	r.Thumbnails().Store("/pics/a.png", "cached-src")
	loader := NewThumbnailLoader(r, 1, 10)
	defer loader.Close()

	var got string
	loader.Load(Entry{Path: "/pics/a.png"}, func(src string) { got = src })
	assert.Equal(t, "cached-src", got)
	assert.Equal(t, int32(0), reader.reads.Load())

	// Nil callbacks are allowed on hits.
	loader.Load(Entry{Path: "/pics/a.png"}, nil)
}

func TestThumbnailLoaderSkipsNonPreviewable(t *testing.T) {
	r, reader, _ := newTestResolver(nil)
	loader := NewThumbnailLoader(r, 1, 10)

	called := false
	loader.Load(Entry{Path: "/docs/notes.txt"}, func(string) { called = true })
	loader.Load(Entry{Path: "/docs", Dir: true}, func(string) { called = true })
	loader.Close()

	assert.False(t, called)
	assert.Equal(t, int32(0), reader.reads.Load())
}

func TestThumbnailLoaderQueueDropsOldest(t *testing.T) {
	r, _, _ := newTestResolver(nil)
	// Build the loader by hand without workers so the queue can be inspected.
	loader := &ThumbnailLoader{resolver: r, cache: r.Thumbnails(), maxQueue: 3}
	loader.reqCond = sync.NewCond(&loader.reqLock)

	for _, p := range []string{"/a.png", "/b.png", "/c.png", "/d.png"} {
		loader.Load(Entry{Path: p}, nil)
	}

	require.Len(t, loader.requests, 3)
	assert.Equal(t, "/b.png", loader.requests[0].entry.Path)
	assert.Equal(t, "/d.png", loader.requests[2].entry.Path)
}

func TestThumbnailLoaderPrewarm(t *testing.T) {
	r, _, _ := newTestResolver(nil)
	loader := NewThumbnailLoader(r, 2, 10)
	defer loader.Close()

	loader.Prewarm([]Entry{
		{Path: "/pics/a.png"},
		{Path: "/pics/sub", Dir: true},
		{Path: "/pics/b.jpg"},
	})

	require.Eventually(t, func() bool {
		return loader.LoadMemoryOnly("/pics/a.png") != "" && loader.LoadMemoryOnly("/pics/b.jpg") != ""
	}, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, loader.LoadMemoryOnly("/pics/sub"))
}

func TestSharedThumbnailsIsSingleton(t *testing.T) {
	assert.Same(t, SharedThumbnails(), SharedThumbnails())

	c := &ThumbnailCache{}
	c.Store("/a", "x")
	c.Store("/a", "y")
	c.Store("/b", "")
	assert.Equal(t, 1, c.Len())
	src, _ := c.Load("/a")
	assert.Equal(t, "y", src)
}
