package asset

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// FileReader reads snapshot files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// OSReader reads from the local filesystem.
type OSReader struct{}

func (OSReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Resolver turns directory entries into normalized preview records.
// It is safe for concurrent use.
type Resolver struct {
	reader  FileReader
	meta    MetadataProvider
	urls    *URLCache
	formats *FormatCache
	thumbs  *ThumbnailCache
	group   singleflight.Group
	log     *logrus.Entry
}

type Option func(*Resolver)

func WithReader(r FileReader) Option {
	return func(res *Resolver) { res.reader = r }
}

func WithMetadata(m MetadataProvider) Option {
	return func(res *Resolver) { res.meta = m }
}

func WithPathConverter(c PathConverter) Option {
	return func(res *Resolver) { res.urls = NewURLCache(c) }
}

func WithThumbnails(c *ThumbnailCache) Option {
	return func(res *Resolver) { res.thumbs = c }
}

func WithLogger(l *logrus.Entry) Option {
	return func(res *Resolver) { res.log = l }
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		reader:  OSReader{},
		meta:    StatMetadata{},
		urls:    NewURLCache(nil),
		formats: NewFormatCache(),
		thumbs:  SharedThumbnails(),
		log:     logrus.WithField("component", "resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Thumbnails returns the cache the resolver populates.
func (r *Resolver) Thumbnails() *ThumbnailCache {
	return r.thumbs
}

// RootChanged invalidates every parsed snapshot. URL conversions and
// thumbnails are kept.
func (r *Resolver) RootChanged() {
	r.formats.Clear()
	r.log.Debug("format cache cleared")
}

// Resolve returns the preview record for e. Directories and unknown files
// yield ErrNotPreviewable, unreadable or invalid snapshots a *FormatError.
func (r *Resolver) Resolve(ctx context.Context, e Entry) (*Resolved, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind := e.Kind()
	switch {
	case kind.IsSnapshot():
		return r.resolveSnapshot(ctx, e.Path, kind)
	case kind == KindImage:
		return r.resolveImage(ctx, e)
	default:
		return nil, ErrNotPreviewable
	}
}

func (r *Resolver) resolveSnapshot(ctx context.Context, path string, kind Kind) (*Resolved, error) {
	if cached, ok := r.formats.Get(path); ok {
		r.log.WithField("path", path).Debug("format cache hit")
		return cached.Clone(), nil
	}

	v, err, _ := r.group.Do(path, func() (any, error) {
		if cached, ok := r.formats.Get(path); ok {
			return cached, nil
		}

		data, err := r.reader.ReadFile(path)
		if err != nil {
			return nil, &FormatError{Path: path, Err: err}
		}

		var res *Resolved
		if kind == KindLibrary {
			res, err = parseLibrary(data, path, r.urls)
		} else {
			res, err = parseAnalysis(data, path, r.urls)
		}
		if err != nil {
			return nil, &FormatError{Path: path, Err: err}
		}

		meta := r.metadata(ctx, path)
		res.Meta = &meta
		r.formats.Put(path, res)
		r.thumbs.Store(path, res.Thumbnail())
		return res, nil
	})
	if err != nil {
		r.log.WithError(err).WithField("path", path).Warn("snapshot not previewable")
		return nil, err
	}
	return v.(*Resolved).Clone(), nil
}

func (r *Resolver) resolveImage(ctx context.Context, e Entry) (*Resolved, error) {
	src, err := r.urls.Convert(e.Path)
	if err != nil {
		err = &FormatError{Path: e.Path, Err: err}
		r.log.WithError(err).WithField("path", e.Path).Warn("image not previewable")
		return nil, err
	}
	r.thumbs.Store(e.Path, src)

	meta := r.metadata(ctx, e.Path)
	return &Resolved{
		Prompt:    e.DisplayName(),
		Images:    []string{src},
		RawImages: []string{e.Path},
		Generation: Generation{
			Timestamp:  meta.Modified,
			ImageCount: 1,
		},
		Source: e.Path,
		Kind:   KindImage,
		Meta:   &meta,
	}, nil
}

func (r *Resolver) metadata(ctx context.Context, path string) FileMeta {
	if r.meta == nil {
		return FallbackMeta(path)
	}
	meta, err := r.meta.Metadata(ctx, path)
	if err != nil {
		r.log.WithError(err).WithField("path", path).Debug("metadata unavailable, using fallback")
		return FallbackMeta(path)
	}
	return meta
}
