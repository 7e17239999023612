package asset

import (
	"maps"
	"slices"
	"time"
)

// Resolved is the normalized preview record for a snapshot or image file.
type Resolved struct {
	Prompt      string
	Description string

	// Images are display-ready sources, RawImages the values they were built
	// from, index for index.
	Images    []string
	RawImages []string

	References    []string
	RawReferences []string

	Generation Generation
	Analysis   map[string]any

	Source string
	Kind   Kind
	Meta   *FileMeta
}

type Generation struct {
	Model       string
	AspectRatio string
	Timestamp   time.Time
	ImageCount  int
}

// FileMeta describes the file a record was resolved from.
// Zero Width/Height/Modified mean unknown.
type FileMeta struct {
	Name      string
	TypeLabel string
	Width     int
	Height    int
	Modified  time.Time
}

// Clone returns a deep copy so cached records are never shared with callers.
func (r *Resolved) Clone() *Resolved {
	if r == nil {
		return nil
	}
	c := *r
	c.Images = slices.Clone(r.Images)
	c.RawImages = slices.Clone(r.RawImages)
	c.References = slices.Clone(r.References)
	c.RawReferences = slices.Clone(r.RawReferences)
	c.Analysis = maps.Clone(r.Analysis)
	if r.Meta != nil {
		m := *r.Meta
		c.Meta = &m
	}
	return &c
}

// Thumbnail returns the first display image, or "".
func (r *Resolved) Thumbnail() string {
	if r == nil || len(r.Images) == 0 {
		return ""
	}
	return r.Images[0]
}
