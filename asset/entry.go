package asset

import (
	"path/filepath"
	"strings"
)

// Entry is a single item of a directory listing.
// A directory is marked either by Dir or by a non-nil Children slice.
type Entry struct {
	Path     string
	Name     string
	Dir      bool
	Children []Entry
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Dir || e.Children != nil
}

// DisplayName returns the entry name, falling back to the last path element.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return baseName(e.Path)
}

// Kind classifies the entry.
func (e Entry) Kind() Kind {
	if e.IsDir() {
		return KindDirectory
	}
	return KindOf(e.DisplayName())
}

// Kind is the recognized format of an entry.
type Kind int

const (
	KindOther Kind = iota
	KindDirectory
	// KindLibrary is a prompt library snapshot (.plib).
	KindLibrary
	// KindAnalysis is an image analysis snapshot (.pimg).
	KindAnalysis
	KindImage
)

const (
	LibraryExt  = ".plib"
	AnalysisExt = ".pimg"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// KindOf classifies a file name by its extension. It never returns KindDirectory.
func KindOf(name string) Kind {
	ext := Ext(name)
	switch {
	case ext == LibraryExt:
		return KindLibrary
	case ext == AnalysisExt:
		return KindAnalysis
	case imageExtensions[ext]:
		return KindImage
	default:
		return KindOther
	}
}

// Rank orders kinds for type sorting: directories, snapshots, images, the rest.
func (k Kind) Rank() int {
	switch k {
	case KindDirectory:
		return 0
	case KindLibrary, KindAnalysis:
		return 1
	case KindImage:
		return 2
	default:
		return 3
	}
}

func (k Kind) IsSnapshot() bool {
	return k == KindLibrary || k == KindAnalysis
}

// Previewable reports whether entries of this kind can be opened in the viewer.
func (k Kind) Previewable() bool {
	return k.IsSnapshot() || k == KindImage
}

// Recognized reports whether the kind is a directory or a known file format.
func (k Kind) Recognized() bool {
	return k != KindOther
}

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindLibrary:
		return "library"
	case KindAnalysis:
		return "analysis"
	case KindImage:
		return "image"
	default:
		return "other"
	}
}

// Ext returns the lower-cased extension of name, including the dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func IsJPEG(name string) bool {
	ext := Ext(name)
	return ext == ".jpg" || ext == ".jpeg"
}

func IsPNG(name string) bool {
	return Ext(name) == ".png"
}

// baseName also splits on backslashes so Windows paths dropped onto a
// non-Windows host still get a sensible name.
func baseName(path string) string {
	path = strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
