package asset

import (
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2/storage"
)

// PathConverter turns a filesystem path into a URL the host can display.
type PathConverter interface {
	DisplayURL(path string) (string, error)
}

// FileURLConverter produces file:// URIs.
type FileURLConverter struct{}

func (FileURLConverter) DisplayURL(path string) (string, error) {
	return storage.NewFileURI(path).String(), nil
}

// MinBase64Length is the shortest string the base64 heuristic accepts.
const MinBase64Length = 64

const defaultImageMIME = "image/png"

// normalizeSource makes a single image reference displayable. baseDir is used
// to resolve relative paths, mime labels inline base64 data when known.
func normalizeSource(raw, baseDir, mime string, urls *URLCache) (string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return "", invalid("empty image reference")
	case strings.HasPrefix(raw, "data:"):
		return raw, nil
	case isRemoteURL(raw):
		return raw, nil
	case looksLikeBase64(raw):
		return dataURI(raw, mime), nil
	}

	path := raw
	if strings.HasPrefix(path, "file://") {
		if u, err := storage.ParseURI(path); err == nil {
			path = u.Path()
		}
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	return urls.Convert(path)
}

func isRemoteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// looksLikeBase64 accepts long strings made only of the base64 alphabet,
// padding and line breaks. Paths fail it on '.', so "a/b.png" stays a path.
func looksLikeBase64(s string) bool {
	if len(s) < MinBase64Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '+', c == '/', c == '=', c == '\n', c == '\r':
		default:
			return false
		}
	}
	return true
}

func dataURI(b64, mime string) string {
	if mime == "" {
		mime = sniffMIME(b64)
	}
	b64 = strings.NewReplacer("\n", "", "\r", "").Replace(b64)
	return "data:" + mime + ";base64," + b64
}

// sniffMIME guesses the image type from the base64 form of its magic bytes.
func sniffMIME(b64 string) string {
	switch {
	case strings.HasPrefix(b64, "/9j/"):
		return "image/jpeg"
	case strings.HasPrefix(b64, "iVBORw0KGgo"):
		return "image/png"
	case strings.HasPrefix(b64, "R0lGOD"):
		return "image/gif"
	case strings.HasPrefix(b64, "UklGR"):
		return "image/webp"
	case strings.HasPrefix(b64, "Qk"):
		return "image/bmp"
	default:
		return defaultImageMIME
	}
}
