// Package transfer encodes dragged files for drops inside the browser and
// onto other applications.
package transfer

import (
	"encoding/json"
	"mime"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
)

// Payload maps a MIME type to its representation of the dragged files.
type Payload map[string]string

const (
	MIMEText    = "text/plain"
	MIMEURIList = "text/uri-list"
	MIMEJSON    = "application/json"
	// MIMEPath is only understood by this browser.
	MIMEPath = "application/x-xassetbrowser-path"
	// MIMEDownloadURL follows the "mimetype:filename:url" drag convention.
	MIMEDownloadURL = "DownloadURL"
)

type jsonPaths struct {
	Path  string   `json:"path"`
	Paths []string `json:"paths"`
}

// Encode builds the payload for dragging primary. all is the full set being
// dragged, it falls back to primary alone when empty or when it does not
// contain primary. Paths must be absolute: the uri-list form has no way to
// express a relative path and roots it at '/'.
func Encode(primary string, all []string) Payload {
	if primary == "" {
		return Payload{}
	}
	if len(all) == 0 || !slices.Contains(all, primary) {
		all = []string{primary}
	}

	uris := make([]string, len(all))
	for i, p := range all {
		uris[i] = FileURI(p)
	}
	js, _ := json.Marshal(jsonPaths{Path: primary, Paths: all})

	return Payload{
		MIMEText:        primary,
		MIMEURIList:     strings.Join(uris, "\n"),
		MIMEJSON:        string(js),
		MIMEPath:        primary,
		MIMEDownloadURL: downloadURL(primary),
	}
}

// Decode returns the primary path of p. When p carries nothing usable the
// path registered with DefaultTracker is returned, or "".
func Decode(p Payload) string {
	return DefaultTracker.Decode(p)
}

// DecodePaths returns every dragged path, primary first when known.
func DecodePaths(p Payload) []string {
	return DefaultTracker.DecodePaths(p)
}

func decodePrimary(p Payload) string {
	if path := normalize(p[MIMEPath]); path != "" {
		return path
	}
	if js, ok := decodeJSON(p[MIMEJSON]); ok {
		if path := normalize(js.Path); path != "" {
			return path
		}
		for _, path := range js.Paths {
			if path = normalize(path); path != "" {
				return path
			}
		}
	}
	if uris := uriList(p[MIMEURIList]); len(uris) > 0 {
		return uris[0]
	}
	return normalize(p[MIMEText])
}

func decodeAll(p Payload) []string {
	if js, ok := decodeJSON(p[MIMEJSON]); ok && len(js.Paths) > 0 {
		out := make([]string, 0, len(js.Paths))
		for _, path := range js.Paths {
			if path = normalize(path); path != "" {
				out = append(out, path)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return uriList(p[MIMEURIList])
}

func decodeJSON(s string) (jsonPaths, bool) {
	var js jsonPaths
	if strings.TrimSpace(s) == "" {
		return js, false
	}
	if err := json.Unmarshal([]byte(s), &js); err != nil {
		return js, false
	}
	return js, true
}

// uriList parses a text/uri-list body. Lines end in CRLF or LF, comment
// lines start with '#'.
func uriList(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if path := normalize(line); path != "" {
			out = append(out, path)
		}
	}
	return out
}

// normalize turns file URIs back into paths. Anything else is a path and is
// returned byte for byte, since names may start or end with spaces. A blank
// value yields "".
func normalize(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	if !isFileURI(trimmed) {
		return s
	}
	path, ok := PathFromURI(trimmed)
	if !ok {
		return ""
	}
	return path
}

func isFileURI(s string) bool {
	return len(s) >= 7 && strings.EqualFold(s[:7], "file://")
}

// FileURI returns the percent-encoded file:// URI of path. Separators are
// normalized to '/', so Windows paths become file:///C:/...
func FileURI(path string) string {
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return "file://" + (&url.URL{Path: slashed}).EscapedPath()
}

// PathFromURI converts a file:// URI to a local path.
func PathFromURI(uri string) (string, bool) {
	if !isFileURI(uri) {
		return "", false
	}
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return "", false
	}
	p := u.Path
	if u.Host != "" && !strings.EqualFold(u.Host, "localhost") {
		// UNC share
		p = "//" + u.Host + p
	} else if isDrivePath(p) {
		p = p[1:]
	}
	return filepath.FromSlash(p), true
}

// isDrivePath matches "/C:/..." style paths.
func isDrivePath(p string) bool {
	if len(p) < 3 || p[0] != '/' || p[2] != ':' {
		return false
	}
	c := p[1]
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

func downloadURL(path string) string {
	name := filepath.Base(filepath.FromSlash(path))
	typ := mime.TypeByExtension(filepath.Ext(name))
	if typ == "" {
		typ = "application/octet-stream"
	} else if i := strings.IndexByte(typ, ';'); i >= 0 {
		typ = typ[:i]
	}
	return typ + ":" + name + ":" + FileURI(path)
}
