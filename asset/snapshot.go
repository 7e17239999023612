package asset

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// NoPromptText is shown for analysis snapshots that carry no usable prompt.
const NoPromptText = "No prompt available"

type librarySnapshot struct {
	Prompt          string          `json:"prompt"`
	BlindPrompt     string          `json:"blindPrompt"`
	Images          []string        `json:"images"`
	ReferenceImages []string        `json:"referenceImages"`
	GenerationInfo  *generationInfo `json:"generationInfo"`
}

type generationInfo struct {
	Model          string          `json:"model"`
	AspectRatio    string          `json:"aspectRatio"`
	Timestamp      json.RawMessage `json:"timestamp"`
	NumberOfImages int             `json:"numberOfImages"`
}

type analysisSnapshot struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Image     *analysisImage  `json:"image"`
	Analysis  map[string]any  `json:"analysis"`
	Model     string          `json:"model"`
	Hint      string          `json:"hint"`
}

type analysisImage struct {
	PreviewURL string `json:"previewUrl"`
	Base64     string `json:"base64"`
	MimeType   string `json:"mimeType"`
}

// parseLibrary validates and normalizes a prompt library snapshot.
func parseLibrary(data []byte, path string, urls *URLCache) (*Resolved, error) {
	var snap librarySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, invalid("%v", err)
	}

	prompt := strings.TrimSpace(snap.Prompt)
	if prompt == "" {
		prompt = strings.TrimSpace(snap.BlindPrompt)
	}
	if prompt == "" {
		return nil, invalid("missing prompt")
	}
	if len(snap.Images) == 0 {
		return nil, invalid("images list is empty")
	}
	if snap.GenerationInfo == nil {
		return nil, invalid("missing generationInfo")
	}

	dir := filepath.Dir(path)
	images, err := normalizeAll(snap.Images, dir, urls)
	if err != nil {
		return nil, err
	}
	refs, err := normalizeAll(snap.ReferenceImages, dir, urls)
	if err != nil {
		return nil, err
	}

	info := snap.GenerationInfo
	count := info.NumberOfImages
	if count <= 0 {
		count = len(snap.Images)
	}

	res := &Resolved{
		Prompt:     prompt,
		Images:     images,
		RawImages:  append([]string(nil), snap.Images...),
		References: refs,
		Generation: Generation{
			Model:       info.Model,
			AspectRatio: info.AspectRatio,
			Timestamp:   parseTimestamp(info.Timestamp),
			ImageCount:  count,
		},
		Source: path,
		Kind:   KindLibrary,
	}
	if len(snap.ReferenceImages) > 0 {
		res.RawReferences = append([]string(nil), snap.ReferenceImages...)
	}
	if snap.Prompt != "" && snap.BlindPrompt != "" {
		res.Description = strings.TrimSpace(snap.BlindPrompt)
	}
	return res, nil
}

// parseAnalysis validates and normalizes an image analysis snapshot.
func parseAnalysis(data []byte, path string, urls *URLCache) (*Resolved, error) {
	var snap analysisSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, invalid("%v", err)
	}
	if snap.Image == nil {
		return nil, invalid("missing image block")
	}

	var display, raw string
	img := snap.Image
	switch {
	case strings.TrimSpace(img.PreviewURL) != "":
		src, err := normalizeSource(img.PreviewURL, filepath.Dir(path), img.MimeType, urls)
		if err != nil {
			return nil, err
		}
		display, raw = src, strings.TrimSpace(img.PreviewURL)
		if b64 := strings.TrimSpace(img.Base64); b64 != "" {
			raw = b64
		}
	case strings.TrimSpace(img.Base64) != "":
		raw = strings.TrimSpace(img.Base64)
		display = raw
		if !strings.HasPrefix(raw, "data:") {
			display = dataURI(raw, img.MimeType)
		}
	default:
		return nil, invalid("image block has neither previewUrl nor base64")
	}

	desc := stringField(snap.Analysis, "short_description")
	prompt := stringField(snap.Analysis, "full_prompt")
	switch {
	case prompt != "":
	case desc != "":
		prompt = desc
	case strings.TrimSpace(snap.Hint) != "":
		prompt = strings.TrimSpace(snap.Hint)
	default:
		prompt = NoPromptText
	}

	return &Resolved{
		Prompt:      prompt,
		Description: desc,
		Images:      []string{display},
		RawImages:   []string{raw},
		Generation: Generation{
			Model:      snap.Model,
			Timestamp:  parseTimestamp(snap.Timestamp),
			ImageCount: 1,
		},
		Analysis: snap.Analysis,
		Source:   path,
		Kind:     KindAnalysis,
	}, nil
}

func normalizeAll(raw []string, dir string, urls *URLCache) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		src, err := normalizeSource(r, dir, "", urls)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// parseTimestamp accepts epoch numbers (milliseconds, or seconds when small)
// and RFC 3339 strings. Anything else is the zero time.
func parseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	} else {
		s = string(raw)
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 0 {
		return time.Time{}
	}
	if n < 1e11 {
		return time.Unix(int64(n), 0).UTC()
	}
	return time.UnixMilli(int64(n)).UTC()
}
