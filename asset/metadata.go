package asset

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MetadataProvider looks up file metadata for the preview panel.
type MetadataProvider interface {
	Metadata(ctx context.Context, path string) (FileMeta, error)
}

// StatMetadata reads metadata from the local filesystem. Image dimensions come
// from the header only, pixels are never decoded.
type StatMetadata struct{}

func (StatMetadata) Metadata(ctx context.Context, path string) (FileMeta, error) {
	if err := ctx.Err(); err != nil {
		return FileMeta{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileMeta{}, err
	}
	if info.IsDir() {
		return FileMeta{}, fmt.Errorf("%s is a directory", path)
	}

	meta := FileMeta{
		Name:      info.Name(),
		TypeLabel: typeLabel(path),
		Modified:  info.ModTime(),
	}
	if KindOf(path) == KindImage {
		if w, h, err := imageSize(path); err == nil {
			meta.Width, meta.Height = w, h
		}
	}
	return meta, nil
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func typeLabel(path string) string {
	ext := extLabel(path)
	switch KindOf(path) {
	case KindImage:
		return ext + " Image"
	case KindLibrary:
		return "Prompt Library"
	case KindAnalysis:
		return "Image Analysis"
	default:
		return ext
	}
}

// FallbackMeta synthesizes metadata from the path alone.
func FallbackMeta(path string) FileMeta {
	return FileMeta{
		Name:      baseName(path),
		TypeLabel: extLabel(path),
	}
}

func extLabel(path string) string {
	return strings.ToUpper(strings.TrimPrefix(Ext(path), "."))
}
