package listing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/storage"
	"github.com/alexballas/xassetbrowser/asset"
)

// Lister reads the entries of one directory, not recursively.
type Lister interface {
	List(ctx context.Context, dir string) ([]asset.Entry, error)
}

// DirLister lists the local filesystem directly.
type DirLister struct{}

func (DirLister) List(ctx context.Context, dir string) ([]asset.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	entries := make([]asset.Entry, 0, len(des))
	for _, de := range des {
		path := filepath.Join(dir, de.Name())
		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil {
				isDir = info.IsDir()
			}
		}
		entries = append(entries, asset.Entry{Path: path, Name: de.Name(), Dir: isDir})
	}
	return entries, nil
}

// URILister lists through fyne storage so any registered repository works.
// An app (or test app) must be running.
type URILister struct{}

func (URILister) List(ctx context.Context, dir string) ([]asset.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	children, err := lister.List()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	entries := make([]asset.Entry, 0, len(children))
	for _, u := range children {
		isDir, _ := storage.CanList(u)
		entries = append(entries, asset.Entry{Path: u.Path(), Name: u.Name(), Dir: isDir})
	}
	return entries, nil
}
