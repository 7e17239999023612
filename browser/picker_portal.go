//go:build linux && !android

package browser

import (
	"context"
	"errors"

	"fyne.io/fyne/v2/storage"
	"github.com/rymdport/portal"
	"github.com/rymdport/portal/filechooser"
)

// PortalPicker opens the desktop's native folder chooser through the XDG
// file chooser portal. It works inside and outside a Flatpak sandbox.
type PortalPicker struct {
	Title string
	// X11Window parents the dialog when non-zero.
	X11Window uintptr
}

func (p PortalPicker) PickFolder(ctx context.Context, start string) (string, error) {
	options := &filechooser.OpenFileOptions{
		AcceptLabel:   "Open",
		Directory:     true,
		CurrentFolder: start,
	}
	title := p.Title
	if title == "" {
		title = "Open Folder"
	}
	handle := ""
	if p.X11Window != 0 {
		handle = portal.FormatX11WindowHandle(p.X11Window)
	}

	type result struct {
		uris []string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		uris, err := filechooser.OpenFile(handle, title, options)
		done <- result{uris, err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r = <-done:
	}
	if r.err != nil {
		return "", r.err
	}
	if len(r.uris) == 0 {
		return "", ErrPickCancelled
	}
	uri, err := storage.ParseURI(r.uris[0])
	if err != nil {
		return "", err
	}
	if uri.Scheme() != "file" {
		return "", errors.New("portal returned a non local folder: " + uri.String())
	}
	return uri.Path(), nil
}

// DefaultPicker returns the platform folder picker.
func DefaultPicker() FolderPicker {
	return PortalPicker{}
}
