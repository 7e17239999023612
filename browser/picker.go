package browser

import (
	"context"
	"errors"
)

var (
	ErrPickerUnavailable = errors.New("folder picker not available on this platform")
	ErrPickCancelled     = errors.New("folder selection cancelled")
)

// FolderPicker asks the user for a root folder.
type FolderPicker interface {
	PickFolder(ctx context.Context, start string) (string, error)
}
