//go:build !linux || android

package browser

import "context"

type unavailablePicker struct{}

func (unavailablePicker) PickFolder(context.Context, string) (string, error) {
	return "", ErrPickerUnavailable
}

// DefaultPicker returns the platform folder picker.
func DefaultPicker() FolderPicker {
	return unavailablePicker{}
}
