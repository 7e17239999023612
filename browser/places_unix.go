//go:build !windows

package browser

func rootPlaces() []Place {
	return []Place{{Name: "Computer", Path: "/"}}
}
