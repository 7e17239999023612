package browser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Place is a well known folder offered as a root shortcut.
type Place struct {
	Name string
	Path string
}

// Places returns the home folder, the user folders that exist and the
// filesystem roots.
func Places() []Place {
	var places []Place

	home, err := os.UserHomeDir()
	if err == nil && isDir(home) {
		places = append(places, Place{Name: "Home", Path: home})

		order := []string{"Desktop", "Documents", "Downloads", "Pictures"}
		for _, name := range order {
			if p := userFolder(home, name); isDir(p) {
				places = append(places, Place{Name: name, Path: p})
			}
		}
	}
	return append(places, rootPlaces()...)
}

// userFolder asks xdg-user-dir where name lives, falling back to a child
// of home.
func userFolder(home, name string) string {
	fallback := filepath.Join(home, name)
	switch runtime.GOOS {
	case "linux", "openbsd", "freebsd", "netbsd":
	default:
		return fallback
	}

	const cmdName = "xdg-user-dir"
	if _, err := exec.LookPath(cmdName); err != nil {
		return fallback
	}
	out, err := exec.Command(cmdName, strings.ToUpper(name)).Output()
	if err != nil {
		return fallback
	}

	loc := filepath.Clean(strings.TrimSpace(string(out)))
	// Unset XDG folders resolve to home itself.
	if loc == filepath.Clean(home) || loc == "." {
		if resolved, err := filepath.EvalSymlinks(fallback); err == nil {
			return resolved
		}
		return fallback
	}
	return loc
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
