package listing

import "path/filepath"

// Crumb is one clickable segment of the location bar.
type Crumb struct {
	Name string
	Path string
}

// Breadcrumbs returns the segments from root down to dir. When dir is not
// below root the walk continues up to the filesystem root.
func Breadcrumbs(root, dir string) []Crumb {
	if dir == "" {
		return nil
	}
	root = filepath.Clean(root)
	current := filepath.Clean(dir)

	var crumbs []Crumb
	for {
		crumbs = append(crumbs, Crumb{Name: crumbName(current), Path: current})
		if root != "" && current == root {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	// Reverse
	for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
		crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
	}
	return crumbs
}

func crumbName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return path
	}
	return name
}
