package listing

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestBreadcrumbs(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "home", "me", "assets")
	dir := filepath.Join(root, "2024", "june")

	got := Breadcrumbs(root, dir)
	want := []Crumb{
		{Name: "assets", Path: root},
		{Name: "2024", Path: filepath.Join(root, "2024")},
		{Name: "june", Path: dir},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %+v, got %+v", want, got)
	}
}

func TestBreadcrumbs_AtRoot(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "assets")
	got := Breadcrumbs(root, root+string(filepath.Separator))
	if len(got) != 1 || got[0].Path != root {
		t.Fatalf("Expected single crumb for root, got %+v", got)
	}
}

func TestBreadcrumbs_OutsideRootWalksToTop(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "assets")
	dir := filepath.Join(string(filepath.Separator), "other", "place")

	got := Breadcrumbs(root, dir)
	if len(got) != 3 {
		t.Fatalf("Expected 3 crumbs, got %+v", got)
	}
	if got[len(got)-1].Name != "place" || got[1].Name != "other" {
		t.Errorf("Unexpected crumbs %+v", got)
	}
	if Breadcrumbs(root, "") != nil {
		t.Error("Expected no crumbs for empty dir")
	}
}
