package shader

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/Faultbox/shadowlab/internal/fault"
)

func TestLibraryOverride(t *testing.T) {
	builtin := fstest.MapFS{
		"a.vert": {Data: []byte("builtin vert")},
		"a.frag": {Data: []byte("builtin frag")},
	}
	override := fstest.MapFS{
		"a.frag": {Data: []byte("override frag")},
	}
	lib := NewLibraryFS(builtin, override)

	src, err := lib.Sources("a.vert", "a.frag", "")
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if src.Vertex != "builtin vert" {
		t.Errorf("Vertex = %q", src.Vertex)
	}
	if src.Fragment != "override frag" {
		t.Errorf("Fragment = %q", src.Fragment)
	}
	if src.Geometry != "" {
		t.Errorf("Geometry = %q, want empty", src.Geometry)
	}
}

func TestLibraryMissing(t *testing.T) {
	lib := NewLibraryFS(fstest.MapFS{"a.vert": {Data: []byte("v")}}, nil)
	_, err := lib.Sources("a.vert", "a.frag", "")
	if !errors.Is(err, fault.AssetLoad) {
		t.Errorf("err = %v, want AssetLoad", err)
	}
}

func TestEmbeddedShadersPresent(t *testing.T) {
	lib := NewLibrary("")
	files := []string{
		"omni_shadow.vert", "omni_shadow.geom", "omni_shadow.frag",
		"uni_shadow.vert", "uni_shadow.frag",
		"object.vert", "object.geom", "object.frag",
		"lamp.vert", "lamp.frag",
		"skybox.vert", "skybox.frag",
		"glass.vert", "glass.frag",
		"planet.vert", "asteroid.vert", "textured.frag",
		"screen.vert", "screen.frag",
		"bright.frag", "gaussian.frag", "blend.frag",
		"text.vert", "text.frag",
	}
	for _, f := range files {
		src, err := lib.Read(f)
		if err != nil {
			t.Errorf("Read(%q): %v", f, err)
			continue
		}
		if len(src) == 0 {
			t.Errorf("Read(%q) is empty", f)
		}
	}
}

func TestIndexed(t *testing.T) {
	tests := []struct {
		array  string
		i      int
		member string
		want   string
	}{
		{"lightSpace", 3, "", "lightSpace[3]"},
		{"pointLights", 0, "position", "pointLights[0].position"},
		{"pointLightDepthMaps", 2, "", "pointLightDepthMaps[2]"},
	}
	for _, tt := range tests {
		if got := Indexed(tt.array, tt.i, tt.member); got != tt.want {
			t.Errorf("Indexed(%q, %d, %q) = %q, want %q", tt.array, tt.i, tt.member, got, tt.want)
		}
	}
}
