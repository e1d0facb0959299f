package assets

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/Faultbox/shadowlab/internal/fault"
)

func TestLoadCaches(t *testing.T) {
	m := NewManagerFS(fstest.MapFS{
		"texture/floor.jpg": {Data: []byte("jpeg")},
	})

	for i := 0; i < 3; i++ {
		data, err := m.Load("texture/floor.jpg")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if string(data) != "jpeg" {
			t.Errorf("Load: got %q", data)
		}
	}

	hits, misses := m.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats: got hits=%d misses=%d, want 2/1", hits, misses)
	}
}

func TestLoadMissing(t *testing.T) {
	m := NewManagerFS(fstest.MapFS{})

	_, err := m.Load("missing.png")
	if err == nil {
		t.Fatal("expected error for missing asset")
	}
	if !errors.Is(err, fault.AssetLoad) {
		t.Errorf("expected AssetLoad kind, got %v", err)
	}
	if !IsNotExist(err) {
		t.Errorf("expected not-exist cause, got %v", err)
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"texture/floor.jpg", "texture/floor.jpg"},
		{"/texture/floor.jpg", "texture/floor.jpg"},
		{"texture\\rock\\rock.obj", "texture/rock/rock.obj"},
		{"./a/../b.png", "b.png"},
		{"../../etc/passwd", "etc/passwd"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join("nanosuit", "body_dif.png"); got != "nanosuit/body_dif.png" {
		t.Errorf("Join: got %q", got)
	}
	if got := Join("", "glass.png"); got != "glass.png" {
		t.Errorf("Join with empty dir: got %q", got)
	}
}

func TestExists(t *testing.T) {
	m := NewManagerFS(fstest.MapFS{"a.txt": {Data: []byte("x")}})
	if !m.Exists("a.txt") {
		t.Error("expected a.txt to exist")
	}
	if m.Exists("b.txt") {
		t.Error("expected b.txt not to exist")
	}
}
