package debug

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/shadowlab/internal/fault"
)

func TestFlipRows(t *testing.T) {
	// 1x2: bottom row red, top row blue
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FlipRows(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FlipRows() error = %v", err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); b == 0 || r != 0 {
		t.Errorf("top pixel = %v, want blue", img.At(0, 0))
	}
	if r, _, b, _ := img.At(0, 1).RGBA(); r == 0 || b != 0 {
		t.Errorf("bottom pixel = %v, want red", img.At(0, 1))
	}
}

func TestFlipRowsMismatch(t *testing.T) {
	tests := []struct {
		name   string
		pixels []byte
		w, h   int
	}{
		{"short", make([]byte, 4), 2, 2},
		{"zero width", nil, 0, 2},
		{"negative", nil, -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FlipRows(tt.pixels, tt.w, tt.h); !errors.Is(err, fault.InvalidInput) {
				t.Errorf("FlipRows() error = %v, want InvalidInput", err)
			}
		})
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "shadowlab")
	sc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	name, err := sc.CaptureFromPixels(make([]byte, 4*3*2), 3, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels() error = %v", err)
	}
	if want := filepath.Join(dir, "shadowlab_2024-03-01_12-30-00.000.png"); name != want {
		t.Errorf("file = %q, want %q", name, want)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatalf("open screenshot: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode screenshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("image size = %v, want 3x2", b)
	}
}

func TestFilenameWithoutDir(t *testing.T) {
	sc := NewScreenshotCapture("", "shot")
	if name := sc.Filename(); strings.ContainsRune(name, filepath.Separator) || !strings.HasPrefix(name, "shot_") {
		t.Errorf("Filename() = %q", name)
	}
}
