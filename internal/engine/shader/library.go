package shader

import (
	"embed"
	"io/fs"
	"os"
	"path"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/fault"
	"github.com/Faultbox/shadowlab/internal/logger"
)

//go:embed glsl/*.vert glsl/*.frag glsl/*.geom
var embedded embed.FS

// Library resolves GLSL sources by file name. Files found in the override
// directory take precedence over the embedded copies.
type Library struct {
	override fs.FS
	builtin  fs.FS
}

// NewLibrary creates a library backed by the embedded shaders.
// If overrideDir is non-empty, files there shadow the embedded ones.
func NewLibrary(overrideDir string) *Library {
	builtin, _ := fs.Sub(embedded, "glsl")
	l := &Library{builtin: builtin}
	if overrideDir != "" {
		l.override = os.DirFS(overrideDir)
	}
	return l
}

// NewLibraryFS creates a library over explicit file systems.
// override may be nil.
func NewLibraryFS(builtin, override fs.FS) *Library {
	return &Library{builtin: builtin, override: override}
}

// Read returns the source of a single shader file.
func (l *Library) Read(name string) (string, error) {
	name = path.Clean(name)
	if l.override != nil {
		if data, err := fs.ReadFile(l.override, name); err == nil {
			logger.Debug("shader override", zap.String("file", name))
			return string(data), nil
		}
	}
	data, err := fs.ReadFile(l.builtin, name)
	if err != nil {
		return "", fault.Wrap(fault.AssetLoad, "shader.Read", err)
	}
	return string(data), nil
}

// Sources reads the stages of a program. geom may be empty.
func (l *Library) Sources(vert, frag, geom string) (Sources, error) {
	var src Sources
	var err error
	if src.Vertex, err = l.Read(vert); err != nil {
		return Sources{}, err
	}
	if src.Fragment, err = l.Read(frag); err != nil {
		return Sources{}, err
	}
	if geom != "" {
		if src.Geometry, err = l.Read(geom); err != nil {
			return Sources{}, err
		}
	}
	return src, nil
}

// Program reads and compiles a program. The name is used in logs and errors.
func (l *Library) Program(name, vert, frag, geom string) (*Program, error) {
	src, err := l.Sources(vert, frag, geom)
	if err != nil {
		return nil, err
	}
	return Compile(name, src)
}
