package texture

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/assets"
	"github.com/Faultbox/shadowlab/internal/fault"
	"github.com/Faultbox/shadowlab/internal/logger"
)

// Source supplies raw file bytes by asset name.
type Source interface {
	Load(name string) ([]byte, error)
}

// Loader uploads textures and remembers them by asset name, so every
// path is decoded and uploaded once.
type Loader struct {
	src    Source
	srgb   bool
	loaded map[string]uint32
	cubes  []uint32
}

// NewLoader creates a loader reading from src. With srgb set, color
// textures are uploaded in an sRGB internal format.
func NewLoader(src Source, srgb bool) *Loader {
	return &Loader{
		src:    src,
		srgb:   srgb,
		loaded: make(map[string]uint32),
	}
}

// Load returns the 2D texture for name, uploading it on first use.
// Textures repeat and are mipmapped.
func (l *Loader) Load(name string) (uint32, error) {
	name = assets.Clean(name)
	if id, ok := l.loaded[name]; ok {
		return id, nil
	}
	img, err := l.decode(name)
	if err != nil {
		return 0, err
	}
	return l.upload2D(name, img)
}

// LoadData is Load for images that do not live in a file, such as those
// embedded in a glTF binary. key identifies the image in the cache and
// its extension selects the decoder.
func (l *Loader) LoadData(key string, data []byte) (uint32, error) {
	if id, ok := l.loaded[key]; ok {
		return id, nil
	}
	img, err := Decode(key, data)
	if err != nil {
		return 0, err
	}
	return l.upload2D(key, img)
}

func (l *Loader) upload2D(key string, img *Image) (uint32, error) {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	if err := upload(gl.TEXTURE_2D, img, l.srgb); err != nil {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.DeleteTextures(1, &id)
		return 0, fault.Wrap(fault.AssetLoad, "texture.Load", err)
	}
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	l.loaded[key] = id
	logger.Debug("texture loaded",
		zap.String("name", key),
		zap.Uint32("id", id),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("channels", img.Channels),
	)
	return id, nil
}

// LoadCubemap uploads six faces from dir in +X, -X, +Y, -Y, +Z, -Z order.
// Cube maps are not memoized.
func (l *Loader) LoadCubemap(dir string, faces []string) (uint32, error) {
	if len(faces) != 6 {
		return 0, fault.New(fault.AssetLoad, "texture.LoadCubemap", "cube map needs 6 faces, got %d", len(faces))
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	for i, face := range faces {
		img, err := l.decode(assets.Join(dir, face))
		if err == nil {
			err = upload(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), img, l.srgb)
		}
		if err != nil {
			gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
			gl.DeleteTextures(1, &id)
			return 0, fault.Wrap(fault.AssetLoad, "texture.LoadCubemap", err)
		}
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	l.cubes = append(l.cubes, id)
	logger.Debug("cube map loaded", zap.String("dir", dir), zap.Uint32("id", id))
	return id, nil
}

// Loaded reports how many 2D textures are memoized.
func (l *Loader) Loaded() int {
	return len(l.loaded)
}

// Close deletes every texture the loader created.
func (l *Loader) Close() {
	for name, id := range l.loaded {
		gl.DeleteTextures(1, &id)
		delete(l.loaded, name)
	}
	for _, id := range l.cubes {
		gl.DeleteTextures(1, &id)
	}
	l.cubes = nil
}

func (l *Loader) decode(name string) (*Image, error) {
	data, err := l.src.Load(name)
	if err != nil {
		return nil, err
	}
	return Decode(name, data)
}

// upload stores img into target of the bound texture.
func upload(target uint32, img *Image, srgb bool) error {
	internal, format, err := Formats(img.Channels, srgb)
	if err != nil {
		return err
	}
	// rows of 1 and 3 channel images are not 4-byte aligned
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(target, 0, internal, int32(img.Width), int32(img.Height), 0,
		format, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	return nil
}
