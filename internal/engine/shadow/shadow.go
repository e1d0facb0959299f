// Package shadow renders depth maps for point, directional and spot lights.
//
// A Shadow is either Omni (a cube map around a point light, drawn in one
// pass through a geometry shader) or Uni (a single 2D map seen through an
// orthographic or perspective projection). Both run the same depth pass.
package shadow

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/scene"
	"github.com/Faultbox/shadowlab/internal/engine/shader"
	"github.com/Faultbox/shadowlab/internal/fault"
	"github.com/Faultbox/shadowlab/internal/logger"
)

// Kind selects the depth map layout.
type Kind int

const (
	// Omni is a cube map depth target for point lights.
	Omni Kind = iota
	// Uni is a 2D depth target for directional and spot lights.
	Uni
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Omni:
		return "omni"
	case Uni:
		return "uni"
	default:
		return "unknown"
	}
}

// CubeSize is the side length of every point light cube map face.
const CubeSize = 1024

// Target is a depth-only framebuffer and its texture.
type Target struct {
	FBO     uint32
	Texture uint32
}

// Device is the slice of the GPU the depth pass needs.
type Device interface {
	CreateDepthTarget(kind Kind, width, height int32) (Target, error)
	DeleteTarget(t Target)
	BindFramebuffer(fbo uint32)
	Viewport(x, y, width, height int32)
	ClearDepth()
	SetCulling(enabled bool)
	BindDepthTexture(kind Kind, unit uint32, texture uint32)
}

// Program is a depth shader program.
type Program interface {
	Use()
	SetMat4(name string, m mgl32.Mat4)
	SetVec3(name string, v mgl32.Vec3)
	SetFloat(name string, v float32)
	Err() error
}

// Viewport is the render target restored after a depth pass.
type Viewport struct {
	FBO           uint32
	Width, Height int32
}

// OrthoBox is the view volume of a directional light.
type OrthoBox struct {
	Left, Right, Bottom, Top, Near, Far float32
}

// DefaultOrthoBox returns a 40x40 box reaching 100 units from the light.
func DefaultOrthoBox() OrthoBox {
	return OrthoBox{Left: -20, Right: 20, Bottom: -20, Top: 20, Near: 0.1, Far: 100}
}

// Projection returns the orthographic projection of the box.
func (b OrthoBox) Projection() mgl32.Mat4 {
	return mgl32.Ortho(b.Left, b.Right, b.Bottom, b.Top, b.Near, b.Far)
}

// Shadow owns one depth map and the light-space transforms that fill it.
type Shadow struct {
	kind   Kind
	dev    Device
	prog   Program
	target Target

	width, height int32
	proj          mgl32.Mat4
	lightSpaces   []mgl32.Mat4
	lightPos      mgl32.Vec3
	frustumHeight float32
}

// NewPointLight creates a cube map shadow for a point light whose depth
// range is [near, far].
func NewPointLight(dev Device, prog Program, near, far float32) (*Shadow, error) {
	if near <= 0 || far <= near {
		return nil, fault.New(fault.InvalidInput, "shadow.NewPointLight", "invalid depth range [%g, %g]", near, far)
	}
	s := &Shadow{
		kind:          Omni,
		dev:           dev,
		prog:          prog,
		width:         CubeSize,
		height:        CubeSize,
		proj:          mgl32.Perspective(mgl32.DegToRad(90), 1, near, far),
		lightSpaces:   make([]mgl32.Mat4, 6),
		frustumHeight: far - near,
	}
	return s, s.allocate()
}

// NewDirectional creates an orthographic shadow of width x height texels.
func NewDirectional(dev Device, prog Program, width, height int32, box OrthoBox) (*Shadow, error) {
	if box.Right <= box.Left || box.Top <= box.Bottom || box.Far <= box.Near {
		return nil, fault.New(fault.InvalidInput, "shadow.NewDirectional", "degenerate ortho box %+v", box)
	}
	return newUni(dev, prog, width, height, box.Projection())
}

// NewSpot creates a perspective shadow of width x height texels with the
// given vertical field of view in degrees.
func NewSpot(dev Device, prog Program, width, height int32, fovDeg, near, far float32) (*Shadow, error) {
	if fovDeg <= 0 || fovDeg >= 180 || near <= 0 || far <= near {
		return nil, fault.New(fault.InvalidInput, "shadow.NewSpot", "invalid frustum fov=%g near=%g far=%g", fovDeg, near, far)
	}
	if width <= 0 || height <= 0 {
		return nil, fault.New(fault.InvalidInput, "shadow.NewSpot", "invalid size %dx%d", width, height)
	}
	proj := mgl32.Perspective(mgl32.DegToRad(fovDeg), float32(width)/float32(height), near, far)
	return newUni(dev, prog, width, height, proj)
}

func newUni(dev Device, prog Program, width, height int32, proj mgl32.Mat4) (*Shadow, error) {
	if width <= 0 || height <= 0 {
		return nil, fault.New(fault.InvalidInput, "shadow.New", "invalid size %dx%d", width, height)
	}
	s := &Shadow{
		kind:        Uni,
		dev:         dev,
		prog:        prog,
		width:       width,
		height:      height,
		proj:        proj,
		lightSpaces: []mgl32.Mat4{proj},
	}
	return s, s.allocate()
}

func (s *Shadow) allocate() error {
	t, err := s.dev.CreateDepthTarget(s.kind, s.width, s.height)
	if err != nil {
		return err
	}
	s.target = t
	logger.Debug("shadow map created",
		zap.Stringer("kind", s.kind),
		zap.Int32("width", s.width),
		zap.Int32("height", s.height),
		zap.Uint32("fbo", t.FBO),
	)
	return nil
}

// Kind returns the depth map layout.
func (s *Shadow) Kind() Kind { return s.kind }

// Size returns the depth map resolution.
func (s *Shadow) Size() (width, height int32) { return s.width, s.height }

// Projection returns the light projection.
func (s *Shadow) Projection() mgl32.Mat4 { return s.proj }

// FrustumHeight returns far - near of a point light, used to normalize the
// stored distances. It is zero for Uni shadows.
func (s *Shadow) FrustumHeight() float32 { return s.frustumHeight }

// LightSpace returns the world to light clip transform of a Uni shadow,
// or the first cube face of an Omni shadow.
func (s *Shadow) LightSpace() mgl32.Mat4 { return s.lightSpaces[0] }

// LightSpaces returns every light-space transform: six for Omni, one for Uni.
func (s *Shadow) LightSpaces() []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(s.lightSpaces))
	copy(out, s.lightSpaces)
	return out
}

// SetOrtho replaces the projection of a directional shadow. The light-space
// transform is refreshed on the next MoveLight.
func (s *Shadow) SetOrtho(box OrthoBox) error {
	if s.kind != Uni {
		return fault.New(fault.InvalidState, "shadow.SetOrtho", "%s shadow has no ortho box", s.kind)
	}
	if box.Right <= box.Left || box.Top <= box.Bottom || box.Far <= box.Near {
		return fault.New(fault.InvalidInput, "shadow.SetOrtho", "degenerate ortho box %+v", box)
	}
	s.proj = box.Projection()
	return nil
}

// MoveLight places the light. Omni shadows use only pos; Uni shadows look
// from pos along front with the given up vector. If up is parallel to
// front a perpendicular one is chosen.
func (s *Shadow) MoveLight(pos, front, up mgl32.Vec3) error {
	s.lightPos = pos
	switch s.kind {
	case Omni:
		faces := CubeFaceLightSpaces(s.proj, pos)
		copy(s.lightSpaces, faces[:])
	case Uni:
		if front.Len() == 0 {
			return fault.New(fault.InvalidInput, "shadow.MoveLight", "zero light direction")
		}
		up = safeUp(front.Normalize(), up)
		s.lightSpaces[0] = s.proj.Mul4(mgl32.LookAtV(pos, pos.Add(front), up))
	}
	s.upload()
	return s.prog.Err()
}

// upload sends the current light-space state to the depth program.
func (s *Shadow) upload() {
	s.prog.Use()
	switch s.kind {
	case Omni:
		for i, m := range s.lightSpaces {
			s.prog.SetMat4(shader.Indexed("lightSpace", i, ""), m)
		}
		s.prog.SetVec3("lightPos", s.lightPos)
		s.prog.SetFloat("frustumHeight", s.frustumHeight)
	case Uni:
		s.prog.SetMat4("lightSpace", s.lightSpaces[0])
	}
}

// CalculateShadow renders every model of list into the depth map, then
// restores prev. Nothing is drawn if the list is malformed.
func (s *Shadow) CalculateShadow(list scene.DrawList, prev Viewport) error {
	if err := list.Validate(); err != nil {
		return err
	}

	s.dev.SetCulling(true)
	s.dev.Viewport(0, 0, s.width, s.height)
	s.dev.BindFramebuffer(s.target.FBO)
	s.dev.ClearDepth()

	// Programs may be shared between lights, so the light state is
	// uploaded on every pass.
	s.upload()
	for i, m := range list.Models {
		s.prog.SetMat4("model", list.Transforms[i])
		m.DrawDepth()
	}

	s.dev.BindFramebuffer(prev.FBO)
	s.dev.Viewport(0, 0, prev.Width, prev.Height)
	s.dev.SetCulling(false)

	return s.prog.Err()
}

// BindShadowMap binds the depth texture to texture unit index unit.
func (s *Shadow) BindShadowMap(unit uint32) {
	s.dev.BindDepthTexture(s.kind, unit, s.target.Texture)
}

// Close releases the depth target.
func (s *Shadow) Close() {
	if s.target != (Target{}) {
		s.dev.DeleteTarget(s.target)
		s.target = Target{}
	}
}

var cubeFaces = [6]struct {
	dir, up mgl32.Vec3
}{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}

// CubeFaceViews returns the view transforms of the six cube map faces
// around pos, in +X, -X, +Y, -Y, +Z, -Z order.
func CubeFaceViews(pos mgl32.Vec3) [6]mgl32.Mat4 {
	var out [6]mgl32.Mat4
	for i, f := range cubeFaces {
		out[i] = mgl32.LookAtV(pos, pos.Add(f.dir), f.up)
	}
	return out
}

// CubeFaceLightSpaces returns proj times each cube face view.
func CubeFaceLightSpaces(proj mgl32.Mat4, pos mgl32.Vec3) [6]mgl32.Mat4 {
	views := CubeFaceViews(pos)
	for i := range views {
		views[i] = proj.Mul4(views[i])
	}
	return views
}

// safeUp returns up, or a perpendicular axis when up is parallel to front.
func safeUp(front, up mgl32.Vec3) mgl32.Vec3 {
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	if abs32(front.Dot(up.Normalize())) > 0.99 {
		if abs32(front[1]) > 0.99 {
			return mgl32.Vec3{0, 0, 1}
		}
		return mgl32.Vec3{0, 1, 0}
	}
	return up
}
