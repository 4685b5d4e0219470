package graphics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLContext wraps the global OpenGL pipeline state the renderer mutates each frame.
// It must only be used from the thread that owns the GL context.
type GLContext struct {
	major, minor int
}

// NewGLContext queries the driver version. gl.Init must already have succeeded.
func NewGLContext() (*GLContext, error) {
	version := gl.GoStr(gl.GetString(gl.VERSION))
	major, minor, err := ParseGLVersion(version)
	if err != nil {
		return nil, err
	}
	return &GLContext{major: major, minor: minor}, nil
}

// ParseGLVersion extracts major.minor from a GL_VERSION string such as
// "4.1 INTEL-18.8.4" or "OpenGL ES 3.2 Mesa 23.0".
func ParseGLVersion(s string) (int, int, error) {
	for _, field := range strings.Fields(s) {
		parts := strings.SplitN(field, ".", 3)
		if len(parts) < 2 {
			continue
		}
		major, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		minor, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		return major, minor, nil
	}
	return 0, 0, fmt.Errorf("unrecognised GL version %q", s)
}

// Version returns the context's major and minor version
func (c *GLContext) Version() (int, int) {
	return c.major, c.minor
}

func (c *GLContext) atLeast(major, minor int) bool {
	return c.major > major || (c.major == major && c.minor >= minor)
}

// EnableDepthTest turns on depth testing
func (c *GLContext) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
}

// Clear clears the colour and depth buffers
func (c *GLContext) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ClearColor sets the colour used by Clear
func (c *GLContext) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

// SupportsCulling reports whether face culling is available (GL 1.1+)
func (c *GLContext) SupportsCulling() bool {
	return c.atLeast(1, 1)
}

// EnableCulling culls back faces
func (c *GLContext) EnableCulling() {
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
}

// DisableCulling draws both faces
func (c *GLContext) DisableCulling() {
	gl.Disable(gl.CULL_FACE)
}

// EnableClipPlane enables user clip distance 0, read by the lit shaders' plane uniform
func (c *GLContext) EnableClipPlane() {
	gl.Enable(gl.CLIP_DISTANCE0)
}

// DisableClipPlane disables user clip distance 0
func (c *GLContext) DisableClipPlane() {
	gl.Disable(gl.CLIP_DISTANCE0)
}

// Viewport sets the drawable rectangle
func (c *GLContext) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Err drains the GL error queue and reports every pending error, nil when there is none
func (c *GLContext) Err() error {
	var errs []error
	for i := 0; i < 16; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		errs = append(errs, fmt.Errorf("gl error 0x%04x (%s)", code, glErrorName(code)))
	}
	return errors.Join(errs...)
}

func glErrorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	default:
		return "unknown"
	}
}
