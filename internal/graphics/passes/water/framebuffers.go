package water

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Off-screen target sizes. Reflections are blurred by the distortion anyway, so a
// small target is enough.
const (
	ReflectionWidth  = 320
	ReflectionHeight = 180
	RefractionWidth  = 1280
	RefractionHeight = 720
)

// FrameBuffers holds the two off-screen targets the scene is rendered into before the
// water is drawn: the mirrored view above the surface and the view below it.
type FrameBuffers struct {
	reflectionFBO     uint32
	reflectionTexture uint32
	reflectionDepth   uint32 // renderbuffer

	refractionFBO     uint32
	refractionTexture uint32
	refractionDepth   uint32 // texture, sampled for soft shore edges
}

// NewFrameBuffers creates both targets and checks that the driver accepts them
func NewFrameBuffers() (*FrameBuffers, error) {
	f := &FrameBuffers{}

	f.reflectionFBO = createFrameBuffer()
	f.reflectionTexture = createTextureAttachment(ReflectionWidth, ReflectionHeight)
	f.reflectionDepth = createDepthBufferAttachment(ReflectionWidth, ReflectionHeight)
	if err := checkComplete("reflection"); err != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		f.CleanUp()
		return nil, err
	}

	f.refractionFBO = createFrameBuffer()
	f.refractionTexture = createTextureAttachment(RefractionWidth, RefractionHeight)
	f.refractionDepth = createDepthTextureAttachment(RefractionWidth, RefractionHeight)
	if err := checkComplete("refraction"); err != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		f.CleanUp()
		return nil, err
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return f, nil
}

// BindReflection directs drawing into the reflection target
func (f *FrameBuffers) BindReflection() {
	bind(f.reflectionFBO, ReflectionWidth, ReflectionHeight)
}

// BindRefraction directs drawing into the refraction target
func (f *FrameBuffers) BindRefraction() {
	bind(f.refractionFBO, RefractionWidth, RefractionHeight)
}

// Unbind returns to the window's framebuffer and restores its viewport
func (f *FrameBuffers) Unbind(width, height int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (f *FrameBuffers) ReflectionTexture() uint32 { return f.reflectionTexture }
func (f *FrameBuffers) RefractionTexture() uint32 { return f.refractionTexture }
func (f *FrameBuffers) RefractionDepth() uint32   { return f.refractionDepth }

// CleanUp deletes both targets. Zero handles are ignored by GL.
func (f *FrameBuffers) CleanUp() {
	fbos := []uint32{f.reflectionFBO, f.refractionFBO}
	textures := []uint32{f.reflectionTexture, f.refractionTexture, f.refractionDepth}
	gl.DeleteFramebuffers(int32(len(fbos)), &fbos[0])
	gl.DeleteTextures(int32(len(textures)), &textures[0])
	gl.DeleteRenderbuffers(1, &f.reflectionDepth)
	*f = FrameBuffers{}
}

func bind(fbo uint32, width, height int32) {
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, width, height)
}

func createFrameBuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.DrawBuffer(gl.COLOR_ATTACHMENT0)
	return fbo
}

func createTextureAttachment(width, height int32) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB, width, height, 0, gl.RGB, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, texture, 0)
	return texture
}

func createDepthTextureAttachment(width, height int32) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32, width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, texture, 0)
	return texture
}

func createDepthBufferAttachment(width, height int32) uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rb)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT, width, height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rb)
	return rb
}

func checkComplete(name string) error {
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%s framebuffer incomplete: 0x%x", name, status)
	}
	return nil
}
