package loader

import (
	"fmt"
	"sync"

	"scenery/internal/logger"
	"scenery/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// Vertex attribute slots shared by every mesh the loader uploads
const (
	AttribPosition uint32 = iota
	AttribTexCoord
	AttribNormal
	AttribTangent
)

// Loader uploads meshes and textures to the GPU and remembers every handle so that
// CleanUp can release them. It must be used from the GL thread.
type Loader struct {
	vaos     []uint32
	vbos     []uint32
	textures []uint32

	mu    sync.RWMutex
	cache map[string]uint32
}

func New() *Loader {
	return &Loader{cache: make(map[string]uint32)}
}

// LoadMesh uploads a mesh with an index buffer. Tangents are uploaded when present.
func (l *Loader) LoadMesh(m scene.MeshData) *scene.RawModel {
	vao := l.createVAO()
	attribs := []uint32{AttribPosition}
	l.bindIndices(m.Indices)
	l.storeAttribute(AttribPosition, 3, m.Positions)
	if len(m.TexCoords) > 0 {
		l.storeAttribute(AttribTexCoord, 2, m.TexCoords)
		attribs = append(attribs, AttribTexCoord)
	}
	if len(m.Normals) > 0 {
		l.storeAttribute(AttribNormal, 3, m.Normals)
		attribs = append(attribs, AttribNormal)
	}
	if len(m.Tangents) > 0 {
		l.storeAttribute(AttribTangent, 3, m.Tangents)
		attribs = append(attribs, AttribTangent)
	}
	gl.BindVertexArray(0)

	return &scene.RawModel{VAO: vao, VertexCount: int32(len(m.Indices)), Attributes: attribs}
}

// LoadPositions uploads bare positions for non-indexed drawing, e.g. the sky cube
func (l *Loader) LoadPositions(positions []float32, dimensions int32) *scene.RawModel {
	vao := l.createVAO()
	l.storeAttribute(AttribPosition, dimensions, positions)
	gl.BindVertexArray(0)
	return &scene.RawModel{
		VAO:         vao,
		VertexCount: int32(len(positions)) / dimensions,
		Attributes:  []uint32{AttribPosition},
	}
}

// LoadTexture returns a mipmapped texture for path, loading it on first use.
func (l *Loader) LoadTexture(path string) (uint32, error) {
	l.mu.RLock()
	if tex, ok := l.cache[path]; ok {
		l.mu.RUnlock()
		return tex, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double check locking
	if tex, ok := l.cache[path]; ok {
		return tex, nil
	}

	rgba, err := DecodeRGBAFile(path)
	if err != nil {
		return 0, err
	}
	rgba = FlipVertical(rgba)

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(rgba.Rect.Size().X),
		int32(rgba.Rect.Size().Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	l.cache[path] = texture
	l.textures = append(l.textures, texture)
	logger.Log.Debug("texture loaded", zap.String("path", path), zap.Uint32("id", texture))
	return texture, nil
}

// LoadCubeMap uploads six faces in +X, -X, +Y, -Y, +Z, -Z order
func (l *Loader) LoadCubeMap(faces [6]string) (uint32, error) {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, texture)

	for i, path := range faces {
		rgba, err := DecodeRGBAFile(path)
		if err != nil {
			gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
			gl.DeleteTextures(1, &texture)
			return 0, fmt.Errorf("cube map face %d: %w", i, err)
		}
		gl.TexImage2D(
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i),
			0,
			gl.RGBA,
			int32(rgba.Rect.Dx()),
			int32(rgba.Rect.Dy()),
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(rgba.Pix),
		)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	l.textures = append(l.textures, texture)
	return texture, nil
}

// LoadSolidTexture uploads a 1x1 texture of the given colour, used when an asset is missing
func (l *Loader) LoadSolidTexture(r, g, b, a uint8) uint32 {
	pix := []uint8{r, g, b, a}
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	l.textures = append(l.textures, texture)
	return texture
}

// LoadSolidCubeMap uploads a cube map whose six faces are one colour
func (l *Loader) LoadSolidCubeMap(r, g, b uint8) uint32 {
	pix := []uint8{r, g, b, 255}
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, texture)
	for i := uint32(0); i < 6; i++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+i, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	l.textures = append(l.textures, texture)
	return texture
}

// CleanUp deletes every buffer, vertex array and texture the loader created
func (l *Loader) CleanUp() {
	if len(l.vaos) > 0 {
		gl.DeleteVertexArrays(int32(len(l.vaos)), &l.vaos[0])
	}
	if len(l.vbos) > 0 {
		gl.DeleteBuffers(int32(len(l.vbos)), &l.vbos[0])
	}
	if len(l.textures) > 0 {
		gl.DeleteTextures(int32(len(l.textures)), &l.textures[0])
	}
	logger.Log.Debug("loader released",
		zap.Int("vaos", len(l.vaos)), zap.Int("vbos", len(l.vbos)), zap.Int("textures", len(l.textures)))
	l.vaos, l.vbos, l.textures = nil, nil, nil

	l.mu.Lock()
	clear(l.cache)
	l.mu.Unlock()
}

func (l *Loader) createVAO() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	l.vaos = append(l.vaos, vao)
	return vao
}

func (l *Loader) storeAttribute(slot uint32, size int32, data []float32) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	l.vbos = append(l.vbos, vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(slot, size, gl.FLOAT, false, size*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (l *Loader) bindIndices(indices []uint32) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	l.vbos = append(l.vbos, vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
}
