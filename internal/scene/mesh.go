package scene

import "github.com/go-gl/mathgl/mgl32"

// MeshData is CPU-side geometry ready for upload. Tangents may be empty.
type MeshData struct {
	Positions []float32 // xyz
	TexCoords []float32 // uv
	Normals   []float32 // xyz
	Tangents  []float32 // xyz
	Indices   []uint32
}

// VertexCount returns the number of vertices described by Positions
func (m MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

// Cube returns an axis-aligned cube of the given half extent, with per-face normals, UVs and tangents
func Cube(half float32) MeshData {
	type face struct {
		normal mgl32.Vec3
		u, v   mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	var m MeshData
	for i, f := range faces {
		for _, c := range corners {
			p := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1])).Mul(half)
			m.Positions = append(m.Positions, p.X(), p.Y(), p.Z())
			m.Normals = append(m.Normals, f.normal.X(), f.normal.Y(), f.normal.Z())
			m.TexCoords = append(m.TexCoords, (c[0]+1)/2, 1-(c[1]+1)/2)
		}
		base := uint32(i * 4)
		m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	m.Tangents = ComputeTangents(m.Positions, m.TexCoords, m.Indices)
	return m
}

// SkyboxCube returns the positions of an inward-facing cube, 36 vertices, no indices
func SkyboxCube(size float32) []float32 {
	s := size
	return []float32{
		-s, s, -s, -s, -s, -s, s, -s, -s, s, -s, -s, s, s, -s, -s, s, -s,
		-s, -s, s, -s, -s, -s, -s, s, -s, -s, s, -s, -s, s, s, -s, -s, s,
		s, -s, -s, s, -s, s, s, s, s, s, s, s, s, s, -s, s, -s, -s,
		-s, -s, s, -s, s, s, s, s, s, s, s, s, s, -s, s, -s, -s, s,
		-s, s, -s, s, s, -s, s, s, s, s, s, s, -s, s, s, -s, s, -s,
		-s, -s, -s, -s, -s, s, s, -s, -s, s, -s, -s, -s, -s, s, s, -s, s,
	}
}

// ComputeTangents derives a per-vertex tangent from triangle edges and UV deltas.
// Tangents of vertices shared by several triangles are summed and normalized.
func ComputeTangents(positions, texCoords []float32, indices []uint32) []float32 {
	tangents := make([]float32, len(positions))
	pos := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}
	uv := func(i uint32) mgl32.Vec2 {
		return mgl32.Vec2{texCoords[i*2], texCoords[i*2+1]}
	}

	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		e1 := pos(i1).Sub(pos(i0))
		e2 := pos(i2).Sub(pos(i0))
		d1 := uv(i1).Sub(uv(i0))
		d2 := uv(i2).Sub(uv(i0))

		det := d1.X()*d2.Y() - d1.Y()*d2.X()
		if det == 0 {
			continue
		}
		r := 1 / det
		tangent := e1.Mul(d2.Y()).Sub(e2.Mul(d1.Y())).Mul(r)
		for _, i := range [3]uint32{i0, i1, i2} {
			tangents[i*3] += tangent.X()
			tangents[i*3+1] += tangent.Y()
			tangents[i*3+2] += tangent.Z()
		}
	}

	for i := 0; i+2 < len(tangents); i += 3 {
		v := mgl32.Vec3{tangents[i], tangents[i+1], tangents[i+2]}
		if v.Len() == 0 {
			continue
		}
		v = v.Normalize()
		tangents[i], tangents[i+1], tangents[i+2] = v.X(), v.Y(), v.Z()
	}
	return tangents
}
