// Package geometry holds the static cube mesh and its vertex memory layout.
package geometry

import (
	"encoding/binary"
	"math"
)

// Vertex is a single cube corner as seen by the vertex shader.
type Vertex struct {
	Position  [3]float32
	TexCoords [2]float32
}

// VertexFormat describes the type of a vertex attribute.
type VertexFormat int

const (
	Float32x2 VertexFormat = iota
	Float32x3
)

// Components returns the number of float32 components in the format.
func (f VertexFormat) Components() int {
	switch f {
	case Float32x2:
		return 2
	case Float32x3:
		return 3
	}
	return 0
}

// Size returns the size of the format in bytes.
func (f VertexFormat) Size() int {
	return f.Components() * 4
}

// VertexAttribute maps a byte range of a vertex to a shader input location.
type VertexAttribute struct {
	Location int
	Offset   int
	Format   VertexFormat
}

// VertexLayout describes how a vertex buffer is read by the pipeline.
type VertexLayout struct {
	Stride     int
	Attributes []VertexAttribute
}

// VertexSize is the size of one encoded Vertex in bytes.
const VertexSize = 5 * 4

// Layout returns the layout of a buffer of Vertex values:
// location 0 is the position, location 1 the texture coordinate.
func Layout() VertexLayout {
	return VertexLayout{
		Stride: VertexSize,
		Attributes: []VertexAttribute{
			{Location: 0, Offset: 0, Format: Float32x3},
			{Location: 1, Offset: Float32x3.Size(), Format: Float32x2},
		},
	}
}

// Vertices are the eight corners of a cube spanning [-1, 1] on every axis.
var Vertices = [8]Vertex{
	{Position: [3]float32{-1, 1, -1}, TexCoords: [2]float32{0, 0}},
	{Position: [3]float32{1, 1, -1}, TexCoords: [2]float32{1, 0}},
	{Position: [3]float32{-1, -1, -1}, TexCoords: [2]float32{0, 1}},
	{Position: [3]float32{1, -1, -1}, TexCoords: [2]float32{1, 1}},
	{Position: [3]float32{-1, 1, 1}, TexCoords: [2]float32{1, 0}},
	{Position: [3]float32{1, 1, 1}, TexCoords: [2]float32{0, 0}},
	{Position: [3]float32{-1, -1, 1}, TexCoords: [2]float32{1, 1}},
	{Position: [3]float32{1, -1, 1}, TexCoords: [2]float32{0, 1}},
}

// Indices group Vertices into 12 triangles, two per face.
var Indices = [36]uint16{
	0, 1, 2, 2, 1, 3, // -Z
	4, 0, 6, 6, 0, 2, // -X
	7, 5, 6, 6, 5, 4, // +Z
	3, 1, 7, 7, 1, 5, // +X
	4, 5, 0, 0, 5, 1, // +Y
	3, 7, 2, 2, 7, 6, // -Y
}

// IndexCount is the number of indices drawn per frame.
const IndexCount = len(Indices)

// VertexBytes returns Vertices encoded as tightly packed little-endian floats.
func VertexBytes() []byte {
	b := make([]byte, 0, len(Vertices)*VertexSize)
	for _, v := range Vertices {
		for _, f := range v.Position {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
		}
		for _, f := range v.TexCoords {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
		}
	}
	return b
}

// IndexBytes returns Indices encoded as little-endian uint16 values.
func IndexBytes() []byte {
	b := make([]byte, 0, len(Indices)*2)
	for _, i := range Indices {
		b = binary.LittleEndian.AppendUint16(b, i)
	}
	return b
}
