package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-cube/internal/engine/geometry"
	"github.com/Faultbox/midgard-cube/internal/engine/renderer"
)

// bindingsPerGroup is the number of uniform buffer binding points reserved
// for each bind group.
const bindingsPerGroup = 4

// uniformBinding maps a (group, binding) pair onto a GL uniform buffer
// binding point.
func uniformBinding(group, binding int) uint32 {
	return uint32(group*bindingsPerGroup + binding)
}

// textureUnit is the texture unit a bind group's texture and sampler use.
// GL pairs samplers with texture units, so each group holds at most one of each.
func textureUnit(group int) uint32 {
	return uint32(group)
}

// checkLayout rejects layouts the unit-per-group scheme cannot express.
func checkLayout(desc renderer.BindGroupLayoutDesc) error {
	var textures, samplers int
	seen := make(map[int]bool, len(desc.Entries))
	for _, e := range desc.Entries {
		if seen[e.Binding] {
			return fmt.Errorf("layout %q: duplicate binding %d", desc.Label, e.Binding)
		}
		seen[e.Binding] = true

		switch e.Type {
		case renderer.BindingTexture:
			textures++
			if e.Name == "" {
				return fmt.Errorf("layout %q: texture binding %d has no name", desc.Label, e.Binding)
			}
		case renderer.BindingSampler:
			samplers++
		case renderer.BindingUniformBuffer:
			if e.Binding >= bindingsPerGroup {
				return fmt.Errorf("layout %q: uniform binding %d out of range", desc.Label, e.Binding)
			}
			if e.Name == "" {
				return fmt.Errorf("layout %q: uniform binding %d has no name", desc.Label, e.Binding)
			}
		default:
			return fmt.Errorf("layout %q: unknown binding type %d", desc.Label, e.Type)
		}
	}
	if textures > 1 || samplers > 1 {
		return fmt.Errorf("layout %q: at most one texture and one sampler per group", desc.Label)
	}
	return nil
}

func glFilter(f renderer.FilterMode) int32 {
	if f == renderer.FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func glTopology(t renderer.Topology) uint32 {
	if t == renderer.TopologyTriangleStrip {
		return gl.TRIANGLE_STRIP
	}
	return gl.TRIANGLES
}

func glFrontFace(f renderer.FrontFace) uint32 {
	if f == renderer.FrontFaceCW {
		return gl.CW
	}
	return gl.CCW
}

// glCullFace returns the face to cull and whether culling is enabled.
func glCullFace(c renderer.CullMode) (uint32, bool) {
	switch c {
	case renderer.CullFront:
		return gl.FRONT, true
	case renderer.CullBack:
		return gl.BACK, true
	}
	return 0, false
}

// glIndexType returns the GL element type and its size in bytes.
func glIndexType(f renderer.IndexFormat) (uint32, int) {
	if f == renderer.IndexFormatUint32 {
		return gl.UNSIGNED_INT, 4
	}
	return gl.UNSIGNED_SHORT, 2
}

func glBufferUsage(u renderer.BufferUsage) uint32 {
	if u&renderer.BufferUsageCopyDst != 0 {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

// glAttribute returns the component count and type of a vertex format.
func glAttribute(f geometry.VertexFormat) (int32, uint32) {
	return int32(f.Components()), gl.FLOAT
}
