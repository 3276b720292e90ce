// Package shaders provides embedded GLSL shader sources.
package shaders

import (
	_ "embed"
	"fmt"
)

// CubeVertexShader transforms cube vertices by the camera matrix.
//
//go:embed cube.vert
var CubeVertexShader string

// CubeFragmentShader samples the diffuse texture.
//
//go:embed cube.frag
var CubeFragmentShader string

// Source returns the vertex and fragment sources of a named shader module.
func Source(module string) (vertex, fragment string, err error) {
	switch module {
	case "cube":
		return CubeVertexShader, CubeFragmentShader, nil
	}
	return "", "", fmt.Errorf("unknown shader module %q", module)
}
