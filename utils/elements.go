package utils

// ElementType represents the gmsh element types that can appear in a planar mesh

type ElementType int

const (
	Unknown ElementType = iota
	// 0D elements
	Point
	// 1D elements
	Line
	Line3 // 3-node line (quadratic)
	// 2D elements
	Triangle
	Quad
	Triangle6  // 6-node triangle (quadratic)
	Triangle9  // 9-node triangle
	Triangle10 // 10-node triangle
	Quad8      // 8-node quad (quadratic)
	Quad9      // 9-node quad
)

// String representation of element types
func (e ElementType) String() string {
	names := []string{
		"Unknown",
		"Point",
		"Line", "Line3",
		"Triangle", "Quad", "Triangle6", "Triangle9", "Triangle10", "Quad8", "Quad9",
	}
	if int(e) >= 0 && int(e) < len(names) {
		return names[e]
	}
	return "Invalid"
}

// GetDimension returns the spatial dimension of the element
func (e ElementType) GetDimension() int {
	switch e {
	case Point:
		return 0
	case Line, Line3:
		return 1
	case Triangle, Quad, Triangle6, Triangle9, Triangle10, Quad8, Quad9:
		return 2
	default:
		return -1
	}
}

// GetNumNodes returns the number of nodes for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Point:
		return 1
	case Line:
		return 2
	case Line3:
		return 3
	case Triangle:
		return 3
	case Quad:
		return 4
	case Triangle6:
		return 6
	case Triangle9:
		return 9
	case Triangle10:
		return 10
	case Quad8:
		return 8
	case Quad9:
		return 9
	default:
		return 0
	}
}

// GmshElementType maps gmsh element type numbers to our ElementType.
// Volume element numbers are absent on purpose, a planar mesh never carries them.
var GmshElementType = map[int]ElementType{
	1:  Line,       // 2-node line
	2:  Triangle,   // 3-node triangle
	3:  Quad,       // 4-node quadrangle
	8:  Line3,      // 3-node line
	9:  Triangle6,  // 6-node triangle
	10: Quad9,      // 9-node quadrangle
	15: Point,      // 1-node point
	16: Quad8,      // 8-node quadrangle
	20: Triangle9,  // 9-node triangle
	21: Triangle10, // 10-node triangle
}
