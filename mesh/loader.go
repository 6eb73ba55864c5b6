package mesh

// GmshTriangle is the gmsh element type number of the 3-node triangle
const GmshTriangle = 2

// RawMesh holds the three tables a meshing engine emits: node coordinates,
// element connectivity and physical group membership. Node tags are the
// engine's external (usually 1 based) identifiers.
type RawMesh struct {
	NodeTags []int
	Coords   []float64 // x, y, z for each entry of NodeTags

	ElementTypes    []int   // gmsh element type number per element
	ElementNodeTags [][]int // node tags per element

	GroupNodeTags map[int][]int // physical group tag -> node tags
	GroupNames    map[int]string

	FormatVersion string
}

func NewRawMesh() *RawMesh {
	return &RawMesh{
		GroupNodeTags: make(map[int][]int),
		GroupNames:    make(map[int]string),
	}
}

func (rm *RawMesh) AddNode(tag int, x, y, z float64) {
	rm.NodeTags = append(rm.NodeTags, tag)
	rm.Coords = append(rm.Coords, x, y, z)
}

// AddElement records an element and adds its nodes to each listed physical group
func (rm *RawMesh) AddElement(gmshType int, nodeTags []int, physicalTags ...int) {
	nodes := make([]int, len(nodeTags))
	copy(nodes, nodeTags)
	rm.ElementTypes = append(rm.ElementTypes, gmshType)
	rm.ElementNodeTags = append(rm.ElementNodeTags, nodes)
	for _, pt := range physicalTags {
		rm.GroupNodeTags[pt] = append(rm.GroupNodeTags[pt], nodes...)
	}
}

func (rm *RawMesh) NumNodes() int    { return len(rm.NodeTags) }
func (rm *RawMesh) NumElements() int { return len(rm.ElementTypes) }

// Loader is the narrow ingestion boundary to an external meshing engine
type Loader interface {
	Load() (*RawMesh, error)
}

type LoaderFunc func() (*RawMesh, error)

func (f LoaderFunc) Load() (*RawMesh, error) { return f() }

// Create loads the raw tables and builds the Mesh
func Create(l Loader) (m *Mesh, err error) {
	var raw *RawMesh
	if raw, err = l.Load(); err != nil {
		return
	}
	return New(raw)
}
