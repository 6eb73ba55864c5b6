package mesh

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gocoax/utils"
)

var (
	ErrUnknownNode       = errors.New("mesh: element references an unknown node tag")
	ErrDuplicateNode     = errors.New("mesh: duplicate node tag")
	ErrBadCoordinates    = errors.New("mesh: coordinate table does not match node tags")
	ErrBadElement        = errors.New("mesh: malformed element")
	ErrNoElements        = errors.New("mesh: no triangle elements")
	ErrEmptyGroup        = errors.New("mesh: physical group has no nodes")
	ErrUnknownGroup      = errors.New("mesh: unknown physical group")
	ErrDegenerateElement = errors.New("mesh: degenerate (zero area) element")
)

// DegenerateTol is the smallest admissible ratio of element area to the square
// of its longest edge
const DegenerateTol = 1.e-12

// Mesh is an immutable triangulated planar domain. All derived element
// quantities are computed once by New and never change afterwards.
type Mesh struct {
	nodeTags []int       // external (1 based) tag of each internal node index
	tagIndex map[int]int // external tag -> internal node index
	coords   [][2]float64
	elems    [][3]int
	dropped  int // surface elements other than 3-node triangles

	groups     map[int][]bool // physical tag -> per node membership
	groupNames map[int]string

	areas   []float64
	a, b, c [][3]float64
	edges   [][3][2]int
	unique  [][2]int
}

// New builds a Mesh from the raw tables of a meshing engine. Only 3-node
// triangles are retained, every other element type is discarded after its
// nodes have contributed to the physical groups.
func New(raw *RawMesh) (m *Mesh, err error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil raw mesh", ErrBadCoordinates)
	}
	var (
		Nv = len(raw.NodeTags)
	)
	if len(raw.Coords) != 3*Nv {
		return nil, fmt.Errorf("%w: %d node tags, %d coordinate values", ErrBadCoordinates, Nv, len(raw.Coords))
	}
	if len(raw.ElementTypes) != len(raw.ElementNodeTags) {
		return nil, fmt.Errorf("%w: %d element types, %d connectivity rows",
			ErrBadElement, len(raw.ElementTypes), len(raw.ElementNodeTags))
	}
	m = &Mesh{
		nodeTags:   make([]int, Nv),
		tagIndex:   make(map[int]int, Nv),
		coords:     make([][2]float64, Nv),
		groups:     make(map[int][]bool, len(raw.GroupNodeTags)),
		groupNames: make(map[int]string, len(raw.GroupNames)),
	}
	if err = m.readNodes(raw); err != nil {
		return nil, err
	}
	if err = m.readElements(raw); err != nil {
		return nil, err
	}
	if err = m.readGroups(raw); err != nil {
		return nil, err
	}
	if err = m.computeElementData(); err != nil {
		return nil, err
	}
	m.computeEdges()
	return
}

// Internal indices follow the order of ascending node tag
func (m *Mesh) readNodes(raw *RawMesh) error {
	order := make([]int, len(raw.NodeTags))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return raw.NodeTags[order[i]] < raw.NodeTags[order[j]]
	})
	for idx, k := range order {
		tag := raw.NodeTags[k]
		if _, dup := m.tagIndex[tag]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateNode, tag)
		}
		m.tagIndex[tag] = idx
		m.nodeTags[idx] = tag
		m.coords[idx] = [2]float64{raw.Coords[3*k], raw.Coords[3*k+1]}
	}
	return nil
}

func (m *Mesh) readElements(raw *RawMesh) error {
	for k, gmshType := range raw.ElementTypes {
		if gmshType != GmshTriangle {
			if ElementTypeOf(gmshType).GetDimension() == 2 {
				m.dropped++
			}
			continue
		}
		tags := raw.ElementNodeTags[k]
		if len(tags) != 3 {
			return fmt.Errorf("%w: triangle %d has %d nodes", ErrBadElement, k, len(tags))
		}
		var tri [3]int
		for n, tag := range tags {
			idx, ok := m.tagIndex[tag]
			if !ok {
				return fmt.Errorf("%w: element %d, node tag %d", ErrUnknownNode, k, tag)
			}
			tri[n] = idx
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			return fmt.Errorf("%w: triangle %d repeats a node: %v", ErrBadElement, k, tags)
		}
		m.elems = append(m.elems, tri)
	}
	if len(m.elems) == 0 {
		return ErrNoElements
	}
	return nil
}

func (m *Mesh) readGroups(raw *RawMesh) error {
	for tag, nodeTags := range raw.GroupNodeTags {
		if len(nodeTags) == 0 {
			return fmt.Errorf("%w: %d", ErrEmptyGroup, tag)
		}
		member := make([]bool, len(m.coords))
		for _, nt := range nodeTags {
			idx, ok := m.tagIndex[nt]
			if !ok {
				return fmt.Errorf("%w: group %d, node tag %d", ErrUnknownNode, tag, nt)
			}
			member[idx] = true
		}
		m.groups[tag] = member
	}
	for tag, name := range raw.GroupNames {
		m.groupNames[tag] = name
	}
	return nil
}

func (m *Mesh) computeElementData() error {
	var (
		K = len(m.elems)
	)
	m.areas = make([]float64, K)
	m.a = make([][3]float64, K)
	m.b = make([][3]float64, K)
	m.c = make([][3]float64, K)
	for k, tri := range m.elems {
		p, q, r := m.coords[tri[0]], m.coords[tri[1]], m.coords[tri[2]]
		area := TriangleArea(p, q, r)
		longest := math.Max(dist2(p, q), math.Max(dist2(q, r), dist2(r, p)))
		if math.IsNaN(area) || area <= DegenerateTol*longest {
			return fmt.Errorf("%w: element %d, area %g", ErrDegenerateElement, k, area)
		}
		m.areas[k] = area
		// Vertex 1 from (2,3), vertex 2 from (3,1), vertex 3 from (1,2)
		for i := 0; i < 3; i++ {
			m.a[k][i], m.b[k][i], m.c[k][i] = ShapeCoefficientsOf(
				m.coords[tri[(i+1)%3]], m.coords[tri[(i+2)%3]])
		}
	}
	return nil
}

func (m *Mesh) computeEdges() {
	var (
		seen = make(map[[2]int]struct{}, 3*len(m.elems)/2)
	)
	m.edges = make([][3][2]int, len(m.elems))
	for k, tri := range m.elems {
		m.edges[k] = [3][2]int{
			{tri[0], tri[1]},
			{tri[1], tri[2]},
			{tri[0], tri[2]},
		}
		for _, e := range m.edges[k] {
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			if _, ok := seen[e]; !ok {
				seen[e] = struct{}{}
				m.unique = append(m.unique, e)
			}
		}
	}
	sort.Slice(m.unique, func(i, j int) bool {
		if m.unique[i][0] != m.unique[j][0] {
			return m.unique[i][0] < m.unique[j][0]
		}
		return m.unique[i][1] < m.unique[j][1]
	})
}

func (m *Mesh) NumNodes() int    { return len(m.coords) }
func (m *Mesh) NumElements() int { return len(m.elems) }

// NodeCoords returns a copy of the (x, y) coordinates by internal node index
func (m *Mesh) NodeCoords() [][2]float64 {
	out := make([][2]float64, len(m.coords))
	copy(out, m.coords)
	return out
}

func (m *Mesh) NodeCoord(i int) [2]float64 { return m.coords[i] }

// Elements returns a copy of the element to node connectivity
func (m *Mesh) Elements() [][3]int {
	out := make([][3]int, len(m.elems))
	copy(out, m.elems)
	return out
}

func (m *Mesh) Element(k int) [3]int { return m.elems[k] }

// NodeTags returns the external tag of every internal node index
func (m *Mesh) NodeTags() []int {
	out := make([]int, len(m.nodeTags))
	copy(out, m.nodeTags)
	return out
}

func (m *Mesh) NodeIndex(tag int) (idx int, ok bool) {
	idx, ok = m.tagIndex[tag]
	return
}

// GroupTags lists the physical group tags in ascending order
func (m *Mesh) GroupTags() (tags []int) {
	for tag := range m.groups {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	return
}

func (m *Mesh) GroupName(tag int) string {
	if name, ok := m.groupNames[tag]; ok {
		return name
	}
	return fmt.Sprintf("group_%d", tag)
}

// NodesInGroup returns the sorted node indices of a physical group
func (m *Mesh) NodesInGroup(tag int) (nodes []int, err error) {
	member, ok := m.groups[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGroup, tag)
	}
	for i, in := range member {
		if in {
			nodes = append(nodes, i)
		}
	}
	return
}

// ElementInGroup marks each element whose three nodes all belong to the group.
// An element touching the group with only one or two nodes is not in it.
func (m *Mesh) ElementInGroup(tag int) (in []bool, err error) {
	member, ok := m.groups[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGroup, tag)
	}
	in = make([]bool, len(m.elems))
	for k, tri := range m.elems {
		in[k] = member[tri[0]] && member[tri[1]] && member[tri[2]]
	}
	return
}

func (m *Mesh) ElementArea(k int) float64 { return m.areas[k] }

// ElementAreas returns a copy of all element areas
func (m *Mesh) ElementAreas() []float64 {
	out := make([]float64, len(m.areas))
	copy(out, m.areas)
	return out
}

// ShapeCoefficients returns the a, b and c coefficients of the three linear
// shape functions N_i = (a_i + b_i*x + c_i*y)/(2*S) of element k
func (m *Mesh) ShapeCoefficients(k int) (a, b, c [3]float64) {
	return m.a[k], m.b[k], m.c[k]
}

// Edges returns the local edges (0,1), (1,2), (0,2) of element k as node indices
func (m *Mesh) Edges(k int) [3][2]int { return m.edges[k] }

// UniqueEdges returns every undirected edge once, as sorted node index pairs
func (m *Mesh) UniqueEdges() [][2]int {
	out := make([][2]int, len(m.unique))
	copy(out, m.unique)
	return out
}

// TriangleArea is half the magnitude of (Q-P)x(R-P), independent of winding
func TriangleArea(p, q, r [2]float64) float64 {
	ax, ay := q[0]-p[0], q[1]-p[1]
	bx, by := r[0]-p[0], r[1]-p[1]
	return 0.5 * math.Abs(ax*by-ay*bx)
}

// ShapeCoefficientsOf computes the coefficients of the vertex opposite to the edge (pj, pk)
func ShapeCoefficientsOf(pj, pk [2]float64) (a, b, c float64) {
	xj, yj := pj[0], pj[1]
	xk, yk := pk[0], pk[1]
	a = xj*yk - xk*yj
	b = yj - yk
	c = xk - xj
	return
}

func dist2(p, q [2]float64) float64 {
	dx, dy := q[0]-p[0], q[1]-p[1]
	return dx*dx + dy*dy
}

// DroppedSurfaceElements counts the quads and higher order triangles New
// discarded, their area is missing from the domain
func (m *Mesh) DroppedSurfaceElements() int { return m.dropped }

// ElementTypeOf reports our element type for a gmsh element type number
func ElementTypeOf(gmshType int) utils.ElementType {
	if et, ok := utils.GmshElementType[gmshType]; ok {
		return et
	}
	return utils.Unknown
}
