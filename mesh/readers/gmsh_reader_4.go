package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gocoax/mesh"
	"github.com/notargets/gocoax/utils"
)

// entityKey identifies a geometric entity by dimension and tag
type entityKey struct {
	Dimension int
	Tag       int
}

// ReadGmsh4 reads a Gmsh MSH file format version 4.x
func ReadGmsh4(filename string) (*mesh.RawMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	msh := mesh.NewRawMesh()

	// Physical tags of each geometric entity, elements inherit them
	entities := make(map[entityKey][]int)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "$MeshFormat":
			if err := readMeshFormat(scanner, msh); err != nil {
				return nil, err
			}

		case "$PhysicalNames":
			if err := readPhysicalNames(scanner, msh); err != nil {
				return nil, err
			}

		case "$Entities":
			if err := readEntities4(scanner, entities); err != nil {
				return nil, err
			}

		case "$Nodes":
			if err := readNodes4(scanner, msh); err != nil {
				return nil, err
			}

		case "$Elements":
			if err := readElements4(scanner, msh, entities); err != nil {
				return nil, err
			}

		case "$PartitionedEntities", "$Periodic", "$GhostElements", "$Parametrizations",
			"$NodeData", "$ElementData", "$ElementNodeData":
			if err := skipSection(scanner, "$End"+line[1:]); err != nil {
				return nil, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}

	return msh, nil
}

// readEntities4 reads the Entities section (new in v4). Points are
// "tag x y z numPhysicalTags physicalTag...", curves and surfaces carry a
// bounding box "tag minX minY minZ maxX maxY maxZ numPhysicalTags ..."
func readEntities4(scanner *bufio.Scanner, entities map[entityKey][]int) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Entities")
	}

	// Read counts: numPoints numCurves numSurfaces numVolumes
	counts, err := parseInts(strings.Fields(scanner.Text()))
	if err != nil || len(counts) < 4 {
		return fmt.Errorf("invalid entity counts")
	}
	for dim := 0; dim < 4; dim++ {
		if err = checkCount(fmt.Sprintf("dimension %d entity count", dim), counts[dim]); err != nil {
			return err
		}
	}

	for dim := 0; dim < 4; dim++ {
		physPos := 7
		if dim == 0 {
			physPos = 4
		}
		for i := 0; i < counts[dim]; i++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading dimension %d entity", dim)
			}

			fields := strings.Fields(scanner.Text())
			if len(fields) < physPos {
				return fmt.Errorf("invalid dimension %d entity: %s", dim, scanner.Text())
			}

			tag, err := strconv.Atoi(fields[0])
			if err != nil {
				return fmt.Errorf("invalid entity tag %q", fields[0])
			}

			// Physical tags
			var physical []int
			if physPos < len(fields) {
				numPhysTags, err := strconv.Atoi(fields[physPos])
				if err != nil {
					return fmt.Errorf("entity %d: invalid physical tag count %q", tag, fields[physPos])
				}
				if err = checkCount(fmt.Sprintf("physical tag count on entity %d", tag), numPhysTags); err != nil {
					return err
				}
				if physPos+1+numPhysTags > len(fields) {
					return fmt.Errorf("entity %d: truncated physical tags", tag)
				}
				if physical, err = parseInts(fields[physPos+1 : physPos+1+numPhysTags]); err != nil {
					return fmt.Errorf("entity %d: %v", tag, err)
				}
			}
			entities[entityKey{dim, tag}] = physical
		}
	}

	return skipSection(scanner, "$EndEntities")
}

// readNodes4 reads nodes in v4 format. Each block lists its node tags first,
// then one coordinate line per node.
func readNodes4(scanner *bufio.Scanner, msh *mesh.RawMesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}

	// Format: numEntityBlocks numNodes minNodeTag maxNodeTag
	header, err := parseInts(strings.Fields(scanner.Text()))
	if err != nil || len(header) < 4 {
		return fmt.Errorf("invalid Nodes header")
	}

	numEntityBlocks := header[0]
	if err = checkCount("entity block count", numEntityBlocks); err != nil {
		return err
	}

	// Read entity blocks
	for i := 0; i < numEntityBlocks; i++ {
		// Read entity info: entityDim entityTag parametric numNodes
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in node entity block %d", i)
		}

		blockHeader, err := parseInts(strings.Fields(scanner.Text()))
		if err != nil || len(blockHeader) < 4 {
			return fmt.Errorf("invalid node block header")
		}

		numNodesInBlock := blockHeader[3]
		if err = checkCount(fmt.Sprintf("node count in block %d", i), numNodesInBlock); err != nil {
			return err
		}

		// Read node tags
		nodeTags := make([]int, numNodesInBlock)
		for j := 0; j < numNodesInBlock; j++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading node tags")
			}
			if nodeTags[j], err = strconv.Atoi(strings.TrimSpace(scanner.Text())); err != nil {
				return fmt.Errorf("invalid node tag %q", scanner.Text())
			}
		}

		// Read node coordinates, parametric coordinates after them are ignored
		for j := 0; j < numNodesInBlock; j++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading node coordinates")
			}

			x, y, z, err := parseCoords(strings.Fields(scanner.Text()))
			if err != nil {
				return fmt.Errorf("node %d: %v", nodeTags[j], err)
			}
			msh.AddNode(nodeTags[j], x, y, z)
		}
	}

	return skipSection(scanner, "$EndNodes")
}

// readElements4 reads elements in v4 format
func readElements4(scanner *bufio.Scanner, msh *mesh.RawMesh, entities map[entityKey][]int) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}

	// Format: numEntityBlocks numElements minElementTag maxElementTag
	header, err := parseInts(strings.Fields(scanner.Text()))
	if err != nil || len(header) < 4 {
		return fmt.Errorf("invalid Elements header")
	}

	numEntityBlocks := header[0]
	if err = checkCount("entity block count", numEntityBlocks); err != nil {
		return err
	}

	// Read entity blocks
	for i := 0; i < numEntityBlocks; i++ {
		// Read entity info: entityDim entityTag elementType numElements
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in element entity block %d", i)
		}

		blockHeader, err := parseInts(strings.Fields(scanner.Text()))
		if err != nil || len(blockHeader) < 4 {
			return fmt.Errorf("invalid element block header")
		}

		entityDim, entityTag := blockHeader[0], blockHeader[1]
		gmshType, numElemsInBlock := blockHeader[2], blockHeader[3]
		if err = checkCount(fmt.Sprintf("element count in block %d", i), numElemsInBlock); err != nil {
			return err
		}

		// Get physical tags from entity
		physical := entities[entityKey{entityDim, entityTag}]

		var (
			etype, known  = utils.GmshElementType[gmshType]
			expectedNodes = -1
		)
		if known {
			expectedNodes = etype.GetNumNodes()
		}

		for j := 0; j < numElemsInBlock; j++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading elements")
			}

			vals, err := parseInts(strings.Fields(scanner.Text()))
			if err != nil || len(vals) < 2 {
				return fmt.Errorf("invalid element line: %s", scanner.Text())
			}

			nodeIDs := vals[1:]
			if expectedNodes > 0 && len(nodeIDs) != expectedNodes {
				return fmt.Errorf("%w: element %d of type %s: expected %d nodes, got %d",
					ErrMalformed, vals[0], etype, expectedNodes, len(nodeIDs))
			}

			msh.AddElement(gmshType, nodeIDs, physical...)
		}
	}

	return skipSection(scanner, "$EndElements")
}
