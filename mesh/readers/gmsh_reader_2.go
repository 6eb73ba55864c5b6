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

// ReadGmsh22 reads a Gmsh MSH file format version 2.2
func ReadGmsh22(filename string) (*mesh.RawMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	msh := mesh.NewRawMesh()

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

		case "$Nodes":
			if err := readNodes22(scanner, msh); err != nil {
				return nil, err
			}

		case "$Elements":
			if err := readElements22(scanner, msh); err != nil {
				return nil, err
			}

		case "$Periodic", "$NodeData", "$ElementData", "$ElementNodeData":
			// Skip data sections
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

// readNodes22 reads nodes in v2.2 format
func readNodes22(scanner *bufio.Scanner, msh *mesh.RawMesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}

	numNodes, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid node count: %v", err)
	}
	if err = checkCount("node count", numNodes); err != nil {
		return err
	}

	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading nodes")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("invalid node line: %s", scanner.Text())
		}

		nodeID, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("invalid node tag %q", parts[0])
		}
		x, y, z, err := parseCoords(parts[1:])
		if err != nil {
			return fmt.Errorf("node %d: %v", nodeID, err)
		}

		msh.AddNode(nodeID, x, y, z)
	}

	return skipSection(scanner, "$EndNodes")
}

// readElements22 reads elements in v2.2 format:
// elm-number elm-type number-of-tags <tags> node-number-list
func readElements22(scanner *bufio.Scanner, msh *mesh.RawMesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}

	numElements, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid element count: %v", err)
	}
	if err = checkCount("element count", numElements); err != nil {
		return err
	}

	for i := 0; i < numElements; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading elements")
		}

		vals, err := parseInts(strings.Fields(scanner.Text()))
		if err != nil {
			return fmt.Errorf("element line %d: %v", i+1, err)
		}
		if len(vals) < 3 {
			return fmt.Errorf("invalid element line")
		}

		elemID, gmshType, numTags := vals[0], vals[1], vals[2]
		if err = checkCount(fmt.Sprintf("tag count on element %d", elemID), numTags); err != nil {
			return err
		}
		if len(vals) < 3+numTags {
			return fmt.Errorf("element %d: invalid element tags", elemID)
		}
		nodeIDs := vals[3+numTags:]

		// Unknown types carry no fixed node count, keep their nodes for groups only
		if etype, ok := utils.GmshElementType[gmshType]; ok {
			if expected := etype.GetNumNodes(); len(nodeIDs) != expected {
				return fmt.Errorf("%w: element %d of type %s: expected %d nodes, got %d",
					ErrMalformed, elemID, etype, expected, len(nodeIDs))
			}
		}

		// The first tag is the physical group, zero means none
		var physical []int
		if numTags > 0 && vals[3] != 0 {
			physical = append(physical, vals[3])
		}

		msh.AddElement(gmshType, nodeIDs, physical...)
	}

	return skipSection(scanner, "$EndElements")
}
