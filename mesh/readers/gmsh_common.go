package readers

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/gocoax/mesh"
)

var (
	ErrUnsupportedFormat = errors.New("readers: unsupported mesh format")
	ErrBinaryFormat      = errors.New("readers: binary gmsh files are not supported")
	ErrMalformed         = errors.New("readers: malformed mesh file")
)

// checkCount rejects negative counts read from a section header
func checkCount(what string, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative %s %d", ErrMalformed, what, n)
	}
	return nil
}

// File returns a Loader reading the named mesh file
func File(filename string) mesh.Loader {
	return mesh.LoaderFunc(func() (*mesh.RawMesh, error) {
		return ReadMeshFile(filename)
	})
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*mesh.RawMesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".msh":
		return ReadGmshAuto(filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ReadGmshAuto automatically detects the Gmsh format version and reads the file
func ReadGmshAuto(filename string) (*mesh.RawMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var version string

	// Look for $MeshFormat section to determine version
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "$MeshFormat" {
			if scanner.Scan() {
				parts := strings.Fields(scanner.Text())
				if len(parts) > 0 {
					version = parts[0]
					break
				}
			}
		}
	}

	file.Close()

	// Determine which reader to use based on version
	if strings.HasPrefix(version, "4.") {
		return ReadGmsh4(filename)
	} else if strings.HasPrefix(version, "2.") {
		return ReadGmsh22(filename)
	} else if version == "" {
		return nil, fmt.Errorf("could not find $MeshFormat section")
	} else {
		return nil, fmt.Errorf("%w: gmsh version %s", ErrUnsupportedFormat, version)
	}
}

// readMeshFormat reads the MeshFormat section, common to v2.2 and v4
func readMeshFormat(scanner *bufio.Scanner, msh *mesh.RawMesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}

	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}

	msh.FormatVersion = parts[0]
	if fileType, _ := strconv.Atoi(parts[1]); fileType == 1 {
		return ErrBinaryFormat
	}

	return skipSection(scanner, "$EndMeshFormat")
}

// readPhysicalNames reads physical group names (common to v2.2 and v4)
func readPhysicalNames(scanner *bufio.Scanner, msh *mesh.RawMesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in PhysicalNames")
	}

	numNames, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid PhysicalNames count: %v", err)
	}
	if err = checkCount("physical name count", numNames); err != nil {
		return err
	}

	for i := 0; i < numNames; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading physical names")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return fmt.Errorf("invalid physical name line: %s", scanner.Text())
		}
		tag, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("invalid physical tag %q: %v", parts[1], err)
		}
		// Join remaining parts if name contains spaces
		name := strings.Trim(strings.Join(parts[2:], " "), "\"")
		msh.GroupNames[tag] = name
	}

	return skipSection(scanner, "$EndPhysicalNames")
}

func skipSection(scanner *bufio.Scanner, endMarker string) error {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endMarker {
			return nil
		}
	}
	return fmt.Errorf("unexpected EOF while looking for %s", endMarker)
}

// parseInts converts every field, failing on the first malformed one
func parseInts(fields []string) (vals []int, err error) {
	vals = make([]int, len(fields))
	for i, f := range fields {
		if vals[i], err = strconv.Atoi(f); err != nil {
			return nil, fmt.Errorf("invalid integer %q", f)
		}
	}
	return
}

func parseCoords(fields []string) (x, y, z float64, err error) {
	if len(fields) < 3 {
		err = fmt.Errorf("expected 3 coordinates, got %d", len(fields))
		return
	}
	var v [3]float64
	for k := 0; k < 3; k++ {
		if v[k], err = strconv.ParseFloat(fields[k], 64); err != nil {
			err = fmt.Errorf("invalid coordinate %q", fields[k])
			return
		}
	}
	return v[0], v[1], v[2], nil
}
