package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/model"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser    gltfParser
	materials gltfMaterialExtractor
}

// gltfMeshExtractor converts glTF mesh primitives into model.Mesh triangle lists.
type gltfMeshExtractor interface {
	// ExtractMesh extracts every triangle primitive of a mesh, transforming positions by world.
	// Primitives with a non-triangle mode are skipped.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh in the document
	//   - name: the name given to the produced meshes
	//   - world: the column-major node-to-model matrix
	//
	// Returns:
	//   - []model.Mesh: one mesh per triangle primitive
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int, name string, world []float32) ([]model.Mesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{
		parser:    parser,
		materials: newGLTFMaterialExtractor(parser),
	}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int, name string, world []float32) ([]model.Mesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh index %d out of range", ErrInvalidGLB, meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	if name == "" {
		name = mesh.Name
	}

	result := make([]model.Mesh, 0, len(mesh.Primitives))
	for primIdx := range mesh.Primitives {
		prim := &mesh.Primitives[primIdx]
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			continue
		}

		extracted, err := e.extractPrimitive(prim, name, world)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		result = append(result, extracted)
	}
	return result, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, name string, world []float32) (model.Mesh, error) {
	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return model.Mesh{}, fmt.Errorf("%w: primitive has no POSITION attribute", ErrInvalidGLB)
	}

	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return model.Mesh{}, fmt.Errorf("reading positions: %w", err)
	}
	for i, p := range positions {
		positions[i] = common.TransformPoint(world, p)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return model.Mesh{}, fmt.Errorf("reading indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return model.Mesh{}, fmt.Errorf("%w: index %d exceeds %d vertices", ErrInvalidGLB, idx, len(positions))
			}
		}
		indices = indices[:len(indices)/3*3]
	} else {
		positions = positions[:len(positions)/3*3]
	}

	color, err := e.materials.BaseColor(prim.Material)
	if err != nil {
		return model.Mesh{}, err
	}

	return model.Mesh{
		Name:      name,
		Positions: positions,
		Indices:   indices,
		Color:     color,
	}, nil
}
