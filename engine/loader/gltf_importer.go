package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter orchestrates a glTF/GLB import: parsing, walking the node hierarchy and
// baking every node transform into model-space meshes.
type gltfImporter interface {
	// Import decodes the asset bytes into a Model.
	//
	// Parameters:
	//   - name: the model name
	//   - data: the complete glTF JSON or GLB bytes
	//   - resolve: fetches external buffers by relative URI, may be nil
	//
	// Returns:
	//   - model.Model: the imported model
	//   - error: error if import fails
	Import(name string, data []byte, resolve ResolveFunc) (model.Model, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(name string, data []byte, resolve ResolveFunc) (model.Model, error) {
	parser := newGLTFParser(resolve)
	if err := parser.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	doc := parser.Document()
	extractor := newGLTFMeshExtractor(parser)

	var identity [16]float32
	common.Identity(identity[:])

	visited := make([]bool, len(doc.Nodes))
	var meshes []model.Mesh

	var walk func(nodeIndex int, parent []float32) error
	walk = func(nodeIndex int, parent []float32) error {
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
			return fmt.Errorf("%w: node index %d out of range", ErrInvalidGLB, nodeIndex)
		}
		if visited[nodeIndex] {
			return fmt.Errorf("%w: node %d appears twice in the hierarchy", ErrInvalidGLB, nodeIndex)
		}
		visited[nodeIndex] = true

		node := &doc.Nodes[nodeIndex]
		var local, world [16]float32
		gltfNodeLocalMatrix(node, local[:])
		common.Mul4(world[:], parent, local[:])

		if node.Mesh != nil {
			extracted, err := extractor.ExtractMesh(*node.Mesh, node.Name, world[:])
			if err != nil {
				return fmt.Errorf("node %d: %w", nodeIndex, err)
			}
			meshes = append(meshes, extracted...)
		}

		for _, child := range node.Children {
			if err := walk(child, world[:]); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range gltfRootNodes(doc) {
		if err := walk(root, identity[:]); err != nil {
			return nil, fmt.Errorf("importing %s: %w", name, err)
		}
	}

	return model.NewModel(model.WithName(name), model.WithMeshes(meshes...)), nil
}

// gltfRootNodes returns the root nodes of the default scene.
// A document without scenes is treated as one scene holding every parentless node.
func gltfRootNodes(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}

	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfNodeLocalMatrix writes the node's local transform into out.
// An explicit matrix wins over TRS; missing TRS components default to identity.
func gltfNodeLocalMatrix(node *gltfNode, out []float32) {
	if node.Matrix != nil {
		copy(out, node.Matrix[:])
		return
	}

	t := [3]float32{}
	r := [4]float32{0, 0, 0, 1}
	s := [3]float32{1, 1, 1}
	if node.Translation != nil {
		t = *node.Translation
	}
	if node.Rotation != nil {
		r = *node.Rotation
	}
	if node.Scale != nil {
		s = *node.Scale
	}
	common.ComposeTRS(out, t, r, s)
}
