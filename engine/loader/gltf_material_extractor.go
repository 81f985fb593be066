package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-classroom/common"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser
}

// gltfMaterialExtractor resolves the flat color a primitive is drawn with.
// Only pbrMetallicRoughness.baseColorFactor is read; textures are not sampled.
type gltfMaterialExtractor interface {
	// BaseColor returns the base color factor of a material.
	// A nil index or a material without a factor yields opaque white, the glTF default.
	//
	// Parameters:
	//   - materialIndex: the material index from a primitive, may be nil
	//
	// Returns:
	//   - common.Color: the base color
	//   - error: error if the index is out of range
	BaseColor(materialIndex *int) (common.Color, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a new material extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMaterialExtractor: the material extractor
func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{parser: parser}
}

func (e *gltfMaterialExtractorImpl) BaseColor(materialIndex *int) (common.Color, error) {
	if materialIndex == nil {
		return common.ColorWhite, nil
	}

	doc := e.parser.Document()
	if doc == nil {
		return common.Color{}, fmt.Errorf("no document loaded")
	}
	if *materialIndex < 0 || *materialIndex >= len(doc.Materials) {
		return common.Color{}, fmt.Errorf("%w: material index %d out of range", ErrInvalidGLB, *materialIndex)
	}

	pbr := doc.Materials[*materialIndex].PbrMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return common.ColorWhite, nil
	}

	return common.Color(*pbr.BaseColorFactor), nil
}
