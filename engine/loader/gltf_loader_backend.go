package loader

import "github.com/Carmen-Shannon/oxy-classroom/engine/model"

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB assets.
// It delegates to the gltfImporter for parsing and extraction.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB assets
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{
		importer: newGLTFImporter(),
	}
}

func (b *gltfLoaderBackendImpl) Decode(name string, data []byte, resolve ResolveFunc) (model.Model, error) {
	return b.importer.Import(name, data, resolve)
}
