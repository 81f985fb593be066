package loader

import "github.com/Carmen-Shannon/oxy-classroom/engine/model"

// loaderBackend decodes the bytes of one model format.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Decode imports a model from its complete encoded bytes.
	//
	// Parameters:
	//   - name: the model name
	//   - data: the encoded asset
	//   - resolve: fetches sibling resources by relative URI, may be nil
	//
	// Returns:
	//   - model.Model: the decoded model
	//   - error: error if decoding fails
	Decode(name string, data []byte, resolve ResolveFunc) (model.Model, error)
}
