package model

// ModelBuilderOption is a functional option for configuring a Model during construction.
type ModelBuilderOption func(*model)

// WithName sets the identifier of the Model.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMeshes replaces the meshes of the Model.
//
// Parameters:
//   - meshes: the model-space meshes
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes ...Mesh) ModelBuilderOption {
	return func(m *model) {
		m.meshes = meshes
	}
}
