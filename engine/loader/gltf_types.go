package loader

// gltfDocument is the subset of a glTF 2.0 JSON document the classroom importer reads.
// Skins, animations and textures are ignored; the room model is static and flat-shaded.
type gltfDocument struct {
	Asset       gltfAsset        `json:"asset"`
	Scene       *int             `json:"scene,omitempty"`
	Scenes      []gltfScene      `json:"scenes,omitempty"`
	Nodes       []gltfNode       `json:"nodes,omitempty"`
	Meshes      []gltfMesh       `json:"meshes,omitempty"`
	Materials   []gltfMaterial   `json:"materials,omitempty"`
	Accessors   []gltfAccessor   `json:"accessors,omitempty"`
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`
	Buffers     []gltfBuffer     `json:"buffers,omitempty"`
}

type gltfAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

type gltfScene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// gltfNode is one element of the node hierarchy.
// Either Matrix or the TRS triple describes the local transform; absent values mean identity.
type gltfNode struct {
	Name        string       `json:"name,omitempty"`
	Children    []int        `json:"children,omitempty"`
	Mesh        *int         `json:"mesh,omitempty"`
	Matrix      *[16]float32 `json:"matrix,omitempty"`
	Translation *[3]float32  `json:"translation,omitempty"`
	Rotation    *[4]float32  `json:"rotation,omitempty"`
	Scale       *[3]float32  `json:"scale,omitempty"`
}

type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Material   *int           `json:"material,omitempty"`
	Mode       *int           `json:"mode,omitempty"`
}

type gltfAccessor struct {
	BufferView    *int   `json:"bufferView,omitempty"`
	ByteOffset    int    `json:"byteOffset,omitempty"`
	ComponentType int    `json:"componentType"`
	Normalized    bool   `json:"normalized,omitempty"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
	Sparse        *struct {
		Count int `json:"count"`
	} `json:"sparse,omitempty"`
}

type gltfBufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset,omitempty"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride,omitempty"`
}

type gltfBuffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`

	// Data holds the resolved bytes; it is filled by the parser, never by JSON.
	Data []byte `json:"-"`
}

type gltfMaterial struct {
	Name                 string                    `json:"name,omitempty"`
	PbrMetallicRoughness *gltfPbrMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
}

type gltfPbrMetallicRoughness struct {
	BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"`
}

type gltfGLBHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

type gltfGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

const (
	gltfGLBMagic      uint32 = 0x46546C67 // "glTF"
	gltfGLBVersion    uint32 = 2
	gltfGLBChunkJSON  uint32 = 0x4E4F534A // "JSON"
	gltfGLBChunkBIN   uint32 = 0x004E4942 // "BIN\0"
	gltfGLBHeaderSize        = 12
)

const (
	gltfComponentTypeByte          = 5120
	gltfComponentTypeUnsignedByte  = 5121
	gltfComponentTypeShort         = 5122
	gltfComponentTypeUnsignedShort = 5123
	gltfComponentTypeUnsignedInt   = 5125
	gltfComponentTypeFloat         = 5126
)

const (
	gltfAccessorTypeScalar = "SCALAR"
	gltfAccessorTypeVec2   = "VEC2"
	gltfAccessorTypeVec3   = "VEC3"
	gltfAccessorTypeVec4   = "VEC4"
	gltfAccessorTypeMat4   = "MAT4"
)

// gltfPrimitiveModeTriangles is the default primitive topology.
const gltfPrimitiveModeTriangles = 4
