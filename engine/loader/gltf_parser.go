package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrInvalidGLB is returned when the source bytes are not a well-formed glTF 2.0 asset.
	ErrInvalidGLB = errors.New("invalid glTF asset")

	errInvalidGLTFVersion = fmt.Errorf("%w: version must be 2.x", ErrInvalidGLB)
	errInvalidGLBVersion  = fmt.Errorf("%w: GLB container version must be 2", ErrInvalidGLB)
	errMissingJSONChunk   = fmt.Errorf("%w: GLB is missing its JSON chunk", ErrInvalidGLB)
	errInvalidBufferURI   = fmt.Errorf("%w: malformed buffer URI", ErrInvalidGLB)
	errBufferSizeMismatch = fmt.Errorf("%w: buffer shorter than its byteLength", ErrInvalidGLB)
	errNoExternalResolver = errors.New("external buffer URIs cannot be resolved for this source")
)

// ResolveFunc fetches the bytes of an external buffer referenced by a relative URI.
type ResolveFunc func(uri string) ([]byte, error)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	resolve        ResolveFunc
	document       *gltfDocument
	glbBinaryChunk []byte
}

// gltfParser decodes glTF JSON or GLB containers and reads typed accessor data.
// This is internal to the loader package.
type gltfParser interface {
	// Parse decodes the asset bytes. GLB is detected from the magic number, anything else
	// is treated as glTF JSON.
	//
	// Parameters:
	//   - data: the complete asset bytes
	//
	// Returns:
	//   - error: an error wrapping ErrInvalidGLB if the bytes are malformed
	Parse(data []byte) error

	// Document returns the parsed document, or nil before a successful Parse.
	Document() *gltfDocument

	// ReadVec3Accessor reads an accessor as vec3 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][3]float32: the vec3 data
	//   - error: error if reading fails
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)

	// ReadIndicesAccessor reads an accessor as index data.
	// UNSIGNED_BYTE, UNSIGNED_SHORT and UNSIGNED_INT component types are widened to uint32.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []uint32: the index data
	//   - error: error if reading fails
	ReadIndicesAccessor(accessorIndex int) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser.
//
// Parameters:
//   - resolve: fetches external buffers by relative URI, may be nil
//
// Returns:
//   - gltfParser: a new parser instance
func newGLTFParser(resolve ResolveFunc) gltfParser {
	return &gltfParserImpl{resolve: resolve}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(data []byte) error {
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic {
		return p.parseGLB(data)
	}
	return p.parseGLTF(data)
}

// parseGLTF parses a glTF JSON document.
func (p *gltfParserImpl) parseGLTF(data []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGLB, err)
	}
	return p.finish(&doc)
}

// parseGLB parses a GLB binary container.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func (p *gltfParserImpl) parseGLB(data []byte) error {
	if len(data) < gltfGLBHeaderSize {
		return fmt.Errorf("%w: GLB shorter than its header", ErrInvalidGLB)
	}

	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("%w: reading GLB header: %v", ErrInvalidGLB, err)
	}
	if header.Version != gltfGLBVersion {
		return errInvalidGLBVersion
	}

	var jsonData, binData []byte
	for {
		var chunkHeader gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("%w: reading chunk header: %v", ErrInvalidGLB, err)
		}
		if int64(chunkHeader.ChunkLength) > int64(r.Len()) {
			return fmt.Errorf("%w: chunk length %d exceeds remaining %d bytes", ErrInvalidGLB, chunkHeader.ChunkLength, r.Len())
		}

		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return fmt.Errorf("%w: reading chunk data: %v", ErrInvalidGLB, err)
		}

		switch chunkHeader.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = chunkData
		case gltfGLBChunkBIN:
			binData = chunkData
		}
	}

	if jsonData == nil {
		return errMissingJSONChunk
	}
	p.glbBinaryChunk = binData

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGLB, err)
	}
	return p.finish(&doc)
}

func (p *gltfParserImpl) finish(doc *gltfDocument) error {
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(doc); err != nil {
		return fmt.Errorf("loading buffers: %w", err)
	}
	p.document = doc
	return nil
}

// loadBuffers resolves every buffer from the GLB binary chunk, a data URI or an external URI.
func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		switch {
		case buf.URI == "" && i == 0 && p.glbBinaryChunk != nil:
			buf.Data = p.glbBinaryChunk
		case buf.URI == "":
			return fmt.Errorf("%w: buffer %d has no URI and no GLB binary chunk", ErrInvalidGLB, i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			if p.resolve == nil {
				return fmt.Errorf("buffer %d %q: %w", i, buf.URI, errNoExternalResolver)
			}
			data, err := p.resolve(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d %q: %w", i, buf.URI, err)
			}
			buf.Data = data
		}

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// decodeDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string) ([]byte, error) {
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, errInvalidBufferURI
	}

	header := uri[5:commaIdx]
	if !strings.Contains(header, "base64") {
		return nil, fmt.Errorf("%w: unsupported data URI encoding %q", ErrInvalidGLB, header)
	}

	data, err := base64.StdEncoding.DecodeString(uri[commaIdx+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: decoding base64: %v", ErrInvalidGLB, err)
	}
	return data, nil
}

// readAccessorData gathers the tightly packed bytes of an accessor, honoring byteStride.
func (p *gltfParserImpl) readAccessorData(accessorIndex int) (*gltfAccessor, []byte, error) {
	if p.document == nil {
		return nil, nil, errors.New("no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, nil, fmt.Errorf("%w: accessor index %d out of range", ErrInvalidGLB, accessorIndex)
	}

	acc := &p.document.Accessors[accessorIndex]
	if acc.Sparse != nil {
		return nil, nil, errors.New("sparse accessors are not supported")
	}
	if acc.BufferView == nil {
		return nil, nil, fmt.Errorf("%w: accessor %d has no bufferView", ErrInvalidGLB, accessorIndex)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, nil, fmt.Errorf("%w: bufferView index %d out of range", ErrInvalidGLB, *acc.BufferView)
	}

	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, nil, fmt.Errorf("%w: buffer index %d out of range", ErrInvalidGLB, bv.Buffer)
	}
	buf := &p.document.Buffers[bv.Buffer]

	elementSize := gltfComponentTypeSize(acc.ComponentType) * gltfAccessorTypeComponentCount(acc.Type)
	if elementSize == 0 {
		return nil, nil, fmt.Errorf("%w: accessor %d has unknown layout %s/%d", ErrInvalidGLB, accessorIndex, acc.Type, acc.ComponentType)
	}

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	start := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		end := start + (acc.Count-1)*stride + elementSize
		if start < 0 || end > len(buf.Data) {
			return nil, nil, fmt.Errorf("%w: accessor %d reads past the end of buffer %d", ErrInvalidGLB, accessorIndex, bv.Buffer)
		}
	}

	result := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		src := start + i*stride
		copy(result[i*elementSize:(i+1)*elementSize], buf.Data[src:src+elementSize])
	}
	return acc, result, nil
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	acc, data, err := p.readAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeVec3 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("%w: accessor is not VEC3 FLOAT: type=%s, componentType=%d", ErrInvalidGLB, acc.Type, acc.ComponentType)
	}

	result := make([][3]float32, acc.Count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *gltfParserImpl) ReadIndicesAccessor(accessorIndex int) ([]uint32, error) {
	acc, data, err := p.readAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("%w: index accessor is not SCALAR: type=%s", ErrInvalidGLB, acc.Type)
	}

	result := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		for i, b := range data {
			result[i] = uint32(b)
		}
	case gltfComponentTypeUnsignedShort:
		for i := range result {
			result[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case gltfComponentTypeUnsignedInt:
		for i := range result {
			result[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("%w: unsupported index component type %d", ErrInvalidGLB, acc.ComponentType)
	}
	return result, nil
}

// gltfComponentTypeSize returns the byte size of a component type.
func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// gltfAccessorTypeComponentCount returns the number of components for an accessor type.
func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	case gltfAccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
