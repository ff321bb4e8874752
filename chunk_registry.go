package wavmeta

import (
	"fmt"
	"time"
)

// EncodeInput is everything a metadata chunk encoder draws from. Encoders
// never modify it.
type EncodeInput struct {
	Fields Fields
	// Filename is the base name of the file being written.
	Filename string
	Now      time.Time
	// Software is the tool name embedded in the INFO, iXML and XMP chunks.
	Software string
}

func (in *EncodeInput) software() string {
	if in.Software == "" {
		return DefaultSoftware
	}

	return in.Software
}

// ChunkHandler encodes and decodes one kind of metadata chunk.
type ChunkHandler interface {
	ChunkID() [4]byte
	// CanHandle reports whether Decode understands the chunk. listType is the
	// first four payload bytes of LIST chunks and zero otherwise.
	CanHandle(chunkID [4]byte, listType [4]byte) bool
	Encode(in *EncodeInput) []byte
	Decode(m *Metadata, payload []byte) error
}

// ChunkRegistry holds the metadata chunk handlers in write order.
type ChunkRegistry struct {
	handlers []ChunkHandler
}

// NewChunkRegistry returns a registry with the bext, ID3, LIST/INFO, iXML and
// XMP handlers in write order. More handlers can be added with Register.
func NewChunkRegistry() *ChunkRegistry {
	return &ChunkRegistry{
		handlers: []ChunkHandler{
			&bextChunkHandler{},
			&id3ChunkHandler{},
			&listChunkHandler{},
			&ixmlChunkHandler{},
			&xmpChunkHandler{},
		},
	}
}

// Register appends a handler to the registry.
func (r *ChunkRegistry) Register(handler ChunkHandler) {
	if r == nil || handler == nil {
		return
	}

	r.handlers = append(r.handlers, handler)
}

// Owns reports whether chunks with this id are replaced on write.
func (r *ChunkRegistry) Owns(chunkID [4]byte) bool {
	if r == nil {
		return false
	}

	for _, handler := range r.handlers {
		if handler.ChunkID() == chunkID {
			return true
		}
	}

	return false
}

// Encode runs every handler in registration order.
func (r *ChunkRegistry) Encode(in *EncodeInput) []Chunk {
	if r == nil || in == nil {
		return nil
	}

	chunks := make([]Chunk, 0, len(r.handlers))
	for _, handler := range r.handlers {
		chunks = append(chunks, Chunk{ID: handler.ChunkID(), Data: handler.Encode(in)})
	}

	return chunks
}

// Decode dispatches a chunk payload to the first matching handler.
func (r *ChunkRegistry) Decode(m *Metadata, chunkID [4]byte, payload []byte) (bool, error) {
	if r == nil || m == nil {
		return false, nil
	}

	listType := sniffListType(chunkID, payload)

	for _, handler := range r.handlers {
		if !handler.CanHandle(chunkID, listType) {
			continue
		}

		if err := handler.Decode(m, payload); err != nil {
			return true, fmt.Errorf("chunk handler decode failed: %w", err)
		}

		return true, nil
	}

	return false, nil
}

func sniffListType(chunkID [4]byte, payload []byte) [4]byte {
	var listType [4]byte

	if chunkID != CIDList || len(payload) < 4 {
		return listType
	}

	copy(listType[:], payload[:4])

	return listType
}

type bextChunkHandler struct{}

func (h *bextChunkHandler) ChunkID() [4]byte { return CIDBext }

func (h *bextChunkHandler) CanHandle(chunkID [4]byte, _ [4]byte) bool {
	return chunkID == CIDBext
}

func (h *bextChunkHandler) Encode(in *EncodeInput) []byte {
	return encodeBroadcastChunk(in)
}

func (h *bextChunkHandler) Decode(m *Metadata, payload []byte) error {
	m.BroadcastExtension = decodeBroadcastChunk(payload)
	return nil
}

type id3ChunkHandler struct{}

func (h *id3ChunkHandler) ChunkID() [4]byte { return CIDID3 }

func (h *id3ChunkHandler) CanHandle(chunkID [4]byte, _ [4]byte) bool {
	return chunkID == CIDID3 || chunkID == [4]byte{'i', 'd', '3', ' '}
}

func (h *id3ChunkHandler) Encode(in *EncodeInput) []byte {
	return encodeID3Chunk(in)
}

func (h *id3ChunkHandler) Decode(m *Metadata, payload []byte) error {
	tag, err := decodeID3Chunk(payload)
	if err != nil {
		return err
	}

	m.ID3 = tag

	return nil
}

type listChunkHandler struct{}

func (h *listChunkHandler) ChunkID() [4]byte { return CIDList }

func (h *listChunkHandler) CanHandle(chunkID [4]byte, listType [4]byte) bool {
	return chunkID == CIDList && listType == CIDInfo
}

func (h *listChunkHandler) Encode(in *EncodeInput) []byte {
	return encodeInfoChunk(in)
}

func (h *listChunkHandler) Decode(m *Metadata, payload []byte) error {
	info, err := decodeInfoChunk(payload)
	if err != nil {
		return err
	}

	m.Info = info

	return nil
}

type ixmlChunkHandler struct{}

func (h *ixmlChunkHandler) ChunkID() [4]byte { return CIDIXML }

func (h *ixmlChunkHandler) CanHandle(chunkID [4]byte, _ [4]byte) bool {
	return chunkID == CIDIXML
}

func (h *ixmlChunkHandler) Encode(in *EncodeInput) []byte {
	return encodeIXMLChunk(in)
}

func (h *ixmlChunkHandler) Decode(m *Metadata, payload []byte) error {
	doc, err := decodeIXMLChunk(payload)
	if err != nil {
		return err
	}

	m.IXML = doc

	return nil
}

type xmpChunkHandler struct{}

func (h *xmpChunkHandler) ChunkID() [4]byte { return CIDXMP }

func (h *xmpChunkHandler) CanHandle(chunkID [4]byte, _ [4]byte) bool {
	return chunkID == CIDXMP
}

func (h *xmpChunkHandler) Encode(in *EncodeInput) []byte {
	return encodeXMPChunk(in)
}

func (h *xmpChunkHandler) Decode(m *Metadata, payload []byte) error {
	packet, err := decodeXMPChunk(payload)
	if err != nil {
		return err
	}

	m.XMP = packet

	return nil
}
