package wavmeta

// Chunk is a freshly encoded chunk waiting to be assembled.
type Chunk struct {
	ID   [4]byte
	Data []byte
}

// RawChunk references a chunk of an input file that is carried over as is.
type RawChunk struct {
	ID [4]byte
	// Size is the declared payload size from the chunk header.
	Size uint32
	// Offset of the chunk header in the source buffer.
	Offset int
	// Bytes holds header, payload and the pad byte when the source had one.
	// It aliases the source buffer.
	Bytes []byte
}

// Payload returns the chunk payload without header or padding, limited to
// what the source buffer actually contained.
func (c RawChunk) Payload() []byte {
	if len(c.Bytes) <= chunkHeaderLen {
		return nil
	}

	end := min(chunkHeaderLen+int(c.Size), len(c.Bytes))

	return c.Bytes[chunkHeaderLen:end]
}
