package wavmeta

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/riff"
)

// Container is the chunk layout of an input RIFF/WAVE buffer.
type Container struct {
	// Size is the outer size declared by the input. It is informational only,
	// the assembler always recomputes it.
	Size uint32
	// Foreign chunks are carried over verbatim, in input order.
	Foreign []RawChunk
	// Dropped are the metadata chunks that get replaced.
	Dropped []RawChunk
}

// ParseContainer walks the chunks of a RIFF/WAVE buffer and splits them into
// chunks to keep and metadata chunks to replace. The returned chunks alias
// data.
//
// Only a bad RIFF/WAVE header is an error. A trailing chunk whose header is
// cut off by the end of the buffer is silently dropped.
func ParseContainer(data []byte) (*Container, error) {
	return parseContainer(data, NewChunkRegistry())
}

func parseContainer(data []byte, registry *ChunkRegistry) (*Container, error) {
	if len(data) < riffHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes is too short for a RIFF header", ErrFormat, len(data))
	}

	if !bytes.Equal(data[0:4], riff.RiffID[:]) || !bytes.Equal(data[8:12], riff.WavFormatID[:]) {
		return nil, fmt.Errorf("%w: got %q/%q", ErrFormat, data[0:4], data[8:12])
	}

	c := &Container{Size: binary.LittleEndian.Uint32(data[4:8])}

	// 64-bit arithmetic so that huge declared sizes can't wrap around
	var (
		bufLen = uint64(len(data))
		limit  = uint64(c.Size) + chunkHeaderLen
		pos    = uint64(riffHeaderLen)
	)

	for pos < bufLen && pos < limit {
		if pos+chunkHeaderLen > bufLen {
			break
		}

		var id [4]byte

		copy(id[:], data[pos:pos+4])
		size := binary.LittleEndian.Uint32(data[pos+4 : pos+8])

		end := pos + chunkHeaderLen + uint64(size)
		next := end + uint64(size%2)

		// keep the pad byte of odd chunks when the input has it
		if size%2 == 1 && end < bufLen {
			end++
		}

		chunk := RawChunk{
			ID:     id,
			Size:   size,
			Offset: int(pos),
			Bytes:  data[pos:min(end, bufLen)],
		}

		if registry.Owns(id) {
			c.Dropped = append(c.Dropped, chunk)
		} else {
			c.Foreign = append(c.Foreign, chunk)
		}

		pos = next
	}

	return c, nil
}
