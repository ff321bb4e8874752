package wavmeta

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/riff"
)

// Encoder assembles a RIFF/WAVE stream in memory. The outer size is filled
// in by Bytes, never copied from an input file.
type Encoder struct {
	buf *bytes.Buffer

	WrittenBytes int
	wroteHeader  bool
}

// NewEncoder creates an encoder whose buffer is preallocated for sizeHint
// bytes.
func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{buf: bytes.NewBuffer(make([]byte, 0, max(sizeHint, riffHeaderLen)))}
}

// AddLE serializes and adds the passed value using little endian.
func (e *Encoder) AddLE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.buf, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

// AddBE serializes and adds the passed value using big endian.
func (e *Encoder) AddBE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.buf, binary.BigEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write big endian: %w", err)
	}

	return nil
}

func (e *Encoder) writeHeader() error {
	if e.wroteHeader {
		return nil
	}

	e.wroteHeader = true

	err := e.AddBE(riff.RiffID)
	if err != nil {
		return err
	}
	// file size uint32, patched in Bytes.
	err = e.AddLE(uint32(4294967295))
	if err != nil {
		return err
	}

	return e.AddBE(riff.WavFormatID)
}

// WriteChunk writes id, little endian payload size, payload and a zero pad
// byte when the payload length is odd.
func (e *Encoder) WriteChunk(chunk Chunk) error {
	if err := e.writeHeader(); err != nil {
		return err
	}

	size := uint32(len(chunk.Data))

	err := e.AddBE(chunk.ID)
	if err != nil {
		return fmt.Errorf("failed to write chunk id %q: %w", chunk.ID, err)
	}

	err = e.AddLE(size)
	if err != nil {
		return fmt.Errorf("failed to write chunk size %q: %w", chunk.ID, err)
	}

	n, _ := e.buf.Write(chunk.Data)
	e.WrittenBytes += n

	if size%2 == 1 {
		e.buf.WriteByte(0)
		e.WrittenBytes++
	}

	return nil
}

// WriteRawChunk copies a preserved chunk verbatim, padding included.
func (e *Encoder) WriteRawChunk(chunk RawChunk) error {
	if err := e.writeHeader(); err != nil {
		return err
	}

	n, _ := e.buf.Write(chunk.Bytes)
	e.WrittenBytes += n

	return nil
}

// Bytes returns the assembled stream with the outer RIFF size set to the
// number of bytes following the size field.
func (e *Encoder) Bytes() []byte {
	if !e.wroteHeader {
		_ = e.writeHeader()
	}

	out := e.buf.Bytes()
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-chunkHeaderLen))

	return out
}

// Assemble builds a RIFF/WAVE stream from the metadata chunks, in the given
// order, followed by the preserved chunks.
func Assemble(meta []Chunk, foreign []RawChunk) ([]byte, error) {
	size := riffHeaderLen
	for _, c := range meta {
		size += chunkHeaderLen + paddedLen(len(c.Data))
	}

	for _, c := range foreign {
		size += len(c.Bytes)
	}

	enc := NewEncoder(size)

	for _, c := range meta {
		if err := enc.WriteChunk(c); err != nil {
			return nil, err
		}
	}

	for _, c := range foreign {
		if err := enc.WriteRawChunk(c); err != nil {
			return nil, fmt.Errorf("failed to copy chunk %q at offset %d: %w", c.ID, c.Offset, err)
		}
	}

	return enc.Bytes(), nil
}
