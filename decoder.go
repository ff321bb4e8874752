package wavmeta

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

// ErrDurationUnknown is returned when the file has no usable fmt or data
// chunk to derive a duration from.
var ErrDurationUnknown = errors.New("can't calculate the duration without fmt and data chunks")

// Metadata holds the decoded metadata chunks of a file. Chunks that are
// absent stay nil.
type Metadata struct {
	BroadcastExtension *BroadcastExtension
	ID3                *ID3Tag
	Info               *InfoList
	IXML               *IXML
	XMP                XMP
}

// ChunkInfo describes one top level chunk as it appears in the file.
type ChunkInfo struct {
	ID string
	// Size is the declared payload size.
	Size int
}

// Report is the result of reading a file back.
type Report struct {
	Format   *audio.Format
	Fmt      *FmtChunk
	Duration time.Duration
	// Chunks lists every top level chunk in file order.
	Chunks   []ChunkInfo
	Metadata *Metadata
	// Errors collects metadata chunks that could not be decoded. They don't
	// stop the walk.
	Errors []error
}

// Decoder reads the chunk layout and metadata of a wav stream.
type Decoder struct {
	r      io.ReadSeeker
	parser *riff.Parser
	chunks *ChunkRegistry

	FmtChunk *FmtChunk
	PCMSize  int
	Chunks   []ChunkInfo
	// Metadata for the current file
	Metadata *Metadata

	decodeErrs []error
	err        error
}

// NewDecoder creates a decoder for the passed wav reader.
// Note that the reader doesn't get rewinded as the container is processed.
func NewDecoder(r io.ReadSeeker) *Decoder {
	return &Decoder{
		r:      r,
		parser: riff.New(r),
		chunks: NewChunkRegistry(),
	}
}

// SetChunkRegistry replaces the handlers that decode metadata chunks. A nil
// registry restores the default one.
func (d *Decoder) SetChunkRegistry(registry *ChunkRegistry) {
	if registry == nil {
		registry = NewChunkRegistry()
	}

	d.chunks = registry
}

// ReadFile decodes the metadata of the wav file at path.
func ReadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newIOError("open", path, err)
	}
	defer f.Close()

	report, err := NewDecoder(f).ReadMetadata()
	if err != nil {
		if errors.Is(err, ErrFormat) {
			return nil, &WriteError{Op: "parse", Path: path, Kind: ErrFormat, Err: err}
		}

		return nil, newIOError("read", path, err)
	}

	return report, nil
}

// Err returns the first non-EOF error that was encountered by the Decoder.
func (d *Decoder) Err() error {
	if errors.Is(d.err, io.EOF) {
		return nil
	}

	return d.err
}

// ReadMetadata walks every chunk of the file and decodes the metadata chunks
// it knows about. The entire stream is consumed. A chunk cut short by the
// end of the stream ends the walk without an error.
func (d *Decoder) ReadMetadata() (*Report, error) {
	if d.Metadata == nil {
		d.Metadata = &Metadata{}

		if d.err = d.readHeader(); d.err == nil {
			d.walk()
		}
	}

	if err := d.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		Format:   d.Format(),
		Fmt:      d.FmtChunk,
		Chunks:   d.Chunks,
		Metadata: d.Metadata,
		Errors:   d.decodeErrs,
	}

	if dur, err := d.Duration(); err == nil {
		report.Duration = dur
	}

	return report, nil
}

func (d *Decoder) readHeader() error {
	id, size, err := d.parser.IDnSize()
	if err != nil {
		return fmt.Errorf("%w: failed to read chunk ID and size: %v", ErrFormat, err)
	}

	d.parser.ID = id
	if d.parser.ID != riff.RiffID {
		return fmt.Errorf("%w: %q - %v", ErrFormat, d.parser.ID, riff.ErrFmtNotSupported)
	}

	d.parser.Size = size

	err = binary.Read(d.r, binary.BigEndian, &d.parser.Format)
	if err != nil {
		return fmt.Errorf("%w: failed to read format: %v", ErrFormat, err)
	}

	if d.parser.Format != riff.WavFormatID {
		return fmt.Errorf("%w: %q is not a WAVE form", ErrFormat, d.parser.Format)
	}

	return nil
}

func (d *Decoder) walk() {
	for {
		chunk, err := d.NextChunk()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				d.err = err
			}

			return
		}

		d.Chunks = append(d.Chunks, ChunkInfo{ID: string(chunk.ID[:]), Size: chunk.Size})

		if err := d.processChunk(chunk); err != nil {
			d.err = err
			return
		}

		// the limit reader stops at the declared size whatever was consumed
		if _, err := io.Copy(io.Discard, chunk.R); err != nil {
			d.err = fmt.Errorf("failed to skip chunk %q: %w", chunk.ID, err)
			return
		}

		if chunk.Size%2 == 1 {
			// pad byte, missing at the very end of some files
			if _, err := io.CopyN(io.Discard, d.r, 1); err != nil {
				return
			}
		}
	}
}

func (d *Decoder) processChunk(chunk *riff.Chunk) error {
	switch chunk.ID {
	case riff.FmtID:
		fmtChunk, err := decodeFmtChunk(chunk)
		if err != nil {
			d.decodeErrs = append(d.decodeErrs, fmt.Errorf("fmt chunk: %w", err))
			return nil
		}

		d.FmtChunk = fmtChunk
		d.parser.NumChannels = fmtChunk.NumChannels
		d.parser.SampleRate = fmtChunk.SampleRate
		d.parser.AvgBytesPerSec = fmtChunk.AvgBytesPerSec
		d.parser.BlockAlign = fmtChunk.BlockAlign
		d.parser.BitsPerSample = fmtChunk.BitsPerSample
		d.parser.WavAudioFormat = fmtChunk.EffectiveFormatTag()

		return nil
	case riff.DataFormatID:
		d.PCMSize = chunk.Size
		return nil
	}

	if !d.chunks.Owns(chunk.ID) && chunk.ID != [4]byte{'i', 'd', '3', ' '} {
		return nil
	}

	payload, err := io.ReadAll(chunk)
	if err != nil {
		return fmt.Errorf("failed to read chunk %q: %w", chunk.ID, err)
	}

	if _, err := d.chunks.Decode(d.Metadata, chunk.ID, payload); err != nil {
		d.decodeErrs = append(d.decodeErrs, fmt.Errorf("%s chunk: %w", chunk.ID, err))
	}

	return nil
}

// NextChunk returns the next available chunk. Size is the declared payload
// size; the caller skips the pad byte of odd sized chunks.
func (d *Decoder) NextChunk() (*riff.Chunk, error) {
	id, size, err := d.parser.IDnSize()
	if err != nil {
		return nil, err
	}

	chnk := &riff.Chunk{
		ID:   id,
		Size: int(size),
		R:    io.LimitReader(d.r, int64(size)),
	}

	return chnk, nil
}

// Format returns the audio format of the decoded content.
func (d *Decoder) Format() *audio.Format {
	if d == nil || d.FmtChunk == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(d.FmtChunk.NumChannels),
		SampleRate:  int(d.FmtChunk.SampleRate),
	}
}

// Duration returns the play time of the data chunk.
func (d *Decoder) Duration() (time.Duration, error) {
	if d == nil || d.FmtChunk == nil || d.FmtChunk.AvgBytesPerSec == 0 || d.PCMSize == 0 {
		return 0, ErrDurationUnknown
	}

	sec := float64(d.PCMSize) / float64(d.FmtChunk.AvgBytesPerSec)

	return time.Duration(sec * float64(time.Second)), nil
}
