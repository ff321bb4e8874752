package wavmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testChunk struct {
	id   string
	size uint32
	data []byte
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffWaveHdr   = errors.New("invalid riff/wave header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
	errMissingPadByte       = errors.New("odd chunk without pad byte")
)

var fixedNow = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// parseWavChunks is a strict reader used to check writer output: every odd
// chunk must carry its zero pad byte.
func parseWavChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errInvalidRiffWaveHdr
	}

	chunks := make([]testChunk, 0)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, id)
		}

		payload := append([]byte(nil), data[offset:end]...)
		chunks = append(chunks, testChunk{id: id, size: size, data: payload})

		offset = end
		if size%2 == 1 {
			if offset >= len(data) || data[offset] != 0 {
				return nil, fmt.Errorf("%w: %q", errMissingPadByte, id)
			}

			offset++
		}
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%d trailing bytes", len(data)-offset)
	}

	return chunks, nil
}

func mustParseWavChunks(t *testing.T, data []byte) []testChunk {
	t.Helper()

	chunks, err := parseWavChunks(data)
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	return chunks
}

func findChunk(chunks []testChunk, id string) (*testChunk, int) {
	for i := range chunks {
		if chunks[i].id == id {
			return &chunks[i], i
		}
	}

	return nil, -1
}

func chunkIDs(chunks []testChunk) []string {
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.id
	}

	return ids
}

// rawChunk serializes a chunk with its pad byte.
func rawChunk(id string, payload []byte) []byte {
	out := make([]byte, 0, 8+len(payload)+1)
	out = append(out, id...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)

	if len(payload)%2 == 1 {
		out = append(out, 0)
	}

	return out
}

// buildWAV wraps already serialized chunks in a RIFF/WAVE header.
func buildWAV(chunks ...[]byte) []byte {
	body := bytes.Join(chunks, nil)

	out := make([]byte, 0, 12+len(body))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(4+len(body)))
	out = append(out, "WAVE"...)

	return append(out, body...)
}

func fmtPayload(channels uint16, sampleRate uint32, bitsPerSample uint16) []byte {
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer

	binary.Write(&buf, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(&buf, binary.LittleEndian, channels)
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	binary.Write(&buf, binary.LittleEndian, sampleRate*uint32(blockAlign))
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, bitsPerSample)

	return buf.Bytes()
}

// minimalWAV holds only a 4 byte data chunk.
func minimalWAV() []byte {
	return buildWAV(rawChunk("data", []byte{1, 2, 3, 4}))
}

// pcmWAV is a 16 bit mono file with one second of silence at 8 kHz.
func pcmWAV() []byte {
	return buildWAV(
		rawChunk("fmt ", fmtPayload(1, 8000, 16)),
		rawChunk("data", make([]byte, 16000)),
	)
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	return path
}

func testInput(rec Record) *EncodeInput {
	return &EncodeInput{
		Fields:   Resolve(rec),
		Filename: "door.wav",
		Now:      fixedNow,
	}
}

// unsyncsafe reverses the 7 bit group encoding of ID3 sizes.
func unsyncsafe(b []byte) uint32 {
	return uint32(b[0])<<21 | uint32(b[1])<<14 | uint32(b[2])<<7 | uint32(b[3])
}
