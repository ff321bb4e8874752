package wavmeta

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	bextDescriptionLen         = 256
	bextOriginatorLen          = 32
	bextOriginatorReferenceLen = 32
	bextOriginationDateLen     = 10
	bextOriginationTimeLen     = 8
	bextUMIDLen                = 64
	bextReservedLen            = 190

	// BextV0Len is the payload size of a version 0 bext chunk without
	// coding history.
	BextV0Len = 602

	bextOriginatorOffset      = 0
	bextOriginatorRefOffset   = 32
	bextDescriptionOffset     = 64
	bextOriginationDateOffset = 320
	bextOriginationTimeOffset = 330
	bextTimeReferenceOffset   = 338
	bextVersionOffset         = 346
)

// BroadcastExtension is the decoded content of a bext chunk.
type BroadcastExtension struct {
	Description         string
	Originator          string
	OriginatorReference string
	OriginationDate     string
	OriginationTime     string
	TimeReference       uint64
	Version             uint16
	UMID                [64]byte
	CodingHistory       string
}

var asciiSubstitute = runes.Map(func(r rune) rune {
	if r > unicode.MaxASCII {
		return '?'
	}

	return r
})

// bextString converts s to ASCII and truncates it to maxLen bytes.
func bextString(s string, maxLen int) []byte {
	out, _, err := transform.String(asciiSubstitute, s)
	if err != nil {
		return nil
	}

	if len(out) > maxLen {
		out = out[:maxLen]
	}

	return []byte(out)
}

// encodeBroadcastChunk builds a version 0 bext payload. UMID, reserved bytes
// and coding history stay zero.
func encodeBroadcastChunk(in *EncodeInput) []byte {
	payload := make([]byte, BextV0Len)
	f := in.Fields

	copy(payload[bextOriginatorOffset:], bextString(f.Designer, bextOriginatorLen-1))
	copy(payload[bextOriginatorRefOffset:], bextString(f.CatID+"_"+f.SourceID, bextOriginatorReferenceLen-1))
	copy(payload[bextDescriptionOffset:], bextString(f.Description, bextDescriptionLen-1))
	copy(payload[bextOriginationDateOffset:], dateString(in.Now))
	copy(payload[bextOriginationTimeOffset:], timeString(in.Now))

	binary.LittleEndian.PutUint64(payload[bextTimeReferenceOffset:], 0)
	binary.LittleEndian.PutUint16(payload[bextVersionOffset:], 0)

	return payload
}

func decodeBroadcastChunk(buf []byte) *BroadcastExtension {
	bext := &BroadcastExtension{}
	offset := 0

	take := func(n int) []byte {
		out := make([]byte, n)
		if offset < len(buf) {
			end := min(offset+n, len(buf))
			copy(out, buf[offset:end])
		}

		offset += n

		return out
	}

	readFixedString := func(n int) string {
		s := nullTermStr(take(n))
		return strings.TrimRight(s, " ")
	}

	bext.Originator = readFixedString(bextOriginatorLen)
	bext.OriginatorReference = readFixedString(bextOriginatorReferenceLen)
	bext.Description = readFixedString(bextDescriptionLen)
	bext.OriginationDate = readFixedString(bextOriginationDateLen)
	bext.OriginationTime = readFixedString(bextOriginationTimeLen)
	bext.TimeReference = binary.LittleEndian.Uint64(take(8))
	bext.Version = binary.LittleEndian.Uint16(take(2))

	copy(bext.UMID[:], take(bextUMIDLen))
	take(bextReservedLen)

	if offset < len(buf) {
		bext.CodingHistory = string(bytes.TrimRight(buf[offset:], "\x00"))
	}

	return bext
}
