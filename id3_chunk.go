package wavmeta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

const (
	id3HeaderLen      = 10
	id3FrameHeaderLen = 10
	id3EncodingUTF8   = 0x03
	// largest size a 4 byte syncsafe integer can hold
	maxSyncsafe = 1<<28 - 1
)

// ID3v2.3 header: magic, version 3 revision 0, no flags. The size follows.
var id3HeaderPrefix = []byte{'I', 'D', '3', 3, 0, 0}

// ID3Tag is the decoded content of an ID3 chunk.
type ID3Tag struct {
	Version     int
	Title       string
	Artist      string
	AlbumArtist string
	Genre       string
	Comment     string
	Year        int
	// Frames lists text and comment frames sorted by frame id.
	Frames []ID3Frame
}

// ID3Frame is a single text-bearing frame.
type ID3Frame struct {
	ID   string
	Text string
}

func encodeID3Chunk(in *EncodeInput) []byte {
	f := in.Fields
	year := yearString(in.Now)

	frames := bytes.NewBuffer(nil)

	textFrames := []struct {
		id   string
		text string
	}{
		{"TIT2", f.Title},
		{"TCON", f.Category},
		{"TPE1", f.Designer},
		{"TPE2", f.Library},
		{"TOAL", f.Library},
		{"TPUB", f.URL},
		{"TIT1", f.URL},
		{"TYER", year},
		{"TORY", year},
		{"TCOP", year + " " + f.Manufacturer},
		{"TIT3", f.Notes},
		{"TOWN", f.Library},
		{"TRCK", f.TrackNumber()},
	}

	for _, frame := range textFrames {
		if frame.text == "" {
			continue
		}

		writeID3Frame(frames, frame.id, append([]byte{id3EncodingUTF8}, frame.text...))
	}

	if f.Description != "" {
		comm := append([]byte{id3EncodingUTF8, 'e', 'n', 'g', 0x00}, f.Description...)
		writeID3Frame(frames, "COMM", comm)
	}

	out := make([]byte, 0, id3HeaderLen+frames.Len())
	out = append(out, id3HeaderPrefix...)
	out = binary.BigEndian.AppendUint32(out, syncsafe(uint32(frames.Len())))

	return append(out, frames.Bytes()...)
}

func writeID3Frame(buf *bytes.Buffer, id string, payload []byte) {
	var hdr [id3FrameHeaderLen]byte

	copy(hdr[0:4], id)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(len(payload)))
	// hdr[8:10] are the frame flags, always zero

	buf.Write(hdr[:])
	buf.Write(payload)
}

// syncsafe spreads n over four 7-bit groups, leaving every high bit clear.
// Values above 2^28-1 are clamped.
func syncsafe(n uint32) uint32 {
	n = min(n, maxSyncsafe)

	return (n&0x0FE00000)<<3 | (n&0x001FC000)<<2 | (n&0x00003F80)<<1 | n&0x0000007F
}

func decodeID3Chunk(payload []byte) (*ID3Tag, error) {
	md, err := tag.ReadFrom(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to read the ID3 chunk - %w", err)
	}

	out := &ID3Tag{
		Title:       md.Title(),
		Artist:      md.Artist(),
		AlbumArtist: md.AlbumArtist(),
		Genre:       md.Genre(),
		Comment:     md.Comment(),
		Year:        md.Year(),
	}

	parsed, err := id3v2.ParseReader(bytes.NewReader(payload), id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("failed to parse the ID3 frames - %w", err)
	}

	out.Version = int(parsed.Version())

	for id, frames := range parsed.AllFrames() {
		for _, frame := range frames {
			switch fr := frame.(type) {
			case id3v2.TextFrame:
				out.Frames = append(out.Frames, ID3Frame{ID: id, Text: fr.Text})
			case id3v2.CommentFrame:
				out.Frames = append(out.Frames, ID3Frame{ID: id, Text: fr.Text})
			}
		}
	}

	sort.SliceStable(out.Frames, func(i, j int) bool {
		return out.Frames[i].ID < out.Frames[j].ID
	})

	return out, nil
}
