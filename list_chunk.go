package wavmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// See http://bwfmetaedit.sourceforge.net/listinfo.html
	markerIART    = [4]byte{'I', 'A', 'R', 'T'}
	markerISFT    = [4]byte{'I', 'S', 'F', 'T'}
	markerICRD    = [4]byte{'I', 'C', 'R', 'D'}
	markerICOP    = [4]byte{'I', 'C', 'O', 'P'}
	markerIARL    = [4]byte{'I', 'A', 'R', 'L'}
	markerINAM    = [4]byte{'I', 'N', 'A', 'M'}
	markerIENG    = [4]byte{'I', 'E', 'N', 'G'}
	markerIGNR    = [4]byte{'I', 'G', 'N', 'R'}
	markerIPRD    = [4]byte{'I', 'P', 'R', 'D'}
	markerISRC    = [4]byte{'I', 'S', 'R', 'C'}
	markerISBJ    = [4]byte{'I', 'S', 'B', 'J'}
	markerICMT    = [4]byte{'I', 'C', 'M', 'T'}
	markerITRK    = [4]byte{'I', 'T', 'R', 'K'}
	markerITRKBug = [4]byte{'i', 't', 'r', 'k'}
	markerITCH    = [4]byte{'I', 'T', 'C', 'H'}
	markerIKEY    = [4]byte{'I', 'K', 'E', 'Y'}
	markerIMED    = [4]byte{'I', 'M', 'E', 'D'}

	errNotInfoList = errors.New("LIST chunk is not an INFO list")
)

// InfoList is the decoded content of a LIST/INFO chunk.
type InfoList struct {
	Artist       string
	Comments     string
	Copyright    string
	CreationDate string
	Engineer     string
	Technician   string
	Genre        string
	Keywords     string
	Medium       string
	Title        string
	Product      string
	Subject      string
	Software     string
	Source       string
	Location     string
	TrackNbr     string
}

// encodeInfoChunk returns the LIST payload: the INFO list type followed by
// the text sub-chunks. Each sub-chunk's text is NUL terminated and padded to
// an even length, both counted in its declared size.
func encodeInfoChunk(in *EncodeInput) []byte {
	f := in.Fields
	year := yearString(in.Now)

	buf := bytes.NewBuffer(nil)
	buf.Write(CIDInfo[:])

	writeSection := func(id [4]byte, val string) {
		if val == "" {
			return
		}

		text := append([]byte(val), 0x00)
		if len(text)%2 == 1 {
			text = append(text, 0x00)
		}

		buf.Write(id[:])
		binary.Write(buf, binary.LittleEndian, uint32(len(text)))
		buf.Write(text)
	}

	fields := []struct {
		marker [4]byte
		value  string
	}{
		{markerISFT, in.software()},
		{markerINAM, in.Filename},
		{markerICRD, dateString(in.Now)},
		{markerIPRD, f.Library},
		{markerIGNR, f.Category},
		{markerICOP, year + " " + f.Manufacturer},
		{markerICMT, f.Description},
		{markerIARL, "© " + year + " " + f.Manufacturer + " All Rights Reserved"},
		{markerIART, f.Designer},
	}

	for _, field := range fields {
		writeSection(field.marker, field.value)
	}

	return buf.Bytes()
}

func decodeInfoChunk(buf []byte) (*InfoList, error) {
	if len(buf) < 4 || !bytes.Equal(buf[:4], CIDInfo[:]) {
		return nil, errNotInfoList
	}

	info := &InfoList{}

	for pos := 4; pos+chunkHeaderLen <= len(buf); {
		var id [4]byte

		copy(id[:], buf[pos:pos+4])
		size := int(binary.LittleEndian.Uint32(buf[pos+4 : pos+8]))
		pos += chunkHeaderLen

		if pos+size > len(buf) {
			return info, fmt.Errorf("read sub chunk %s: size %d exceeds LIST payload", id, size)
		}

		val := nullTermStr(buf[pos : pos+size])
		pos += paddedLen(size)

		switch id {
		case markerIARL:
			info.Location = val
		case markerIART:
			info.Artist = val
		case markerISFT:
			info.Software = val
		case markerICRD:
			info.CreationDate = val
		case markerICOP:
			info.Copyright = val
		case markerINAM:
			info.Title = val
		case markerIENG:
			info.Engineer = val
		case markerIGNR:
			info.Genre = val
		case markerIPRD:
			info.Product = val
		case markerISRC:
			info.Source = val
		case markerISBJ:
			info.Subject = val
		case markerICMT:
			info.Comments = val
		case markerITRK, markerITRKBug:
			info.TrackNbr = val
		case markerITCH:
			info.Technician = val
		case markerIKEY:
			info.Keywords = val
		case markerIMED:
			info.Medium = val
		}
	}

	return info, nil
}
