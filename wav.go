package wavmeta

import "time"

var (
	// CIDBext is the chunk ID for the broadcast extension chunk.
	CIDBext = [4]byte{'b', 'e', 'x', 't'}
	// CIDID3 is the chunk ID for an embedded ID3v2 tag.
	CIDID3 = [4]byte{'I', 'D', '3', ' '}
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// CIDInfo is the list type of an INFO list.
	CIDInfo = [4]byte{'I', 'N', 'F', 'O'}
	// CIDIXML is the chunk ID for the iXML chunk.
	CIDIXML = [4]byte{'i', 'X', 'M', 'L'}
	// CIDXMP is the chunk ID for an XMP packet.
	CIDXMP = [4]byte{'_', 'P', 'M', 'X'}
)

// DefaultSoftware is the tool name embedded in the INFO, iXML and XMP chunks.
const DefaultSoftware = "BWF Metadata Writer"

const (
	riffHeaderLen  = 12
	chunkHeaderLen = 8
)

func nullTermStr(b []byte) string {
	return string(b[:clen(b)])
}

func clen(num []byte) int {
	for i := range num {
		if num[i] == 0 {
			return i
		}
	}

	return len(num)
}

// paddedLen is the on-disk length of a chunk payload of n bytes.
func paddedLen(n int) int {
	return n + n%2
}

func dateString(t time.Time) string {
	return t.Format("2006-01-02")
}

func timeString(t time.Time) string {
	return t.Format("15:04:05")
}

func yearString(t time.Time) string {
	return t.Format("2006")
}
