package wavmeta

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const ixmlVersion = "1.61"

// IXML is the decoded content of an iXML chunk.
type IXML struct {
	XMLName xml.Name   `xml:"BWFXML"`
	Version string     `xml:"IXML_VERSION"`
	Attrs   []IXMLAttr `xml:"STEINBERG>ATTR_LIST>ATTR"`
	User    IXMLUser   `xml:"USER"`
}

// IXMLUser holds the flat elements of the USER section in document order.
type IXMLUser struct {
	Fields []IXMLField `xml:",any"`
}

// IXMLAttr is one entry of the Steinberg attribute list.
type IXMLAttr struct {
	Name  string `xml:"NAME"`
	Type  string `xml:"TYPE"`
	Value string `xml:"VALUE"`
}

// IXMLField is a single USER element.
type IXMLField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// UserField returns the value of the named USER element.
func (x *IXML) UserField(name string) string {
	if x == nil {
		return ""
	}

	for _, f := range x.User.Fields {
		if f.XMLName.Local == name {
			return f.Value
		}
	}

	return ""
}

// Attr returns the value of the named Steinberg attribute.
func (x *IXML) Attr(name string) string {
	if x == nil {
		return ""
	}

	for _, a := range x.Attrs {
		if a.Name == name {
			return a.Value
		}
	}

	return ""
}

type ixmlPair struct {
	name  string
	value string
}

func ixmlSteinbergAttrs(in *EncodeInput) []ixmlPair {
	f := in.Fields

	return []ixmlPair{
		{"MediaLibrary", f.Library},
		{"MediaCategoryPost", f.Category},
		{"MediaRecordingMethod", f.Microphone},
		{"MediaComment", f.Description},
		{"MusicalCategory", f.SubCategory},
		{"MediaCompany", f.URL},
		{"MediaLibraryManufacturerName", f.Manufacturer},
		{"MediaArtist", f.Designer},
		{"MediaTrackNumber", f.TrackNumber()},
		{"SmfSongName", in.Filename},
		{"MusicalInstrument", in.Filename},
	}
}

func ixmlUserFields(in *EncodeInput) []ixmlPair {
	f := in.Fields

	return []ixmlPair{
		{"MICROPHONE", f.Microphone},
		{"LIBRARY", f.Library},
		{"CATEGORYFULL", f.CategoryFull()},
		{"DESCRIPTION", f.Description},
		{"TRACKTITLE", firstNonEmpty(f.TrackTitle, in.Filename)},
		{"NOTES", f.Notes},
		{"ARTIST", f.Designer},
		{"TRACKYEAR", yearString(in.Now)},
		{"CATEGORY", f.Category},
		{"SOURCE", f.URL},
		{"EMBEDDER", in.software()},
		{"TRACK", f.TrackNumber()},
		{"KEYWORDS", firstNonEmpty(f.Keywords, in.Filename)},
		{"URL", f.URL},
		{"VOLUME", f.URL},
		{"SHOOTDATE", dateString(in.Now) + " " + timeString(in.Now)},
		{"SUBCATEGORY", f.SubCategory},
		{"MANUFACTURER", f.Manufacturer},
		{"RATING", "0"},
		{"FXNAME", f.FXName},
		{"CATID", f.CatID},
		{"RELEASEDATE", dateString(in.Now)},
		{"MICPERSPECTIVE", f.MicPerspective},
		{"RECORDINGMEDIUM", f.RecordingMedium},
		{"MICCONFIG", f.MicConfig},
		{"INOUTSIDE", f.InsideOutside},
		{"LOCATION", f.Location},
		{"USERCATEGORY", f.UserCategory},
		{"VENDORCATEGORY", f.VendorCategory},
	}
}

// encodeIXMLChunk renders the iXML document with two spaces of indentation
// per level. Leaves with empty values are left out entirely.
func encodeIXMLChunk(in *EncodeInput) []byte {
	buf := bytes.NewBuffer(nil)

	w := &xmlTreeWriter{enc: xml.NewEncoder(buf)}
	w.enc.Indent("", "  ")

	w.open("BWFXML")
	w.leaf("IXML_VERSION", ixmlVersion)

	w.open("STEINBERG")
	w.open("ATTR_LIST")

	for _, attr := range ixmlSteinbergAttrs(in) {
		if attr.value == "" {
			continue
		}

		w.open("ATTR")
		w.leaf("NAME", attr.name)
		w.leaf("TYPE", "string")
		w.leaf("VALUE", attr.value)
		w.close()
	}

	w.close()
	w.close()

	w.open("USER")

	for _, field := range ixmlUserFields(in) {
		w.leaf(field.name, field.value)
	}

	w.close()
	w.close()

	// element names are constants, so the encoder cannot fail here
	_ = w.flush()

	return buf.Bytes()
}

// xmlTreeWriter streams elements through an indenting xml.Encoder and keeps
// the first error.
type xmlTreeWriter struct {
	enc   *xml.Encoder
	stack []xml.StartElement
	err   error
}

func (w *xmlTreeWriter) open(name string) {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	w.token(start)
	w.stack = append(w.stack, start)
}

func (w *xmlTreeWriter) close() {
	if len(w.stack) == 0 {
		return
	}

	start := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	w.token(start.End())
}

func (w *xmlTreeWriter) leaf(name, value string) {
	if value == "" {
		return
	}

	start := xml.StartElement{Name: xml.Name{Local: name}}
	w.token(start)
	w.token(xml.CharData(value))
	w.token(start.End())
}

func (w *xmlTreeWriter) token(t xml.Token) {
	if w.err != nil {
		return
	}

	w.err = w.enc.EncodeToken(t)
}

func (w *xmlTreeWriter) flush() error {
	if w.err != nil {
		return w.err
	}

	return w.enc.Flush()
}

func decodeIXMLChunk(payload []byte) (*IXML, error) {
	doc := &IXML{}

	err := xml.Unmarshal(bytes.TrimRight(payload, "\x00"), doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the iXML chunk - %w", err)
	}

	return doc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
