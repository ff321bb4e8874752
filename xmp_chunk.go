package wavmeta

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
)

const xmpPacketTemplate = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/" x:xmptk="XMP Core 5.5.0">
   <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
      <rdf:Description rdf:about=""
            xmlns:xmp="http://ns.adobe.com/xap/1.0/"
            xmlns:dc="http://purl.org/dc/elements/1.1/"
            xmlns:xmpDM="http://ns.adobe.com/xmp/1.0/DynamicMedia/">
         <xmp:CreatorTool>{{x .Software}}</xmp:CreatorTool>
         <xmp:MetadataDate>{{x .Timestamp}}</xmp:MetadataDate>
         <xmp:ModifyDate>{{x .Timestamp}}</xmp:ModifyDate>
         <xmp:rating>0.000000</xmp:rating>
         <dc:description>
            <rdf:Alt>
               <rdf:li xml:lang="x-default">{{x .Description}}</rdf:li>
               <rdf:li xml:lang="en-US">{{x .Description}}</rdf:li>
            </rdf:Alt>
         </dc:description>
         <dc:publisher>
            <rdf:Bag>
               <rdf:li>{{x .URL}}</rdf:li>
            </rdf:Bag>
         </dc:publisher>
         <dc:title>
            <rdf:Alt>
               <rdf:li xml:lang="x-default">{{x .FXName}}</rdf:li>
               <rdf:li xml:lang="en-US">{{x .FXName}}</rdf:li>
            </rdf:Alt>
         </dc:title>
         <xmpDM:comment>{{x .Notes}}</xmpDM:comment>
         <xmpDM:logComment>{{x .Notes}}</xmpDM:logComment>
         <xmpDM:album>{{x .Library}}</xmpDM:album>
         <xmpDM:artist>{{x .Designer}}</xmpDM:artist>
         <xmpDM:genre>{{x .Genre}}</xmpDM:genre>
      </rdf:Description>
   </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var xmpPacket = template.Must(template.New("xmp").
	Funcs(template.FuncMap{"x": xmlEscaper.Replace}).
	Parse(xmpPacketTemplate))

type xmpValues struct {
	Software    string
	Timestamp   string
	Description string
	URL         string
	FXName      string
	Notes       string
	Library     string
	Designer    string
	Genre       string
}

// XMP holds the fields read back from an XMP packet, keyed by the local
// element name. Language alternatives and bags are keyed by their
// enclosing property (title, description, publisher) and keep the first
// entry.
type XMP map[string]string

func encodeXMPChunk(in *EncodeInput) []byte {
	f := in.Fields

	values := xmpValues{
		Software:    in.software(),
		Timestamp:   in.Now.Format(time.RFC3339),
		Description: f.Description,
		URL:         f.URL,
		FXName:      f.FXName,
		Notes:       f.Notes,
		Library:     f.Library,
		Designer:    f.Designer,
		Genre:       f.CategoryFull(),
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(xmpPacketTemplate)+256))

	// every value is a plain string, execution cannot fail
	_ = xmpPacket.Execute(buf, values)

	return buf.Bytes()
}

func decodeXMPChunk(payload []byte) (XMP, error) {
	out := XMP{}
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimRight(payload, "\x00")))

	var (
		stack []string
		text  strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return out, fmt.Errorf("failed to decode the XMP packet - %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			key := t.Name.Local
			if key == "li" && len(stack) >= 3 {
				key = stack[len(stack)-3]
			}

			if val := strings.TrimSpace(text.String()); val != "" {
				if _, seen := out[key]; !seen {
					out[key] = val
				}
			}

			text.Reset()

			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}
