package wavmeta

import (
	"sort"
	"strings"
)

// Record is the flat field-name to value mapping supplied by the caller.
// Absent keys behave like empty values.
type Record map[string]string

// Fields is the canonical view of a Record once field aliases are resolved.
type Fields struct {
	Designer        string
	CatID           string
	SourceID        string
	Description     string
	Title           string
	Category        string
	SubCategory     string
	Library         string
	URL             string
	Manufacturer    string
	Notes           string
	Microphone      string
	TrackTitle      string
	Keywords        string
	FXName          string
	RecordingMedium string
	MicPerspective  string
	MicConfig       string
	InsideOutside   string
	Location        string
	UserCategory    string
	VendorCategory  string
}

// fieldAliases lists the accepted spellings of every logical field, in
// priority order.
var fieldAliases = []struct {
	keys []string
	dst  func(*Fields) *string
}{
	{[]string{"Designer"}, func(f *Fields) *string { return &f.Designer }},
	{[]string{"CatID", "CatId"}, func(f *Fields) *string { return &f.CatID }},
	{[]string{"Source ID", "SourceID"}, func(f *Fields) *string { return &f.SourceID }},
	{[]string{"Description"}, func(f *Fields) *string { return &f.Description }},
	{[]string{"Title"}, func(f *Fields) *string { return &f.Title }},
	{[]string{"Category"}, func(f *Fields) *string { return &f.Category }},
	{[]string{"SubCategory", "Subcategory"}, func(f *Fields) *string { return &f.SubCategory }},
	{[]string{"Library"}, func(f *Fields) *string { return &f.Library }},
	{[]string{"URL"}, func(f *Fields) *string { return &f.URL }},
	{[]string{"Manufacturer"}, func(f *Fields) *string { return &f.Manufacturer }},
	{[]string{"Notes"}, func(f *Fields) *string { return &f.Notes }},
	{[]string{"Microphone"}, func(f *Fields) *string { return &f.Microphone }},
	{[]string{"TrackTitle"}, func(f *Fields) *string { return &f.TrackTitle }},
	{[]string{"Keywords"}, func(f *Fields) *string { return &f.Keywords }},
	{[]string{"FX Name", "FXName"}, func(f *Fields) *string { return &f.FXName }},
	{[]string{"Recording Medium", "RecMedium"}, func(f *Fields) *string { return &f.RecordingMedium }},
	{[]string{"Microphone Perspective", "MicPerspective"}, func(f *Fields) *string { return &f.MicPerspective }},
	{[]string{"Microphone Configuration", "MicConfig"}, func(f *Fields) *string { return &f.MicConfig }},
	{[]string{"Inside or Outside", "InOutside"}, func(f *Fields) *string { return &f.InsideOutside }},
	{[]string{"Location"}, func(f *Fields) *string { return &f.Location }},
	{[]string{"User Category", "UserCategory"}, func(f *Fields) *string { return &f.UserCategory }},
	{[]string{"Vendor Category", "VendorCategory"}, func(f *Fields) *string { return &f.VendorCategory }},
}

// Resolve maps a record onto Fields. Exact key matches win over normalized
// ones (case, spaces, '_' and '-' ignored); the first non-empty alias is used.
func Resolve(rec Record) Fields {
	var out Fields

	normalized := normalizeRecord(rec)

	for _, alias := range fieldAliases {
		dst := alias.dst(&out)

		for _, key := range alias.keys {
			if v := rec[key]; v != "" {
				*dst = v
				break
			}
		}

		if *dst != "" {
			continue
		}

		for _, key := range alias.keys {
			if v := normalized[normalizeKey(key)]; v != "" {
				*dst = v
				break
			}
		}
	}

	return out
}

// CategoryFull joins category and subcategory with a hyphen, falling back to
// whichever side is set.
func (f Fields) CategoryFull() string {
	switch {
	case f.Category != "" && f.SubCategory != "":
		return f.Category + "-" + f.SubCategory
	case f.Category != "":
		return f.Category
	default:
		return f.SubCategory
	}
}

// TrackNumber is the source id, "0" when unset.
func (f Fields) TrackNumber() string {
	if f.SourceID == "" {
		return "0"
	}

	return f.SourceID
}

func normalizeRecord(rec Record) map[string]string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}

	// sorted so that colliding spellings resolve the same way on every run
	sort.Strings(keys)

	out := make(map[string]string, len(rec))
	for _, k := range keys {
		nk := normalizeKey(k)
		if out[nk] == "" {
			out[nk] = rec[k]
		}
	}

	return out
}

func normalizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}

		return r
	}, strings.ToLower(key))
}
