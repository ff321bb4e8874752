package wavmeta

import "testing"

func TestResolveAliases(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		get  func(Fields) string
		want string
	}{
		{"canonical", Record{"SubCategory": "WOOD"}, func(f Fields) string { return f.SubCategory }, "WOOD"},
		{"alias", Record{"Subcategory": "WOOD"}, func(f Fields) string { return f.SubCategory }, "WOOD"},
		{"recording medium", Record{"RecMedium": "DAT"}, func(f Fields) string { return f.RecordingMedium }, "DAT"},
		{"mic perspective", Record{"Microphone Perspective": "CU"}, func(f Fields) string { return f.MicPerspective }, "CU"},
		{"normalized case", Record{"catid": "SFX01"}, func(f Fields) string { return f.CatID }, "SFX01"},
		{"normalized separators", Record{"fx_name": "Slam"}, func(f Fields) string { return f.FXName }, "Slam"},
		{"first alias wins", Record{"FX Name": "A", "FXName": "B"}, func(f Fields) string { return f.FXName }, "A"},
		{"empty falls through", Record{"FX Name": "", "FXName": "B"}, func(f Fields) string { return f.FXName }, "B"},
		{"exact over normalized", Record{"designer": "x", "Designer": "Jane"}, func(f Fields) string { return f.Designer }, "Jane"},
		{"unknown ignored", Record{"Bogus": "x"}, func(f Fields) string { return f.Designer }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(Resolve(tt.rec)); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveNilRecord(t *testing.T) {
	if got := Resolve(nil); got != (Fields{}) {
		t.Fatalf("expected zero Fields, got %+v", got)
	}
}

func TestCategoryFull(t *testing.T) {
	tests := []struct {
		cat, sub, want string
	}{
		{"DOORS", "WOOD", "DOORS-WOOD"},
		{"DOORS", "", "DOORS"},
		{"", "WOOD", "WOOD"},
		{"", "", ""},
	}

	for _, tt := range tests {
		f := Fields{Category: tt.cat, SubCategory: tt.sub}
		if got := f.CategoryFull(); got != tt.want {
			t.Fatalf("CategoryFull(%q, %q)=%q, want %q", tt.cat, tt.sub, got, tt.want)
		}
	}
}

func TestTrackNumberDefaultsToZero(t *testing.T) {
	if got := (Fields{}).TrackNumber(); got != "0" {
		t.Fatalf("TrackNumber()=%q, want 0", got)
	}

	if got := Resolve(Record{"Source ID": "12"}).TrackNumber(); got != "12" {
		t.Fatalf("TrackNumber()=%q, want 12", got)
	}
}
