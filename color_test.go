package icongen

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#4a90e2", Color{R: 74, G: 144, B: 226, A: 255}, false},
		{"#4A90E2FF", Color{R: 74, G: 144, B: 226, A: 255}, false},
		{"#4a90e280", Color{R: 74, G: 144, B: 226, A: 128}, false},
		{"#fff", Color{R: 255, G: 255, B: 255, A: 255}, false},
		{"74,144,226", Color{R: 74, G: 144, B: 226, A: 255}, false},
		{"74, 144, 226, 0", Color{R: 74, G: 144, B: 226, A: 0}, false},
		{" #000000 ", Color{A: 255}, false},
		{"", Color{}, true},
		{"blue", Color{}, true},
		{"#12345", Color{}, true},
		{"#gggggg", Color{}, true},
		{"1,2", Color{}, true},
		{"256,0,0", Color{}, true},
		{"-1,0,0", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseColor(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestColorString(t *testing.T) {
	if got := DefaultBackground.String(); got != "#4a90e2ff" {
		t.Errorf("String() = %q, want %q", got, "#4a90e2ff")
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := Color{R: 255, A: 128}.RGBA()
	// premultiplied: 255 * 128 / 255 = 128, scaled to 16 bits
	if r != 0x8080 || g != 0 || b != 0 || a != 0x8080 {
		t.Errorf("RGBA() = %#x %#x %#x %#x", r, g, b, a)
	}
}

func TestColorJSON(t *testing.T) {
	type doc struct {
		C Color `json:"c"`
	}
	b, err := json.Marshal(doc{C: DefaultForeground})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"c":"#ffffffff"}` {
		t.Errorf("Marshal = %s", got)
	}
	var d doc
	if err := json.Unmarshal([]byte(`{"c":"10,20,30"}`), &d); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Color{R: 10, G: 20, B: 30, A: 255}, d.C); diff != "" {
		t.Errorf("Unmarshal mismatch (-want +got):\n%s", diff)
	}
}
