package chartspec

import (
	"image/color"
	"testing"
)

func TestPartyColor(t *testing.T) {
	testCases := []struct {
		field string
		want  string
	}{
		{"G20PreD", DemocratColor},
		{"G20PreR", RepublicanColor},
		{"G20PreO", OtherColor},
		{"G12PreD", DemocratColor},
		// the rule only looks for letters, a "D" anywhere wins
		{"DRO", DemocratColor},
		{"xRx", RepublicanColor},
		{"", OtherColor},
	}
	for _, tt := range testCases {
		if got := PartyColor(tt.field); got != tt.want {
			t.Errorf("field [%s]: want %s, got %s", tt.field, tt.want, got)
		}
	}
}

func TestFieldLabel(t *testing.T) {
	testCases := []struct {
		field string
		want  string
	}{
		{"G20PreR", "20 R"},
		{"G08PreO", "08 O"},
		{"G12PreD", "12 D"},
	}
	for _, tt := range testCases {
		if got := FieldLabel(tt.field); got != tt.want {
			t.Errorf("field [%s]: want %s, got %s", tt.field, tt.want, got)
		}
	}
}

func TestColorOf(t *testing.T) {
	s := ChartSpec{
		Fields:  []string{"A", "B", "C"},
		Labels:  []string{"a", "b", "c"},
		Colors:  map[string]string{"B": "#123456"},
		Palette: []string{"#111111", "#222222"},
	}
	testCases := []struct {
		field string
		want  string
	}{
		{"A", "#111111"},
		{"B", "#123456"},
		{"C", "#111111"},
		{"Z", OtherColor},
	}
	for _, tt := range testCases {
		if got := s.ColorOf(tt.field); got != tt.want {
			t.Errorf("field [%s]: want %s, got %s", tt.field, tt.want, got)
		}
	}
	if s.LabelOf("C") != "c" || s.LabelOf("Z") != "Z" {
		t.Errorf("unexpected labels %s %s", s.LabelOf("C"), s.LabelOf("Z"))
	}
}

func TestRGBA(t *testing.T) {
	c, err := RGBA("#e41a1c")
	if err != nil {
		t.Fatalf("expected err nil, got %v", err)
	}
	if c != (color.RGBA{R: 0xe4, G: 0x1a, B: 0x1c, A: 0xff}) {
		t.Errorf("unexpected color %v", c)
	}
	for _, in := range []string{"blue", "#12345", "#gggggg"} {
		if _, err := RGBA(in); err == nil {
			t.Errorf("expected error for color [%s]", in)
		}
	}
}
