package typeid

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		prefix  string
		wantErr bool
	}{
		{"drawing", NewDrawingID(), PrefixDrawing, false},
		{"wrong prefix", NewSnapshotID(), PrefixDrawing, true},
		{"garbage", "drw_nope", PrefixDrawing, true},
		{"empty", "", PrefixDrawing, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.id, tt.prefix); (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestElementsGenerator(t *testing.T) {
	g := Elements()
	a, b := g.NewID(), g.NewID()
	if a == b {
		t.Error("generator repeated an id")
	}
	if !strings.HasPrefix(a, PrefixElement+"_") {
		t.Errorf("id %q lacks the element prefix", a)
	}
}
