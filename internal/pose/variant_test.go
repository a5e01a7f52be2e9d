package pose

import (
	"errors"
	"testing"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", SinglePoseLightning, false},
		{"singlepose_lightning", SinglePoseLightning, false},
		{"singlepose_thunder", SinglePoseThunder, false},
		{"multipose_lightning", MultiPoseLightning, false},
		{"bogus", "", true},
		{"SINGLEPOSE_LIGHTNING", "", true},
	}
	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownVariant) {
				t.Errorf("ParseVariant(%q): expected ErrUnknownVariant, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseVariant(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestLookup_Registry(t *testing.T) {
	for _, v := range Variants() {
		spec, err := Lookup(v)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", v, err)
		}
		if spec.Variant != v || spec.Handle == "" {
			t.Errorf("Incomplete spec for %s: %+v", v, spec)
		}
	}

	multi, _ := Lookup(MultiPoseLightning)
	if multi.Family != FamilyMulti {
		t.Errorf("Expected multi family, got %s", multi.Family)
	}
	lightning, _ := Lookup(SinglePoseLightning)
	if lightning.Width != 192 || lightning.Family != FamilySingle {
		t.Errorf("Unexpected lightning spec %+v", lightning)
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	spec, _ := Lookup(SinglePoseLightning)
	spec.OutputShape[0] = 99

	again, _ := Lookup(SinglePoseLightning)
	if again.OutputShape[0] != 1 {
		t.Error("Mutating a looked-up spec must not change the registry")
	}
}
