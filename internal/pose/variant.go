package pose

import (
	"errors"
	"fmt"
)

// Variant names one of the pretrained MoveNet configurations.
type Variant string

const (
	SinglePoseLightning Variant = "singlepose_lightning"
	SinglePoseThunder   Variant = "singlepose_thunder"
	MultiPoseLightning  Variant = "multipose_lightning"
)

// DefaultVariant is used when a request does not name one.
const DefaultVariant = SinglePoseLightning

// Family groups variants by output layout.
type Family string

const (
	FamilySingle Family = "single"
	FamilyMulti  Family = "multi"
)

// ErrUnknownVariant is returned for names outside the registry.
var ErrUnknownVariant = errors.New("unknown model variant")

// VariantSpec describes how a variant is fetched, fed and read.
type VariantSpec struct {
	Variant     Variant
	Handle      string
	Family      Family
	Width       int
	Height      int
	InputName   string
	OutputName  string
	OutputShape []int64
}

var registry = map[Variant]VariantSpec{
	SinglePoseLightning: {
		Variant:     SinglePoseLightning,
		Handle:      "https://tfhub.dev/google/movenet/singlepose/lightning/4",
		Family:      FamilySingle,
		Width:       192,
		Height:      192,
		InputName:   "input",
		OutputName:  "output_0",
		OutputShape: []int64{1, 1, 17, 3},
	},
	SinglePoseThunder: {
		Variant:     SinglePoseThunder,
		Handle:      "https://tfhub.dev/google/movenet/singlepose/thunder/4",
		Family:      FamilySingle,
		Width:       256,
		Height:      256,
		InputName:   "input",
		OutputName:  "output_0",
		OutputShape: []int64{1, 1, 17, 3},
	},
	MultiPoseLightning: {
		Variant:     MultiPoseLightning,
		Handle:      "https://tfhub.dev/google/movenet/multipose/lightning/1",
		Family:      FamilyMulti,
		Width:       256,
		Height:      256,
		InputName:   "input",
		OutputName:  "output_0",
		OutputShape: []int64{1, 6, 56},
	},
}

// Variants lists every registered variant in a stable order.
func Variants() []Variant {
	return []Variant{SinglePoseLightning, SinglePoseThunder, MultiPoseLightning}
}

// Lookup returns the VariantSpec registered for v.
func Lookup(v Variant) (VariantSpec, error) {
	spec, ok := registry[v]
	if !ok {
		return VariantSpec{}, fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}
	// OutputShape is shared; hand out a copy.
	spec.OutputShape = append([]int64(nil), spec.OutputShape...)
	return spec, nil
}

// ParseVariant validates a user-supplied name. An empty name selects DefaultVariant.
func ParseVariant(name string) (Variant, error) {
	if name == "" {
		return DefaultVariant, nil
	}
	v := Variant(name)
	if _, ok := registry[v]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}
