// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the PNG-to-SVG frontend:
// conversion options and presets, single and bulk conversion results, and
// the configuration records consumed by the CLI and the web UI.
package types

import "fmt"

// TurnPolicy controls how the vectorizer resolves ambiguous paths. The value
// is passed through to the converter backend opaquely.
type TurnPolicy string

const (
	TurnBlack    TurnPolicy = "black"
	TurnWhite    TurnPolicy = "white"
	TurnLeft     TurnPolicy = "left"
	TurnRight    TurnPolicy = "right"
	TurnMinority TurnPolicy = "minority"
	TurnMajority TurnPolicy = "majority"
	TurnRandom   TurnPolicy = "random"
)

// TurnPolicies lists the accepted turn policy values in display order.
var TurnPolicies = []TurnPolicy{
	TurnBlack, TurnWhite, TurnLeft, TurnRight,
	TurnMinority, TurnMajority, TurnRandom,
}

// Options holds the tunable conversion parameters sent with every request.
type Options struct {
	// Preset is the selected preset name, or empty when none is chosen.
	// Choosing a preset records the name only; it does not rewrite the
	// tunable fields below.
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty"`

	// Threshold is the black/white cutoff, 0-255.
	Threshold int `json:"threshold" yaml:"threshold"`

	// TurdSize is the noise-removal strength: speckles smaller than this
	// many pixels are dropped before tracing.
	TurdSize int `json:"turd_size" yaml:"turd_size"`

	// OptCurve enables curve optimization in the traced output.
	OptCurve bool `json:"opt_curve" yaml:"opt_curve"`

	// TurnPolicy resolves ambiguous path directions during tracing.
	TurnPolicy TurnPolicy `json:"turn_policy" yaml:"turn_policy"`
}

// DefaultOptions returns the option values the UI starts from.
func DefaultOptions() Options {
	return Options{
		Threshold:  128,
		TurdSize:   2,
		OptCurve:   true,
		TurnPolicy: TurnMinority,
	}
}

// Validate checks that every field is inside its accepted range.
func (o Options) Validate() error {
	if o.Threshold < 0 || o.Threshold > 255 {
		return fmt.Errorf("threshold %d out of range: must be 0-255", o.Threshold)
	}
	if o.TurdSize < 0 {
		return fmt.Errorf("turd size %d out of range: must be >= 0", o.TurdSize)
	}
	valid := false
	for _, p := range TurnPolicies {
		if o.TurnPolicy == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown turn policy %q", o.TurnPolicy)
	}
	if o.Preset != "" && FindPreset(o.Preset) == nil {
		return fmt.Errorf("unknown preset %q", o.Preset)
	}
	return nil
}

// Preset is a named bundle suggesting conversion parameters for a class of
// source image. Presets are recorded and forwarded to the backend; they are
// not expanded into field values on this side.
type Preset struct {
	Name        string `json:"name" yaml:"name"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

// Presets is the fixed preset enumeration offered by the options panel.
var Presets = []Preset{
	{Name: "logo", Label: "Logo", Description: "Flat-color logos and icons with sharp edges"},
	{Name: "photo", Label: "Photo", Description: "Photographic images with gradients and detail"},
	{Name: "drawing", Label: "Drawing", Description: "Line art, sketches, and hand-drawn images"},
	{Name: "text", Label: "Text", Description: "Scanned documents and text-heavy images"},
}

// FindPreset returns the preset with the given name, or nil if none matches.
func FindPreset(name string) *Preset {
	for i := range Presets {
		if Presets[i].Name == name {
			return &Presets[i]
		}
	}
	return nil
}
