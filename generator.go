package imagechat

import (
	"context"
	"fmt"
)

// AspectRatio is an output-shape hint passed opaquely to the generator.
type AspectRatio string

const (
	AspectSquare            AspectRatio = "1:1"
	AspectLandscape         AspectRatio = "16:9"
	AspectPortrait          AspectRatio = "9:16"
	AspectStandardLandscape AspectRatio = "4:3"
	AspectStandardPortrait  AspectRatio = "3:4"
)

var aspectLabels = map[AspectRatio]string{
	AspectSquare:            "Quadrado (1:1)",
	AspectLandscape:         "Paisagem (16:9)",
	AspectPortrait:          "Retrato (9:16)",
	AspectStandardLandscape: "Padrão (4:3)",
	AspectStandardPortrait:  "Vertical (3:4)",
}

// AspectRatios returns the supported ratios in selector order.
func AspectRatios() []AspectRatio {
	return []AspectRatio{
		AspectSquare,
		AspectLandscape,
		AspectPortrait,
		AspectStandardLandscape,
		AspectStandardPortrait,
	}
}

// ParseAspectRatio converts s to an AspectRatio, rejecting unknown values.
func ParseAspectRatio(s string) (AspectRatio, error) {
	a := AspectRatio(s)
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

// Validate checks enum membership only.
func (a AspectRatio) Validate() error {
	if _, ok := aspectLabels[a]; !ok {
		return fmt.Errorf("unknown aspect ratio %q: %w", string(a), ErrValidation)
	}
	return nil
}

// Label returns the human-readable name shown in the UI.
func (a AspectRatio) Label() string {
	if l, ok := aspectLabels[a]; ok {
		return l
	}
	return string(a)
}

// Next returns the ratio after a in selector order, wrapping around.
func (a AspectRatio) Next() AspectRatio {
	all := AspectRatios()
	for i, r := range all {
		if r == a {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// GenerationRequest is one call to the generator. When a reference image is
// present it conditions the output (edit mode); otherwise the image is
// generated from the prompt alone.
type GenerationRequest struct {
	Prompt            string
	AspectRatio       AspectRatio
	ReferenceBase64   string
	ReferenceMimeType string
}

// HasReference reports whether the request carries a reference image.
func (r GenerationRequest) HasReference() bool {
	return r.ReferenceBase64 != "" && r.ReferenceMimeType != ""
}

// GenerationResult holds the images and caption text of one call. Both may
// be empty.
type GenerationResult struct {
	Text   string
	Images []Image
}

// Generator produces images from a prompt and optional reference image.
// Implementations return *GenerationError or *ConfigurationError on failure.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}
