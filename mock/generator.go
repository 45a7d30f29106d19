// Package mock provides test doubles for imagechat interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/imagechat"
)

// Interface compliance checks.
var (
	_ imagechat.Generator  = (*Generator)(nil)
	_ imagechat.ImageSaver = (*ImageSaver)(nil)
	_ imagechat.Viewer     = (*Viewer)(nil)
)

// Generator is a test double for imagechat.Generator.
// Set GenerateFn before calling Generate. GenerateFn may be called
// concurrently.
type Generator struct {
	GenerateFn func(ctx context.Context, req imagechat.GenerationRequest) (imagechat.GenerationResult, error)
}

// Generate delegates to GenerateFn.
func (g *Generator) Generate(ctx context.Context, req imagechat.GenerationRequest) (imagechat.GenerationResult, error) {
	return g.GenerateFn(ctx, req)
}

// ImageSaver is a test double for imagechat.ImageSaver.
type ImageSaver struct {
	SaveFn func(msg imagechat.Message, index int) (string, error)
}

// Save delegates to SaveFn.
func (s *ImageSaver) Save(msg imagechat.Message, index int) (string, error) {
	return s.SaveFn(msg, index)
}

// Viewer is a test double for imagechat.Viewer.
type Viewer struct {
	OpenFn func(path string) error
}

// Open delegates to OpenFn.
func (v *Viewer) Open(path string) error {
	return v.OpenFn(path)
}
