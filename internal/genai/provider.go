// Package genai is the pass-through boundary to external image-generation
// providers. The backend does not synthesize images itself.
package genai

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/roomcraft/designer/internal/models"
)

// ErrUnknownProvider marks an invalid provider name in a request.
var ErrUnknownProvider = errors.New("unknown provider")

// Prompt templates shared by all providers.
const (
	PromptTemplate = "photorealistic %s interior redesign, %s style, " +
		"realistic lighting, high detail, wide angle, interior design render"
	NegativePrompt = "low quality, distorted, blurry, cartoon, sketch, deformed, " +
		"bad anatomy, disfigured, poorly drawn, extra limbs"
)

type Generator interface {
	Generate(ctx context.Context, imageRef, roomType, style string) (models.GeneratedImage, error)
}

// Registry maps provider names (offline, replicate, hf) to Generators.
type Registry struct {
	generators map[string]Generator
}

func NewRegistry() *Registry {
	return &Registry{generators: map[string]Generator{}}
}

func (r *Registry) Register(name string, g Generator) {
	r.generators[name] = g
}

func (r *Registry) Get(name string) (Generator, error) {
	g, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownProvider, name, r.Names())
	}
	return g, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
