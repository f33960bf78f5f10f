// Package imageproc generates resized JPEG derivatives (thumbnail and medium) of uploaded photos.
package imageproc

import (
	"fmt"
	"math"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
)

// Engine decodes a source buffer once and produces both derivatives from it
type Engine interface {
	Generate(buf []byte) (model.Derivatives, error)
}

// NewEngine returns libvips-backed engine when built with cgo, pure-Go one otherwise
func NewEngine() (Engine, error) {
	if err := Startup(); err != nil {
		return nil, fmt.Errorf("failed to start image runtime: %w", err)
	}
	return newEngine(), nil
}

func GenerateDerivatives(buf []byte) (model.Derivatives, error) {
	engine, err := NewEngine()
	if err != nil {
		return model.Derivatives{}, err
	}
	return engine.Generate(buf)
}

// FitInside returns output size for width-constrained resize without enlargement.
// Dimensions must be the oriented ones.
func FitInside(srcW, srcH, targetW int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0
	}

	w := min(targetW, srcW)
	h := int(math.Round(float64(w) * float64(srcH) / float64(srcW)))
	return w, max(h, 1)
}

// recoverVariant must be deferred directly in every encode goroutine: a codec panic there
// is out of reach of any recover in the caller
func recoverVariant(spec model.DerivativeSpec, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("failed to encode %s derivative: panic: %v", spec.Name, r)
	}
}
