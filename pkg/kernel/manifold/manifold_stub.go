//go:build !manifold

// Package manifold provides a CGo geometry kernel backed by the Manifold
// library. Without the "manifold" build tag New always fails.
//
// Build with: go build -tags=manifold
package manifold

import (
	"errors"

	"github.com/chazu/meshdump/pkg/kernel"
)

// ErrUnavailable is returned by New when the binary was built without
// Manifold support.
var ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")

// New returns ErrUnavailable.
func New() (kernel.Kernel, error) {
	return nil, ErrUnavailable
}
