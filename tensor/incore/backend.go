package incore

import "github.com/lcyyork/ambit/tensor"

// backend implements tensor.Backend by allocating zeroed Dense storage,
// the seam tensor.New uses to dispatch tensor.InCore (and
// tensor.Agnostic, which falls back to it) to this package.
type backend struct{}

func (backend) New(shape tensor.Shape) tensor.Storage { return New(shape) }

func init() {
	tensor.Register(tensor.InCore, backend{})
}
