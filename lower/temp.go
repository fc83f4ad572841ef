package lower

import (
	"math/bits"
	"sync"

	"github.com/lcyyork/ambit/tensor"
	"github.com/lcyyork/ambit/tensor/incore"
)

// floatPool is a size-stratified pool of scratch float64 slices, one
// sync.Pool per power-of-two size class, directly grounded on
// mat/pool.go's pool/poolFor/getWorkspace discipline (gonum pools
// *Dense scratch matrices the same way; this adapts it from a fixed
// r×c matrix shape to an arbitrary-rank tensor keyed by total element
// count).
var floatPool [63]sync.Pool

func init() {
	for i := range floatPool {
		l := 1 << uint(i)
		floatPool[i].New = func() interface{} {
			s := make([]float64, l)
			return &s
		}
	}
}

func poolFor(size int) int {
	if size <= 1 {
		return 0
	}
	return bits.Len(uint(size - 1))
}

// tempHandle is an in-flight scoped temporary: the Tensor the lowerer
// computes into, and (when it came from the pool) the backing slice to
// return on release.
type tempHandle struct {
	T      tensor.Tensor
	buf    *[]float64
	pooled bool
}

// tempStack allocates scoped temporaries for one assignment's pair-step
// schedule, matching the target's backend kind (spec.md §4.E,
// "allocate temporaries of the in-core backend matching target's
// backend kind"). Only the in-core kind draws from floatPool; other
// backend kinds allocate directly through their registered Backend,
// since pooling raw float64 slices only makes sense for the backend
// that owns them directly.
type tempStack struct {
	kind tensor.BackendKind
}

func newTempStack(kind tensor.BackendKind) *tempStack {
	return &tempStack{kind: kind}
}

// alloc returns a zeroed temporary of shape, named for diagnostics.
func (s *tempStack) alloc(name string, shape tensor.Shape) tempHandle {
	if s.kind != tensor.InCore && s.kind != tensor.Agnostic {
		return tempHandle{T: tensor.New(s.kind, name, shape)}
	}
	n := shape.Size()
	idx := poolFor(n)
	bufp := floatPool[idx].Get().(*[]float64)
	buf := (*bufp)[:n]
	for i := range buf {
		buf[i] = 0
	}
	store := incore.NewFromData(shape, buf)
	return tempHandle{T: tensor.Wrap(tensor.InCore, name, store), buf: bufp, pooled: true}
}

// release returns h's backing buffer to the pool, once its final
// consumer has read it (spec.md §4.E, "temporaries are freed between
// products to bound peak memory").
func (s *tempStack) release(h tempHandle) {
	if !h.pooled {
		return
	}
	idx := poolFor(len(*h.buf))
	floatPool[idx].Put(h.buf)
}
