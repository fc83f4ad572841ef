// Package tensor defines the storage-agnostic data model shared by every
// backend: the Tensor handle, its Shape, the Label alphabet used to name
// axes in an expression, and the Storage capability set a backend must
// implement. Concrete backends live in subpackages (tensor/incore is the
// only one this module implements); disk-resident and distributed
// backends are pluggable implementations of the same Storage contract,
// registered through Register.
package tensor

import "fmt"

// BackendKind names the storage policy under a Tensor handle.
type BackendKind int

const (
	// InCore stores the tensor as a single contiguous in-process buffer.
	InCore BackendKind = iota
	// Disk stores the tensor out-of-core, paging blocks as needed.
	Disk
	// Distributed stores the tensor across a cluster.
	Distributed
	// Agnostic defers to whatever backend the library registers as the
	// default.
	Agnostic
)

func (k BackendKind) String() string {
	switch k {
	case InCore:
		return "in-core"
	case Disk:
		return "disk"
	case Distributed:
		return "distributed"
	case Agnostic:
		return "agnostic"
	default:
		return fmt.Sprintf("BackendKind(%d)", int(k))
	}
}

// Label is a single-character index name, the building block of a
// labeled tensor's index string, e.g. the 'i' and 'k' in A("ik").
type Label byte

// Labels splits an index string into its constituent Labels, one per
// byte. It performs no validation, and expr.Label does not check the
// label count against the tensor's rank either.
func Labels(s string) []Label {
	ls := make([]Label, len(s))
	for i := 0; i < len(s); i++ {
		ls[i] = Label(s[i])
	}
	return ls
}

// LabelString renders a label sequence back to its index-string form.
func LabelString(ls []Label) string {
	b := make([]byte, len(ls))
	for i, l := range ls {
		b[i] = byte(l)
	}
	return string(b)
}

// Range is a half-open interval [Lo, Hi) selecting elements along one
// axis of a sliced tensor.
type Range struct {
	Lo, Hi int
}

// Width reports Hi-Lo, the number of elements the range selects.
func (r Range) Width() int { return r.Hi - r.Lo }

// Shape is an ordered sequence of non-negative axis extents. Its length
// is the tensor's rank; the empty Shape is rank 0, a scalar.
type Shape []int

// Rank reports the number of axes.
func (s Shape) Rank() int { return len(s) }

// Size reports the total element count, the product of all extents. A
// rank-0 shape has size 1.
func (s Shape) Size() int {
	n := 1
	for _, e := range s {
		n *= e
	}
	return n
}

// Equal reports whether s and o have identical extents in the same
// order.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i, e := range s {
		if e != o[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// Tensor is a reference-counted handle to backend-owned storage. Two
// Tensors are equal iff they reference the same storage object; Go's
// garbage collector retires the storage once the last handle referencing
// it is gone, so no manual refcount is kept (see DESIGN.md, Open
// Questions).
//
// Tensor is a small value type, cheap to copy and pass by value, in
// keeping with the AST nodes in package expr that borrow it.
type Tensor struct {
	name  string
	kind  BackendKind
	store Storage
}

// New builds a Tensor backed by the registered implementation for kind,
// allocating storage eagerly. name is a diagnostic label only; it has no
// semantic effect.
func New(kind BackendKind, name string, shape Shape) Tensor {
	b, ok := lookup(kind)
	if !ok {
		panic(ErrBackendKind)
	}
	return Tensor{name: name, kind: kind, store: b.New(shape.Clone())}
}

// Wrap builds a Tensor around storage a caller already obtained from a
// backend directly (for example a temporary allocated by package lower).
func Wrap(kind BackendKind, name string, store Storage) Tensor {
	return Tensor{name: name, kind: kind, store: store}
}

// Name returns the tensor's diagnostic name.
func (t Tensor) Name() string { return t.name }

// Kind returns the tensor's backend kind.
func (t Tensor) Kind() BackendKind { return t.kind }

// Shape returns the tensor's extents.
func (t Tensor) Shape() Shape { return t.store.Shape() }

// Rank returns the tensor's rank.
func (t Tensor) Rank() int { return t.store.Shape().Rank() }

// Size returns the tensor's total element count.
func (t Tensor) Size() int { return t.store.Shape().Size() }

// Storage exposes the backing Storage, for backend-level code (package
// lower and tests) that must call the primitive kernels directly.
func (t Tensor) Storage() Storage { return t.store }

// Equal reports whether t and o reference the same storage object.
func (t Tensor) Equal(o Tensor) bool { return t.store == o.store }

// IsZero reports whether t is the zero Tensor (no storage attached).
func (t Tensor) IsZero() bool { return t.store == nil }

// Zero sets every element of t to zero.
func (t Tensor) Zero() { t.store.Zero() }

// Scale multiplies every element of t by alpha in place.
func (t Tensor) Scale(alpha float64) { t.store.Scale(alpha) }

// Norm computes the p-norm of t's elements, per the convention in
// Storage.Norm.
func (t Tensor) Norm(p float64) float64 { return t.store.Norm(p) }

// Dot computes the elementwise dot product of t and o, which must share
// a shape.
func (t Tensor) Dot(o Tensor) float64 { return t.store.Dot(o.store) }

// RawStorage exposes the raw element buffer for in-core tensors. It
// panics with ErrBackendUnsupported for any other backend kind.
func (t Tensor) RawStorage() []float64 {
	r, ok := t.store.(RawStorer)
	if !ok {
		panic(ErrBackendUnsupported)
	}
	return r.RawStorage()
}

func (t Tensor) String() string {
	return fmt.Sprintf("Tensor(%q, %s, shape=%v)", t.name, t.kind, t.Shape())
}
