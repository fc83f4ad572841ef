package tensor

// Storage is the capability set every backend implements: a polymorphic
// handle to a dense block of doubles with named shape (spec.md §4.A).
// Non-in-core backends may implement these by paging blocks in and
// delegating to the in-core kernel; the public contract and numerical
// result are identical across backends.
type Storage interface {
	// Kind reports which BackendKind this Storage implements.
	Kind() BackendKind

	// Shape reports the storage's extents.
	Shape() Shape

	// Zero sets every element to zero.
	Zero()

	// Scale multiplies every element by alpha in place.
	Scale(alpha float64)

	// Copy sets this storage to alpha*src elementwise. src must share
	// this storage's shape exactly (no permutation).
	Copy(src Storage, alpha float64)

	// Norm computes the p-norm of the elements: p=0 is max(|x|), p=1 is
	// sum(|x|), p=2 is sqrt(sum(x^2)), otherwise sum(|x|^p)^(1/p).
	Norm(p float64) float64

	// Dot computes the elementwise dot product against src, which must
	// share this storage's shape.
	Dot(src Storage) float64

	// PointwiseMultiply multiplies this storage by src elementwise in
	// place. src must share this storage's shape.
	PointwiseMultiply(src Storage)

	// PointwiseDivide divides this storage by src elementwise in place.
	// src must share this storage's shape.
	PointwiseDivide(src Storage)

	// Permute computes C(cinds) <- alpha*A(ainds) + beta*C(cinds),
	// where C is the receiver. cinds must be a permutation of ainds and
	// the corresponding extents must match under that permutation.
	// beta==0 must not read the receiver's existing contents, even if
	// they contain NaN.
	Permute(a Storage, cinds, ainds []Label, alpha, beta float64)

	// Contract computes C(cinds) <- alpha*A(ainds)*B(binds) +
	// beta*C(cinds), where C is the receiver, summing over every label
	// that appears in both ainds and binds but not in cinds. beta==0
	// must not read the receiver's existing contents.
	Contract(a, b Storage, cinds, ainds, binds []Label, alpha, beta float64)

	// Slice computes C[cranges] <- alpha*A[aranges] + beta*C[cranges],
	// where C is the receiver. cranges and aranges must have matching
	// rank and matching per-axis width.
	Slice(a Storage, cranges, aranges []Range, alpha, beta float64)
}

// RawStorer is implemented by backends (only the in-core one) that
// expose their raw element buffer.
type RawStorer interface {
	RawStorage() []float64
}

// Backend is a factory that allocates Storage of one BackendKind.
// Modeled on blas64.Use's pluggable-implementation registration: a
// backend is installed once, globally, and every subsequent New call for
// that kind uses it.
type Backend interface {
	// New allocates zeroed storage of the given shape.
	New(shape Shape) Storage
}

var backends = map[BackendKind]Backend{}

// Register installs b as the implementation for kind. Calling Register
// again for the same kind replaces the previous implementation; this
// mirrors blas64.Use, which is likewise last-write-wins and intended to
// be called during program initialization, not concurrently with use.
func Register(kind BackendKind, b Backend) {
	backends[kind] = b
}

// Lookup returns the registered Backend for kind, if any.
func Lookup(kind BackendKind) (Backend, bool) {
	return lookup(kind)
}

func lookup(kind BackendKind) (Backend, bool) {
	if kind == Agnostic {
		if b, ok := backends[InCore]; ok {
			return b, true
		}
	}
	b, ok := backends[kind]
	return b, ok
}
