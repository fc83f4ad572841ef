package tensor_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lcyyork/ambit/tensor"
)

func TestShape(t *testing.T) {
	s := tensor.Shape{2, 3, 4}
	if s.Rank() != 3 {
		t.Errorf("Rank() = %d, want 3", s.Rank())
	}
	if s.Size() != 24 {
		t.Errorf("Size() = %d, want 24", s.Size())
	}
	if (tensor.Shape{}).Size() != 1 {
		t.Errorf("Size() of rank-0 shape = %d, want 1", tensor.Shape{}.Size())
	}
	if !s.Equal(tensor.Shape{2, 3, 4}) {
		t.Errorf("Equal returned false for identical shapes")
	}
	if s.Equal(tensor.Shape{2, 3}) {
		t.Errorf("Equal returned true for shapes of different rank")
	}
}

func TestLabels(t *testing.T) {
	ls := tensor.Labels("ijk")
	want := []tensor.Label{'i', 'j', 'k'}
	if diff := cmp.Diff(want, ls); diff != "" {
		t.Errorf("Labels(\"ijk\") mismatch (-want +got):\n%s", diff)
	}
	if got := tensor.LabelString(ls); got != "ijk" {
		t.Errorf("LabelString round-trip = %q, want %q", got, "ijk")
	}
}

func TestBackendKindString(t *testing.T) {
	cases := map[tensor.BackendKind]string{
		tensor.InCore:      "in-core",
		tensor.Disk:        "disk",
		tensor.Distributed: "distributed",
		tensor.Agnostic:    "agnostic",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestNewUnregisteredBackendPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r != tensor.ErrBackendKind {
			t.Errorf("recovered %v, want ErrBackendKind", r)
		}
	}()
	tensor.New(tensor.Distributed, "x", tensor.Shape{2, 2})
}
