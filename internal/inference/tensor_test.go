package inference

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestMatMul(t *testing.T) {
	a := NewTensor([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	b := NewTensor([]int{3, 2}, []float64{7, 8, 9, 10, 11, 12})

	got, err := a.MatMul(b)
	if err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}
	want := []float64{58, 64, 139, 154}
	if got.Shape[0] != 2 || got.Shape[1] != 2 {
		t.Fatalf("result shape = %v, want [2 2]", got.Shape)
	}
	for i := range want {
		if got.Data[i] != want[i] {
			t.Errorf("result[%d] = %f, want %f", i, got.Data[i], want[i])
		}
	}
}

func TestMatMul_ShapeMismatch(t *testing.T) {
	a := NewTensor([]int{2, 3}, make([]float64, 6))
	b := NewTensor([]int{2, 2}, make([]float64, 4))

	if _, err := a.MatMul(b); !errors.Is(err, ErrShape) {
		t.Errorf("mismatched inner dims should return ErrShape, got %v", err)
	}

	vec := NewTensor([]int{3}, make([]float64, 3))
	if _, err := vec.MatMul(a); !errors.Is(err, ErrShape) {
		t.Errorf("1-D input should return ErrShape, got %v", err)
	}
}

func TestSoftmax_SumsToOne(t *testing.T) {
	in := NewTensor([]int{4}, []float64{1, 2, 3, 4})
	out := in.Softmax()

	var sum float64
	for _, v := range out.Data {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("softmax sums to %f, want 1", sum)
	}
	for i := 1; i < len(out.Data); i++ {
		if out.Data[i] <= out.Data[i-1] {
			t.Error("softmax should preserve ordering of inputs")
		}
	}
}

func TestReLU(t *testing.T) {
	in := NewTensor([]int{4}, []float64{-2, -0.5, 0, 3})
	out := in.ReLU()

	want := []float64{0, 0, 0, 3}
	for i := range want {
		if out.Data[i] != want[i] {
			t.Errorf("relu[%d] = %f, want %f", i, out.Data[i], want[i])
		}
	}
}

func TestAdd(t *testing.T) {
	a := NewTensor([]int{2}, []float64{1, 2})
	b := NewTensor([]int{2}, []float64{10, 20})

	got, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got.Data[0] != 11 || got.Data[1] != 22 {
		t.Errorf("add = %v", got.Data)
	}

	c := NewTensor([]int{3}, make([]float64, 3))
	if _, err := a.Add(c); !errors.Is(err, ErrShape) {
		t.Errorf("shape mismatch should return ErrShape, got %v", err)
	}
}

func TestTranspose(t *testing.T) {
	in := NewTensor([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	out := in.Transpose()

	if out.Shape[0] != 3 || out.Shape[1] != 2 {
		t.Fatalf("transpose shape = %v, want [3 2]", out.Shape)
	}
	want := []float64{1, 4, 2, 5, 3, 6}
	for i := range want {
		if out.Data[i] != want[i] {
			t.Errorf("transpose[%d] = %f, want %f", i, out.Data[i], want[i])
		}
	}
}

func TestReshape(t *testing.T) {
	tensor := Zeros(2, 6)
	if err := tensor.Reshape(3, 4); err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	if tensor.Shape[0] != 3 || tensor.Shape[1] != 4 {
		t.Errorf("shape = %v, want [3 4]", tensor.Shape)
	}

	if err := tensor.Reshape(5, 5); !errors.Is(err, ErrShape) {
		t.Errorf("bad reshape should return ErrShape, got %v", err)
	}
}

func TestConstructors(t *testing.T) {
	z := Zeros(2, 2)
	for _, v := range z.Data {
		if v != 0 {
			t.Fatal("Zeros should be zero-filled")
		}
	}

	o := Ones(2, 2)
	for _, v := range o.Data {
		if v != 1 {
			t.Fatal("Ones should be one-filled")
		}
	}

	r := Random(rand.New(rand.NewSource(1)), 10, 10)
	if r.Size() != 100 {
		t.Fatalf("Random size = %d, want 100", r.Size())
	}
	for _, v := range r.Data {
		if v < -1 || v >= 1 {
			t.Fatalf("random element %f out of [-1,1)", v)
		}
	}
}
