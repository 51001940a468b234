// Package inference provides the toy tensor arithmetic, layer operations,
// model weights, and tokenizer consumed by the swarm as opaque value
// producers. The swarm core performs no numeric validation of its own.
package inference

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrShape indicates tensor shapes are incompatible for an operation.
var ErrShape = errors.New("tensor shape mismatch")

// DataType identifies the element type of a tensor.
type DataType string

const (
	// Float32 is the default element type.
	Float32 DataType = "float32"
	// Float16 is a half-precision element type.
	Float16 DataType = "float16"
	// Int32 is a 32-bit integer element type.
	Int32 DataType = "int32"
	// Int64 is a 64-bit integer element type.
	Int64 DataType = "int64"
)

// Tensor is a dense n-dimensional array in row-major order.
type Tensor struct {
	// Shape lists the tensor's dimensions.
	Shape []int `json:"shape"`
	// Data holds the elements in row-major order.
	Data []float64 `json:"data"`
	// DType is the declared element type.
	DType DataType `json:"dtype"`
}

// NewTensor creates a tensor from a shape and its row-major data.
func NewTensor(shape []int, data []float64) *Tensor {
	return &Tensor{Shape: shape, Data: data, DType: Float32}
}

// Zeros creates a zero-filled tensor of the given shape.
func Zeros(shape ...int) *Tensor {
	return NewTensor(shape, make([]float64, numElements(shape)))
}

// Ones creates a one-filled tensor of the given shape.
func Ones(shape ...int) *Tensor {
	data := make([]float64, numElements(shape))
	for i := range data {
		data[i] = 1
	}
	return NewTensor(shape, data)
}

// Random creates a tensor with elements drawn uniformly from [-1, 1).
func Random(rng *rand.Rand, shape ...int) *Tensor {
	data := make([]float64, numElements(shape))
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	return NewTensor(shape, data)
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Size returns the number of elements.
func (t *Tensor) Size() int {
	return len(t.Data)
}

// Reshape changes the tensor's shape in place. The element count must not
// change.
func (t *Tensor) Reshape(shape ...int) error {
	if numElements(shape) != len(t.Data) {
		return fmt.Errorf("reshape %v to %v: %w", t.Shape, shape, ErrShape)
	}
	t.Shape = shape
	return nil
}

// Add returns the element-wise sum of t and other.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	if !sameShape(t.Shape, other.Shape) {
		return nil, fmt.Errorf("add %v and %v: %w", t.Shape, other.Shape, ErrShape)
	}
	data := make([]float64, len(t.Data))
	for i := range data {
		data[i] = t.Data[i] + other.Data[i]
	}
	return NewTensor(append([]int(nil), t.Shape...), data), nil
}

// Multiply returns the element-wise product of t and other.
func (t *Tensor) Multiply(other *Tensor) (*Tensor, error) {
	if !sameShape(t.Shape, other.Shape) {
		return nil, fmt.Errorf("multiply %v and %v: %w", t.Shape, other.Shape, ErrShape)
	}
	data := make([]float64, len(t.Data))
	for i := range data {
		data[i] = t.Data[i] * other.Data[i]
	}
	return NewTensor(append([]int(nil), t.Shape...), data), nil
}

// MatMul returns the matrix product of two 2-D tensors.
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) {
	if len(t.Shape) != 2 || len(other.Shape) != 2 {
		return nil, fmt.Errorf("matmul needs 2-D tensors, got %v and %v: %w", t.Shape, other.Shape, ErrShape)
	}
	m, k := t.Shape[0], t.Shape[1]
	k2, n := other.Shape[0], other.Shape[1]
	if k != k2 {
		return nil, fmt.Errorf("matmul inner dimensions %d and %d: %w", k, k2, ErrShape)
	}

	data := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for kk := 0; kk < k; kk++ {
			a := t.Data[i*k+kk]
			for j := 0; j < n; j++ {
				data[i*n+j] += a * other.Data[kk*n+j]
			}
		}
	}
	return NewTensor([]int{m, n}, data), nil
}

// ReLU returns a copy with negative elements clamped to zero.
func (t *Tensor) ReLU() *Tensor {
	data := make([]float64, len(t.Data))
	for i, v := range t.Data {
		if v > 0 {
			data[i] = v
		}
	}
	return NewTensor(append([]int(nil), t.Shape...), data)
}

// Softmax returns the softmax over all elements, numerically stabilized by
// subtracting the maximum.
func (t *Tensor) Softmax() *Tensor {
	maxVal := math.Inf(-1)
	for _, v := range t.Data {
		if v > maxVal {
			maxVal = v
		}
	}

	data := make([]float64, len(t.Data))
	var sum float64
	for i, v := range t.Data {
		data[i] = math.Exp(v - maxVal)
		sum += data[i]
	}
	for i := range data {
		data[i] /= sum
	}
	return NewTensor(append([]int(nil), t.Shape...), data)
}

// Transpose returns the transpose of a 2-D tensor. Non-2-D tensors are
// returned unchanged.
func (t *Tensor) Transpose() *Tensor {
	if len(t.Shape) != 2 {
		return NewTensor(append([]int(nil), t.Shape...), append([]float64(nil), t.Data...))
	}
	rows, cols := t.Shape[0], t.Shape[1]
	data := make([]float64, len(t.Data))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data[j*rows+i] = t.Data[i*cols+j]
		}
	}
	return NewTensor([]int{cols, rows}, data)
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
