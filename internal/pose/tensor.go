package pose

import (
	"fmt"
)

// ImageTensor is the model input: shape (1, height, width, 3), row-major int32 pixels.
type ImageTensor struct {
	Shape [4]int64
	Data  []int32
}

// Tensor is a dense float32 model output in row-major order.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// NewTensor checks that data matches shape.
func NewTensor(shape []int64, data []float32) (Tensor, error) {
	n, err := elements(shape)
	if err != nil {
		return Tensor{}, err
	}
	if int64(len(data)) != n {
		return Tensor{}, fmt.Errorf("tensor shape %v needs %d values, got %d", shape, n, len(data))
	}
	return Tensor{Shape: append([]int64(nil), shape...), Data: data}, nil
}

func elements(shape []int64) (int64, error) {
	n := int64(1)
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("negative dimension in shape %v", shape)
		}
		n *= d
	}
	return n, nil
}

// Squeeze drops a singleton axis. Data is shared with t.
func (t Tensor) Squeeze(axis int) (Tensor, error) {
	if axis < 0 || axis >= len(t.Shape) {
		return Tensor{}, fmt.Errorf("squeeze axis %d out of range for shape %v", axis, t.Shape)
	}
	if t.Shape[axis] != 1 {
		return Tensor{}, fmt.Errorf("cannot squeeze axis %d of size %d", axis, t.Shape[axis])
	}
	shape := make([]int64, 0, len(t.Shape)-1)
	shape = append(shape, t.Shape[:axis]...)
	shape = append(shape, t.Shape[axis+1:]...)
	return Tensor{Shape: shape, Data: t.Data}, nil
}

// Nested converts t into nested []interface{} lists, one level per axis,
// with float32 leaves. A rank-0 tensor yields its single value.
func (t Tensor) Nested() interface{} {
	if len(t.Shape) == 0 {
		if len(t.Data) == 0 {
			return nil
		}
		return t.Data[0]
	}
	return nest(t.Shape, t.Data)
}

func nest(shape []int64, data []float32) interface{} {
	if len(shape) == 1 {
		out := make([]interface{}, shape[0])
		for i := range out {
			out[i] = data[i]
		}
		return out
	}
	stride := int64(len(data)) / max(shape[0], 1)
	out := make([]interface{}, shape[0])
	for i := int64(0); i < shape[0]; i++ {
		out[i] = nest(shape[1:], data[i*stride:(i+1)*stride])
	}
	return out
}
