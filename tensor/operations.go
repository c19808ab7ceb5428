package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

func checkCompatibility(t1, t2 *Tensor) error {
	if t1.DType != t2.DType {
		return fmt.Errorf("tensors must have same dtype: %s vs %s", t1.DType, t2.DType)
	}
	if t1.Device != t2.Device {
		return fmt.Errorf("tensors must be on same device: %s vs %s", t1.Device, t2.Device)
	}
	return nil
}

func checkShapesCompatible(shape1, shape2 []int) ([]int, error) {
	if len(shape1) == 0 || len(shape2) == 0 {
		return nil, fmt.Errorf("cannot operate on empty tensors")
	}

	if len(shape1) != len(shape2) {
		return nil, fmt.Errorf("tensor shapes must have same number of dimensions: %v vs %v", shape1, shape2)
	}

	for i := range shape1 {
		if shape1[i] != shape2[i] {
			return nil, fmt.Errorf("tensor shapes must match: %v vs %v", shape1, shape2)
		}
	}

	return shape1, nil
}

func Add(t1, t2 *Tensor) (*Tensor, error) {
	if err := checkCompatibility(t1, t2); err != nil {
		return nil, err
	}

	outputShape, err := checkShapesCompatible(t1.Shape, t2.Shape)
	if err != nil {
		return nil, err
	}

	result, err := Zeros(outputShape, t1.DType, t1.Device)
	if err != nil {
		return nil, err
	}

	switch t1.DType {
	case Float32:
		data1 := t1.Data.([]float32)
		data2 := t2.Data.([]float32)
		resultData := result.Data.([]float32)

		for i := 0; i < t1.NumElems; i++ {
			resultData[i] = data1[i] + data2[i]
		}
	case Float64:
		resultData := result.Data.([]float64)
		copy(resultData, t1.Data.([]float64))
		floats.Add(resultData, t2.Data.([]float64))
	default:
		return nil, fmt.Errorf("unsupported dtype for Add: %s", t1.DType)
	}

	return result, nil
}

// AddInPlace folds src into dst elementwise. dst is mutated.
func AddInPlace(dst, src *Tensor) error {
	if err := checkCompatibility(dst, src); err != nil {
		return err
	}
	if _, err := checkShapesCompatible(dst.Shape, src.Shape); err != nil {
		return err
	}

	switch dst.DType {
	case Float32:
		dstData := dst.Data.([]float32)
		srcData := src.Data.([]float32)
		for i := 0; i < dst.NumElems; i++ {
			dstData[i] += srcData[i]
		}
	case Float64:
		floats.Add(dst.Data.([]float64), src.Data.([]float64))
	default:
		return fmt.Errorf("unsupported dtype for AddInPlace: %s", dst.DType)
	}

	return nil
}

// Reciprocal computes 1/(x + shift) elementwise. The additive shift is the
// Tikhonov term that keeps near-zero entries from blowing up.
func Reciprocal(t *Tensor, shift float64) (*Tensor, error) {
	result, err := Zeros(t.Shape, t.DType, t.Device)
	if err != nil {
		return nil, err
	}

	switch t.DType {
	case Float32:
		data := t.Data.([]float32)
		resultData := result.Data.([]float32)
		for i := 0; i < t.NumElems; i++ {
			resultData[i] = float32(1.0 / (float64(data[i]) + shift))
		}
	case Float64:
		data := t.Data.([]float64)
		resultData := result.Data.([]float64)
		for i := 0; i < t.NumElems; i++ {
			resultData[i] = 1.0 / (data[i] + shift)
		}
	default:
		return nil, fmt.Errorf("unsupported dtype for Reciprocal: %s", t.DType)
	}

	return result, nil
}

// AddScalar returns t + v elementwise without mutating t.
func AddScalar(t *Tensor, v float64) (*Tensor, error) {
	result, err := t.Clone()
	if err != nil {
		return nil, err
	}

	switch result.DType {
	case Float32:
		data := result.Data.([]float32)
		for i := range data {
			data[i] += float32(v)
		}
	case Float64:
		floats.AddConst(v, result.Data.([]float64))
	default:
		return nil, fmt.Errorf("unsupported dtype for AddScalar: %s", result.DType)
	}

	return result, nil
}

// Dot returns the inner product of two tensors of identical shape as a
// float64 regardless of dtype.
func Dot(t1, t2 *Tensor) (float64, error) {
	if err := checkCompatibility(t1, t2); err != nil {
		return 0, err
	}
	if _, err := checkShapesCompatible(t1.Shape, t2.Shape); err != nil {
		return 0, err
	}

	switch t1.DType {
	case Float32:
		data1 := t1.Data.([]float32)
		data2 := t2.Data.([]float32)
		sum := 0.0
		for i := 0; i < t1.NumElems; i++ {
			sum += float64(data1[i]) * float64(data2[i])
		}
		return sum, nil
	case Float64:
		return floats.Dot(t1.Data.([]float64), t2.Data.([]float64)), nil
	default:
		return 0, fmt.Errorf("unsupported dtype for Dot: %s", t1.DType)
	}
}

// Concat flattens each input tensor and concatenates them into a single
// 1-D tensor, preserving input order. All inputs must share dtype and
// device.
func Concat(tensors []*Tensor) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("cannot concat zero tensors")
	}

	total := 0
	for i, t := range tensors {
		if t.DType != tensors[0].DType {
			return nil, fmt.Errorf("concat dtype mismatch at %d: %s vs %s", i, t.DType, tensors[0].DType)
		}
		if t.Device != tensors[0].Device {
			return nil, fmt.Errorf("concat device mismatch at %d: %s vs %s", i, t.Device, tensors[0].Device)
		}
		total += t.NumElems
	}

	switch tensors[0].DType {
	case Float32:
		data := make([]float32, 0, total)
		for _, t := range tensors {
			data = append(data, t.Data.([]float32)...)
		}
		return New([]int{total}, Float32, tensors[0].Device, data)
	case Float64:
		data := make([]float64, 0, total)
		for _, t := range tensors {
			data = append(data, t.Data.([]float64)...)
		}
		return New([]int{total}, Float64, tensors[0].Device, data)
	default:
		return nil, fmt.Errorf("unsupported dtype for Concat: %s", tensors[0].DType)
	}
}

// HasNonFinite reports whether the tensor contains NaN or Inf entries.
func HasNonFinite(t *Tensor) bool {
	switch t.DType {
	case Float32:
		for _, v := range t.Data.([]float32) {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return true
			}
		}
	case Float64:
		for _, v := range t.Data.([]float64) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}

// Zero clears the tensor contents in place.
func (t *Tensor) Zero() {
	switch t.DType {
	case Float32:
		data := t.Data.([]float32)
		for i := range data {
			data[i] = 0
		}
	case Float64:
		data := t.Data.([]float64)
		for i := range data {
			data[i] = 0
		}
	}
}
