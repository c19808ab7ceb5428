package tensor

import (
	"fmt"
)

type DType int

const (
	Float32 DType = iota
	Float64
)

func (d DType) String() string {
	switch d {
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	default:
		return "Unknown"
	}
}

// Device is a residency tag. GPU-tagged data still lives in Go slices here;
// the native rasterizer owns real device memory. The tag exists so callers
// can make host-vs-device placement decisions and so mixed-device arithmetic
// is rejected the way it would be on real hardware.
type Device int

const (
	CPU Device = iota
	GPU
)

func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case GPU:
		return "GPU"
	default:
		return "Unknown"
	}
}

// Tensor is a dense tensor in row-major order. Data is either []float32 or
// []float64 depending on DType.
type Tensor struct {
	Shape    []int
	Strides  []int
	DType    DType
	Device   Device
	Data     interface{}
	NumElems int
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v, dtype=%s, device=%s, elements=%d)",
		t.Shape, t.DType, t.Device, t.NumElems)
}

// Clone returns a deep copy of the tensor on the same device.
func (t *Tensor) Clone() (*Tensor, error) {
	switch t.DType {
	case Float32:
		data := make([]float32, t.NumElems)
		copy(data, t.Data.([]float32))
		return New(append([]int(nil), t.Shape...), t.DType, t.Device, data)
	case Float64:
		data := make([]float64, t.NumElems)
		copy(data, t.Data.([]float64))
		return New(append([]int(nil), t.Shape...), t.DType, t.Device, data)
	default:
		return nil, fmt.Errorf("unsupported dtype for Clone: %s", t.DType)
	}
}

// ToDevice returns a copy of the tensor carrying the given residency tag.
// The receiver is returned unchanged when it is already resident there.
func (t *Tensor) ToDevice(device Device) (*Tensor, error) {
	if t.Device == device {
		return t, nil
	}
	moved, err := t.Clone()
	if err != nil {
		return nil, err
	}
	moved.Device = device
	return moved, nil
}

// Float64Data returns the tensor contents as a []float64, converting from
// float32 when necessary. For Float64 tensors the backing slice is returned
// directly, not copied.
func (t *Tensor) Float64Data() ([]float64, error) {
	switch t.DType {
	case Float64:
		return t.Data.([]float64), nil
	case Float32:
		src := t.Data.([]float32)
		out := make([]float64, len(src))
		for i, v := range src {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported dtype for Float64Data: %s", t.DType)
	}
}

func calculateStrides(shape []int) []int {
	if len(shape) == 0 {
		return []int{}
	}

	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

func calculateNumElements(shape []int) int {
	if len(shape) == 0 {
		return 0
	}

	elements := 1
	for _, dim := range shape {
		elements *= dim
	}
	return elements
}

func validateShape(shape []int) error {
	for i, dim := range shape {
		if dim <= 0 {
			return fmt.Errorf("invalid shape: dimension %d has size %d, must be positive", i, dim)
		}
	}
	return nil
}
