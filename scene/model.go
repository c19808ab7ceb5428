package scene

import (
	"fmt"

	"github.com/splatlab/nextview/tensor"
)

// CanonicalGroupNames is the stable capture order of the differentiable
// parameter groups. Every consumer that flattens or concatenates per-group
// data relies on this order.
var CanonicalGroupNames = []string{"xyz", "rgb", "sh", "scale", "rotation", "opacity"}

// ParameterGroup is one named parameter tensor with its gradient slot. The
// model owns both tensors; consumers read values and gradients but mutate
// gradients only through backward passes and ZeroGrad.
type ParameterGroup struct {
	Name  string
	Value *tensor.Tensor
	Grad  *tensor.Tensor
}

// EnsureGrad allocates a zeroed gradient buffer matching the value tensor
// if one does not exist yet.
func (pg *ParameterGroup) EnsureGrad() error {
	if pg.Grad != nil {
		return nil
	}
	grad, err := tensor.Zeros(append([]int(nil), pg.Value.Shape...), pg.Value.DType, pg.Value.Device)
	if err != nil {
		return fmt.Errorf("allocating grad for group %q: %v", pg.Name, err)
	}
	pg.Grad = grad
	return nil
}

// GaussianModel holds the splat parameters of a (partially trained) scene.
// Group order is fixed at construction and never changes.
type GaussianModel struct {
	groups []*ParameterGroup
	device tensor.Device
}

// NewGaussianModel allocates a model of n gaussians with the canonical
// parameter groups: positions [n,3], base color [n,3], spherical-harmonic
// rest coefficients [n,shCoeffs,3], scale [n,3], rotation quaternions
// [n,4] and opacity [n,1].
func NewGaussianModel(n, shCoeffs int, dtype tensor.DType, device tensor.Device) (*GaussianModel, error) {
	if n <= 0 {
		return nil, fmt.Errorf("model needs at least one gaussian, got %d", n)
	}
	if shCoeffs < 0 {
		return nil, fmt.Errorf("negative SH coefficient count %d", shCoeffs)
	}

	shapes := map[string][]int{
		"xyz":      {n, 3},
		"rgb":      {n, 3},
		"sh":       {n, maxInt(shCoeffs, 1), 3},
		"scale":    {n, 3},
		"rotation": {n, 4},
		"opacity":  {n, 1},
	}

	m := &GaussianModel{device: device}
	for _, name := range CanonicalGroupNames {
		value, err := tensor.Zeros(shapes[name], dtype, device)
		if err != nil {
			return nil, fmt.Errorf("allocating group %q: %v", name, err)
		}
		m.groups = append(m.groups, &ParameterGroup{Name: name, Value: value})
	}
	return m, nil
}

// CaptureParameterGroups returns the parameter groups in canonical order.
// The slice is a copy; the groups themselves are shared.
func (m *GaussianModel) CaptureParameterGroups() []*ParameterGroup {
	return append([]*ParameterGroup(nil), m.groups...)
}

// Group returns the named parameter group.
func (m *GaussianModel) Group(name string) (*ParameterGroup, error) {
	for _, g := range m.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, fmt.Errorf("unknown parameter group %q", name)
}

// GroupNames returns the group names in capture order.
func (m *GaussianModel) GroupNames() []string {
	names := make([]string, len(m.groups))
	for i, g := range m.groups {
		names[i] = g.Name
	}
	return names
}

// ZeroGrad zeroes every populated gradient buffer in place. Buffers are
// reused, not dropped, so backward passes accumulate into stable storage.
func (m *GaussianModel) ZeroGrad() {
	for _, g := range m.groups {
		if g.Grad != nil {
			g.Grad.Zero()
		}
	}
}

// Device reports where the parameter tensors are resident.
func (m *GaussianModel) Device() tensor.Device {
	return m.device
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
