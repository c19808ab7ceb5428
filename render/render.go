// Package render wraps differentiable renderers behind a small interface
// and provides the render-and-differentiate step used for curvature
// estimation: render one camera, then backpropagate the unweighted pixel
// sum into every parameter group's gradient buffer.
package render

import (
	"fmt"

	"github.com/splatlab/nextview/scene"
	"github.com/splatlab/nextview/tensor"
)

// Result is one rendered view plus its backward hook. Backward propagates
// the given output gradient into the gradient buffers of the model the
// image was rendered from, accumulating into whatever is already there.
type Result struct {
	Image    *tensor.Tensor
	backward func(seed *tensor.Tensor) error
}

// NewResult wraps an image and its adjoint hook. Renderer implementations
// (the native rasterizer binding included) build their results through
// this.
func NewResult(image *tensor.Tensor, backward func(seed *tensor.Tensor) error) *Result {
	return &Result{Image: image, backward: backward}
}

// Backward runs the adjoint pass seeded with the given output gradient.
func (r *Result) Backward(seed *tensor.Tensor) error {
	if r.backward == nil {
		return fmt.Errorf("render result has no backward pass")
	}
	return r.backward(seed)
}

// Renderer turns a camera and the current model parameters into an image
// with a differentiable dependency on every parameter group. The native
// rasterizer is plugged in through this interface; LinearSplat is the
// in-process reference implementation.
type Renderer interface {
	Render(cam *scene.Camera, model *scene.GaussianModel) (*Result, error)
}

// Differentiate renders the camera and backpropagates an all-ones seed,
// treating the objective as the plain sum of all pixel values. On return
// every parameter group's Grad holds the per-parameter sensitivity of
// that sum. The caller must read the gradients and then call the model's
// ZeroGrad before the next camera; skipping the clear silently accumulates
// gradients across views.
func Differentiate(r Renderer, cam *scene.Camera, model *scene.GaussianModel) (*tensor.Tensor, error) {
	res, err := r.Render(cam, model)
	if err != nil {
		return nil, fmt.Errorf("rendering camera %d: %v", cam.Index, err)
	}

	seed, err := tensor.Ones(append([]int(nil), res.Image.Shape...), res.Image.DType, res.Image.Device)
	if err != nil {
		return nil, fmt.Errorf("building backward seed for camera %d: %v", cam.Index, err)
	}
	if err := res.Backward(seed); err != nil {
		return nil, fmt.Errorf("backward pass for camera %d: %v", cam.Index, err)
	}

	return res.Image, nil
}
