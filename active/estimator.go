package active

import (
	"github.com/splatlab/nextview/render"
	"github.com/splatlab/nextview/scene"
	"github.com/splatlab/nextview/tensor"
)

// viewCurvature runs one render-and-differentiate pass for cam and returns
// the flat diagonal curvature contribution of that view: the concatenated
// per-parameter gradients of the pixel sum, in filter order, detached from
// the model's gradient buffers.
//
// The accumulated quantity is the raw backpropagated gradient, not its
// square. That is the documented acquisition heuristic of this system, not
// a numerical shortcut; see the estimator tests.
//
// The model's gradients are read and then cleared before returning, so the
// next camera starts from zeroed buffers.
func viewCurvature(r render.Renderer, cam *scene.Camera, model *scene.GaussianModel, filter *paramFilter) (*tensor.Tensor, error) {
	img, err := render.Differentiate(r, cam, model)
	if err != nil {
		return nil, &RenderError{CameraIndex: cam.Index, Reason: err.Error()}
	}
	if tensor.HasNonFinite(img) {
		model.ZeroGrad()
		return nil, &RenderError{CameraIndex: cam.Index, Reason: "rendered image contains non-finite values"}
	}

	grads := make([]*tensor.Tensor, 0, len(filter.included))
	for _, g := range filter.included {
		// a group the renderer never touched contributes zeros
		if err := g.EnsureGrad(); err != nil {
			model.ZeroGrad()
			return nil, err
		}
		grads = append(grads, g.Grad)
	}

	flat, err := tensor.Concat(grads)
	if err != nil {
		model.ZeroGrad()
		return nil, err
	}

	// detach: curvature math runs in float64 on a copy, never on the
	// gradient buffers themselves
	curvature, err := asFloat64(flat)
	if err != nil {
		model.ZeroGrad()
		return nil, err
	}

	model.ZeroGrad()

	if tensor.HasNonFinite(curvature) {
		return nil, &RenderError{CameraIndex: cam.Index, Reason: "backpropagated gradient contains non-finite values"}
	}
	return curvature, nil
}

// asFloat64 returns a detached Float64 copy of the flat tensor.
func asFloat64(t *tensor.Tensor) (*tensor.Tensor, error) {
	data, err := t.Float64Data()
	if err != nil {
		return nil, err
	}
	// Float64Data aliases Float64 storage, so always copy
	detached := make([]float64, len(data))
	copy(detached, data)
	return tensor.New(append([]int(nil), t.Shape...), tensor.Float64, t.Device, detached)
}
