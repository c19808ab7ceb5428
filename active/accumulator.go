package active

import (
	"github.com/splatlab/nextview/progress"
	"github.com/splatlab/nextview/render"
	"github.com/splatlab/nextview/scene"
	"github.com/splatlab/nextview/tensor"
)

// accumulateInformation sums per-view curvature over cams into a single
// observed-information vector of the filter's dimensionality, on the
// model's device. It is rebuilt from scratch on every selection call:
// recomputation is expensive but keeps the estimate honest against model
// drift between selections.
//
// The exit predicate is polled before each camera; a positive signal
// aborts with SelectionAborted and no partial result.
func accumulateInformation(r render.Renderer, cams []*scene.Camera, model *scene.GaussianModel, filter *paramFilter, exit func() bool, bar *progress.Bar) (*tensor.Tensor, error) {
	observed, err := tensor.Zeros([]int{filter.dim()}, tensor.Float64, model.Device())
	if err != nil {
		return nil, err
	}

	for _, cam := range cams {
		if exit != nil && exit() {
			return nil, &SelectionAborted{Stage: "training"}
		}

		curvature, err := viewCurvature(r, cam, model, filter)
		if err != nil {
			return nil, err
		}
		if err := tensor.AddInPlace(observed, curvature); err != nil {
			return nil, err
		}
		if bar != nil {
			bar.Increment()
		}
	}

	return observed, nil
}
