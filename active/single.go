package active

import (
	"sort"

	"github.com/splatlab/nextview/render"
	"github.com/splatlab/nextview/scene"
	"github.com/splatlab/nextview/tensor"
)

// selectSingleView is the memory-efficient path for single-view selection:
// the candidate pool is never materialized. The information gain is fixed
// up front; each candidate's curvature stays on the model device only long
// enough to produce its scalar score.
//
// In EvalHoldout mode scores are negated before ranking, so the pick is
// the expected-least-informative view.
func (s *HessianSelector) selectSingleView(r render.Renderer, model *scene.GaussianModel, filter *paramFilter, observed *tensor.Tensor, candidates []*scene.Camera, candidateIdxs []int, numViews int, exit func() bool) ([]int, error) {
	gain, err := tensor.Reciprocal(observed, s.cfg.RegLambda)
	if err != nil {
		return nil, err
	}

	bar := s.newBar("Computing diagonal Hessian on candidate views", len(candidates))
	scores := make([]float64, len(candidates))
	for i, cam := range candidates {
		if exit != nil && exit() {
			return nil, &SelectionAborted{Stage: "candidate"}
		}

		curvature, err := viewCurvature(r, cam, model, filter)
		if err != nil {
			return nil, err
		}
		score, err := s.acquisitionScore(curvature, gain)
		if err != nil {
			return nil, err
		}
		scores[i] = score
		bar.Increment()
	}
	bar.Finish()

	if s.cfg.EvalHoldout {
		for i := range scores {
			scores[i] = -scores[i]
		}
	}

	// stable descending rank keeps pool order on ties
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	selected := make([]int, 0, numViews)
	for _, i := range order[:numViews] {
		selected = append(selected, candidateIdxs[i])
	}
	return selected, nil
}
