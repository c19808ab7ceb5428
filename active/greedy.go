package active

import (
	"github.com/splatlab/nextview/render"
	"github.com/splatlab/nextview/scene"
	"github.com/splatlab/nextview/tensor"
)

// candidate pairs an unobserved camera index with its curvature vector.
type candidate struct {
	viewIdx   int
	curvature *tensor.Tensor
}

// selectGreedy is the materialized multi-view path: every candidate's
// curvature vector is computed up front and the pool is held in host
// memory, because a greedy loop over the full pool would otherwise exhaust
// device memory. Each round re-derives the information gain from the
// current accumulated information, picks the best-scoring candidate
// (stable argmax, first occurrence wins), folds it into the accumulator
// and shrinks the pool.
func (s *HessianSelector) selectGreedy(r render.Renderer, model *scene.GaussianModel, filter *paramFilter, observed *tensor.Tensor, candidates []*scene.Camera, candidateIdxs []int, numViews int, exit func() bool) ([]int, error) {
	// pool residency is decided once per call: host for the greedy loop
	observed, err := observed.ToDevice(tensor.CPU)
	if err != nil {
		return nil, err
	}

	bar := s.newBar("Computing diagonal Hessian on candidate views", len(candidates))
	pool := make([]candidate, 0, len(candidates))
	for i, cam := range candidates {
		if exit != nil && exit() {
			return nil, &SelectionAborted{Stage: "candidate"}
		}

		curvature, err := viewCurvature(r, cam, model, filter)
		if err != nil {
			return nil, err
		}
		hostCurvature, err := curvature.ToDevice(tensor.CPU)
		if err != nil {
			return nil, err
		}
		pool = append(pool, candidate{viewIdx: candidateIdxs[i], curvature: hostCurvature})
		bar.Increment()
	}
	bar.Finish()

	selected := make([]int, 0, numViews)
	for round := 0; round < numViews; round++ {
		gain, err := tensor.Reciprocal(observed, s.cfg.RegLambda)
		if err != nil {
			return nil, err
		}

		best := -1
		bestScore := 0.0
		for i := range pool {
			score, err := s.acquisitionScore(pool[i].curvature, gain)
			if err != nil {
				return nil, err
			}
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}

		picked := pool[best]
		selected = append(selected, picked.viewIdx)
		pool = append(pool[:best], pool[best+1:]...)

		if err := tensor.AddInPlace(observed, picked.curvature); err != nil {
			return nil, err
		}
	}

	return selected, nil
}
