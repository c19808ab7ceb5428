// Package active implements Hessian-based active view selection for 4D
// gaussian-splatting training: given a partially trained model and a pool
// of unobserved cameras, it picks the views whose addition is expected to
// most reduce posterior uncertainty, scored with a diagonal
// Fisher/Hessian approximation built from rendering gradients.
package active

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/splatlab/nextview/progress"
	"github.com/splatlab/nextview/render"
	"github.com/splatlab/nextview/scene"
	"github.com/splatlab/nextview/tensor"
)

// Config is the selector's tuning surface.
type Config struct {
	// RegLambda is the additive Tikhonov term applied to accumulated
	// information before taking its reciprocal.
	RegLambda float64

	// AcqReg additionally regularizes each candidate's curvature vector
	// (adding RegLambda elementwise, without mutating the vector) before
	// the acquisition dot product.
	AcqReg bool

	// EvalHoldout accumulates information over the held-out camera set
	// instead of the training set, and ranks single-view candidates by
	// least informativeness. Diagnostic mode, not the default
	// acquisition behavior.
	EvalHoldout bool

	// FilterOutGrads lists parameter groups excluded from curvature
	// estimation.
	FilterOutGrads []string
}

// HessianSelector picks the next training views by greedy maximization of
// an information-gain acquisition score.
type HessianSelector struct {
	cfg         Config
	logger      *log.Logger
	progressOut io.Writer
}

// NewHessianSelector validates the configuration against the model's
// parameter groups. Unknown excluded-group names fail here with
// ConfigurationError rather than surfacing mid-selection.
func NewHessianSelector(cfg Config, model *scene.GaussianModel) (*HessianSelector, error) {
	if cfg.RegLambda < 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("reg lambda must be non-negative, got %g", cfg.RegLambda)}
	}
	if err := validateFilterNames(model, cfg.FilterOutGrads); err != nil {
		return nil, err
	}
	if len(newParamFilter(model, cfg.FilterOutGrads).included) == 0 {
		return nil, &ConfigurationError{Reason: "every parameter group is filtered out"}
	}

	return &HessianSelector{
		cfg:         cfg,
		logger:      log.New(os.Stderr, "", log.LstdFlags),
		progressOut: os.Stdout,
	}, nil
}

// SetLogger replaces the diagnostics logger.
func (s *HessianSelector) SetLogger(l *log.Logger) {
	s.logger = l
}

// SetProgressOutput redirects the per-camera progress bars.
func (s *HessianSelector) SetProgressOutput(w io.Writer) {
	s.progressOut = w
}

// SelectNextViews returns numViews candidate camera indices in selection
// order. The exit predicate is polled before every per-camera render in
// both passes; when it fires the call returns SelectionAborted with no
// partial result. The returned indices are not applied to the scene; the
// caller moves them into the training set.
func (s *HessianSelector) SelectNextViews(r render.Renderer, model *scene.GaussianModel, sc *scene.Scene, numViews int, exit func() bool) ([]int, error) {
	if numViews < 1 {
		return nil, fmt.Errorf("numViews must be at least 1, got %d", numViews)
	}

	candidateIdxs := sc.CandidateSet()
	if len(candidateIdxs) < numViews {
		return nil, &InsufficientCandidatesError{Requested: numViews, Available: len(candidateIdxs)}
	}

	filter := newParamFilter(model, s.cfg.FilterOutGrads)
	s.logger.Printf("curvature groups: %v (excluded: %v), dimension %d",
		filter.names(), s.cfg.FilterOutGrads, filter.dim())

	accumCams := sc.TrainingCameras()
	if s.cfg.EvalHoldout {
		accumCams = sc.HoldoutCameras()
	}

	bar := s.newBar("Computing diagonal Hessian on training views", len(accumCams))
	observed, err := accumulateInformation(r, accumCams, model, filter, exit, bar)
	if err != nil {
		return nil, err
	}
	bar.Finish()

	candidates := sc.CandidateCameras()
	if numViews == 1 {
		return s.selectSingleView(r, model, filter, observed, candidates, candidateIdxs, numViews, exit)
	}
	return s.selectGreedy(r, model, filter, observed, candidates, candidateIdxs, numViews, exit)
}

// acquisitionScore weighs a candidate curvature vector against the
// information-gain vector. With AcqReg the candidate is shifted by
// RegLambda first, on a copy.
func (s *HessianSelector) acquisitionScore(candidate, gain *tensor.Tensor) (float64, error) {
	v := candidate
	if s.cfg.AcqReg {
		shifted, err := tensor.AddScalar(candidate, s.cfg.RegLambda)
		if err != nil {
			return 0, err
		}
		v = shifted
	}
	return tensor.Dot(v, gain)
}

func (s *HessianSelector) newBar(description string, total int) *progress.Bar {
	bar := progress.NewBar(description, total)
	bar.SetOutput(s.progressOut)
	return bar
}
