package active

import (
	"io"
	"log"
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/splatlab/nextview/render"
	"github.com/splatlab/nextview/scene"
	"github.com/splatlab/nextview/tensor"
)

// onlyOpacity keeps curvature estimation on the opacity group alone, so a
// 3-gaussian model yields toy 3-dimensional curvature vectors.
var onlyOpacity = []string{"xyz", "rgb", "sh", "scale", "rotation"}

// stubRenderer returns a fixed image and writes a prescribed opacity
// gradient per camera index, accumulating like a real backward pass.
type stubRenderer struct {
	grads    map[int][]float64
	calls    int
	badImage map[int]bool
	badGrad  map[int]bool
}

func (f *stubRenderer) Render(cam *scene.Camera, model *scene.GaussianModel) (*render.Result, error) {
	f.calls++

	img, err := tensor.Ones([]int{2, 2}, tensor.Float64, model.Device())
	if err != nil {
		return nil, err
	}
	if f.badImage[cam.Index] {
		img.Data.([]float64)[0] = math.NaN()
	}

	backward := func(seed *tensor.Tensor) error {
		g, err := model.Group("opacity")
		if err != nil {
			return err
		}
		if err := g.EnsureGrad(); err != nil {
			return err
		}
		data := g.Grad.Data.([]float64)
		for i, v := range f.grads[cam.Index] {
			data[i] += v
		}
		if f.badGrad[cam.Index] {
			data[0] = math.NaN()
		}
		return nil
	}

	return render.NewResult(img, backward), nil
}

func toyModel(t *testing.T) *scene.GaussianModel {
	t.Helper()
	m, err := scene.NewGaussianModel(3, 1, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatalf("NewGaussianModel failed: %v", err)
	}
	return m
}

func toyScene(t *testing.T, total int, train []int, holdout int) *scene.Scene {
	t.Helper()
	cams := make([]*scene.Camera, total)
	for i := range cams {
		cams[i] = &scene.Camera{
			Width: 2, Height: 2,
			Position: r3.Vector{X: float64(i), Z: -5},
			Up:       r3.Vector{Y: 1},
		}
	}
	var held []*scene.Camera
	for i := 0; i < holdout; i++ {
		held = append(held, &scene.Camera{
			Index: total + i,
			Width: 2, Height: 2,
			Position: r3.Vector{X: -1, Z: -5},
			Up:       r3.Vector{Y: 1},
		})
	}
	s, err := scene.NewScene(cams, held, train)
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	return s
}

func toySelector(t *testing.T, cfg Config, model *scene.GaussianModel) *HessianSelector {
	t.Helper()
	s, err := NewHessianSelector(cfg, model)
	if err != nil {
		t.Fatalf("NewHessianSelector failed: %v", err)
	}
	silence(s)
	return s
}

func silence(s *HessianSelector) {
	s.SetLogger(log.New(io.Discard, "", 0))
	s.SetProgressOutput(io.Discard)
}

// scenarioRenderer builds the numeric scenario used throughout: training
// views accumulate to [2,1,1], candidate 3 carries [1,1,0] (score 1.5
// against gain [0.5,1,1]) and candidate 4 carries [0,0,2] (score 2).
func scenarioRenderer() *stubRenderer {
	return &stubRenderer{
		grads: map[int][]float64{
			0: {1, 0, 0},
			1: {1, 1, 0},
			2: {0, 0, 1},
			3: {1, 1, 0},
			4: {0, 0, 2},
		},
	}
}
