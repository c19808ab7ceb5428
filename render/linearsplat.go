package render

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/splatlab/nextview/scene"
	"github.com/splatlab/nextview/tensor"
)

// scaleEps keeps the splat footprint strictly positive.
const scaleEps = 0.1

// LinearSplat is a deliberately simplified differentiable forward model
// used by tests and examples: each gaussian contributes an isotropic
// screen-space falloff, weighted by opacity and brightness (mean base
// color plus mean of the first SH coefficient). Rotation and temporal
// deformation are left to the native rasterizer and carry zero gradient
// here. The backward pass is a hand-derived adjoint of exactly this
// forward computation.
type LinearSplat struct{}

// splatState caches per-gaussian forward quantities for the adjoint pass.
type splatState struct {
	viewX, viewY []float64 // view-space position per gaussian
	meanScale    []float64
	falloff      []float64 // q = 1/(meanScale^2 + scaleEps)
	brightness   []float64
	opacity      []float64
	rot          *mat.Dense // world-to-view transform
}

func (LinearSplat) Render(cam *scene.Camera, model *scene.GaussianModel) (*Result, error) {
	if cam.Width <= 0 || cam.Height <= 0 {
		return nil, fmt.Errorf("camera %d has empty image plane %dx%d", cam.Index, cam.Width, cam.Height)
	}

	view, err := cam.ViewMatrix()
	if err != nil {
		return nil, err
	}

	// the adjoint writes through Float64Data, which aliases only Float64
	// backing slices
	for _, g := range model.CaptureParameterGroups() {
		if g.Value.DType != tensor.Float64 {
			return nil, fmt.Errorf("LinearSplat requires Float64 parameters, group %q is %s", g.Name, g.Value.DType)
		}
	}

	xyz, err := groupData(model, "xyz")
	if err != nil {
		return nil, err
	}
	rgb, err := groupData(model, "rgb")
	if err != nil {
		return nil, err
	}
	sh, err := groupData(model, "sh")
	if err != nil {
		return nil, err
	}
	scaleG, err := groupData(model, "scale")
	if err != nil {
		return nil, err
	}
	opacity, err := groupData(model, "opacity")
	if err != nil {
		return nil, err
	}

	shGroup, _ := model.Group("sh")
	shStride := shGroup.Value.NumElems / shGroup.Value.Shape[0]

	n := len(opacity)
	st := &splatState{
		viewX:      make([]float64, n),
		viewY:      make([]float64, n),
		meanScale:  make([]float64, n),
		falloff:    make([]float64, n),
		brightness: make([]float64, n),
		opacity:    opacity,
		rot:        view,
	}

	for j := 0; j < n; j++ {
		x, y, z := xyz[j*3], xyz[j*3+1], xyz[j*3+2]
		st.viewX[j] = view.At(0, 0)*x + view.At(0, 1)*y + view.At(0, 2)*z + view.At(0, 3)
		st.viewY[j] = view.At(1, 0)*x + view.At(1, 1)*y + view.At(1, 2)*z + view.At(1, 3)

		st.meanScale[j] = (scaleG[j*3] + scaleG[j*3+1] + scaleG[j*3+2]) / 3
		st.falloff[j] = 1.0 / (st.meanScale[j]*st.meanScale[j] + scaleEps)

		base := (rgb[j*3] + rgb[j*3+1] + rgb[j*3+2]) / 3
		sh0 := (sh[j*shStride] + sh[j*shStride+1] + sh[j*shStride+2]) / 3
		st.brightness[j] = base + sh0
	}

	img, err := tensor.Zeros([]int{cam.Height, cam.Width}, tensor.Float64, model.Device())
	if err != nil {
		return nil, err
	}
	pixels := img.Data.([]float64)

	for py := 0; py < cam.Height; py++ {
		v := (float64(py)+0.5)/float64(cam.Height)*2 - 1
		for px := 0; px < cam.Width; px++ {
			u := (float64(px)+0.5)/float64(cam.Width)*2 - 1
			sum := 0.0
			for j := 0; j < n; j++ {
				du := u - st.viewX[j]
				dv := v - st.viewY[j]
				sum += st.opacity[j] * st.brightness[j] * math.Exp(-st.falloff[j]*(du*du+dv*dv))
			}
			pixels[py*cam.Width+px] = sum
		}
	}

	return &Result{
		Image: img,
		backward: func(seed *tensor.Tensor) error {
			return splatBackward(cam, model, st, img, seed, shStride)
		},
	}, nil
}

// splatBackward accumulates the adjoint of the forward model into the
// model's gradient buffers.
func splatBackward(cam *scene.Camera, model *scene.GaussianModel, st *splatState, img, seed *tensor.Tensor, shStride int) error {
	if seed.NumElems != img.NumElems {
		return fmt.Errorf("seed has %d elements, image has %d", seed.NumElems, img.NumElems)
	}
	seedData, err := seed.Float64Data()
	if err != nil {
		return err
	}

	for _, name := range scene.CanonicalGroupNames {
		g, err := model.Group(name)
		if err != nil {
			return err
		}
		if err := g.EnsureGrad(); err != nil {
			return err
		}
	}

	xyzGrad, _ := groupGrad(model, "xyz")
	rgbGrad, _ := groupGrad(model, "rgb")
	shGrad, _ := groupGrad(model, "sh")
	scaleGrad, _ := groupGrad(model, "scale")
	opacityGrad, _ := groupGrad(model, "opacity")

	n := len(st.opacity)
	for j := 0; j < n; j++ {
		o := st.opacity[j]
		b := st.brightness[j]
		q := st.falloff[j]

		// weighted sums over pixels of the seed-scaled falloff kernel
		var sumW, sumWR2, sumWDu, sumWDv float64
		for py := 0; py < cam.Height; py++ {
			v := (float64(py)+0.5)/float64(cam.Height)*2 - 1
			for px := 0; px < cam.Width; px++ {
				u := (float64(px)+0.5)/float64(cam.Width)*2 - 1
				du := u - st.viewX[j]
				dv := v - st.viewY[j]
				r2 := du*du + dv*dv
				w := seedData[py*cam.Width+px] * math.Exp(-q*r2)
				sumW += w
				sumWR2 += w * r2
				sumWDu += w * du
				sumWDv += w * dv
			}
		}

		opacityGrad[j] += b * sumW

		for k := 0; k < 3; k++ {
			rgbGrad[j*3+k] += o * sumW / 3
			shGrad[j*shStride+k] += o * sumW / 3
		}

		// d q / d meanScale = -2 s / (s^2 + eps)^2, meanScale averages the
		// three scale entries
		s := st.meanScale[j]
		denom := s*s + scaleEps
		dqds := -2 * s / (denom * denom)
		dScale := -o * b * sumWR2 * dqds / 3
		for k := 0; k < 3; k++ {
			scaleGrad[j*3+k] += dScale
		}

		// screen position enters through exp(-q*((u-vx)^2+(v-vy)^2))
		dvx := 2 * o * b * q * sumWDu
		dvy := 2 * o * b * q * sumWDv
		for k := 0; k < 3; k++ {
			xyzGrad[j*3+k] += dvx*st.rot.At(0, k) + dvy*st.rot.At(1, k)
		}
	}

	return nil
}

func groupData(model *scene.GaussianModel, name string) ([]float64, error) {
	g, err := model.Group(name)
	if err != nil {
		return nil, err
	}
	return g.Value.Float64Data()
}

func groupGrad(model *scene.GaussianModel, name string) ([]float64, error) {
	g, err := model.Group(name)
	if err != nil {
		return nil, err
	}
	return g.Grad.Float64Data()
}
