package scene

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Camera is one viewpoint of the capture rig. Index is its stable position
// in the scene's camera universe; selection results are expressed in these
// indices. Time is the normalized temporal coordinate of the frame, 0 for
// static captures.
type Camera struct {
	Index  int
	Name   string
	Width  int
	Height int
	FoVX   float64
	FoVY   float64

	Position r3.Vector
	LookAt   r3.Vector
	Up       r3.Vector

	Time float64
}

func (c *Camera) String() string {
	return fmt.Sprintf("Camera(%d %q %dx%d t=%.3f)", c.Index, c.Name, c.Width, c.Height, c.Time)
}

// ViewMatrix builds the 4x4 world-to-view transform from the camera pose.
func (c *Camera) ViewMatrix() (*mat.Dense, error) {
	forward := c.LookAt.Sub(c.Position)
	if forward.Norm() == 0 {
		return nil, fmt.Errorf("camera %d: look-at coincides with position", c.Index)
	}
	forward = forward.Normalize()

	right := forward.Cross(c.Up)
	if right.Norm() == 0 {
		return nil, fmt.Errorf("camera %d: up vector parallel to view direction", c.Index)
	}
	right = right.Normalize()
	up := right.Cross(forward)

	// Row-major world-to-view: rotation rows are the camera basis, the
	// translation column re-expresses the camera position in that basis.
	m := mat.NewDense(4, 4, nil)
	m.SetRow(0, []float64{right.X, right.Y, right.Z, -right.Dot(c.Position)})
	m.SetRow(1, []float64{up.X, up.Y, up.Z, -up.Dot(c.Position)})
	m.SetRow(2, []float64{forward.X, forward.Y, forward.Z, -forward.Dot(c.Position)})
	m.SetRow(3, []float64{0, 0, 0, 1})
	return m, nil
}
