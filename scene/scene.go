// Package scene holds the camera universe and splat parameters of a 4D
// gaussian-splatting capture, including the partition of cameras into the
// training set and the unobserved candidate set.
package scene

import (
	"fmt"
	"sort"
)

// Scene owns the camera universe and the training/candidate partition.
// Every camera index is in exactly one of the two sets at any time.
type Scene struct {
	cameras []*Camera
	holdout []*Camera

	trainIdxs []int
	inTrain   map[int]bool

	// CandidateFilter optionally narrows the candidate set for one
	// selection round. Nil means no filtering. It never affects the
	// partition itself, only what CandidateSet reports.
	CandidateFilter func(idx int) bool
}

// NewScene builds a scene over the given camera universe. Camera indices
// are assigned from position. holdout cameras are a separate held-out
// (test) list outside the universe. initialTrain lists the universe
// indices already in the training set.
func NewScene(cameras []*Camera, holdout []*Camera, initialTrain []int) (*Scene, error) {
	if len(cameras) == 0 {
		return nil, fmt.Errorf("scene needs at least one camera")
	}
	for i, c := range cameras {
		c.Index = i
	}

	s := &Scene{
		cameras: cameras,
		holdout: holdout,
		inTrain: make(map[int]bool),
	}
	for _, idx := range initialTrain {
		if idx < 0 || idx >= len(cameras) {
			return nil, fmt.Errorf("initial training index %d out of range [0,%d)", idx, len(cameras))
		}
		if s.inTrain[idx] {
			return nil, fmt.Errorf("duplicate initial training index %d", idx)
		}
		s.inTrain[idx] = true
		s.trainIdxs = append(s.trainIdxs, idx)
	}
	return s, nil
}

// Cameras returns the full camera universe in index order.
func (s *Scene) Cameras() []*Camera {
	return append([]*Camera(nil), s.cameras...)
}

// TrainingIndexes returns the training indices in the order they were
// added.
func (s *Scene) TrainingIndexes() []int {
	return append([]int(nil), s.trainIdxs...)
}

// TrainingCameras returns the cameras currently in the training set, in
// the order their indices were added.
func (s *Scene) TrainingCameras() []*Camera {
	cams := make([]*Camera, 0, len(s.trainIdxs))
	for _, idx := range s.trainIdxs {
		cams = append(cams, s.cameras[idx])
	}
	return cams
}

// HoldoutCameras returns the held-out evaluation cameras.
func (s *Scene) HoldoutCameras() []*Camera {
	return append([]*Camera(nil), s.holdout...)
}

// CandidateSet returns the sorted universe indices not in the training
// set, narrowed by CandidateFilter when one is installed.
func (s *Scene) CandidateSet() []int {
	var idxs []int
	for idx := range s.cameras {
		if s.inTrain[idx] {
			continue
		}
		if s.CandidateFilter != nil && !s.CandidateFilter(idx) {
			continue
		}
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	return idxs
}

// CandidateCameras returns the cameras of CandidateSet, in the same order.
func (s *Scene) CandidateCameras() []*Camera {
	idxs := s.CandidateSet()
	cams := make([]*Camera, len(idxs))
	for i, idx := range idxs {
		cams[i] = s.cameras[idx]
	}
	return cams
}

// AddTrainingViews moves the given candidate indices into the training
// set, preserving the given order. Moving an index that is unknown or
// already in the training set is an error and leaves the scene unchanged.
func (s *Scene) AddTrainingViews(idxs []int) error {
	for _, idx := range idxs {
		if idx < 0 || idx >= len(s.cameras) {
			return fmt.Errorf("view index %d out of range [0,%d)", idx, len(s.cameras))
		}
		if s.inTrain[idx] {
			return fmt.Errorf("view index %d is already in the training set", idx)
		}
	}
	seen := make(map[int]bool, len(idxs))
	for _, idx := range idxs {
		if seen[idx] {
			return fmt.Errorf("duplicate view index %d in batch", idx)
		}
		seen[idx] = true
	}

	for _, idx := range idxs {
		s.inTrain[idx] = true
		s.trainIdxs = append(s.trainIdxs, idx)
	}
	return nil
}
