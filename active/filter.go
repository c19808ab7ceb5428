package active

import (
	"fmt"

	"github.com/splatlab/nextview/scene"
)

// paramFilter is the ordered subset of parameter groups used for curvature
// estimation within one selection call. Built once per call so the
// training-accumulation pass and the candidate pass flatten gradients in
// the same order.
type paramFilter struct {
	included []*scene.ParameterGroup
}

// validateFilterNames checks every excluded name against the model's group
// names. Unknown names are configuration errors, not silently ignored.
func validateFilterNames(model *scene.GaussianModel, filterOut []string) error {
	known := make(map[string]bool)
	for _, name := range model.GroupNames() {
		known[name] = true
	}
	for _, name := range filterOut {
		if !known[name] {
			return &ConfigurationError{
				Reason: fmt.Sprintf("excluded group %q not found in model groups %v", name, model.GroupNames()),
			}
		}
	}
	return nil
}

// newParamFilter captures the model's groups and drops the excluded ones,
// preserving capture order. Names are assumed pre-validated.
func newParamFilter(model *scene.GaussianModel, filterOut []string) *paramFilter {
	excluded := make(map[string]bool, len(filterOut))
	for _, name := range filterOut {
		excluded[name] = true
	}

	f := &paramFilter{}
	for _, g := range model.CaptureParameterGroups() {
		if !excluded[g.Name] {
			f.included = append(f.included, g)
		}
	}
	return f
}

// dim is the flattened curvature dimensionality over the included groups.
func (f *paramFilter) dim() int {
	total := 0
	for _, g := range f.included {
		total += g.Value.NumElems
	}
	return total
}

func (f *paramFilter) names() []string {
	names := make([]string, len(f.included))
	for i, g := range f.included {
		names[i] = g.Name
	}
	return names
}
