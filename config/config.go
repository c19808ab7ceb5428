// Package config decodes and validates the selector's configuration
// surface: the regularization scalar, the two behavior flags and the
// excluded-gradient list.
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/splatlab/nextview/active"
	"github.com/splatlab/nextview/scene"
)

// Selector mirrors active.Config with decode tags for untyped
// configuration maps.
type Selector struct {
	RegLambda      float64  `mapstructure:"reg_lambda"`
	AcqReg         bool     `mapstructure:"acq_reg"`
	EvalHoldout    bool     `mapstructure:"eval_holdout"`
	FilterOutGrads []string `mapstructure:"filter_out_grads"`
}

// Default returns the stock configuration: light Tikhonov regularization
// and rotation excluded from curvature estimation.
func Default() Selector {
	return Selector{
		RegLambda:      1e-6,
		FilterOutGrads: []string{"rotation"},
	}
}

// Decode fills a Selector from an untyped map, starting from Default.
// Unknown keys are errors.
func Decode(raw map[string]interface{}) (Selector, error) {
	out := Default()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &out,
		ErrorUnused: true,
	})
	if err != nil {
		return Selector{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Selector{}, fmt.Errorf("decoding selector config: %v", err)
	}
	if err := out.Validate(); err != nil {
		return Selector{}, err
	}
	return out, nil
}

// Validate checks field ranges and that excluded names are canonical
// parameter groups.
func (s Selector) Validate() error {
	if s.RegLambda < 0 {
		return fmt.Errorf("reg_lambda must be non-negative, got %g", s.RegLambda)
	}

	known := make(map[string]bool)
	for _, name := range scene.CanonicalGroupNames {
		known[name] = true
	}
	for _, name := range s.FilterOutGrads {
		if !known[name] {
			return fmt.Errorf("filter_out_grads entry %q is not a parameter group (known: %v)",
				name, scene.CanonicalGroupNames)
		}
	}
	return nil
}

// Config converts to the selector's runtime configuration.
func (s Selector) Config() active.Config {
	return active.Config{
		RegLambda:      s.RegLambda,
		AcqReg:         s.AcqReg,
		EvalHoldout:    s.EvalHoldout,
		FilterOutGrads: append([]string(nil), s.FilterOutGrads...),
	}
}
