package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/pkg/mathutil"
	"github.com/iwvelando/production-optimizer/pkg/validation"
)

// ErrInvalidInput is returned when form or file values cannot describe a
// production plan.
var ErrInvalidInput = errors.New("invalid input")

// ValidateInput checks that every product value is a finite non-negative
// number and that each capacity lies inside the profile's range.
func ValidateInput(in model.Input, profile Profile) error {
	var problems []string

	for _, p := range model.Products {
		params := in.Product(p)
		if !mathutil.IsFinite(params.Profit) || params.Profit < 0 {
			problems = append(problems, fmt.Sprintf("%s profit must be a non-negative number, got %v", p, params.Profit))
		}
		for _, r := range model.Resources {
			req := params.Requirement(r)
			if !mathutil.IsFinite(req) || req < 0 {
				problems = append(problems, fmt.Sprintf("%s %s requirement must be a non-negative number, got %v", p, r, req))
			}
		}
	}

	for _, r := range model.Resources {
		capacity := in.Capacities.Of(r)
		rng := profile.Range(r)
		if !mathutil.IsFinite(capacity) || !rng.Contains(capacity) {
			problems = append(problems, fmt.Sprintf("%s capacity must be between %v and %v %s, got %v",
				r, rng.Min, rng.Max, r.Unit(), capacity))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// Validate checks the whole configuration and returns the first error found.
func (c *Configuration) Validate() error {
	profile, err := LookupProfile(c.Profile)
	if err != nil {
		return err
	}
	if err := ValidateInput(c.Input(), profile); err != nil {
		return err
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if err := validation.ValidateChartFormat(c.Chart.Format); err != nil {
		return err
	}
	if err := validation.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return validation.ValidateLogFormat(c.Logging.Format)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	in := c.Input()

	for _, r := range model.Resources {
		if in.Degenerate(r) {
			warnings = append(warnings, fmt.Sprintf("no product consumes %s; its capacity of %v %s will not limit production",
				r, in.Capacities.Of(r), r.Unit()))
		}
	}

	if profile, err := LookupProfile(c.Profile); err == nil {
		for _, r := range model.Resources {
			rng := profile.Range(r)
			capacity := in.Capacities.Of(r)
			if rng.Contains(capacity) && !rng.OnGrid(capacity) {
				warnings = append(warnings, fmt.Sprintf("%s capacity %v is not a multiple of the %v %s step of the %s profile",
					r, capacity, rng.Step, r.Unit(), profile.Name))
			}
		}
	}

	if in.TeaBottle.Profit == 0 && in.FruitJuice.Profit == 0 {
		warnings = append(warnings, "both products have zero profit; the optimal plan produces nothing")
	}

	return warnings
}
