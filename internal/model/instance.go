package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/production-optimizer/pkg/mathutil"
	"github.com/samber/lo"
)

// ErrMalformedInstance is returned when an instance cannot be handed to the solver.
var ErrMalformedInstance = errors.New("malformed LP instance")

// Instance is a linear program in inequality form:
//
//	minimize Objective·x  subject to  Matrix·x <= RHS,  LowerBounds <= x <= UpperBounds
//
// Columns follow Products and rows follow Resources.
type Instance struct {
	Objective   []float64   `json:"objective"`
	Matrix      [][]float64 `json:"matrix"`
	RHS         []float64   `json:"rhs"`
	LowerBounds []float64   `json:"lowerBounds"`
	UpperBounds []float64   `json:"-"`
}

// Build converts the run input into an LP instance. Profit is negated because
// the solver minimizes. A resource that no product consumes still contributes
// its (never binding) zero row, and is reported as a warning.
func Build(in Input) (Instance, []Warning) {
	inst := Instance{
		Objective: lo.Map(Products, func(p Product, _ int) float64 {
			return -in.Profit(p)
		}),
		LowerBounds: lo.Map(Products, func(Product, int) float64 { return 0 }),
		UpperBounds: lo.Map(Products, func(Product, int) float64 { return math.Inf(1) }),
	}

	var warnings []Warning
	for _, r := range Resources {
		row := lo.Map(Products, func(p Product, _ int) float64 {
			return in.Requirement(p, r)
		})
		inst.Matrix = append(inst.Matrix, row)
		inst.RHS = append(inst.RHS, in.Capacities.Of(r))

		if in.Degenerate(r) {
			warnings = append(warnings, Warning{
				Resource: r,
				Message: fmt.Sprintf("%s requirements of %s and %s are both zero; the %s capacity cannot limit production",
					r.Label(), TeaBottle.Label(), FruitJuice.Label(), r.String()),
			})
		}
	}

	return inst, warnings
}

// NumVars returns the number of decision variables.
func (inst Instance) NumVars() int {
	return len(inst.Objective)
}

// NumConstraints returns the number of inequality rows.
func (inst Instance) NumConstraints() int {
	return len(inst.RHS)
}

// Validate reports shape mismatches and non-finite coefficients.
func (inst Instance) Validate() error {
	n := inst.NumVars()
	if n == 0 {
		return fmt.Errorf("%w: objective has no coefficients", ErrMalformedInstance)
	}
	if len(inst.Matrix) != len(inst.RHS) {
		return fmt.Errorf("%w: %d constraint rows but %d right-hand-side values",
			ErrMalformedInstance, len(inst.Matrix), len(inst.RHS))
	}
	if len(inst.LowerBounds) != n {
		return fmt.Errorf("%w: %d lower bounds for %d variables", ErrMalformedInstance, len(inst.LowerBounds), n)
	}
	if len(inst.UpperBounds) != 0 && len(inst.UpperBounds) != n {
		return fmt.Errorf("%w: %d upper bounds for %d variables", ErrMalformedInstance, len(inst.UpperBounds), n)
	}
	if !mathutil.IsFinite(inst.Objective...) {
		return fmt.Errorf("%w: objective must be finite", ErrMalformedInstance)
	}
	for i, row := range inst.Matrix {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d coefficients, expected %d", ErrMalformedInstance, i, len(row), n)
		}
		if !mathutil.IsFinite(row...) {
			return fmt.Errorf("%w: row %d must be finite", ErrMalformedInstance, i)
		}
	}
	if !mathutil.IsFinite(inst.RHS...) {
		return fmt.Errorf("%w: right-hand side must be finite", ErrMalformedInstance)
	}
	for i, lb := range inst.LowerBounds {
		if lb != 0 {
			return fmt.Errorf("%w: lower bound of variable %d is %v, only zero is supported", ErrMalformedInstance, i, lb)
		}
	}
	for i, ub := range inst.UpperBounds {
		if !math.IsInf(ub, 1) {
			return fmt.Errorf("%w: upper bound of variable %d is %v, only unbounded variables are supported", ErrMalformedInstance, i, ub)
		}
	}
	return nil
}

// Column returns the coefficients of variable j across all rows.
func (inst Instance) Column(j int) []float64 {
	return lo.Map(inst.Matrix, func(row []float64, _ int) float64 {
		return row[j]
	})
}

// RowActivity returns Matrix[i]·x.
func (inst Instance) RowActivity(i int, x []float64) float64 {
	var sum float64
	for j, a := range inst.Matrix[i] {
		sum += a * x[j]
	}
	return sum
}
