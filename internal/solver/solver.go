// Package solver solves model.Instance linear programs with a deterministic
// simplex and reports the outcome as a Solution.
package solver

import (
	"errors"
	"fmt"

	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/pkg/constants"
	"github.com/iwvelando/production-optimizer/pkg/mathutil"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status is the outcome of a solve.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "failed"
	}
}

// MarshalText lets Status appear as a string in JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the names produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusOptimal, StatusInfeasible, StatusUnbounded, StatusFailed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown solve status %q", text)
}

// Options tunes the simplex.
type Options struct {
	Tolerance float64
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Tolerance: constants.SolverTolerance}
}

func (o Options) tolerance() float64 {
	if o.Tolerance <= 0 {
		return constants.SolverTolerance
	}
	return o.Tolerance
}

// Solution is the result of one solve. Quantities are indexed like
// model.Products and Profit is reported in the maximization framing.
type Solution struct {
	Success    bool      `json:"success"`
	Status     Status    `json:"status"`
	Message    string    `json:"message,omitempty"`
	Quantities []float64 `json:"quantities,omitempty"`
	Profit     float64   `json:"profit"`
}

// Quantity returns the planned amount of product p, or zero when the solve failed.
func (s Solution) Quantity(p model.Product) float64 {
	idx := int(p)
	if idx < 0 || idx >= len(s.Quantities) {
		return 0
	}
	return s.Quantities[idx]
}

// Solve minimizes inst.Objective·x subject to inst.Matrix·x <= inst.RHS and x >= 0.
//
// A malformed instance is the only error. Infeasible and unbounded programs
// complete normally with Success false and the solver diagnostic in Message.
func Solve(inst model.Instance, opts Options) (Solution, error) {
	if err := inst.Validate(); err != nil {
		return Solution{}, err
	}
	tol := opts.tolerance()
	n, m := inst.NumVars(), inst.NumConstraints()

	// The simplex rejects all-zero columns, so variables no row constrains are
	// settled here: unbounded when they earn a profit, pinned at zero otherwise.
	active := make([]int, 0, n)
	for j := 0; j < n; j++ {
		if floats.Norm(inst.Column(j), 1) != 0 {
			active = append(active, j)
			continue
		}
		if inst.Objective[j] < 0 {
			return failure(StatusUnbounded, fmt.Sprintf("%v: variable %d is profitable but consumes no constrained resource",
				lp.ErrUnbounded, j)), nil
		}
	}

	// A row with a negative capacity that only non-negative coefficients feed
	// can never be met by x >= 0.
	for i, row := range inst.Matrix {
		if inst.RHS[i] < 0 && floats.Min(row) >= 0 {
			return failure(StatusInfeasible, fmt.Sprintf("%v: row %d needs usage of at most %v but usage cannot go below zero",
				lp.ErrInfeasible, i, inst.RHS[i])), nil
		}
	}

	x := make([]float64, n)
	if m == 0 {
		return optimal(x, 0), nil
	}

	// Standard form: [A | I]·[x; s] = b with slack s >= 0.
	cols := len(active) + m
	c := make([]float64, cols)
	a := mat.NewDense(m, cols, nil)
	for k, j := range active {
		c[k] = inst.Objective[j]
		for i := 0; i < m; i++ {
			a.Set(i, k, inst.Matrix[i][j])
		}
	}
	for i := 0; i < m; i++ {
		a.Set(i, len(active)+i, 1)
	}
	b := append([]float64(nil), inst.RHS...)

	// With a non-negative right-hand side the all-slack basis is feasible and
	// phase one can be skipped.
	var basic []int
	if floats.Min(b) >= 0 {
		basic = make([]int, m)
		for i := range basic {
			basic[i] = len(active) + i
		}
	}

	optF, optX, err := simplex(c, a, b, tol, basic)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMalformedInstance):
			return Solution{}, err
		case errors.Is(err, lp.ErrInfeasible):
			return failure(StatusInfeasible, err.Error()), nil
		case errors.Is(err, lp.ErrUnbounded):
			return failure(StatusUnbounded, err.Error()), nil
		default:
			return failure(StatusFailed, err.Error()), nil
		}
	}

	clampTol := mathutil.RelativeTolerance(floats.Max(b), tol)
	for k, j := range active {
		x[j] = mathutil.ClampNonNegative(optX[k], clampTol)
	}
	return optimal(x, -optF), nil
}

// simplex converts gonum's shape panics into malformed-instance errors.
func simplex(c []float64, a mat.Matrix, b []float64, tol float64, basic []int) (optF float64, optX []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", model.ErrMalformedInstance, r)
		}
	}()
	return lp.Simplex(c, a, b, tol, basic)
}

func optimal(x []float64, profit float64) Solution {
	if profit == 0 {
		// Normalize negative zero.
		profit = 0
	}
	return Solution{
		Success:    true,
		Status:     StatusOptimal,
		Quantities: x,
		Profit:     profit,
	}
}

func failure(status Status, msg string) Solution {
	return Solution{Status: status, Message: msg}
}
