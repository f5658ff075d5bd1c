// Package testutil provides common utility functions for testing.
package testutil

import (
	"fmt"

	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/pkg/mathutil"
)

// ReferenceInput returns the default form values: tea 3000/500/50/10,
// juice 5000/400/70/12, capacities 20000/4000/1000.
func ReferenceInput() model.Input {
	return model.Input{
		TeaBottle:  model.ProductParams{Profit: 3000, Water: 500, Sugar: 50, Labor: 10},
		FruitJuice: model.ProductParams{Profit: 5000, Water: 400, Sugar: 70, Labor: 12},
		Capacities: model.Capacities{Water: 20000, Sugar: 4000, Labor: 1000},
	}
}

// ConstraintViolations lists every bound or row of inst that x breaks by more
// than tol (scaled by the row's capacity).
func ConstraintViolations(inst model.Instance, x []float64, tol float64) []string {
	var violations []string
	if len(x) != inst.NumVars() {
		return []string{fmt.Sprintf("expected %d quantities, got %d", inst.NumVars(), len(x))}
	}
	for j, v := range x {
		if v < inst.LowerBounds[j] {
			violations = append(violations, fmt.Sprintf("variable %d = %v below lower bound %v", j, v, inst.LowerBounds[j]))
		}
	}
	for i, r := range model.Resources[:inst.NumConstraints()] {
		activity := inst.RowActivity(i, x)
		if activity > inst.RHS[i]+mathutil.RelativeTolerance(inst.RHS[i], tol) {
			violations = append(violations, fmt.Sprintf("%s usage %v exceeds capacity %v", r, activity, inst.RHS[i]))
		}
	}
	return violations
}

// ObjectiveProfit returns Σ quantity × unit profit.
func ObjectiveProfit(in model.Input, x []float64) float64 {
	var total float64
	for j, p := range model.Products {
		total += in.Profit(p) * x[j]
	}
	return total
}
