package model

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceInput() Input {
	return Input{
		TeaBottle:  ProductParams{Profit: 3000, Water: 500, Sugar: 50, Labor: 10},
		FruitJuice: ProductParams{Profit: 5000, Water: 400, Sugar: 70, Labor: 12},
		Capacities: Capacities{Water: 20000, Sugar: 4000, Labor: 1000},
	}
}

func TestBuildReferenceInstance(t *testing.T) {
	inst, warnings := Build(referenceInput())

	assert.Empty(t, warnings)
	assert.Equal(t, []float64{-3000, -5000}, inst.Objective)
	assert.Equal(t, [][]float64{
		{500, 400},
		{50, 70},
		{10, 12},
	}, inst.Matrix)
	assert.Equal(t, []float64{20000, 4000, 1000}, inst.RHS)
	assert.Equal(t, []float64{0, 0}, inst.LowerBounds)
	require.Len(t, inst.UpperBounds, 2)
	for _, ub := range inst.UpperBounds {
		assert.True(t, math.IsInf(ub, 1))
	}
	require.NoError(t, inst.Validate())
}

func TestBuildRowsFollowResourceOrder(t *testing.T) {
	in := referenceInput()
	inst, _ := Build(in)

	for i, r := range Resources {
		assert.Equal(t, in.TeaBottle.Requirement(r), inst.Matrix[i][0], "row %s column tea", r)
		assert.Equal(t, in.FruitJuice.Requirement(r), inst.Matrix[i][1], "row %s column juice", r)
		assert.Equal(t, in.Capacities.Of(r), inst.RHS[i], "rhs %s", r)
	}
}

func TestBuildKeepsDegenerateRow(t *testing.T) {
	in := referenceInput()
	in.TeaBottle.Sugar = 0
	in.FruitJuice.Sugar = 0

	inst, warnings := Build(in)

	require.Len(t, warnings, 1)
	assert.Equal(t, Sugar, warnings[0].Resource)
	assert.True(t, strings.Contains(warnings[0].String(), "Sugar"))
	require.Len(t, inst.Matrix, 3)
	assert.Equal(t, []float64{0, 0}, inst.Matrix[1])
	assert.Equal(t, 4000.0, inst.RHS[1])
}

func TestBuildWarnsForEveryDegenerateResource(t *testing.T) {
	in := Input{Capacities: Capacities{Water: 1, Sugar: 2, Labor: 3}}

	_, warnings := Build(in)

	require.Len(t, warnings, 3)
	for i, r := range Resources {
		assert.Equal(t, r, warnings[i].Resource)
	}
}

func TestValidateRejectsMalformedInstances(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Instance)
	}{
		{"empty objective", func(inst *Instance) { inst.Objective = nil }},
		{"rhs length", func(inst *Instance) { inst.RHS = inst.RHS[:2] }},
		{"short row", func(inst *Instance) { inst.Matrix[0] = []float64{1} }},
		{"nan coefficient", func(inst *Instance) { inst.Matrix[2][1] = math.NaN() }},
		{"infinite capacity", func(inst *Instance) { inst.RHS[0] = math.Inf(1) }},
		{"nan profit", func(inst *Instance) { inst.Objective[0] = math.NaN() }},
		{"lower bounds length", func(inst *Instance) { inst.LowerBounds = []float64{0} }},
		{"nonzero lower bound", func(inst *Instance) { inst.LowerBounds[1] = 5 }},
		{"finite upper bound", func(inst *Instance) { inst.UpperBounds[0] = 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, _ := Build(referenceInput())
			tt.mutate(&inst)

			err := inst.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInstance))
		})
	}
}

func TestColumnAndRowActivity(t *testing.T) {
	inst, _ := Build(referenceInput())

	assert.Equal(t, []float64{400, 70, 12}, inst.Column(1))
	assert.Equal(t, 20000.0, inst.RowActivity(0, []float64{0, 50}))
}

func TestIdentifiers(t *testing.T) {
	assert.Equal(t, "teaBottle", TeaBottle.String())
	assert.Equal(t, "Fruit Juice", FruitJuice.Label())
	assert.Equal(t, "labor", Labor.String())
	assert.Equal(t, "ml", Water.Unit())
	assert.Equal(t, Capacities{Water: 2, Sugar: 4, Labor: 6}, Capacities{Water: 1, Sugar: 2, Labor: 3}.Scale(2))
}
