// Package optimizer runs the build, solve and chart steps for one input and
// turns the outcome into a display summary.
package optimizer

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/iwvelando/production-optimizer/internal/chart"
	"github.com/iwvelando/production-optimizer/internal/config"
	"github.com/iwvelando/production-optimizer/internal/metrics"
	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/internal/solver"
	"github.com/iwvelando/production-optimizer/pkg/constants"
	"github.com/iwvelando/production-optimizer/pkg/format"
	"github.com/iwvelando/production-optimizer/pkg/mathutil"
	"github.com/iwvelando/production-optimizer/pkg/optimization"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Options configures a Runner.
type Options struct {
	Solver  solver.Options
	Chart   chart.Options
	Metrics *metrics.Metrics
}

// OptionsFromConfig maps the solver and chart sections of conf.
func OptionsFromConfig(conf *config.Configuration) Options {
	if conf == nil {
		return Options{Solver: solver.DefaultOptions(), Chart: chart.DefaultOptions()}
	}
	return Options{
		Solver: solver.Options{Tolerance: conf.Solver.Tolerance},
		Chart: chart.Options{
			Samples: conf.Chart.Samples,
			Width:   conf.Chart.Width,
			Height:  conf.Chart.Height,
		},
	}
}

// Runner executes solve runs. It holds no per-run state and is safe for
// concurrent use.
type Runner struct {
	logger *zap.Logger
	opts   Options
}

// Result is everything one run produced.
type Result struct {
	Input    model.Input     `json:"input"`
	Instance model.Instance  `json:"instance"`
	Solution solver.Solution `json:"solution"`
	Warnings []model.Warning `json:"warnings,omitempty"`
	Geometry *chart.Geometry `json:"geometry,omitempty"`
	Duration time.Duration   `json:"-"`
}

// NewRunner constructs a Runner with the provided options.
func NewRunner(logger *zap.Logger, opts Options) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tol := opts.Solver.Tolerance; math.IsNaN(tol) || math.IsInf(tol, 0) {
		return nil, fmt.Errorf("solver tolerance must be finite, got %v", tol)
	}
	if opts.Chart.Samples < 0 {
		return nil, fmt.Errorf("chart samples must not be negative, got %d", opts.Chart.Samples)
	}
	return &Runner{logger: logger, opts: opts}, nil
}

// Run builds the instance for in, solves it and derives the chart geometry
// when a solution exists. Only a malformed instance returns an error; an
// infeasible or unbounded program is reported through Result.Solution.
func (r *Runner) Run(in model.Input) (*Result, error) {
	start := time.Now()

	inst, warnings := model.Build(in)
	for _, w := range warnings {
		r.logger.Warn("degenerate resource constraint",
			zap.String("op", "build"),
			zap.String("resource", w.Resource.String()),
			zap.String("warning", w.Message),
		)
		r.opts.Metrics.ObserveDegenerate(w.Resource.String())
	}

	sol, err := solver.Solve(inst, r.opts.Solver)
	elapsed := time.Since(start)
	if err != nil {
		r.opts.Metrics.ObserveSolve("malformed", elapsed)
		r.logger.Error("instance rejected before solving",
			zap.String("op", "solve"),
			zap.Error(err),
		)
		return nil, fmt.Errorf("solve failed: %w", err)
	}
	r.opts.Metrics.ObserveSolve(sol.Status.String(), elapsed)

	res := &Result{
		Input:    in,
		Instance: inst,
		Solution: sol,
		Warnings: warnings,
		Duration: elapsed,
	}

	if !sol.Success {
		r.logger.Info("no feasible production plan",
			zap.String("op", "solve"),
			zap.String("status", sol.Status.String()),
			zap.String("message", sol.Message),
			zap.Duration("duration", elapsed),
		)
		return res, nil
	}

	geometry, err := chart.Derive(in, sol, r.opts.Chart)
	if err != nil {
		return nil, fmt.Errorf("chart geometry failed: %w", err)
	}
	res.Geometry = &geometry

	r.logger.Info("solved production plan",
		zap.String("op", "solve"),
		zap.String("status", sol.Status.String()),
		zap.Float64("teaBottle", sol.Quantity(model.TeaBottle)),
		zap.Float64("fruitJuice", sol.Quantity(model.FruitJuice)),
		zap.Float64("profit", sol.Profit),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)
	return res, nil
}

// RenderChart draws the result's geometry in the given image format.
func (r *Runner) RenderChart(res *Result, imageFormat string, w io.Writer) error {
	if res == nil || res.Geometry == nil {
		return chart.ErrNoSolution
	}
	if err := chart.Render(*res.Geometry, imageFormat, r.opts.Chart, w); err != nil {
		r.logger.Error("chart rendering failed",
			zap.String("op", "chart"),
			zap.String("format", imageFormat),
			zap.Error(err),
		)
		return err
	}
	r.opts.Metrics.ObserveChart(imageFormat)
	r.logger.Debug("rendered chart",
		zap.String("op", "chart"),
		zap.String("format", imageFormat),
	)
	return nil
}

// WarningMessages returns the text of every build warning.
func (res Result) WarningMessages() []string {
	return lo.Map(res.Warnings, func(w model.Warning, _ int) string { return w.Message })
}

// Summary converts the result into its display form.
func (res Result) Summary() optimization.Summary {
	sol := res.Solution
	summary := optimization.Summary{
		Success:  sol.Success,
		Status:   sol.Status.String(),
		Message:  sol.Message,
		Warnings: res.WarningMessages(),
	}
	if !sol.Success {
		return summary
	}

	summary.Profit = sol.Profit
	summary.ProfitDisplay = format.Currency(sol.Profit)

	summary.Products = lo.Map(model.Products, func(p model.Product, _ int) optimization.ProductLine {
		qty := sol.Quantity(p)
		contribution := qty * res.Input.Profit(p)
		return optimization.ProductLine{
			Name:                p.String(),
			Label:               p.Label(),
			Quantity:            qty,
			UnitProfit:          res.Input.Profit(p),
			Contribution:        contribution,
			QuantityDisplay:     format.Quantity(qty),
			ContributionDisplay: format.Currency(contribution),
		}
	})

	summary.Resources = lo.Map(model.Resources, func(r model.Resource, i int) optimization.ResourceLine {
		capacity := res.Input.Capacities.Of(r)
		used := res.Instance.RowActivity(i, sol.Quantities)
		slack := capacity - used
		if mathutil.WithinTolerance(used, capacity, mathutil.RelativeTolerance(capacity, constants.FeasibilityTolerance)) {
			slack = 0
		}
		return optimization.ResourceLine{
			Name:     r.String(),
			Label:    r.Label(),
			Unit:     r.Unit(),
			Used:     used,
			Capacity: capacity,
			Slack:    slack,
			Binding:  !res.Input.Degenerate(r) && slack == 0,
		}
	})

	return summary
}
