package optimizer

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/production-optimizer/internal/chart"
	"github.com/iwvelando/production-optimizer/internal/config"
	"github.com/iwvelando/production-optimizer/internal/metrics"
	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/internal/solver"
	"github.com/iwvelando/production-optimizer/pkg/testutil"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newRunner(t *testing.T, m *metrics.Metrics) (*Runner, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	opts := OptionsFromConfig(config.Default())
	opts.Chart.Samples = 11
	opts.Metrics = m
	runner, err := NewRunner(zap.New(core), opts)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	return runner, logs
}

func TestRunnerReferenceScenario(t *testing.T) {
	m := metrics.New()
	runner, logs := newRunner(t, m)

	res, err := runner.Run(testutil.ReferenceInput())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !res.Solution.Success {
		t.Fatalf("expected success, got %s: %s", res.Solution.Status, res.Solution.Message)
	}
	if math.Abs(res.Solution.Profit-250000) > 1e-6 {
		t.Errorf("expected profit 250000, got %v", res.Solution.Profit)
	}
	if res.Geometry == nil {
		t.Fatal("expected chart geometry for a feasible plan")
	}
	if res.Geometry.Label != "(0.0, 50.0)" {
		t.Errorf("unexpected optimum label %q", res.Geometry.Label)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}

	entries := logs.FilterMessage("solved production plan").All()
	if len(entries) != 1 {
		t.Fatalf("expected one solve log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["op"] != "solve" || fields["status"] != "optimal" {
		t.Errorf("unexpected log fields %v", fields)
	}

	expected := `
# HELP optimizer_solves_total Number of solve runs by outcome status.
# TYPE optimizer_solves_total counter
optimizer_solves_total{status="optimal"} 1
`
	if err := promtestutil.GatherAndCompare(m, strings.NewReader(expected), "optimizer_solves_total"); err != nil {
		t.Errorf("unexpected solve metrics: %v", err)
	}
}

func TestRunnerDegenerateResource(t *testing.T) {
	m := metrics.New()
	runner, logs := newRunner(t, m)
	in := testutil.ReferenceInput()
	in.TeaBottle.Labor = 0
	in.FruitJuice.Labor = 0

	res, err := runner.Run(in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !res.Solution.Success {
		t.Fatalf("a degenerate resource must not stop the run: %s", res.Solution.Message)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Resource != model.Labor {
		t.Fatalf("expected one labor warning, got %v", res.Warnings)
	}
	if logs.FilterMessage("degenerate resource constraint").Len() != 1 {
		t.Error("expected the degenerate resource to be logged")
	}
	expected := `
# HELP optimizer_degenerate_resources_total Number of runs in which no product consumed a resource.
# TYPE optimizer_degenerate_resources_total counter
optimizer_degenerate_resources_total{resource="labor"} 1
`
	if err := promtestutil.GatherAndCompare(m, strings.NewReader(expected), "optimizer_degenerate_resources_total"); err != nil {
		t.Errorf("unexpected degenerate metrics: %v", err)
	}
}

func TestRunnerUnboundedHasNoGeometry(t *testing.T) {
	runner, logs := newRunner(t, nil)
	in := testutil.ReferenceInput()
	in.TeaBottle = model.ProductParams{Profit: 3000}

	res, err := runner.Run(in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Solution.Success {
		t.Fatal("expected failure for an unbounded plan")
	}
	if res.Solution.Status != solver.StatusUnbounded {
		t.Errorf("expected unbounded, got %s", res.Solution.Status)
	}
	if res.Geometry != nil {
		t.Error("no geometry should be derived without a solution")
	}
	if logs.FilterMessage("no feasible production plan").Len() != 1 {
		t.Error("expected the failure to be logged")
	}

	err = runner.RenderChart(res, "png", &bytes.Buffer{})
	if !errors.Is(err, chart.ErrNoSolution) {
		t.Errorf("expected ErrNoSolution, got %v", err)
	}
}

func TestRunnerMalformedInput(t *testing.T) {
	runner, logs := newRunner(t, nil)
	in := testutil.ReferenceInput()
	in.FruitJuice.Water = math.Inf(1)

	res, err := runner.Run(in)

	if err == nil {
		t.Fatal("expected an error for a non-finite coefficient")
	}
	if !errors.Is(err, model.ErrMalformedInstance) {
		t.Errorf("expected ErrMalformedInstance, got %v", err)
	}
	if res != nil {
		t.Error("expected no partial result")
	}
	if logs.FilterMessage("instance rejected before solving").Len() != 1 {
		t.Error("expected the rejection to be logged")
	}
}

func TestRunnerRenderChart(t *testing.T) {
	m := metrics.New()
	runner, _ := newRunner(t, m)

	res, err := runner.Run(testutil.ReferenceInput())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var buf bytes.Buffer
	if err := runner.RenderChart(res, "svg", &buf); err != nil {
		t.Fatalf("RenderChart() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("expected an svg document")
	}

	if err := runner.RenderChart(res, "gif", &bytes.Buffer{}); !errors.Is(err, chart.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestResultSummary(t *testing.T) {
	runner, _ := newRunner(t, nil)
	res, err := runner.Run(testutil.ReferenceInput())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	summary := res.Summary()

	if !summary.Success || summary.Status != "optimal" {
		t.Fatalf("unexpected summary status %+v", summary)
	}
	if summary.ProfitDisplay != "Rp 250,000.00" {
		t.Errorf("unexpected profit display %q", summary.ProfitDisplay)
	}
	if len(summary.Products) != 2 || summary.Products[1].QuantityDisplay != "50.00" {
		t.Errorf("unexpected product lines %+v", summary.Products)
	}
	if summary.Products[1].ContributionDisplay != "Rp 250,000.00" {
		t.Errorf("unexpected juice contribution %q", summary.Products[1].ContributionDisplay)
	}

	binding := summary.BindingResources()
	if len(binding) != 1 || binding[0] != "Water" {
		t.Errorf("expected water to be the only binding resource, got %v", binding)
	}
	sugar := summary.Resources[1]
	if math.Abs(sugar.Used-3500) > 1e-6 || math.Abs(sugar.Slack-500) > 1e-6 {
		t.Errorf("unexpected sugar usage %+v", sugar)
	}
}

func TestResultSummaryBindingWithinTolerance(t *testing.T) {
	in := testutil.ReferenceInput()
	inst, _ := model.Build(in)

	tests := []struct {
		name      string
		juice     float64
		wantSlack float64
		wantBinds bool
	}{
		{"rounding noise above capacity", 50.0000000001, 0, true},
		{"rounding noise below capacity", 49.9999999999, 0, true},
		{"real slack", 49.9, 40, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Result{
				Input:    in,
				Instance: inst,
				Solution: solver.Solution{
					Success:    true,
					Status:     solver.StatusOptimal,
					Quantities: []float64{0, tt.juice},
					Profit:     5000 * tt.juice,
				},
			}

			water := res.Summary().Resources[0]
			if math.Abs(water.Slack-tt.wantSlack) > 1e-6 {
				t.Errorf("expected slack %v, got %v", tt.wantSlack, water.Slack)
			}
			if water.Binding != tt.wantBinds {
				t.Errorf("expected binding=%v, got %v", tt.wantBinds, water.Binding)
			}
		})
	}
}

func TestResultSummaryOnFailure(t *testing.T) {
	res := Result{
		Solution: solver.Solution{Status: solver.StatusInfeasible, Message: "lp: problem is infeasible"},
		Warnings: []model.Warning{{Resource: model.Sugar, Message: "sugar unused"}},
	}

	summary := res.Summary()

	if summary.Success {
		t.Error("expected failure summary")
	}
	if summary.Status != "infeasible" || summary.Message != "lp: problem is infeasible" {
		t.Errorf("unexpected summary %+v", summary)
	}
	if len(summary.Products) != 0 || summary.ProfitDisplay != "" {
		t.Errorf("failure summary should carry no plan: %+v", summary)
	}
	if len(summary.Warnings) != 1 || summary.Warnings[0] != "sugar unused" {
		t.Errorf("expected warnings to be carried, got %v", summary.Warnings)
	}
}

func TestNewRunnerValidation(t *testing.T) {
	if _, err := NewRunner(nil, Options{Solver: solver.Options{Tolerance: math.NaN()}}); err == nil {
		t.Error("expected error for NaN tolerance")
	}
	if _, err := NewRunner(nil, Options{Chart: chart.Options{Samples: -1}}); err == nil {
		t.Error("expected error for negative samples")
	}

	runner, err := NewRunner(nil, Options{})
	if err != nil {
		t.Fatalf("zero options should fall back to defaults: %v", err)
	}
	res, err := runner.Run(testutil.ReferenceInput())
	if err != nil || !res.Solution.Success {
		t.Fatalf("expected a successful run with default options, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	conf := config.Default()
	conf.Solver.Tolerance = 1e-8
	conf.Chart.Width = 640

	opts := OptionsFromConfig(conf)
	if opts.Solver.Tolerance != 1e-8 || opts.Chart.Width != 640 {
		t.Errorf("unexpected options %+v", opts)
	}

	if nilOpts := OptionsFromConfig(nil); nilOpts.Chart.Samples != chart.DefaultOptions().Samples {
		t.Errorf("expected default chart options, got %+v", nilOpts.Chart)
	}
}
