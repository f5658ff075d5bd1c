package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/production-optimizer/internal/config"
	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/internal/optimizer"
	"github.com/iwvelando/production-optimizer/pkg/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// errNoPlan is returned after the failure summary has been printed.
var errNoPlan = errors.New("no feasible production plan")

type inputFlag struct {
	name  string
	usage string
	set   func(in *model.Input, v float64)
}

var inputFlags = []inputFlag{
	{"profit-tea", "Tea Bottle profit per unit (Rp)", func(in *model.Input, v float64) { in.TeaBottle.Profit = v }},
	{"profit-juice", "Fruit Juice profit per unit (Rp)", func(in *model.Input, v float64) { in.FruitJuice.Profit = v }},
	{"water-tea", "Tea Bottle water per unit (ml)", func(in *model.Input, v float64) { in.TeaBottle.Water = v }},
	{"water-juice", "Fruit Juice water per unit (ml)", func(in *model.Input, v float64) { in.FruitJuice.Water = v }},
	{"sugar-tea", "Tea Bottle sugar per unit (g)", func(in *model.Input, v float64) { in.TeaBottle.Sugar = v }},
	{"sugar-juice", "Fruit Juice sugar per unit (g)", func(in *model.Input, v float64) { in.FruitJuice.Sugar = v }},
	{"labor-tea", "Tea Bottle labor per unit (minutes)", func(in *model.Input, v float64) { in.TeaBottle.Labor = v }},
	{"labor-juice", "Fruit Juice labor per unit (minutes)", func(in *model.Input, v float64) { in.FruitJuice.Labor = v }},
	{"water-max", "monthly water capacity (ml)", func(in *model.Input, v float64) { in.Capacities.Water = v }},
	{"sugar-max", "monthly sugar capacity (g)", func(in *model.Input, v float64) { in.Capacities.Sugar = v }},
	{"labor-max", "monthly labor capacity (minutes)", func(in *model.Input, v float64) { in.Capacities.Labor = v }},
}

type solveOpts struct {
	outputFormat string
	profile      string
	chartPath    string
	chartFormat  string
}

func newSolveCommand() *cobra.Command {
	opts := solveOpts{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one production plan and print the result",
		Long: `Solve the production mix for the configured products and capacities.

Values come from the configuration file, then OPTIMIZER_* environment
variables, then the flags below.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, opts)
		},
	}

	flags := cmd.Flags()
	for _, f := range inputFlags {
		flags.Float64(f.name, 0, f.usage)
	}
	flags.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, json")
	flags.StringVar(&opts.profile, "profile", "", "capacity profile override: standard, extended")
	flags.StringVar(&opts.chartPath, "chart", "", "write the chart image to this path")
	flags.StringVar(&opts.chartFormat, "chart-format", "", "chart image format: png, svg (default from the --chart extension)")
	return cmd
}

// applyInputFlags overrides the configured input with every flag the user set.
func applyInputFlags(flags *pflag.FlagSet, conf *config.Configuration) error {
	in := conf.Input()
	for _, f := range inputFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetFloat64(f.name)
		if err != nil {
			return err
		}
		f.set(&in, v)
	}
	conf.SetInput(in)
	return nil
}

func runSolve(cmd *cobra.Command, opts solveOpts) error {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	logLevel, _ := flags.GetString("log-level")

	conf, err := loadConfiguration(configPath, flags.Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", configPath, err)
	}
	if err := applyInputFlags(flags, conf); err != nil {
		return err
	}
	if opts.outputFormat != "" {
		conf.Output.Format = opts.outputFormat
	}
	if opts.profile != "" {
		conf.Profile = opts.profile
	}
	conf.Chart.Format = chartFormat(opts, conf.Chart.Format)
	conf.Normalize()

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := conf.Validate(); err != nil {
		return err
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	runner, err := optimizer.NewRunner(logger, optimizer.OptionsFromConfig(conf))
	if err != nil {
		return err
	}
	res, err := runner.Run(conf.Input())
	if err != nil {
		return err
	}

	if err := output.Write(cmd.OutOrStdout(), conf.Output.Format, res.Summary()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !res.Solution.Success {
		return errNoPlan
	}

	if opts.chartPath != "" {
		if err := writeChart(runner, res, conf.Chart.Format, opts.chartPath); err != nil {
			return err
		}
		logger.Info("wrote chart",
			zap.String("op", "main"),
			zap.String("path", opts.chartPath),
			zap.String("format", conf.Chart.Format),
		)
	}
	return nil
}

// chartFormat picks --chart-format, then the --chart extension, then the configured format.
func chartFormat(opts solveOpts, configured string) string {
	if opts.chartFormat != "" {
		return opts.chartFormat
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.chartPath)), "."); ext != "" {
		return ext
	}
	return configured
}

func writeChart(runner *optimizer.Runner, res *optimizer.Result, imageFormat, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return runner.RenderChart(res, imageFormat, file)
}
