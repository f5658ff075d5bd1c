// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for production-optimizer.
type Configuration struct {
	Products   ProductsConfig   `yaml:"products" mapstructure:"products"`
	Capacities model.Capacities `yaml:"capacities" mapstructure:"capacities"`
	Profile    string           `yaml:"profile,omitempty" mapstructure:"profile"`
	Solver     SolverConfig     `yaml:"solver,omitempty" mapstructure:"solver"`
	Chart      ChartConfig      `yaml:"chart,omitempty" mapstructure:"chart"`
	Logging    LoggingConfig    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig     `yaml:"output,omitempty" mapstructure:"output"`
}

// ProductsConfig holds the per-unit parameters of both products.
type ProductsConfig struct {
	TeaBottle  model.ProductParams `yaml:"teaBottle" mapstructure:"teaBottle"`
	FruitJuice model.ProductParams `yaml:"fruitJuice" mapstructure:"fruitJuice"`
}

// SolverConfig tunes the simplex.
type SolverConfig struct {
	Tolerance float64 `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
}

// ChartConfig holds chart rendering options.
type ChartConfig struct {
	Width   int    `yaml:"width,omitempty" mapstructure:"width"`
	Height  int    `yaml:"height,omitempty" mapstructure:"height"`
	Samples int    `yaml:"samples,omitempty" mapstructure:"samples"`
	Format  string `yaml:"format,omitempty" mapstructure:"format"` // png, svg
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, json
}

// Default returns the configuration used when no file is given: the reference
// form values with the standard capacity profile.
func Default() *Configuration {
	return &Configuration{
		Products: ProductsConfig{
			TeaBottle:  model.ProductParams{Profit: 3000, Water: 500, Sugar: 50, Labor: 10},
			FruitJuice: model.ProductParams{Profit: 5000, Water: 400, Sugar: 70, Labor: 12},
		},
		Capacities: model.Capacities{Water: 20000, Sugar: 4000, Labor: 1000},
		Profile:    constants.ProfileStandard,
		Solver:     SolverConfig{Tolerance: constants.SolverTolerance},
		Chart: ChartConfig{
			Width:   constants.DefaultChartWidth,
			Height:  constants.DefaultChartHeight,
			Samples: constants.DefaultChartSamples,
			Format:  constants.ChartFormatPNG,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Keys missing from the file keep their defaults and
// OPTIMIZER_* environment variables override both.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

// LoadDefaults returns the defaults with environment overrides applied.
func LoadDefaults() (*Configuration, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())
	return v
}

// setDefaults registers every key so that environment overrides apply even
// when the file omits the key.
func setDefaults(v *viper.Viper, d *Configuration) {
	for _, p := range model.Products {
		params := d.Products.TeaBottle
		if p == model.FruitJuice {
			params = d.Products.FruitJuice
		}
		prefix := "products." + p.String() + "."
		v.SetDefault(prefix+"profit", params.Profit)
		for _, r := range model.Resources {
			v.SetDefault(prefix+r.String(), params.Requirement(r))
		}
	}
	for _, r := range model.Resources {
		v.SetDefault("capacities."+r.String(), d.Capacities.Of(r))
	}
	v.SetDefault("profile", d.Profile)
	v.SetDefault("solver.tolerance", d.Solver.Tolerance)
	v.SetDefault("chart.width", d.Chart.Width)
	v.SetDefault("chart.height", d.Chart.Height)
	v.SetDefault("chart.samples", d.Chart.Samples)
	v.SetDefault("chart.format", d.Chart.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.outputFile", d.Logging.OutputFile)
	v.SetDefault("output.format", d.Output.Format)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.Normalize()
	return &configuration, nil
}

// Normalize canonicalizes names and restores defaults for unset options.
func (c *Configuration) Normalize() {
	if c == nil {
		return
	}
	d := Default()

	c.Profile = strings.ToLower(strings.TrimSpace(c.Profile))
	if c.Profile == "" {
		c.Profile = d.Profile
	}
	if c.Solver.Tolerance <= 0 {
		c.Solver.Tolerance = d.Solver.Tolerance
	}
	if c.Chart.Width <= 0 {
		c.Chart.Width = d.Chart.Width
	}
	if c.Chart.Height <= 0 {
		c.Chart.Height = d.Chart.Height
	}
	if c.Chart.Samples < 2 {
		c.Chart.Samples = d.Chart.Samples
	}
	c.Chart.Format = strings.ToLower(strings.TrimSpace(c.Chart.Format))
	if c.Chart.Format == "" {
		c.Chart.Format = d.Chart.Format
	}
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = d.Output.Format
	}
}

// Input returns the run input described by the configuration.
func (c *Configuration) Input() model.Input {
	return model.Input{
		TeaBottle:  c.Products.TeaBottle,
		FruitJuice: c.Products.FruitJuice,
		Capacities: c.Capacities,
	}
}

// SetInput replaces the products and capacities with in.
func (c *Configuration) SetInput(in model.Input) {
	c.Products.TeaBottle = in.TeaBottle
	c.Products.FruitJuice = in.FruitJuice
	c.Capacities = in.Capacities
}
