// Package constants provides shared constants for the production-optimizer application.
package constants

// Solver constants
const (
	// SolverTolerance is the default simplex tolerance
	SolverTolerance = 1e-10

	// FeasibilityTolerance is the slack allowed when checking constraints after a solve
	FeasibilityTolerance = 1e-6
)

// Chart constants
const (
	// ChartPaddingFactor widens the plot domain beyond the furthest feature
	ChartPaddingFactor = 1.2

	// ChartNominalSpan is the axis span used when nothing binds an axis
	ChartNominalSpan = 100.0

	// ChartLabelOffset is the fraction of an axis span used to offset the optimum label
	ChartLabelOffset = 0.02

	// DefaultChartSamples is the number of x samples for sloped constraint lines
	DefaultChartSamples = 500

	// DefaultChartWidth is the rendered chart width in pixels
	DefaultChartWidth = 1000

	// DefaultChartHeight is the rendered chart height in pixels
	DefaultChartHeight = 800
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// ChartFormatPNG renders charts as PNG images
	ChartFormatPNG = "png"

	// ChartFormatSVG renders charts as SVG documents
	ChartFormatSVG = "svg"
)

// Currency constants
const (
	// DefaultCurrencySymbol prefixes profit values
	DefaultCurrencySymbol = "Rp"
)

// Capacity profile names
const (
	// ProfileStandard uses the 5,000-50,000 / 1,000-10,000 / 100-5,000 capacity ranges
	ProfileStandard = "standard"

	// ProfileExtended uses the 1,000-50,000 / 500-10,000 / 60-5,000 capacity ranges
	ProfileExtended = "extended"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variable overrides
	EnvPrefix = "OPTIMIZER"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSize is the default maximum request body size
	DefaultMaxRequestSize = "256KiB"

	// DefaultMaxRequestSizeBytes is DefaultMaxRequestSize in bytes
	DefaultMaxRequestSizeBytes int64 = 256 * 1024
)
