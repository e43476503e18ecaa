package harness

import (
	"github.com/urfave/cli/v2"
)

// Flag names of the standard test arguments.
const (
	FlagN               = "N"
	FlagThreadsPerBlock = "threadsPerBlock"
	FlagBlocksPerCU     = "blocksPerCU"
	FlagMemsetVal       = "memsetval"
	FlagIterations      = "iterations"
	FlagOffset          = "offset"
	FlagDevice          = "device"
	FlagVerbose         = "verbose"

	FlagConfig          = "config"
	FlagLogLevel        = "log-level"
	FlagMetricsTextfile = "metrics-textfile"
	FlagLgamma          = "lgamma"
)

// Options holds the parsed standard test arguments. Most of them size
// workloads of other tests sharing the harness; a math function test only
// acts on Iterations, Device and the logging/metrics settings.
type Options struct {
	N               int
	ThreadsPerBlock int
	BlocksPerCU     int
	MemsetVal       int
	Iterations      int
	Offset          int
	Device          int
	Verbose         bool

	LogLevel        string
	MetricsTextfile string
	Lgamma          bool
}

// DefaultOptions returns the standard argument defaults.
func DefaultOptions() Options {
	return Options{
		N:               4 * 1024 * 1024,
		ThreadsPerBlock: 256,
		BlocksPerCU:     6,
		MemsetVal:       0x42,
		Iterations:      1,
		LogLevel:        "info",
	}
}

// Verbosity returns the zap level the run should log at.
func (o Options) Verbosity() string {
	if o.Verbose {
		return "debug"
	}
	return o.LogLevel
}

// StandardFlags returns the command line flags every test accepts.
func StandardFlags() []cli.Flag {
	def := DefaultOptions()
	return []cli.Flag{
		&cli.IntFlag{Name: FlagN, Value: def.N, Usage: "number of elements"},
		&cli.IntFlag{Name: FlagThreadsPerBlock, Value: def.ThreadsPerBlock, Usage: "threads per block"},
		&cli.IntFlag{Name: FlagBlocksPerCU, Value: def.BlocksPerCU, Usage: "blocks per compute unit"},
		&cli.IntFlag{Name: FlagMemsetVal, Value: def.MemsetVal, Usage: "memset fill value"},
		&cli.IntFlag{Name: FlagIterations, Value: def.Iterations, Usage: "times to repeat every check"},
		&cli.IntFlag{Name: FlagOffset, Value: def.Offset, Usage: "buffer offset in elements"},
		&cli.IntFlag{Name: FlagDevice, Value: def.Device, Usage: "device to run on"},
		&cli.BoolFlag{Name: FlagVerbose, Aliases: []string{"v"}, Usage: "log at debug level"},
		&cli.StringFlag{
			Name:    FlagConfig,
			Usage:   "Load configuration from `FILE`",
			EnvVars: []string{"HIPMATH_CONFIG"},
		},
		&cli.StringFlag{Name: FlagLogLevel, Usage: "log level (debug, info, warn, error)"},
		&cli.StringFlag{Name: FlagMetricsTextfile, Usage: "write check metrics to `FILE` on exit"},
		&cli.BoolFlag{Name: FlagLgamma, Usage: "also run the lgamma(double) check"},
	}
}

// ParseOptions merges cfg with the flags set on the command line.
func ParseOptions(c *cli.Context, cfg *Config) Options {
	opts := DefaultOptions()
	if cfg != nil {
		opts.Device = cfg.Device
		if cfg.Logger.Verbosity != "" {
			opts.LogLevel = cfg.Logger.Verbosity
		}
		opts.MetricsTextfile = cfg.Metrics.Textfile
		opts.Lgamma = cfg.Checks.Lgamma
		if cfg.Checks.Iterations > 0 {
			opts.Iterations = cfg.Checks.Iterations
		}
	}

	opts.N = c.Int(FlagN)
	opts.ThreadsPerBlock = c.Int(FlagThreadsPerBlock)
	opts.BlocksPerCU = c.Int(FlagBlocksPerCU)
	opts.MemsetVal = c.Int(FlagMemsetVal)
	opts.Offset = c.Int(FlagOffset)
	opts.Verbose = c.Bool(FlagVerbose)
	if c.IsSet(FlagIterations) {
		opts.Iterations = c.Int(FlagIterations)
	}
	if c.IsSet(FlagDevice) {
		opts.Device = c.Int(FlagDevice)
	}
	if c.IsSet(FlagLogLevel) {
		opts.LogLevel = c.String(FlagLogLevel)
	}
	if c.IsSet(FlagMetricsTextfile) {
		opts.MetricsTextfile = c.String(FlagMetricsTextfile)
	}
	if c.IsSet(FlagLgamma) {
		opts.Lgamma = c.Bool(FlagLgamma)
	}
	if opts.Iterations < 1 {
		opts.Iterations = 1
	}
	return opts
}
