// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hipmathfunctions checks the device math library: abs on int64,
// min/max on half and the power functions, each evaluated in a device kernel
// and compared exactly with its expected value.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/LynnColeArt/hipmath"
	"github.com/LynnColeArt/hipmath/harness"
	"github.com/LynnColeArt/hipmath/internal/logger"
	"github.com/LynnColeArt/hipmath/mathcheck"
)

func init() {
	// -v is --verbose in the standard test arguments.
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}
}

func main() {
	app := newApp(os.Stdout, os.Stderr, os.Exit)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\nerror: TEST FAILED\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer, exit func(int)) *cli.App {
	return &cli.App{
		Name:            "hipmathfunctions",
		Usage:           "Check the device math library against exact expected values",
		Version:         version(),
		Flags:           harness.StandardFlags(),
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Action: func(c *cli.Context) error {
			cfg, err := harness.LoadConfig(c.String(harness.FlagConfig))
			if err != nil {
				return err
			}
			opts := harness.ParseOptions(c, cfg)

			zapLogger, err := logger.New(opts.Verbosity())
			if err != nil {
				return err
			}
			log := zapLogger.Named("hipmathfunctions")

			h := harness.New(opts, log, harness.WithOutput(stdout, stderr), harness.WithExit(exit))
			run(h, c.Args().Slice())
			return nil
		},
	}
}

// run executes the check sequence and reports through h.
func run(h *harness.Harness, extra []string) {
	opts := h.Options()
	log := h.Logger()

	// Undefined arguments fail the run.
	if len(extra) > 0 {
		h.Failed("Bad argument: %s", extra[0])
		return
	}
	if err := hipmath.SetDevice(opts.Device); err != nil {
		h.Failed("hipSetDevice(%d) failed: %v", opts.Device, err)
		return
	}

	ctx := hipmath.NewContext()
	defer ctx.Destroy()

	device := ctx.Device()
	h.Metrics().DeviceInfo.WithLabelValues(device.Name, hipmath.GetCPUInfo()).Set(1)
	log.Info("running device math checks",
		zap.String("version", version()),
		zap.Stringer("device", device),
		zap.Int("iterations", opts.Iterations),
		zap.Bool("lgamma", opts.Lgamma))

	suite := mathcheck.NewDefaultSuite(mathcheck.SuiteOptions{
		Lgamma:     opts.Lgamma,
		Iterations: opts.Iterations,
	}, log)
	suite.Run(h, ctx)
}

// version is the module version the binary was built from.
func version() string {
	if v, _ := hipmath.Version(); v != "" {
		return v
	}
	return "(devel)"
}
