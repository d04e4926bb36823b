/*
Copyright © 2026 the geompipe authors.
This file is part of geompipe.

geompipe is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

geompipe is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with geompipe.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package geompipeutil holds the configuration and command-line glue
// around the geompipe core: loading declarative pipeline files,
// reading and writing geometry batches, and the cobra command tree.
package geompipeutil

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spatialmodel/geompipe"
	"github.com/spatialmodel/geompipe/planar"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger *logrus.Logger

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Options are the configuration options available to geompipe.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "pipeline",
			usage: `
              pipeline specifies the location of the TOML pipeline
              definition file.`,
			shorthand:  "p",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), checkCmd.Flags()},
		},
		{
			name: "input",
			usage: `
              input specifies the file holding the geometries the
              pipeline runs against: a GeoJSON geometry or array of
              geometries (.geojson, .json) or a shapefile (.shp).`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output specifies the file the results are written to,
              one record per input geometry.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "sr",
			usage: `
              sr specifies the reference system the input coordinates
              are expressed in (a proj4 string or WKT definition), for
              input formats that do not carry one themselves. Shapefile
              inputs take their reference system from the .prj file
              instead.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "nprocs",
			usage: `
              nprocs specifies the number of batch items to process in
              parallel. The default is the number of CPUs.`,
			defaultVal: runtime.NumCPU(),
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "cachesize",
			usage: `
              cachesize specifies how many results to memoize in memory
              so that repeated input geometries are only processed once.
              Zero disables memoization.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GEOMPIPE")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(checkCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "geompipe",
	Short: "A declarative geometry-transform pipeline.",
	Long: `geompipe applies a named, ordered sequence of vector-geometry
operations (simplify, buffer, centroid, affine transform, boolean set
operations, reprojection, type casts) to a batch of input geometries.
Pipelines are defined declaratively in TOML files and validated in full
before any geometry work starts.

Configuration can be changed using command-line arguments or by setting
environment variables in the format 'GEOMPIPE_var', where 'var' is the
name of the variable to be set.`,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of geompipe.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("geompipe v%s\n", geompipe.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a pipeline against a batch of input geometries.",
	Long: `run loads the pipeline definition, runs it against every geometry in
the input file, and writes one result record per input to the output
file, preserving input order. A failure on one input does not abort the
others; if any input fails, the failures are reported and the command
exits with an error after all inputs have been processed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		nprocs, err := cast.ToIntE(Cfg.Get("nprocs"))
		if err != nil {
			return err
		}
		cacheSize, err := cast.ToIntE(Cfg.Get("cachesize"))
		if err != nil {
			return err
		}
		return Run(cmd.Context(),
			Cfg.GetString("pipeline"),
			Cfg.GetString("input"),
			Cfg.GetString("output"),
			Cfg.GetString("sr"),
			nprocs, cacheSize)
	},
	DisableAutoGenTag: true,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a pipeline definition without running it.",
	Long: `check loads and validates the pipeline definition, reporting the
first invalid step, and exits without doing any geometry work.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := LoadPipeline(Cfg.GetString("pipeline"))
		if err != nil {
			return err
		}
		cmd.Printf("pipeline %q is valid (%d steps)\n", p.Name(), p.Len())
		return nil
	},
	DisableAutoGenTag: true,
}

// Run executes the pipeline defined in pipelineFile against the
// geometries in inputFile and writes the results to outputFile. sr
// tags inputs that carry no reference system of their own. It returns
// an error if any batch item failed, but only after every item has
// been processed and the results written.
func Run(ctx context.Context, pipelineFile, inputFile, outputFile, sr string, nprocs, cacheSize int) error {
	if pipelineFile == "" {
		return fmt.Errorf("geompipeutil: no pipeline file specified (use --pipeline)")
	}
	if inputFile == "" {
		return fmt.Errorf("geompipeutil: no input file specified (use --input)")
	}
	if outputFile == "" {
		return fmt.Errorf("geompipeutil: no output file specified (use --output)")
	}

	p, err := LoadPipeline(os.ExpandEnv(pipelineFile))
	if err != nil {
		return err
	}
	inputs, err := ReadInputs(os.ExpandEnv(inputFile), sr)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"pipeline": p.Name(),
		"steps":    p.Len(),
		"inputs":   len(inputs),
		"nprocs":   nprocs,
	}).Info("running pipeline")

	runner := geompipe.NewRunner(planar.Engine{}, nprocs, cacheSize)
	results := runner.RunBatch(ctx, p, inputs)

	failed := 0
	for i, res := range results {
		if !res.Failed() {
			continue
		}
		failed++
		logger.WithFields(logrus.Fields{
			"pipeline": p.Name(),
			"item":     i,
			"step":     res.Err.Step,
			"kind":     res.Err.Kind.String(),
		}).Error(res.Err.Err)
	}

	if err := WriteResults(os.ExpandEnv(outputFile), results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("geompipeutil: %d of %d batch items failed", failed, len(results))
	}
	logger.WithField("outputs", len(results)).Info("finished")
	return nil
}
