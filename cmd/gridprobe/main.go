// Command gridprobe loads a curvilinear grid from a netCDF file and locates
// query points in it.
//
// Usage:
//
//	gridprobe [flags] locate [x,y,...]...
//	gridprobe [flags] bounds
//	gridprobe [flags] info
//
// Examples:
//
//	gridprobe --config probe.toml locate 0.3,1.2,4
//	gridprobe --input mesh.nc --axes X,Y --value T locate < points.txt
//	gridprobe --input mesh.nc --axes X,Y --json locate 1,1
//	gridprobe --input mesh.nc info
//
// With no points on the command line, locate reads one point per line from
// standard input; blank lines and lines starting with '#' are skipped.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/katalvlaran/curvgrid/curvilinear"
	"github.com/katalvlaran/curvgrid/ncgrid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// flags holds command-line overrides of the config file.
type flags struct {
	config   string
	input    string
	axes     []string
	value    string
	logLevel string
	json     bool
	cold     bool
}

// app is the state shared by the subcommands.
type app struct {
	flags flags
	cfg   Config
	log   *logrus.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}
	root := &cobra.Command{
		Use:          "gridprobe",
		Short:        "Locate points in a curvilinear grid stored in netCDF",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.config, "config", "", "TOML config file")
	pf.StringVar(&a.flags.input, "input", "", "netCDF grid file (overrides config)")
	pf.StringSliceVar(&a.flags.axes, "axes", nil, "axis variable names in axis order (overrides config)")
	pf.StringVar(&a.flags.value, "value", "", "value variable name (overrides config)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.BoolVar(&a.flags.json, "json", false, "print results as JSON lines")
	pf.BoolVar(&a.flags.cold, "cold", false, "cold start every query instead of resuming from the previous cell")

	root.AddCommand(a.locateCmd(), a.boundsCmd(), a.infoCmd())
	return root
}

// setup resolves the configuration: file first, then changed flags.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.flags.config)
	if err != nil {
		return err
	}
	fs := cmd.Flags()
	if fs.Changed("input") {
		cfg.Input = a.flags.input
	}
	if fs.Changed("axes") {
		cfg.Axes = a.flags.axes
	}
	if fs.Changed("value") {
		cfg.Value = a.flags.value
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if fs.Changed("json") {
		cfg.JSON = a.flags.json
	}
	if fs.Changed("cold") {
		cfg.Warm = !a.flags.cold
	}
	if err = cfg.validate(); err != nil {
		return err
	}

	level, _ := logrus.ParseLevel(cfg.LogLevel)
	a.log.SetLevel(level)
	a.log.SetOutput(cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}

// loadGrid reads the configured grid.
func (a *app) loadGrid() (*curvilinear.Grid[float64], error) {
	g, err := ncgrid.LoadFile(a.cfg.Input, a.cfg.layout(), curvilinear.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"input": a.cfg.Input,
		"size":  g.Size(),
		"cells": g.Cells(),
	}).Info("grid loaded")
	return g, nil
}

func (a *app) locateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate [x,y,...]...",
		Short: "Locate points and evaluate the value variable there",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGrid()
			if err != nil {
				return err
			}
			pr := newPrinter(cmd.OutOrStdout(), a.cfg.JSON)
			failed, err := probeAll(g, a.cfg, a.log, args, cmd.InOrStdin(), pr)
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("gridprobe: %w (%d)", errFailedPoints, failed)
			}
			return nil
		},
	}
}

func (a *app) boundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bounds",
		Short: "Print the axis-aligned bounding box of the grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.loadGrid()
			if err != nil {
				return err
			}
			b := g.DomainBoundingBox()
			fmt.Fprintf(cmd.OutOrStdout(), "min %s\nmax %s\n", formatFloats(b.Min), formatFloats(b.Max))
			return nil
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the grid shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.loadGrid()
			if err != nil {
				return err
			}
			axes := a.cfg.Axes
			if len(axes) == 0 {
				axes = []string{"(from file)"}
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "dims:     %d\n", g.Dims())
			fmt.Fprintf(w, "size:     %v\n", g.Size())
			fmt.Fprintf(w, "vertices: %d\n", g.Vertices())
			fmt.Fprintf(w, "cells:    %d\n", g.Cells())
			fmt.Fprintf(w, "axes:     %s\n", strings.Join(axes, ","))
			return nil
		},
	}
}
