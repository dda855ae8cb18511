package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/spf13/cobra"
)

var (
	configFile string
	traceLevel string
	conf       = newConfig()
)

var rootCmd = &cobra.Command{
	Use:   "saga",
	Short: "Saga reads tag soup into a tree and styles it",
	Long: `Saga parses HTML-like markup with a tolerant, streaming parser into an
in-memory tree, resolves CSS cascades and prints the resulting tree.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := conf.loadFile(configFile); err != nil {
				return err
			}
		}
		if traceLevel != "" {
			conf.set("tracing.root", traceLevel)
		}
		return setupTracing(conf)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "", "trace level (Error, Info, Debug)")
}

// tracerKeys are the tracers of this module.
var tracerKeys = []string{"saga.model", "saga.parser", "saga.style", "saga.dom", "saga.cli"}

func tracer() tracing.Trace {
	return tracing.Select("saga.cli")
}

// setupTracing installs a root tracer from the configuration, with Go's log
// package as default backend. Trace levels are taken from "tracing.<key>"
// and default to "tracing.root".
func setupTracing(conf *yamlConfig) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "tracing", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	root := conf.GetString("tracing.root")
	for _, key := range tracerKeys {
		level := root
		if l := conf.GetString("tracing." + key); l != "" {
			level = l
		}
		tracing.Select(key).SetTraceLevel(tracing.TraceLevelFromString(level))
	}
	return nil
}
