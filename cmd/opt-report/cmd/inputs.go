package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opt-report/internal/service"
)

// Input selection flags shared by every command that reads dumps.
var (
	buildDir     string
	excludePass  []string
	excludeFile  []string
	flattenPaths bool
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&buildDir, "build-dir", "b", "", "Build directory holding sources and record dumps (default from config)")
	cmd.Flags().StringSliceVar(&excludePass, "exclude-pass", nil, "Drop records of this pass (repeatable)")
	cmd.Flags().StringSliceVar(&excludeFile, "exclude-file", nil, "Drop records whose file contains this substring (repeatable)")
}

func addNamingFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flattenPaths, "flatten-paths", false, "Name pages after the full source path instead of its base name")
}

// applyInputFlags copies explicitly set flags over the loaded config.
func applyInputFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("build-dir") {
		cfg.Report.BuildDir = buildDir
	}
	if flags.Changed("exclude-pass") {
		cfg.Filter.ExcludePasses = append(cfg.Filter.ExcludePasses, excludePass...)
	}
	if flags.Changed("exclude-file") {
		cfg.Filter.ExcludeFiles = append(cfg.Filter.ExcludeFiles, excludeFile...)
	}
	if flags.Changed("flatten-paths") && flattenPaths {
		cfg.Xref.SeparatorPolicy = "flatten"
	}
	return cfg.Validate()
}

func newService(opts ...service.Option) *service.Service {
	return service.New(cfg, GetLogger(), opts...)
}
