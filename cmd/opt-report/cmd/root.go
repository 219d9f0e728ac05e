package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opt-report/pkg/config"
	"github.com/opt-report/pkg/pprof"
	"github.com/opt-report/pkg/telemetry"
	"github.com/opt-report/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Pprof flags
	pprofEnabled  bool
	pprofDir      string
	pprofProfiles string

	cfg               *config.Config
	logger            utils.Logger
	shutdownTelemetry telemetry.ShutdownFunc
	pprofSession      *pprof.Session
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "opt-report",
	Short: "Render compiler optimization records as a static report",
	Long: `opt-report turns the optimization records a compiler writes during a build
into a browsable HTML report.

It reads record dumps (JSON, YAML or msgpack, optionally gzip or zstd
compressed), ranks records by execution count and writes an index of the
hottest records, one annotated page per source file, a text outline and a
JSON summary. Reports can be published to object storage and recorded in a
run history database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logLevel := utils.ParseLogLevel(cfg.Log.Level)
		if verbose {
			logLevel = utils.LevelDebug
		}
		if cfg.Log.OutputPath != "" {
			fileLogger, err := utils.NewFileLogger(logLevel, cfg.Log.OutputPath)
			if err != nil {
				return err
			}
			logger = fileLogger
		} else {
			logger = utils.NewDefaultLogger(logLevel, os.Stderr)
		}
		utils.SetGlobalLogger(logger)

		shutdown, err := telemetry.Init(cmd.Context(), telemetry.LoadFromEnv())
		if err != nil {
			logger.Warn("Tracing disabled: %v", err)
		}
		shutdownTelemetry = shutdown

		if pprofEnabled {
			profiles, err := pprof.ParseProfileTypes(pprofProfiles)
			if err != nil {
				return err
			}
			session, err := pprof.Start(pprofDir, profiles)
			if err != nil {
				return err
			}
			pprofSession = session
			logger.Info("pprof collection started (dir: %s)", pprofDir)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if pprofSession != nil {
			if err := pprofSession.Stop(); err != nil {
				logger.Warn("Failed to write pprof data: %v", err)
			}
			logger.Info("pprof data saved to: %s", pprofDir)
		}
		if shutdownTelemetry != nil {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logger.Warn("Failed to flush traces: %v", err)
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.SilenceErrors = true

	// Pprof flags
	rootCmd.PersistentFlags().BoolVar(&pprofEnabled, "pprof", false, "Profile this run with pprof")
	rootCmd.PersistentFlags().StringVar(&pprofDir, "pprof-dir", "./pprof", "Output directory for pprof data")
	rootCmd.PersistentFlags().StringVar(&pprofProfiles, "pprof-profiles", "cpu,heap", "Comma-separated profile types: cpu,heap,goroutine,block,mutex,allocs")

	// Set dynamic example using actual binary name
	binName := BinName()
	rootCmd.Example = `  # Render every dump under a build directory
  ` + binName + ` generate --build-dir ./build -o ./report

  # Render explicit dumps with flattened page names on 4 workers
  ` + binName + ` generate obj/a.c.opt-record.json.gz obj/b.c.opt-record.json --flatten-paths -j 4

  # Print records as compiler remarks
  ` + binName + ` remarks --build-dir ./build --color on

  # Show the 20 hottest records
  ` + binName + ` summary --build-dir ./build --top 20

  # Profile a large run
  ` + binName + ` generate -b ./build --pprof --pprof-profiles cpu,heap`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	if logger == nil {
		return utils.GetGlobalLogger()
	}
	return logger
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
