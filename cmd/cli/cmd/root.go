package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jar-analysis/internal/repository"
	"github.com/jar-analysis/internal/service"
	"github.com/jar-analysis/internal/storage"
	"github.com/jar-analysis/pkg/config"
	"github.com/jar-analysis/pkg/telemetry"
	"github.com/jar-analysis/pkg/utils"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger utils.Logger
	svc    *service.Service

	// Run after the command in reverse order
	cleanups []func()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jar-analysis",
	Short: "Inspect Java archives and their multi-release content",
	Long: `jar-analysis reads Java archives and reports what they contain.

For every archive it reports the classfile versions and the JDK revision they
require, the packages, methods and imports of the root content, and, for
multi-release jars, the same facts for every META-INF/versions/N/ runtime.
It can also tell which versioned runtime a given JVM release would load.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// version needs no configuration
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return setup(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	teardown()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	binName := BinName()
	rootCmd.Example = `  # Analyze a jar and print its summary
  ` + binName + ` analyze ./lib/app.jar

  # Which runtime does a Java 17 JVM load?
  ` + binName + ` bestfit ./lib/app.jar --release 17

  # Analyze every jar below a directory with 8 workers
  ` + binName + ` batch ./lib --recursive --workers 8

  # List the last reports recorded in the database
  ` + binName + ` history --limit 20`
}

func setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	level := utils.ParseLogLevel(cfg.Log.Level)
	if verbose {
		level = utils.LevelDebug
	}
	if cfg.Log.OutputPath != "" {
		fileLogger, err := utils.NewFileLogger(level, cfg.Log.OutputPath)
		if err != nil {
			return err
		}
		logger = fileLogger
	} else {
		logger = utils.NewDefaultLogger(level, os.Stderr)
	}
	utils.SetGlobalLogger(logger)

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry.ApplyEnv())
	if err != nil {
		return err
	}
	cleanups = append(cleanups, func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("Failed to shut down telemetry: %v", err)
		}
	})

	var opts []service.Option

	if cfg.Database.Enabled {
		repos, err := repository.Open(&repository.DBConfig{
			Type:     cfg.Database.Type,
			Path:     cfg.Database.Path,
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			Database: cfg.Database.Database,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func() {
			if err := repos.Close(); err != nil {
				logger.Warn("Failed to close database: %v", err)
			}
		})
		opts = append(opts, service.WithRepository(repos.Reports))
		logger.Debug("Recording reports in %s database", cfg.Database.Type)
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewStorage(&cfg.Storage)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithStorage(store))
		logger.Debug("Using %s storage", cfg.Storage.Type)
	}

	svc = service.New(cfg, logger, opts...)
	return nil
}

func teardown() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
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
