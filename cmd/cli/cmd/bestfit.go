package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jar-analysis/internal/service"
)

var (
	// Bestfit command flags
	release string
	fromEnv string
)

// bestfitCmd represents the bestfit command
var bestfitCmd = &cobra.Command{
	Use:   "bestfit <jar>",
	Short: "Show which versioned runtime a JVM release loads",
	Long: `Resolve a JVM release against the versioned runtimes of a multi-release jar.

The runtime chosen is the one with the greatest version not above the release.
When every versioned runtime is newer, or the jar is not multi-release, the
root content applies. With --from-env the release is read from that variable
only, and an unset, empty or non-integer value is an error. With neither flag
the variable named by analysis.runtime_env is read, falling back to
analysis.default_release when it is not set.`,
	Args: cobra.ExactArgs(1),
	RunE: runBestFit,
}

func init() {
	rootCmd.AddCommand(bestfitCmd)

	binName := BinName()
	bestfitCmd.Example = `  ` + binName + ` bestfit ./lib/app.jar --release 11
  JAVA_RELEASE=17 ` + binName + ` bestfit ./lib/app.jar --from-env JAVA_RELEASE`

	bestfitCmd.Flags().StringVarP(&release, "release", "r", "", "JVM feature release, e.g. 11")
	bestfitCmd.Flags().StringVar(&fromEnv, "from-env", "", "Environment variable holding the release")
	bestfitCmd.MarkFlagsMutuallyExclusive("release", "from-env")
}

func runBestFit(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	var (
		res *service.BestFitResult
		err error
	)
	if fromEnv != "" {
		res, err = svc.BestFitFromEnv(cmd.Context(), args[0], fromEnv)
	} else {
		res, err = svc.BestFit(cmd.Context(), args[0], release)
	}
	if err != nil {
		return err
	}

	log.Info("Archive:       %s", res.Path)
	log.Info("Release:       %s", res.Release)
	log.Info("Multi-Release: %t", res.MultiRelease)
	if res.Runtime == nil {
		log.Info("Runtime:       root content")
		return nil
	}
	log.Info("Runtime:       META-INF/versions/%d/ (%d entries)", res.Runtime.Version, res.Runtime.NumEntries)
	printClasses(log, "", res.Runtime.Classes)
	return nil
}
