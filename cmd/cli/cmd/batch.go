package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jar-analysis/internal/service"
)

var (
	// Batch command flags
	recursive bool
	workers   int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every jar in a directory",
	Long: `Analyze every .jar file in a directory concurrently.

Each archive is analyzed on its own worker; a failing archive is logged and
does not stop the others. Reports are written, uploaded and recorded as
configured for analyze.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	batchCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent archives (overrides analysis.workers)")
	batchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for report files (overrides output.dir)")
	batchCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Report format: json, json.gz or yaml (overrides output.format)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	applyOutputFlags()
	if workers > 0 {
		cfg.Analysis.Workers = workers
	}

	paths, err := service.FindArchives(args[0], recursive)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		log.Warn("No jar files found in %s", args[0])
		return nil
	}

	log.Info("Analyzing %d archives with %d workers", len(paths), cfg.Analysis.Workers)
	start := time.Now()
	results := svc.AnalyzeBatch(cmd.Context(), paths)
	summary := service.Summarize(results, time.Since(start))

	log.Info("")
	log.Info("=== Batch Complete ===")
	for _, r := range results {
		if r.Err != nil {
			log.Info("  FAIL %s: %v", r.Path, r.Err)
			continue
		}
		log.Info("  ok   %-40s JDK %-4s runtimes %v", r.Report.Name, r.Report.JDKRevision(), r.Report.RuntimeVersions())
	}
	log.Info("Total: %d, succeeded: %d, failed: %d in %v",
		summary.Total, summary.Succeeded, summary.Failed, summary.Duration.Round(time.Millisecond))

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d archives failed", summary.Failed, summary.Total)
	}
	return nil
}
