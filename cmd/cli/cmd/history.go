package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	// History command flags
	historyLimit int
	historyPath  string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List reports recorded in the database",
	Long: `List the most recently recorded reports, newest first.

Requires database.enabled. With --path the full summary of one recorded
archive is printed instead.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of reports to list (0 lists all)")
	historyCmd.Flags().StringVar(&historyPath, "path", "", "Show the recorded report of one archive path")
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	if historyPath != "" {
		report, err := svc.Report(cmd.Context(), historyPath)
		if err != nil {
			return err
		}
		printReport(log, report)
		return nil
	}

	reports, err := svc.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		log.Info("No reports recorded")
		return nil
	}

	for _, r := range reports {
		log.Info("%s  %-40s JDK %-4s MR=%-5t %s",
			r.AnalyzedAt.Local().Format(time.DateTime), r.Name, r.JDKRevision(), r.MultiRelease, r.Path)
	}
	return nil
}
