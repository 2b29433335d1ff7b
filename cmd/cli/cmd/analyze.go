package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jar-analysis/pkg/model"
	"github.com/jar-analysis/pkg/utils"
	"github.com/jar-analysis/pkg/writer"
)

var (
	// Analyze command flags
	outputDir    string
	outputFormat string
	fromStorage  bool
	printJSON    bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <jar>...",
	Short: "Analyze one or more jar files",
	Long: `Analyze jar files and report their content.

For each archive the analyze command reports:
  - Entry counts and the Multi-Release and Sealed manifest flags
  - The highest classfile version of the root classes and its JDK revision
  - Packages, methods, imports and whether debug line numbers are present
  - The same facts for every versioned runtime of a multi-release jar
  - Identification facts (names, versions, vendors) and file hashes

With --stored the arguments are storage keys under archives/ instead of
local paths; the archive is downloaded before it is analyzed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	binName := BinName()
	analyzeCmd.Example = `  # Print a summary of one jar
  ` + binName + ` analyze ./lib/app.jar

  # Write gzipped JSON reports next to a build
  ` + binName + ` analyze ./lib/*.jar -o ./reports -f json.gz

  # Analyze an archive uploaded to storage under archives/team/app.jar
  ` + binName + ` analyze --stored team/app.jar`

	analyzeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for report files (overrides output.dir)")
	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Report format: json, json.gz or yaml (overrides output.format)")
	analyzeCmd.Flags().BoolVar(&fromStorage, "stored", false, "Treat arguments as storage keys")
	analyzeCmd.Flags().BoolVar(&printJSON, "json", false, "Print the full report as JSON instead of a summary")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	applyOutputFlags()

	failed := 0
	for _, arg := range args {
		var (
			report *model.ArchiveReport
			err    error
		)
		if fromStorage {
			report, err = svc.AnalyzeStored(cmd.Context(), arg)
		} else {
			report, err = svc.AnalyzeFile(cmd.Context(), arg)
		}
		if err != nil {
			log.Error("Failed to analyze %s: %v", arg, err)
			failed++
			continue
		}

		if printJSON {
			if err := writer.NewPrettyJSONWriter[*model.ArchiveReport]().Write(report, os.Stdout); err != nil {
				return err
			}
			continue
		}
		printReport(log, report)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d archives failed", failed, len(args))
	}
	return nil
}

func applyOutputFlags() {
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
}

func printReport(log utils.Logger, r *model.ArchiveReport) {
	log.Info("=== %s ===", r.Name)
	log.Info("Path:          %s", r.Path)
	log.Info("Entries:       %d (%d root)", r.NumEntries, r.NumRootEntries)
	log.Info("Multi-Release: %t", r.MultiRelease)
	log.Info("Sealed:        %t", r.Sealed)
	printClasses(log, "  ", r.Classes)

	if len(r.Runtimes) > 0 {
		log.Info("")
		log.Info("=== Versioned Runtimes ===")
		for _, rt := range r.Runtimes {
			log.Info("Java %d: %d entries", rt.Version, rt.NumEntries)
			printClasses(log, "  ", rt.Classes)
		}
	}

	if id := r.Identification; id != nil {
		log.Info("")
		log.Info("=== Identification ===")
		printList(log, "Names", id.Names)
		printList(log, "Versions", id.Versions)
		printList(log, "Vendors", id.Vendors)
		printList(log, "Group IDs", id.GroupIDs)
		printList(log, "Artifact IDs", id.ArtifactIDs)
	}

	if r.FileHash != "" {
		log.Info("")
		log.Info("SHA-1:         %s", r.FileHash)
		log.Info("Bytecode hash: %s", r.BytecodeHash)
	}

	if imp := r.Imports; imp != nil {
		log.Info("")
		log.Info("=== Imports ===")
		log.Info("  Platform: %d, Library: %d, Own: %d, Third party: %d",
			len(imp.Platform), len(imp.Library), len(imp.Own), len(imp.ThirdParty))
		for i, name := range imp.ThirdParty {
			if i >= 10 {
				log.Info("  ... and %d more", len(imp.ThirdParty)-10)
				break
			}
			log.Info("  - %s", name)
		}
	}
	log.Info("")
}

func printClasses(log utils.Logger, indent string, c model.ClassSummary) {
	revision := c.JDKRevision
	if revision == "" {
		revision = "unknown"
	}
	log.Info("%sClasses:  %d in %d packages, %d methods", indent, c.NumClasses, c.NumPackages, c.NumMethods)
	log.Info("%sVersion:  %s (JDK %s)", indent, c.ClassVersion, revision)
	log.Info("%sDebug:    %t", indent, c.DebugPresent)
}

func printList(log utils.Logger, label string, values []string) {
	if len(values) == 0 {
		return
	}
	log.Info("  %-13s %s", label+":", strings.Join(values, ", "))
}
