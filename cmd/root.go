package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/srclift/srep/internal/apply"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	rulesFile   string
	timeout     time.Duration
	includes    []string
	maxFileSize int64
	jobs        int
	jsonOutput  bool
	outPath     string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "srep [pattern] [paths...]",
	Short: "srep - structural find and replace for source code",
	Long: `srep locates and rewrites code using plain-text patterns with :[name]
placeholders. Captures respect bracket nesting and skip string contents,
so a pattern like "f(:[a], :[b])" splits arguments the way a reader would.`,
	TraverseChildren: true, // Prioritize subcommands
	Run: func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			// display help when only 'srep' is entered
			_ = cmd.Help()
			return
		}
		// Format: srep PATTERN [path1 path2 ...] => behaves like the find subcommand
		findCmd.Run(findCmd, args)
	},
}

func Execute() error {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rulesFile, "rules", "c", "", "Path to the YAML rules file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Set a timeout for the run")
	rootCmd.PersistentFlags().StringSliceVar(&includes, "include", nil, "Glob patterns selecting files to scan")
	rootCmd.PersistentFlags().Int64Var(&maxFileSize, "max-file-size", 0, "Skip files larger than this many bytes (-1 for no limit)")
	rootCmd.PersistentFlags().IntVar(&jobs, "jobs", 0, "Number of concurrent workers (default: number of CPUs)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func applyOptions() apply.Options {
	return apply.Options{
		Include:     includes,
		MaxFileSize: maxFileSize,
		Workers:     jobs,
	}
}

func writeJSON(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		logger.Error("Error marshalling output to JSON", zap.Error(err))
		return
	}
	if outPath == "" {
		fmt.Println(string(d))
		return
	}
	if err := os.WriteFile(outPath, d, 0o644); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
	}
}
