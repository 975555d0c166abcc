package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/srclift/srep/formatter"
	"github.com/srclift/srep/internal/apply"
)

var findCmd = &cobra.Command{
	Use:   "find PATTERN [paths...]",
	Short: "Locate structural matches of a pattern",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide a match pattern")
			os.Exit(1)
		}
		pattern := args[0]
		paths := args[1:]
		if len(paths) == 0 {
			paths = []string{"."}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		results, err := apply.FindPaths(ctx, logger, pattern, paths, applyOptions())
		if err != nil {
			logger.Error("Error searching files", zap.Error(err))
			os.Exit(1)
		}

		printMatches(logger, results)

		// no matches is a reportable outcome for scripts
		if len(results) == 0 {
			os.Exit(1)
		}
	},
}

func printMatches(logger *zap.Logger, results []apply.FileMatches) {
	if jsonOutput {
		writeJSON(results)
		return
	}
	for _, fm := range results {
		src, err := os.ReadFile(fm.Path)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", fm.Path), zap.Error(err))
			continue
		}
		fmt.Print(formatter.FormatMatches(fm.Path, string(src), fm.Matches))
	}
}
