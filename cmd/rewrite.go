package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/srclift/srep/formatter"
	"github.com/srclift/srep/internal/apply"
	"github.com/srclift/srep/rewrite"
)

var rewriteWrite bool

var rewriteCmd = &cobra.Command{
	Use:   "rewrite MATCH REWRITE [paths...]",
	Short: "Rewrite structural matches of a pattern",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 2 {
			fmt.Println("error: Please provide a match pattern and a rewrite template")
			os.Exit(1)
		}
		rules := []rewrite.Rule{{Name: "rewrite", Match: args[0], Rewrite: args[1]}}
		paths := args[2:]
		if len(paths) == 0 {
			paths = []string{"."}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		opts := applyOptions()
		opts.Write = rewriteWrite

		results, err := apply.RewritePaths(ctx, logger, rules, paths, opts)
		if err != nil {
			logger.Error("Error rewriting files", zap.Error(err))
			os.Exit(1)
		}

		printFileResults(results, rewriteWrite)
	},
}

func init() {
	rewriteCmd.Flags().BoolVar(&rewriteWrite, "write", false, "Write rewritten files back to disk")
}

func printFileResults(results []apply.FileResult, wrote bool) {
	if jsonOutput {
		writeJSON(results)
		return
	}
	changes := 0
	for _, res := range results {
		fmt.Print(formatter.FormatFileChanges(res.Path, res.Results))
		changes += res.ChangeCount()
	}
	if changes == 0 {
		fmt.Println("No matches found.")
		return
	}
	if wrote {
		fmt.Printf("Applied %d change(s) across %d file(s).\n", changes, len(results))
	} else {
		fmt.Printf("Found %d change(s) across %d file(s). Run again with --write to apply them.\n", changes, len(results))
	}
}
