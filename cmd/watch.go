package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/srclift/srep/formatter"
	"github.com/srclift/srep/internal/apply"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Preview rule rewrites as files change",
	Run: func(cmd *cobra.Command, args []string) {
		paths := args
		if len(paths) == 0 {
			paths = []string{"."}
		}

		ruleSet, err := loadRuleSet()
		if err != nil {
			logger.Error("Error loading rules", zap.Error(err))
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %d path(s) with %d rule(s); press Ctrl-C to stop.\n", len(paths), len(ruleSet))
		err = apply.Watch(ctx, logger, ruleSet, paths, applyOptions(), func(res apply.FileResult) {
			fmt.Print(formatter.FormatFileChanges(res.Path, res.Results))
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Watch stopped", zap.Error(err))
			os.Exit(1)
		}
	},
}
