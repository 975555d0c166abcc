package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/srclift/srep/internal/apply"
	"github.com/srclift/srep/rewrite"
)

const defaultRulesFile = ".srep.yaml"

var rulesWrite bool

var rulesCmd = &cobra.Command{
	Use:   "rules [paths...]",
	Short: "Apply the rules file to files",
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

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		opts := applyOptions()
		opts.Write = rulesWrite

		results, err := apply.RewritePaths(ctx, logger, ruleSet, paths, opts)
		if err != nil {
			logger.Error("Error rewriting files", zap.Error(err))
			os.Exit(1)
		}

		printFileResults(results, rulesWrite)
	},
}

func init() {
	rulesCmd.Flags().BoolVar(&rulesWrite, "write", false, "Write rewritten files back to disk")
}

func loadRuleSet() ([]rewrite.Rule, error) {
	path, err := resolveRulesFile(rulesFile)
	if err != nil {
		return nil, err
	}
	return rewrite.LoadRules(path)
}

// resolveRulesFile picks the rules file: the --rules flag, then
// ./.srep.yaml, then srep/rules.yaml under the XDG config home.
func resolveRulesFile(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if _, err := os.Stat(defaultRulesFile); err == nil {
		return defaultRulesFile, nil
	}
	configPath := filepath.Join(xdg.ConfigHome, "srep", "rules.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}
	return "", fmt.Errorf("no rules file found: pass --rules or create %s", defaultRulesFile)
}
