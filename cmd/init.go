package cmd

import (
	"fmt"

	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/srclift/srep/rewrite"
)

// initCmd: srep init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new rules file",
	Run: func(cmd *cobra.Command, args []string) {
		path := rulesFile
		if path == "" {
			path = defaultRulesFile
		}
		if err := initRulesFile(path); err != nil {
			logger.Error("Error initializing rules file", zap.Error(err))
			return
		}
		fmt.Printf("Rules file created/updated: %s\n", path)
	},
}

func initRulesFile(path string) error {
	// Create a yaml file with a starter rule
	ruleSet := rewrite.RuleSet{
		Rules: []rewrite.Rule{
			{
				Name:    "drop-console-log",
				Match:   "console.log(:[_]);",
				Rewrite: "",
			},
		},
	}
	d, err := yaml.Marshal(ruleSet)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	if err != nil {
		return err
	}

	return nil
}
