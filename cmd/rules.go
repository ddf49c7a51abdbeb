package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-intake/internal/model"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active rule set as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := loadRules()
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(struct {
			Rules []model.Rule `yaml:"rules"`
		}{Rules: engine.Rules()})
		if err != nil {
			return eris.Wrap(err, "marshal rules")
		}

		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
