package cli

import (
	"fmt"
	"os"

	"github.com/lucasnoah/pipegen/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	descriptorFile string
	descriptorDir  string
)

var descriptorCmd = &cobra.Command{
	Use:   "descriptor",
	Short: "Validate and inspect the project descriptor",
}

var descriptorValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the project descriptor file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		errs := config.Validate(cfg)
		if len(errs) == 0 {
			cmd.Println("Descriptor is valid.")
			return nil
		}

		cmd.Println("Validation errors:")
		for _, e := range errs {
			cmd.Printf("  - %s\n", e)
		}
		return fmt.Errorf("descriptor has %d validation error(s)", len(errs))
	},
}

var descriptorShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved descriptor with defaults applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		resolved := config.ProjectConfig{Platform: cfg.Platform, Project: cfg.Resolved()}
		data, err := yaml.Marshal(resolved)
		if err != nil {
			return fmt.Errorf("marshalling descriptor: %w", err)
		}

		cmd.Print(string(data))
		return nil
	},
}

func loadConfig() (*config.ProjectConfig, error) {
	if descriptorFile != "" {
		return config.Load(descriptorFile)
	}
	return config.LoadDefault(descriptorDir)
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func init() {
	descriptorCmd.PersistentFlags().StringVarP(&descriptorFile, "file", "f", "", "path to descriptor file")
	descriptorCmd.PersistentFlags().StringVar(&descriptorDir, "dir", ".", "project directory searched for pipegen.yaml")
	descriptorCmd.AddCommand(descriptorValidateCmd)
	descriptorCmd.AddCommand(descriptorShowCmd)
}
