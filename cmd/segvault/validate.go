package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/segvault/segvault/pkg/cli"
	"github.com/segvault/segvault/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply defaults and environment overrides,
and report any validation errors without executing a pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return cli.NewConfigError("", err.Error())
		}

		fmt.Println("✓ Configuration valid")
		fmt.Printf("  source:  %s (pattern %s, retain %d)\n",
			cfg.Source.Directory, cfg.Source.Pattern, cfg.Source.RetainCount)
		fmt.Printf("  archive: %s (max used %.1f%%)\n",
			cfg.Archive.Directory, cfg.Archive.MaxUsedPercent)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
