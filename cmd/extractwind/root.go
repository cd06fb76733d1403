package main

import (
	"github.com/spf13/cobra"

	"github.com/khalilKhassep/extractwind"
	"github.com/khalilKhassep/extractwind/internal/mapping"
)

var rootCmd = &cobra.Command{
	Use:   "extractwind",
	Short: "Move Tailwind class lists out of Blade templates",
	Long: `Rewrite Blade templates so every element with a class attribute carries a
generated identifier and a single generated class. The original utility
classes are saved per template and compiled into one stylesheet with @apply.`,
	// Default behavior: run extract when no subcommand is given.
	// We must call loadConfig here because PreRunE of extractCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runExtract(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", defaultConfigFile, "Config file path")
	pf.String("env-file", ".env", "Dotenv file loaded into the environment when present")

	// Paths shared by every phase
	pf.String("views", extractwind.DefaultViewPath, "Template root")
	pf.String("output", extractwind.DefaultOutputPath, "Rewritten template root")
	pf.String("extracted", extractwind.DefaultExtractedPath, "Mapping file directory")
	pf.String("suffix", extractwind.DefaultSuffix, "Template file suffix")
	pf.String("format", string(mapping.FormatJSON), "Mapping file format: json|yaml|toml")

	addExtractFlags(rootCmd.Flags())

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
