package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khalilKhassep/extractwind"
	"github.com/khalilKhassep/extractwind/internal/report"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Build the stylesheet from the saved class lists",
	Long: `Read every mapping file, write one ".{newClass} { @apply ...; }" rule per
record to a temporary stylesheet and compile it with the Tailwind CLI.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.String("temp", extractwind.DefaultTempPath, "Synthetic @apply stylesheet")
	f.String("css-output", extractwind.DefaultCSSOutputPath, "Compiled stylesheet")
	f.String("command", extractwind.DefaultCompileCommand, "Compiler command, {input} and {output} are replaced")
	f.String("header", "", `Text written before the rules, e.g. "@tailwind utilities;"`)
	f.Bool("skip-compile", false, "Only write the synthetic stylesheet")
	f.Bool("check", false, "Warn about generated classes missing from the compiled output")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	config := buildGenerateConfig()
	config.Stdout = cmd.OutOrStdout()

	result, err := extractwind.Generate(cmd.Context(), config)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}

	w := cmd.OutOrStdout()
	switch {
	case result.RulesGenerated == 0:
		fmt.Fprintln(w, "No valid CSS to process.")
	case result.Compiled:
		fmt.Fprintf(w, "Compiled %d rules into %s\n", result.RulesGenerated, config.CSSOutputPath)
	default:
		fmt.Fprintf(w, "Wrote %d rules to %s\n", result.RulesGenerated, result.TempPath)
	}
	fmt.Fprintf(w, "  Mapping files read: %d (empty: %d)\n", result.FilesRead, result.FilesEmpty)
	if result.RulesSkipped > 0 {
		fmt.Fprintf(w, "  Records without valid classes: %d\n", result.RulesSkipped)
	}
	report.NewStatsReporter(w, getBoolWithFallback("color", "color", false)).PrintWarnings(result.Warnings)
	return nil
}
