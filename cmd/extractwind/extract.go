package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/khalilKhassep/extractwind"
	"github.com/khalilKhassep/extractwind/internal/report"
)

var extractCmd = &cobra.Command{
	Use:     "extract",
	Aliases: []string{"x"},
	Short:   "Rewrite templates and save their class lists",
	Long: `Give every element with a class attribute a data-class-name identifier,
replace its class list with "{id}-{template}", write the result to the output
tree and save the original classes to "{template}-classes.json".`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runExtract,
}

func init() {
	addExtractFlags(extractCmd.Flags())
}

func runExtract(cmd *cobra.Command, _ []string) error {
	config := buildExtractConfig()
	config.Stdout = cmd.OutOrStdout()

	result, err := extractwind.Extract(config)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		printExtractSummary(cmd.OutOrStdout(), config, result)
	}
	return nil
}

func printExtractSummary(w io.Writer, config extractwind.Config, result *extractwind.ExtractResult) {
	fmt.Fprintf(w, "Rewrote %d templates into %s\n", len(result.Files), config.OutputPath)
	fmt.Fprintf(w, "  Templates skipped: %d\n", result.Stats.FilesSkipped)
	fmt.Fprintf(w, "  Elements rewritten: %d\n", result.Elements)
	fmt.Fprintf(w, "  Identifiers generated: %d (reused: %d)\n", result.Generated, result.Reused)
	fmt.Fprintf(w, "  Mappings written to %s\n", config.ExtractedPath)

	dropped := 0
	for _, fr := range result.Files {
		for _, tokens := range fr.Discarded {
			dropped += len(tokens)
		}
	}
	if dropped > 0 {
		fmt.Fprintf(w, "  Invalid classes dropped: %d (use -v for details)\n", dropped)
	}

	report.NewStatsReporter(w, getBoolWithFallback("color", "color", false)).PrintWarnings(result.Warnings)
}
