package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khalilKhassep/extractwind"
	"github.com/khalilKhassep/extractwind/internal/report"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check rewritten templates against their mapping files",
	Long: `Parse every rewritten template with an independent HTML parser and check
that each element with a class has an identifier, that its class matches
"{id}-{template}" and that the mapping file holds a matching record.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runVerify,
}

func init() {
	f := verifyCmd.Flags()
	f.String("output-format", string(report.FormatIssues), "Output format: issues|summary|full|json")
	f.Bool("strict", false, "Exit 1 on any issue, warnings included (CI mode)")
	f.Bool("print-lines", true, "Show source lines with issues")
}

func runVerify(cmd *cobra.Command, _ []string) error {
	config := buildExtractConfig()
	config.Stdout = cmd.OutOrStdout()

	result, err := extractwind.Verify(config)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		format := report.ParseFormat(getStringWithFallback("output-format", "verify.output-format", ""))
		opts := report.Options{
			UseColors:       getBoolWithFallback("color", "color", false),
			PrintLines:      getBoolWithFallback("print-lines", "verify.print-lines", true),
			PrintLinterName: true,
		}
		if err := report.Write(cmd.OutOrStdout(), result.Issues, result.Totals(), format, opts); err != nil {
			return err
		}
	}

	// Soft gate: only errors fail unless strict
	if getBoolWithFallback("strict", "verify.strict", false) {
		if len(result.Issues) > 0 {
			return fmt.Errorf("%d issue(s) found", len(result.Issues))
		}
	} else if n := result.ErrorCount(); n > 0 {
		return fmt.Errorf("%d error(s) found", n)
	}
	return nil
}
