package report

import (
	"fmt"
	"io"
)

// StatsReporter prints run statistics and warnings.
type StatsReporter struct {
	w         io.Writer
	useColors bool
}

// NewStatsReporter creates a stats reporter writing to w.
func NewStatsReporter(w io.Writer, useColors bool) *StatsReporter {
	return &StatsReporter{
		w:         w,
		useColors: ShouldUseColors(useColors),
	}
}

// PrintStatistics outputs the verification counters.
func (r *StatsReporter) PrintStatistics(issues []Issue, totals Totals) {
	errors, warnings := CountSeverities(issues)

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Verify Statistics", r.useColors))
	fmt.Fprintln(r.w, "-----------------")

	fmt.Fprintf(r.w, "Templates Checked: %d\n", totals.FilesChecked)
	fmt.Fprintf(r.w, "Elements Checked:  %d\n", totals.ElementsChecked)
	fmt.Fprintf(r.w, "Mappings Loaded:   %d\n", totals.MappingsLoaded)
	fmt.Fprintf(r.w, "Errors:            %d\n", errors)
	fmt.Fprintf(r.w, "Warnings:          %d\n", warnings)
}

// PrintWarnings shows run warnings under a heading.
func (r *StatsReporter) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")

	for _, warning := range warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}
