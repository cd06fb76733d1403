package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/khalilKhassep/extractwind"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Extract once, then again whenever a template changes",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	addExtractFlags(watchCmd.Flags())
	watchCmd.Flags().Duration("debounce", extractwind.DefaultDebounce, "Quiet period before changed templates are processed")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := runExtract(cmd, nil); err != nil {
		return err
	}

	config := buildExtractConfig()
	config.Stdout = cmd.OutOrStdout()
	quiet := getBoolWithFallback("quiet", "quiet", false)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()
	if !quiet {
		fmt.Fprintf(w, "Watching %s (Ctrl+C to stop)\n", config.ViewPath)
	}
	return extractwind.Watch(ctx, config, func(fr *extractwind.FileResult, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		if quiet || fr.Unchanged {
			return
		}
		fmt.Fprintf(w, "Rewrote %s (%d elements, %d new identifiers)\n", fr.Path, fr.Elements, fr.Generated)
	})
}
