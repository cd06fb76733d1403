package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .extractwind.yaml config file",
	Long:  `Create a .extractwind.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigFile); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigFile)
		}

		if err := os.WriteFile(defaultConfigFile, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", defaultConfigFile)
		return nil
	},
}

const defaultConfig = `# extractwind configuration
# Environment variables override this file: EXTRACTWIND_VIEWS,
# EXTRACTWIND_EXTRACT_IDS, EXTRACTWIND_GENERATE_SKIP_COMPILE, ...

# Shared settings
verbose: false
views: ./resources/views
output: ./resources/views_modified
extracted: ./resources/views_extracted
suffix: .blade.php
format: json               # json | yaml | toml

# Extraction settings
extract:
  exclude:                 # file name substrings to skip
    - index
    - wizzard-html
  ignore: []               # gitignore-style lines, also read from .extractwindignore
  only: []                 # doublestar patterns, e.g. "components/**"
  attribute: data-class-name
  prefix: auto-gen-
  ids: random              # random | sequential

# Stylesheet settings
generate:
  temp: ./public/generated/temp.css
  css-output: ./public/generated/combined-output.css
  command: npx tailwindcss -i {input} -o {output}
  header: ""
  skip-compile: false
  check: false

# Verification settings
verify:
  output-format: issues    # issues | summary | full | json
  strict: false
  print-lines: true

# Watch settings
watch:
  debounce: 200ms
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
