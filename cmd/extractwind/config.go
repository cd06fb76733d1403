package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/khalilKhassep/extractwind"
	"github.com/khalilKhassep/extractwind/internal/extract"
	"github.com/khalilKhassep/extractwind/internal/ident"
	"github.com/khalilKhassep/extractwind/internal/mapping"
)

const (
	defaultConfigFile = ".extractwind.yaml"
	envPrefix         = "EXTRACTWIND_"
)

var k = koanf.New(".")

// envSections are the config sections an environment variable may address.
var envSections = []string{"extract", "generate", "verify", "watch"}

// listKeys hold comma-separated lists when set from the environment.
var listKeys = map[string]bool{
	"extract.exclude": true,
	"extract.ignore":  true,
	"extract.only":    true,
}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config and dotenv paths from flags
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigFile
	}
	envFile, _ := cmd.Flags().GetString("env-file")

	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set)
	if err := k.Load(posflag.ProviderWithFlag(cmd.Flags(), ".", nil, flagValue(cmd.Flags())), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadEnvFile adds variables from a dotenv file to the process environment.
// Variables already set win. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (EXTRACTWIND_* prefix)
	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable name to a config key:
//
//	EXTRACTWIND_VIEWS                  -> views
//	EXTRACTWIND_EXTRACT_PREFIX         -> extract.prefix
//	EXTRACTWIND_GENERATE_SKIP_COMPILE  -> generate.skip-compile
func envKey(name string) string {
	s := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(s, section+"_"); ok {
			return section + "." + strings.ReplaceAll(rest, "_", "-")
		}
	}
	return strings.ReplaceAll(s, "_", "-")
}

func envValue(name, value string) (string, interface{}) {
	key := envKey(name)
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// flagValue keeps the file and env-file locations out of the config tree.
func flagValue(fs *pflag.FlagSet) func(*pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		switch f.Name {
		case "config", "env-file", "help":
			return "", nil
		}
		return f.Name, posflag.FlagVal(fs, f)
	}
}

// addExtractFlags registers the extraction flags on commands that extract.
func addExtractFlags(f *pflag.FlagSet) {
	f.StringSlice("exclude", extractwind.DefaultExclude, "Skip templates whose file name contains any of these")
	f.StringSlice("ignore", nil, "Gitignore-style patterns to skip, relative to the view root")
	f.StringSlice("only", nil, "Doublestar patterns to select, relative to the view root")
	f.String("attribute", extract.DefaultAttr, "Attribute holding the element identifier")
	f.String("prefix", ident.DefaultPrefix, "Prefix for generated identifiers")
	f.String("ids", string(ident.StrategyRandom), "Identifier strategy: random|sequential")
}

// buildExtractConfig constructs the library's Config struct from koanf state.
// Verify and watch use it too.
func buildExtractConfig() extractwind.Config {
	quiet := getBoolWithFallback("quiet", "quiet", false)
	return extractwind.Config{
		ViewPath:      getStringWithFallback("views", "views", extractwind.DefaultViewPath),
		OutputPath:    getStringWithFallback("output", "output", extractwind.DefaultOutputPath),
		ExtractedPath: getStringWithFallback("extracted", "extracted", extractwind.DefaultExtractedPath),
		Suffix:        getStringWithFallback("suffix", "suffix", extractwind.DefaultSuffix),
		Exclude:       getStringsWithFallback("exclude", "extract.exclude", extractwind.DefaultExclude),
		Ignore:        getStringsWithFallback("ignore", "extract.ignore", nil),
		Only:          getStringsWithFallback("only", "extract.only", nil),
		IDAttribute:   getStringWithFallback("attribute", "extract.attribute", extract.DefaultAttr),
		IDPrefix:      getStringWithFallback("prefix", "extract.prefix", ident.DefaultPrefix),
		IDStrategy:    ident.Strategy(getStringWithFallback("ids", "extract.ids", string(ident.StrategyRandom))),
		Format:        mapping.Format(getStringWithFallback("format", "format", string(mapping.FormatJSON))),
		Debounce:      getDurationWithFallback("debounce", "watch.debounce", extractwind.DefaultDebounce),
		Verbose:       !quiet && getBoolWithFallback("verbose", "verbose", false),
	}
}

// buildGenerateConfig constructs the library's GenerateConfig struct from koanf state.
func buildGenerateConfig() extractwind.GenerateConfig {
	quiet := getBoolWithFallback("quiet", "quiet", false)
	return extractwind.GenerateConfig{
		ExtractedPath: getStringWithFallback("extracted", "extracted", extractwind.DefaultExtractedPath),
		Format:        mapping.Format(getStringWithFallback("format", "format", string(mapping.FormatJSON))),
		TempPath:      getStringWithFallback("temp", "generate.temp", extractwind.DefaultTempPath),
		CSSOutputPath: getStringWithFallback("css-output", "generate.css-output", extractwind.DefaultCSSOutputPath),
		Command:       getStringWithFallback("command", "generate.command", extractwind.DefaultCompileCommand),
		Header:        getStringWithFallback("header", "generate.header", ""),
		SkipCompile:   getBoolWithFallback("skip-compile", "generate.skip-compile", false),
		Check:         getBoolWithFallback("check", "generate.check", false),
		Verbose:       !quiet && getBoolWithFallback("verbose", "verbose", false),
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key,
// then returns the default. A key set to an empty list stays empty.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if k.Exists(flagKey) {
		return k.Strings(flagKey)
	}
	if k.Exists(configKey) {
		return k.Strings(configKey)
	}
	return append([]string(nil), defaultVal...)
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if v := k.Duration(flagKey); v > 0 {
		return v
	}
	if v := k.Duration(configKey); v > 0 {
		return v
	}
	return defaultVal
}
