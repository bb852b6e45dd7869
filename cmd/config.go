package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/amrtables-cli/internal/config"
	"github.com/KaramelBytes/amrtables-cli/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set amrtables configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		if cfg.SourceURL != "" {
			fmt.Fprintf(out, "source_url: %s\n", cfg.SourceURL)
		}
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		if cfg.SheetIndex > 0 {
			fmt.Fprintf(out, "sheet_index: %d\n", cfg.SheetIndex)
		}
		fmt.Fprintf(out, "strict: %t\n", cfg.Strict)
		fmt.Fprintf(out, "cache_dir: %s\n", cfg.CacheDir)
		if cfg.OutputDir != "" {
			fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		}
		fmt.Fprintf(out, "locale: %s\n", cfg.Locale)
		fmt.Fprintf(out, "undefined_percent: %s\n", cfg.UndefinedPercent)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Fprintf(out, "retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Fprintf(out, "retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Start from the file alone so env and flag overrides are not saved.
		c, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		if err := setKey(c, args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	positive := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "source_url":
		c.SourceURL = val
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		i, convErr := strconv.Atoi(val)
		if convErr != nil || i < 0 {
			return fmt.Errorf("invalid int for sheet_index: %v", val)
		}
		c.SheetIndex = i
	case "strict":
		b, convErr := strconv.ParseBool(val)
		if convErr != nil {
			return fmt.Errorf("invalid bool for strict: %w", convErr)
		}
		c.Strict = b
	case "cache_dir":
		c.CacheDir = val
	case "output_dir":
		c.OutputDir = val
	case "locale":
		if _, perr := language.Parse(val); perr != nil {
			return fmt.Errorf("invalid locale %q: %w", val, perr)
		}
		c.Locale = val
	case "undefined_percent":
		c.UndefinedPercent = val
	case "http_timeout_sec":
		c.HTTPTimeoutSec, err = positive()
	case "retry_max_attempts":
		c.RetryMaxAttempts, err = positive()
	case "retry_base_delay_ms":
		c.RetryBaseDelayMs, err = positive()
	case "retry_max_delay_ms":
		c.RetryMaxDelayMs, err = positive()
	case "log_level", "log_format":
		level, format := c.LogLevel, c.LogFormat
		if key == "log_level" {
			level = strings.ToLower(val)
		} else {
			format = strings.ToLower(val)
		}
		if _, lerr := logging.New(level, format, nil); lerr != nil {
			return lerr
		}
		c.LogLevel, c.LogFormat = level, format
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
