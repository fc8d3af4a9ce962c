package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dsvalidate-cli/internal/config"
	"github.com/KaramelBytes/dsvalidate-cli/internal/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dsvalidate configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "api_key: %s\n", utils.Mask(c.APIKey))
		fmt.Fprintf(out, "provider: %s\n", c.Provider)
		fmt.Fprintf(out, "model: %s\n", c.Model)
		fmt.Fprintf(out, "max_tokens: %d\n", c.MaxTokens)
		fmt.Fprintf(out, "temperature: %.3f\n", c.Temperature)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", c.HTTPTimeoutSec)
		fmt.Fprintf(out, "retry_max_attempts: %d\n", c.RetryMaxAttempts)
		fmt.Fprintf(out, "retry_base_delay_ms: %d\n", c.RetryBaseDelayMs)
		fmt.Fprintf(out, "retry_max_delay_ms: %d\n", c.RetryMaxDelayMs)
		fmt.Fprintf(out, "ollama_host: %s\n", c.OllamaHost)
		fmt.Fprintf(out, "narrative_timeout_sec: %d\n", c.NarrativeTimeoutSec)
		fmt.Fprintf(out, "narrative_fallback: %t\n", c.NarrativeFallback)
		fmt.Fprintf(out, "parallel_checks: %t\n", c.ParallelChecks)
		fmt.Fprintf(out, "server_addr: %s\n", c.ServerAddr)
		fmt.Fprintf(out, "max_upload_mb: %d\n", c.MaxUploadMB)
		fmt.Fprintf(out, "logging.level: %s\n", c.Logging.Level)
		fmt.Fprintf(out, "logging.format: %s\n", c.Logging.Format)
		fmt.Fprintf(out, "logging.output: %s\n", c.Logging.Output)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	atoi := func(lo int) (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < lo {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "api_key":
		c.APIKey = val
	case "provider":
		switch strings.ToLower(val) {
		case "openrouter":
			c.Provider = "openrouter"
		case "ollama", "local":
			c.Provider = "ollama"
		default:
			return fmt.Errorf("invalid provider: %s (use openrouter or ollama)", val)
		}
	case "model":
		c.Model = val
	case "max_tokens":
		c.MaxTokens, err = atoi(1)
	case "temperature":
		f, perr := strconv.ParseFloat(val, 64)
		if perr != nil || f < 0 || f > 2 {
			return fmt.Errorf("invalid float for temperature: %v (0..2)", val)
		}
		c.Temperature = f
	case "http_timeout_sec":
		c.HTTPTimeoutSec, err = atoi(1)
	case "retry_max_attempts":
		c.RetryMaxAttempts, err = atoi(1)
	case "retry_base_delay_ms":
		c.RetryBaseDelayMs, err = atoi(0)
	case "retry_max_delay_ms":
		c.RetryMaxDelayMs, err = atoi(0)
	case "ollama_host":
		c.OllamaHost = val
	case "narrative_timeout_sec":
		c.NarrativeTimeoutSec, err = atoi(0)
	case "narrative_fallback", "parallel_checks":
		b, perr := strconv.ParseBool(val)
		if perr != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		if key == "narrative_fallback" {
			c.NarrativeFallback = b
		} else {
			c.ParallelChecks = b
		}
	case "server_addr":
		c.ServerAddr = val
	case "max_upload_mb":
		c.MaxUploadMB, err = atoi(1)
	case "logging.level", "log_level":
		switch val {
		case "debug", "info", "warn", "error":
			c.Logging.Level = val
		default:
			return fmt.Errorf("invalid log level: %s", val)
		}
	case "logging.format", "log_format":
		if val != "text" && val != "json" {
			return fmt.Errorf("invalid log format: %s (use text or json)", val)
		}
		c.Logging.Format = val
	case "logging.output", "log_output":
		c.Logging.Output = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}
