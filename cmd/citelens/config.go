package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citelens/citelens/internal/config"
	"github.com/citelens/citelens/internal/paper"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  citelens config                                  # Show all config
  citelens config user.name                        # Get specific value
  citelens config user.name "Jane Smith"           # Set value
  citelens config semantic_scholar.api_key KEY     # Set platform API key
  citelens config google_scholar.enabled true      # Enable a platform

Keys:
  user.name                 Researcher name used for author searches
  user.orcid                ORCID iD
  <platform>.enabled        Enable or disable a platform (true/false)
  <platform>.api_key        Platform API key
  <platform>.author_id      Platform-specific author identifier
  <platform>.client_id      OAuth client ID (ORCID)
  <platform>.client_secret  OAuth client secret (ORCID)

Platforms: orcid, arxiv, semantic_scholar, google_scholar`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("user.name:  %s\n", cfg.User.Name)
			fmt.Printf("user.orcid: %s\n", cfg.User.ORCID)
			for _, p := range paper.AllPlatforms {
				pc := cfg.Platform(p)
				fmt.Printf("%s.enabled: %v\n", p, pc.Enabled)
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := args[0]
	if len(args) == 1 {
		value, err := getConfigValue(cfg, key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	if err := setConfigValue(cfg, key, args[1]); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := cfg.Save(); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s\n", key)
	} else {
		outputJSON(map[string]string{"status": "updated", "key": key})
	}
	return nil
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "user.name":
		return cfg.User.Name, nil
	case "user.orcid":
		return cfg.User.ORCID, nil
	}

	platform, field, err := splitPlatformKey(key)
	if err != nil {
		return "", err
	}
	pc := cfg.Platform(platform)

	switch field {
	case "enabled":
		return strconv.FormatBool(pc.Enabled), nil
	case "api_key":
		return pc.APIKey, nil
	case "author_id":
		return pc.AuthorID, nil
	case "client_id":
		return pc.ClientID, nil
	case "client_secret":
		return pc.ClientSecret, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "user.name":
		cfg.User.Name = value
		return nil
	case "user.orcid":
		cfg.User.ORCID = value
		return nil
	}

	platform, field, err := splitPlatformKey(key)
	if err != nil {
		return err
	}
	pc := cfg.Platform(platform)

	switch field {
	case "enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		pc.Enabled = enabled
	case "api_key":
		pc.APIKey = value
	case "author_id":
		pc.AuthorID = value
	case "client_id":
		pc.ClientID = value
	case "client_secret":
		pc.ClientSecret = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	cfg.SetPlatform(platform, pc)
	return nil
}

func splitPlatformKey(key string) (paper.Platform, string, error) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("unknown config key: %s", key)
	}
	if !paper.IsValidPlatform(parts[0]) {
		return "", "", fmt.Errorf("unknown platform: %s", parts[0])
	}
	return paper.Platform(parts[0]), parts[1], nil
}
