package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// secretConfigKeys hold values that are masked on output and read without echo.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
var secretConfigKeys = map[string]bool{
	"linkedin.client_secret": true,
	"llm.api_key":            true,
}

// readSecret is replaced in tests.
var readSecret = readPassword

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change postcraft configuration.

Values are stored in config.toml in the configuration directory.
POSTCRAFT_LINKEDIN_CLIENT_ID, POSTCRAFT_LINKEDIN_CLIENT_SECRET and
POSTCRAFT_LLM_API_KEY (or the provider's own key variable) override
the stored values, and may also be set in a .env file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configSetSecretCmd = &cobra.Command{
	Use:   "set-secret <key>",
	Short: "Set a secret value without echoing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetSecret,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the supported configuration keys",
	RunE:  runConfigKeys,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and reach the LLM provider",
	RunE:  runConfigCheck,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetSecretCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("[LinkedIn]")
	cmd.Printf("  Client ID:     %s\n", orUnset(settings.LinkedIn.ClientID))
	cmd.Printf("  Client Secret: %s\n", maskSecret(settings.LinkedIn.ClientSecret))
	cmd.Printf("  Redirect URI:  %s\n", settings.LinkedIn.RedirectURI)
	cmd.Printf("  Scopes:        %s\n", strings.Join(settings.LinkedIn.Scopes, " "))
	cmd.Printf("  API Version:   %s\n", settings.LinkedIn.APIVersion)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model:    %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key:  %s\n", maskSecret(settings.LLM.APIKey))
	}
	cmd.Println()

	cmd.Println("[Ledger]")
	cmd.Printf("  Backend: %s\n", settings.Ledger.Backend)
	if settings.Ledger.Path != "" {
		cmd.Printf("  Path:    %s\n", settings.Ledger.Path)
	}
	cmd.Println()

	cmd.Printf("Timeout: %s\n", settings.Timeout)
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Status: %v\n", err)
	} else {
		cmd.Println("Status: ready")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}

	if secretConfigKeys[key] {
		cmd.Printf("%s = %s\n", key, maskSecret(value))
	} else {
		cmd.Printf("%s = %s\n", key, value)
	}
	return nil
}

func runConfigSetSecret(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	key := args[0]
	if !secretConfigKeys[key] {
		return fmt.Errorf("%w: %s is not a secret key, use 'postcraft config set'", domain.ErrInvalidInput, key)
	}

	cmd.Printf("Enter %s: ", key)
	value := readSecret()
	cmd.Println()
	if value == "" {
		return errors.New("no value entered")
	}

	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("%s updated\n", key)
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	if err := settingsService.Validate(); err != nil {
		return err
	}
	cmd.Println("Required values: ok")

	if err := settingsService.ValidateLLMConfig(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	cmd.Println("LLM provider: reachable")
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	cmd.Println(settingsService.Path())
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
