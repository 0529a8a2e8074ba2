package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/pkg/tbclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigDirName is the directory under $HOME holding config.yml.
const ConfigDirName = ".timeback"

// EnvPrefix is shared with the library so one set of TIMEBACK_* variables serves both.
const EnvPrefix = tbclient.EnvPrefix

// Configuration keys, as used in config.yml and after the TIMEBACK_ prefix.
const (
	KeyEnvironment    = tbclient.EnvEnvironment
	KeyAPIURL         = tbclient.EnvAPIURL
	KeyQTIURL         = tbclient.EnvQTIURL
	KeyPowerPathURL   = tbclient.EnvPowerPathURL
	KeyCaliperURL     = tbclient.EnvCaliperURL
	KeyTokenURL       = tbclient.EnvTokenURL
	KeyClientID       = tbclient.EnvClientID
	KeyClientSecret   = tbclient.EnvClientSecret
	KeyScopes         = tbclient.EnvScopes
	KeyAccessToken    = tbclient.EnvAccessToken
	KeyToken          = "token"
	KeyTokenExpiresAt = "token_expires_at"
	KeyLastRefreshed  = "last_refreshed"
	KeyOutput         = "output"
	KeyVerbose        = "verbose"
)

// Config represents the CLI configuration.
type Config struct {
	Environment  string   `json:"environment,omitempty"   yaml:"environment,omitempty"`
	APIURL       string   `json:"api_url,omitempty"       yaml:"api_url,omitempty"`
	QTIURL       string   `json:"qti_url,omitempty"       yaml:"qti_url,omitempty"`
	PowerPathURL string   `json:"powerpath_url,omitempty" yaml:"powerpath_url,omitempty"`
	CaliperURL   string   `json:"caliper_url,omitempty"   yaml:"caliper_url,omitempty"`
	TokenURL     string   `json:"token_url,omitempty"     yaml:"token_url,omitempty"`
	ClientID     string   `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string   `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	Scopes       []string `json:"scopes,omitempty"        yaml:"scopes,omitempty"`

	// AccessToken is a pre-issued token; it is never written by login.
	AccessToken string `json:"access_token,omitempty" yaml:"access_token,omitempty"`

	// Token is the last client-credentials grant, reused until it nears expiry.
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	LastRefreshed  *time.Time `json:"last_refreshed,omitempty"   yaml:"last_refreshed,omitempty"`

	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// configSetters maps settable keys to their fields.
var configSetters = map[string]func(*Config, string){
	KeyEnvironment:  func(c *Config, v string) { c.Environment = v },
	KeyAPIURL:       func(c *Config, v string) { c.APIURL = strings.TrimRight(v, "/") },
	KeyQTIURL:       func(c *Config, v string) { c.QTIURL = strings.TrimRight(v, "/") },
	KeyPowerPathURL: func(c *Config, v string) { c.PowerPathURL = strings.TrimRight(v, "/") },
	KeyCaliperURL:   func(c *Config, v string) { c.CaliperURL = strings.TrimRight(v, "/") },
	KeyTokenURL:     func(c *Config, v string) { c.TokenURL = v },
	KeyClientID:     func(c *Config, v string) { c.ClientID = v },
	KeyClientSecret: func(c *Config, v string) { c.ClientSecret = v },
	KeyScopes:       func(c *Config, v string) { c.Scopes = splitScopes(v) },
	KeyAccessToken:  func(c *Config, v string) { c.AccessToken = v },
	KeyOutput:       func(c *Config, v string) { c.Output = v },
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in $HOME/.timeback/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration after flags and TIMEBACK_ variables are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskedConfig(loadConfig())

			return renderOutput(cmd.OutOrStdout(), config, func(w io.Writer) error {
				return displayConfigTable(w, config)
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(settableKeys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := readConfigFile()
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := readConfigFile()
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], "")
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFilePath()
			if err != nil {
				return err
			}

			err = os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cleared all configuration")

			return nil
		},
	}
}

// loadConfig returns the effective configuration: flags, then TIMEBACK_ variables, then the file.
func loadConfig() *Config {
	config := &Config{
		Environment:  viper.GetString(KeyEnvironment),
		APIURL:       viper.GetString(KeyAPIURL),
		QTIURL:       viper.GetString(KeyQTIURL),
		PowerPathURL: viper.GetString(KeyPowerPathURL),
		CaliperURL:   viper.GetString(KeyCaliperURL),
		TokenURL:     viper.GetString(KeyTokenURL),
		ClientID:     viper.GetString(KeyClientID),
		ClientSecret: viper.GetString(KeyClientSecret),
		AccessToken:  viper.GetString(KeyAccessToken),
		Token:        viper.GetString(KeyToken),
		Output:       viper.GetString(KeyOutput),
	}

	// Scopes may come from a YAML list or a comma separated variable.
	scopes := viper.GetStringSlice(KeyScopes)
	if len(scopes) == 1 {
		scopes = splitScopes(scopes[0])
	}

	config.Scopes = scopes

	if expiresAt := viper.GetTime(KeyTokenExpiresAt); !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	if lastRefreshed := viper.GetTime(KeyLastRefreshed); !lastRefreshed.IsZero() {
		config.LastRefreshed = &lastRefreshed
	}

	return config
}

// configFilePath returns the file in use, or $HOME/.timeback/config.yml.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDirName, "config.yml"), nil
}

// readConfigFile loads only what is stored on disk, so saving never captures flags or variables.
func readConfigFile() (*Config, error) {
	configFile, err := configFilePath()
	if err != nil {
		return nil, err
	}

	// configFile is the user's own config path
	// #nosec G304
	data, err := os.ReadFile(configFile)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	return config, nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func setConfigValue(config *Config, key, value string) error {
	setter, ok := configSetters[strings.ReplaceAll(strings.ToLower(key), "-", "_")]
	if !ok {
		return fmt.Errorf("%w: %q (valid keys: %s)", constants.ErrUnknownConfigKey, key, strings.Join(settableKeys(), ", "))
	}

	setter(config, value)

	return nil
}

func settableKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for key := range configSetters {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

func splitScopes(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

func displayConfigTable(w io.Writer, config *Config) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	_ = table.Append("Environment", formatConfigValue(config.Environment))
	_ = table.Append("API URL", formatConfigValue(config.APIURL))
	_ = table.Append("QTI URL", formatConfigValue(config.QTIURL))
	_ = table.Append("PowerPath URL", formatConfigValue(config.PowerPathURL))
	_ = table.Append("Caliper URL", formatConfigValue(config.CaliperURL))
	_ = table.Append("Token URL", formatConfigValue(config.TokenURL))
	_ = table.Append("Client ID", formatConfigValue(config.ClientID))
	_ = table.Append("Client Secret", formatConfigValue(config.ClientSecret))
	_ = table.Append("Scopes", formatConfigValue(strings.Join(config.Scopes, " ")))
	_ = table.Append("Access Token", formatConfigValue(config.AccessToken))
	_ = table.Append("Token", formatConfigValue(config.Token))
	_ = table.Append("Token Expires", formatTime(config.TokenExpiresAt))
	_ = table.Append("Output", formatConfigValue(config.Output))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return "(not set)"
	}

	return value
}

// maskedConfig hides credentials in a copy of config.
func maskedConfig(config *Config) *Config {
	masked := *config
	masked.ClientSecret = maskSecret(config.ClientSecret)
	masked.AccessToken = maskSecret(config.AccessToken)
	masked.Token = maskSecret(config.Token)

	return &masked
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}

	return constants.MaskedSecret
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return constants.NotAvailable
	}

	return t.Local().Format(time.RFC3339)
}
