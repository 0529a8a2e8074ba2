package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/timeback/cmd/timeback/commands"
	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "timeback",
	Short: "TimeBack API CLI",
	Long: `A command-line interface for the TimeBack education platform.

Covers OneRoster rostering, QTI assessment content, PowerPath lessons,
CASE frameworks, EduBridge and Caliper time spent events.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.timeback/config.yml)")
	rootCmd.PersistentFlags().StringP("environment", "e", "", "deployment: production or staging")
	rootCmd.PersistentFlags().StringP("api-url", "a", "", "OneRoster and PowerPath base URL")
	rootCmd.PersistentFlags().String("qti-url", "", "QTI base URL")
	rootCmd.PersistentFlags().StringP("token", "t", "", "pre-issued access token")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log HTTP traffic to stderr")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag(commands.KeyEnvironment, rootCmd.PersistentFlags().Lookup("environment"))
	_ = viper.BindPFlag(commands.KeyAPIURL, rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag(commands.KeyQTIURL, rootCmd.PersistentFlags().Lookup("qti-url"))
	_ = viper.BindPFlag(commands.KeyAccessToken, rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag(commands.KeyOutput, rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag(commands.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewLogoutCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewServicesCommand())
	rootCmd.AddCommand(commands.NewUsersCommand())
	rootCmd.AddCommand(commands.NewOrgsCommand())
	rootCmd.AddCommand(commands.NewCoursesCommand())
	rootCmd.AddCommand(commands.NewClassesCommand())
	rootCmd.AddCommand(commands.NewEnrollmentsCommand())
	rootCmd.AddCommand(commands.NewQTICommand())
	rootCmd.AddCommand(commands.NewPowerPathCommand())
	rootCmd.AddCommand(commands.NewCASECommand())
	rootCmd.AddCommand(commands.NewEduBridgeCommand())
	rootCmd.AddCommand(commands.NewCaliperCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, commands.ConfigDirName)

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		// Search config in ~/.timeback/config.yml
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix(commands.EnvPrefix)
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool(commands.KeyVerbose) {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
