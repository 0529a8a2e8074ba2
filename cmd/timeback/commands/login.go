package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		tokenURL     string
		clientID     string
		clientSecret string
		scopes       string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to TimeBack",
		Long: `Save client credentials and perform a client credentials grant.

The deployment comes from --environment and --api-url. Missing credentials are prompted for.
The granted token is stored in config.yml and reused until it nears expiry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := readConfigFile()
			if err != nil {
				return err
			}

			if env := viper.GetString(KeyEnvironment); env != "" {
				config.Environment = env
			}

			if apiURL := viper.GetString(KeyAPIURL); apiURL != "" {
				config.APIURL = strings.TrimRight(apiURL, "/")
			}

			if tokenURL != "" {
				config.TokenURL = tokenURL
			}

			if scopes != "" {
				config.Scopes = splitScopes(scopes)
			}

			if config.TokenURL == "" {
				config.TokenURL = viper.GetString(KeyTokenURL)
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if clientID == "" {
				clientID, err = promptLine(reader, out, "Client ID: ")
				if err != nil {
					return err
				}
			}

			if clientSecret == "" {
				clientSecret, err = promptSecret(reader, out, "Client secret: ")
				if err != nil {
					return err
				}
			}

			config.ClientID = clientID
			config.ClientSecret = clientSecret

			// A new login always performs a fresh grant.
			config.Token = ""
			config.TokenExpiresAt = nil
			config.LastRefreshed = nil

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			tokenManager, err := createTokenManager(config, newLogger())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			_, err = tokenManager.GetToken(ctx)
			if err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			_, _ = fmt.Fprintf(out, "Successfully logged in as %s\n", config.ClientID)

			if expiry := tokenManager.TokenExpiry(); !expiry.IsZero() {
				_, _ = fmt.Fprintf(out, "Token expires: %s\n", formatTime(&expiry))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&tokenURL, "token-url", "", "OAuth2 token endpoint")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret")
	cmd.Flags().StringVar(&scopes, "scopes", "", "comma separated OAuth2 scopes")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Logout from TimeBack",
		Long:  "Clear the stored token. --forget also removes the saved client credentials.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := readConfigFile()
			if err != nil {
				return err
			}

			config.Token = ""
			config.TokenExpiresAt = nil
			config.LastRefreshed = nil

			if forget {
				config.ClientID = ""
				config.ClientSecret = ""
				config.AccessToken = ""
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			viper.Set(KeyToken, "")

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Successfully logged out")

			return nil
		},
	}

	cmd.Flags().BoolVar(&forget, "forget", false, "also remove saved client credentials")

	return cmd
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// promptSecret hides input on a terminal and reads a plain line otherwise.
func promptSecret(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(reader, out, prompt)
	}

	_, _ = fmt.Fprint(out, prompt)

	secret, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	_, _ = fmt.Fprintln(out)

	return string(secret), nil
}
