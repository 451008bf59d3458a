package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/ads-client/internal/constants"
)

// FileConfig is the layout of $HOME/.ads/config.yml.
type FileConfig struct {
	ConsumerKey       string  `json:"consumer_key"               yaml:"consumer_key"`
	ConsumerSecret    string  `json:"consumer_secret"            yaml:"consumer_secret"`
	AccessToken       string  `json:"access_token"               yaml:"access_token"`
	AccessTokenSecret string  `json:"access_token_secret"        yaml:"access_token_secret"`
	Account           string  `json:"account,omitempty"          yaml:"account,omitempty"`
	Sandbox           bool    `json:"sandbox,omitempty"          yaml:"sandbox,omitempty"`
	Output            string  `json:"output,omitempty"           yaml:"output,omitempty"`
	Endpoint          string  `json:"endpoint,omitempty"         yaml:"endpoint,omitempty"`
	SandboxEndpoint   string  `json:"sandbox_endpoint,omitempty" yaml:"sandbox_endpoint,omitempty"`
	RetryMax          int     `json:"retry_max,omitempty"        yaml:"retry_max,omitempty"`
	RateLimit         float64 `json:"rate_limit,omitempty"       yaml:"rate_limit,omitempty"`
	NATSURL           string  `json:"nats_url,omitempty"         yaml:"nats_url,omitempty"`
}

func loadFileConfig() *FileConfig {
	return &FileConfig{
		ConsumerKey:       viper.GetString(keyConsumerKey),
		ConsumerSecret:    viper.GetString(keyConsumerSecret),
		AccessToken:       viper.GetString(keyAccessToken),
		AccessTokenSecret: viper.GetString(keyAccessTokenSecret),
		Account:           viper.GetString(keyAccount),
		Sandbox:           viper.GetBool(keySandbox),
		Output:            viper.GetString(keyOutput),
		Endpoint:          viper.GetString(keyEndpoint),
		SandboxEndpoint:   viper.GetString(keySandboxEndpoint),
		RetryMax:          viper.GetInt(keyRetryMax),
		RateLimit:         viper.GetFloat64(keyRateLimit),
		NATSURL:           viper.GetString(keyNATSURL),
	}
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".ads", "config.yml"), nil
}

func saveFileConfig(path string, config *FileConfig) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	var (
		consumerKey       string
		consumerSecret    string
		accessToken       string
		accessTokenSecret string
		account           string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store API credentials",
		Long: `Store OAuth 1.0a credentials and defaults in the config file.

Values not given as flags are prompted for; secrets are read without echo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadFileConfig()
			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			var err error

			config.ConsumerKey, err = promptValue(out, reader, "Consumer key", consumerKey, config.ConsumerKey)
			if err != nil {
				return err
			}

			config.ConsumerSecret, err = promptSecret(out, "Consumer secret", consumerSecret, config.ConsumerSecret)
			if err != nil {
				return err
			}

			config.AccessToken, err = promptValue(out, reader, "Access token", accessToken, config.AccessToken)
			if err != nil {
				return err
			}

			config.AccessTokenSecret, err = promptSecret(out, "Access token secret", accessTokenSecret, config.AccessTokenSecret)
			if err != nil {
				return err
			}

			if account != "" {
				config.Account = account
			}

			path, err := configFilePath()
			if err != nil {
				return err
			}

			if err := saveFileConfig(path, config); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "Configuration saved to %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVar(&consumerKey, "consumer-key", "", "application consumer key")
	cmd.Flags().StringVar(&consumerSecret, "consumer-secret", "", "application consumer secret")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "user access token")
	cmd.Flags().StringVar(&accessTokenSecret, "access-token-secret", "", "user access token secret")
	cmd.Flags().StringVar(&account, "default-account", "", "account used when --account is not given")

	cmd.AddCommand(newConfigureShowCommand())

	return cmd
}

func newConfigureShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored configuration",
		Long:  "Display the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadFileConfig()
			config.ConsumerSecret = maskSecret(config.ConsumerSecret)
			config.AccessTokenSecret = maskSecret(config.AccessTokenSecret)

			rows := [][]string{
				{keyConsumerKey, config.ConsumerKey},
				{keyConsumerSecret, config.ConsumerSecret},
				{keyAccessToken, config.AccessToken},
				{keyAccessTokenSecret, config.AccessTokenSecret},
				{keyAccount, config.Account},
				{keySandbox, fmt.Sprint(config.Sandbox)},
			}

			return writeOutput(cmd.OutOrStdout(), config, []string{"property", "value"}, rows)
		},
	}
}

// promptValue returns flagValue when set, otherwise asks for a value and
// keeps current on empty input.
func promptValue(out io.Writer, reader *bufio.Reader, label, flagValue, current string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if current != "" {
		_, _ = fmt.Fprintf(out, "%s [%s]: ", label, current)
	} else {
		_, _ = fmt.Fprintf(out, "%s: ", label)
	}

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}

	if value := strings.TrimSpace(line); value != "" {
		return value, nil
	}

	return current, nil
}

// promptSecret is promptValue for secrets read from the terminal without echo.
func promptSecret(out io.Writer, label, flagValue, current string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if current != "" {
		_, _ = fmt.Fprintf(out, "%s [%s]: ", label, maskSecret(current))
	} else {
		_, _ = fmt.Fprintf(out, "%s: ", label)
	}

	secret, err := term.ReadPassword(int(syscall.Stdin))
	_, _ = fmt.Fprintln(out)

	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}

	if value := strings.TrimSpace(string(secret)); value != "" {
		return value, nil
	}

	return current, nil
}
