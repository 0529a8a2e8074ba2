//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fivetwenty-io/timeback/pkg/tbclient"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIURL       string
	TokenURL     string
	ClientID     string
	ClientSecret string
	BinaryPath   string
	Writable     bool
	Verbose      bool
}

// LoadTestConfig loads configuration from TIMEBACK_ environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIURL:       os.Getenv("TIMEBACK_API_URL"),
		TokenURL:     os.Getenv("TIMEBACK_TOKEN_URL"),
		ClientID:     os.Getenv("TIMEBACK_CLIENT_ID"),
		ClientSecret: os.Getenv("TIMEBACK_CLIENT_SECRET"),
		BinaryPath:   getBinaryPath(),
		Writable:     os.Getenv("TIMEBACK_INTEGRATION_WRITE") == "true",
		Verbose:      os.Getenv("TIMEBACK_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the timeback binary
func getBinaryPath() string {
	if path := os.Getenv("TIMEBACK_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../timeback",
		"./timeback",
		"../timeback",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "timeback"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.ClientID == "" || config.ClientSecret == "" || config.TokenURL == "" {
		t.Skip("TIMEBACK_CLIENT_ID, TIMEBACK_CLIENT_SECRET or TIMEBACK_TOKEN_URL not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips CLI tests when the binary has not been built
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("timeback binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// SkipIfReadOnly skips tests that create or delete records
func (config *TestConfig) SkipIfReadOnly(t *testing.T) {
	t.Helper()

	if !config.Writable {
		t.Skip("TIMEBACK_INTEGRATION_WRITE not true, skipping write test")
	}
}

// NewClient creates a library client from the environment
func (config *TestConfig) NewClient(t *testing.T) timeback.Client {
	t.Helper()

	client, err := tbclient.New(context.Background(), &timeback.Config{
		UseEnvironment: true,
		UserAgent:      "timeback-integration-tests",
		RetryMax:       2,
		HTTPTimeout:    30 * time.Second,
	})
	require.NoError(t, err)

	return client
}

// CommandRunner provides utilities for running timeback commands
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a command runner with its own config file
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a timeback command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a timeback command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	// #nosec G204
	cmd := exec.Command(runner.config.BinaryPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login stores the test credentials in the runner's config file
func (runner *CommandRunner) Login() error {
	args := []string{"login",
		"--token-url", runner.config.TokenURL,
		"--client-id", runner.config.ClientID,
		"--client-secret", runner.config.ClientSecret,
	}

	if runner.config.APIURL != "" {
		args = append(args, "--api-url", runner.config.APIURL)
	}

	_, stderr, err := runner.Run(args...)
	if err != nil {
		return fmt.Errorf("failed to login: %s", stderr)
	}

	return nil
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// DecodeJSONOutput verifies command output is valid JSON and decodes it
func DecodeJSONOutput(t *testing.T, output string, target interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(output)), target), "output is not JSON: %s", output)
}

// AssertYAMLOutput verifies command output looks like YAML
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if strings.HasPrefix(output, "{") || !strings.Contains(output, ":") {
		t.Errorf("Output does not appear to be YAML: %s", output)
	}
}
