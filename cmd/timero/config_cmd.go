package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/benjamonnguyen/timero"
)

var configForce bool

// configDirFunc returns the config directory path, replaceable in tests.
var configDirFunc = defaultConfigDir

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "timero"), nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Show or manage timero configuration.

Running bare 'timero config' is the same as 'timero config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with commented defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRun()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration with sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

const configTemplate = `# timero configuration
# See: timero config show (for effective values and sources)

# SQLite database path (default: ~/.config/timero/timero.db)
db_path: "{{ .DatabaseURL }}"

log:
  # debug, info, warn or error (default: warn)
  level: "{{ .LogLevel }}"

timer:
  # How often the countdown advances while running (default: 1s)
  tick: {{ .TickInterval }}
  # Pause before the next interval starts when auto-start is on (default: 1s)
  auto_start_delay: {{ .AutoStartDelay }}

alarm:
  # Ring the terminal bell when an interval completes (default: true)
  bell: {{ .AlarmBell }}
`

func configFilePath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func configInitRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgPath)
		}
		console.Warning("Overwriting existing config file")
	}

	cfg := timero.Config{
		DatabaseURL:    viper.GetString(timero.DatabaseURLKey),
		LogLevel:       viper.GetString(timero.LogLevelKey),
		TickInterval:   viper.GetDuration(timero.TickIntervalKey),
		AutoStartDelay: viper.GetDuration(timero.AutoStartDelayKey),
		AlarmBell:      viper.GetBool(timero.AlarmBellKey),
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return fmt.Errorf("template execute error: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(cfgPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	console.Success("Config file created: %s", cfgPath)
	fmt.Fprintln(console.Out)
	fmt.Fprint(console.Out, buf.String())
	return nil
}

var configKeys = []timero.ConfigKey{
	timero.DatabaseURLKey,
	timero.LogLevelKey,
	timero.TickIntervalKey,
	timero.AutoStartDelayKey,
	timero.AlarmBellKey,
}

func envVarFor(key timero.ConfigKey) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func configShowRun() error {
	cfgPath := viper.ConfigFileUsed()
	if cfgPath == "" {
		var err error
		if cfgPath, err = configFilePath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(cfgPath); err == nil {
		console.Info("Config file: %s", cfgPath)
	} else {
		console.Info("Config file: (none)")
	}
	fmt.Fprintln(console.Out)

	fileValues := readConfigFileValues(cfgPath)
	for _, key := range configKeys {
		source := detectSource(key, envVarFor(key), fileValues)
		fmt.Fprintf(console.Out, "  %-24s %v  %s\n", key, viper.Get(key), source)
	}
	return nil
}

// readConfigFileValues returns the dotted keys present in the YAML file at path.
func readConfigFileValues(path string) map[string]bool {
	result := make(map[string]bool)

	data, err := os.ReadFile(path)
	if err != nil {
		return result
	}
	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return result
	}
	flattenKeys("", parsed, result)
	return result
}

func flattenKeys(prefix string, m map[string]any, result map[string]bool) {
	for key, val := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenKeys(fullKey, nested, result)
		} else {
			result[fullKey] = true
		}
	}
}

func detectSource(key, envVar string, fileValues map[string]bool) string {
	if _, ok := os.LookupEnv(envVar); ok {
		return fmt.Sprintf("(env: %s)", envVar)
	}
	if fileValues[key] {
		return "(file)"
	}
	return "(default)"
}
