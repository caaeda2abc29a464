package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv        = "RETIREMENT_CHECKER_CONFIG"
	databaseDSNEnv       = "DATABASE_DSN"
	azureCLIPathEnv      = "AZURE_CLI_PATH"
	azureSubscriptionEnv = "AZURE_SUBSCRIPTION_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig    `yaml:"logging"`
	Documents []DocumentConfig `yaml:"documents"`
	Azure     AzureConfig      `yaml:"azure"`
	Output    OutputConfig     `yaml:"output"`
	Database  DatabaseConfig   `yaml:"database"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DocumentConfig describes one retirement documentation page. Documents
// are listed in ascending merge precedence: the last one wins collisions.
type DocumentConfig struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// AzureConfig wires subscription discovery and CLI authentication.
type AzureConfig struct {
	CLIPath       string               `yaml:"cliPath"`
	Subscriptions []SubscriptionConfig `yaml:"subscriptions"`
}

// SubscriptionConfig identifies one subscription to scan.
type SubscriptionConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// OutputConfig selects the report format and destination.
type OutputConfig struct {
	Format    string `yaml:"format"`
	Path      string `yaml:"path"`
	Directory string `yaml:"directory"`
	Silent    bool   `yaml:"silent"`
}

// DatabaseConfig describes the optional scan-history Postgres connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Documents) == 0 {
		cfg.Documents = defaultConfig().Documents
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(azureCLIPathEnv); v != "" {
		c.Azure.CLIPath = v
	}

	if v := os.Getenv(azureSubscriptionEnv); v != "" {
		c.Azure.Subscriptions = []SubscriptionConfig{{ID: v, Name: v}}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Documents) > 0 {
		base.Documents = override.Documents
	}

	if override.Azure.CLIPath != "" {
		base.Azure.CLIPath = override.Azure.CLIPath
	}
	if len(override.Azure.Subscriptions) > 0 {
		base.Azure.Subscriptions = override.Azure.Subscriptions
	}

	if override.Output.Format != "" {
		base.Output.Format = override.Output.Format
	}
	if override.Output.Path != "" {
		base.Output.Path = override.Output.Path
	}
	if override.Output.Directory != "" {
		base.Output.Directory = override.Output.Directory
	}
	if override.Output.Silent {
		base.Output.Silent = true
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Documents: []DocumentConfig{
			{
				Label: "Foundry",
				URL:   "https://learn.microsoft.com/en-us/azure/ai-foundry/concepts/model-lifecycle-retirement",
			},
			{
				Label: "OpenAI",
				URL:   "https://learn.microsoft.com/en-us/azure/ai-services/openai/concepts/model-retirements",
			},
		},
		Azure: AzureConfig{},
		Output: OutputConfig{
			Format:    "text",
			Directory: "model_retirement_results",
		},
		Database: DatabaseConfig{DSN: ""},
	}
}
