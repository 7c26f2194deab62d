package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Template struct {
		Root string `yaml:"root"`
	} `yaml:"template"`
	Destination struct {
		Root string `yaml:"root"`
	} `yaml:"destination"`
	// Kinds overrides filename detection: filename -> gemfile | gemspec |
	// rakefile | appraisals | changelog | markdown.
	Kinds   map[string]string `yaml:"kinds"`
	Skip    []string          `yaml:"skip"` // filenames the sync never touches
	Verbose bool              `yaml:"verbose"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if root := os.Getenv("REMOLD_TEMPLATE_ROOT"); root != "" {
		cfg.Template.Root = root
	}
	if root := os.Getenv("REMOLD_DESTINATION_ROOT"); root != "" {
		cfg.Destination.Root = root
	}
	if os.Getenv("REMOLD_VERBOSE") != "" {
		cfg.Verbose = true
	}

	return &cfg, nil
}
