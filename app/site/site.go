package site

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds site-wide metadata shared by the RSS feed and the root
// endpoint. It lives in a single YAML file next to the content directory.
type Config struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Language    string `yaml:"language"`
	BaseUrl     string `yaml:"base_url"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}

	setDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid site config %s: %w", path, err)
	}

	return &config, nil
}

func setDefaults(config *Config) {
	if config.Language == "" {
		config.Language = "en"
	}
}

func validate(config *Config) error {
	if config.Title == "" {
		return fmt.Errorf("site title is required")
	}
	return nil
}
