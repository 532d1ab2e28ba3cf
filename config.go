package seqcomp

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config represents the seqcomp configuration
type Config struct {
	InputDir   string           `yaml:"input_dir"`
	Generation GenerationConfig `yaml:"generation"`
	Validation ValidationConfig `yaml:"validation"`
}

// GenerationConfig represents code generation settings
type GenerationConfig struct {
	// IteratorVariable is the preferred fresh variable used when a
	// multi-name pattern has to be destructured. It is only a preference;
	// the generator renames it on collision.
	IteratorVariable string `yaml:"iterator_variable"`
	Output           string `yaml:"output"`
}

// ValidationConfig represents validation settings
type ValidationConfig struct {
	Strict bool `yaml:"strict"`
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// LoadConfig loads configuration from the specified file. A missing file is
// not an error: the defaults are returned instead.
func LoadConfig(configPath string) (*Config, error) {
	// .env files are optional
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// strict mode rejects unknown fields
	var config Config
	if err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	expandConfigEnvVars(&config)

	return &config, nil
}

func getDefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)

	return config
}

func applyDefaults(config *Config) {
	if config.InputDir == "" {
		config.InputDir = "."
	}

	if config.Generation.IteratorVariable == "" {
		config.Generation.IteratorVariable = "it"
	}
}

func validateConfig(config *Config) error {
	if !identifierPattern.MatchString(config.Generation.IteratorVariable) {
		return fmt.Errorf("%w: generation.iterator_variable %q is not a valid identifier", ErrConfigValidation, config.Generation.IteratorVariable)
	}

	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandConfigEnvVars(config *Config) {
	config.InputDir = expandEnvVars(config.InputDir)
	config.Generation.Output = expandEnvVars(config.Generation.Output)
}

func expandEnvVars(value string) string {
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}

		return match
	})
}
