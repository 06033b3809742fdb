package config

import (
	"os"
	"strings"
)

// Environment is the deployment the process runs in. It selects where
// secrets are read from and how strictly the config is validated.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// GetEnvironment reads APP_ENV, then ENV. CI=true always wins.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	raw := os.Getenv("APP_ENV")
	if raw == "" {
		raw = os.Getenv("ENV")
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}
