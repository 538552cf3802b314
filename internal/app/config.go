package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/stride-backend/internal/platform/envutil"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	Environment     string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// LoadConfig reads an optional CONFIG_FILE YAML first, then the
// environment. Values already set in the environment win over the file.
func LoadConfig(log *logger.Logger) (Config, error) {
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyConfigFile(path); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	accessTTLSeconds := envutil.Int("ACCESS_TOKEN_TTL", 3600)
	refreshTTLSeconds := envutil.Int("REFRESH_TOKEN_TTL", 86400)

	return Config{
		Port:            envutil.String("PORT", "8080"),
		Environment:     envutil.String("ENVIRONMENT", "development"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", ""),
		AccessTokenTTL:  time.Duration(accessTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTTLSeconds) * time.Second,
	}, nil
}

// applyConfigFile maps flat YAML keys onto environment variables that are
// not already set, so every component keeps reading config the same way.
func applyConfigFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return err
	}
	for key, value := range values {
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}
