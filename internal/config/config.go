// Package config loads service configuration from environment variables,
// optionally layered over a YAML file (CONFIG_PATH).
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTPAddr     string `yaml:"http_addr"     env:"PORTAL_ADDR"        env-default:":8080"`
	OxiDBHost    string `yaml:"oxidb_host"    env:"OXIDB_HOST"         env-default:"127.0.0.1"`
	OxiDBPort    int    `yaml:"oxidb_port"    env:"OXIDB_PORT"         env-default:"4444"`
	PoolSize     int    `yaml:"pool_size"     env:"PORTAL_POOL_SIZE"   env-default:"3"`
	JWTSecret    string `yaml:"jwt_secret"    env:"PORTAL_JWT_SECRET"  env-default:"formportal-dev-secret-change-me"`
	AdminEmail   string `yaml:"admin_email"   env:"PORTAL_ADMIN_EMAIL" env-default:"admin@formportal.local"`
	AdminPass    string `yaml:"admin_pass"    env:"PORTAL_ADMIN_PASS"  env-default:"admin123"`
	GelfAddr     string `yaml:"gelf_addr"     env:"PORTAL_GELF_ADDR"`
	NotifyURL    string `yaml:"notify_url"    env:"PORTAL_NOTIFY_URL"`
	FormSeedPath string `yaml:"form_seed"     env:"PORTAL_FORM_SEED"`
}

// Load reads CONFIG_PATH (YAML) when present, otherwise ENV + defaults.
// Priority: ENV > YAML > defaults.
func Load() (*Config, error) {
	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return &cfg, nil
}
