package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderOption adjusts where Load looks for files.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit YAML config file path.
func WithConfigFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.envFile = path }
}

// Load reads configuration into a validated Config. Files are
// optional: with nothing on disk the result is defaults plus whatever
// AUTHKIT_* environment variables are set. Nested keys map to
// underscores, so token.secret binds to AUTHKIT_TOKEN_SECRET.
func Load(opts ...LoaderOption) (*Config, error) {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.configFile == "" {
		o.configFile = firstExisting("./config.yml", "./config/config.yml")
	}
	if o.envFile == "" {
		o.envFile = firstExisting("./.env")
	}

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", o.envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("AUTHKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", o.configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindKeys registers every key with viper so AutomaticEnv sees keys
// that appear in no config file.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"service_name",
		"database_dsn",
		"logger.level", "logger.format", "logger.output",
		"logger.no_color", "logger.timestamp", "logger.caller",
		"password.algorithm", "password.bcrypt_cost", "password.min_length",
		"password.argon2_time", "password.argon2_memory", "password.argon2_threads",
		"token.secret", "token.method", "token.issuer", "token.audience",
		"token.access_token_ttl", "token.refresh_token_ttl",
		"engine.refresh_token_bytes", "engine.single_use_token_bytes",
		"engine.verification_token_ttl", "engine.reset_token_ttl",
	} {
		_ = v.BindEnv(key)
	}
}

func firstExisting(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
