package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Session    SessionConfig    `mapstructure:"session"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Generation GenerationConfig `mapstructure:"generation"`
	Quota      QuotaConfig      `mapstructure:"quota"`
	Workspace  WorkspaceConfig  `mapstructure:"workspace"`
	Export     ExportConfig     `mapstructure:"export"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DBConfig selects the user store. Driver is "sqlite" or "postgres".
type DBConfig struct {
	Driver string `mapstructure:"driver"`
	Source string `mapstructure:"source"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// SessionConfig selects where session pointers live: "local" or "redis".
type SessionConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GenerationConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type QuotaConfig struct {
	DefaultLimit int    `mapstructure:"default_limit"`
	AdminEmail   string `mapstructure:"admin_email"`
	AdminLimit   int    `mapstructure:"admin_limit"`
	Timezone     string `mapstructure:"timezone"`
}

type WorkspaceConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.source", "ecomlens.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("session.backend", "local")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("generation.model", "gemini-2.5-flash-image")
	v.SetDefault("quota.default_limit", 5)
	v.SetDefault("quota.admin_email", "admin@admin.com")
	v.SetDefault("quota.admin_limit", 1000)
	v.SetDefault("quota.timezone", "Local")
	v.SetDefault("workspace.ttl", 2*time.Hour)
	v.SetDefault("export.dir", "./exports")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
}

// Load reads settings.yml from the given directories (./configs and
// /configs when none are given). Environment variables override file
// values, with "." in keys replaced by "_" (DB_DRIVER, JWT_SECRET, ...).
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if len(paths) == 0 {
		paths = []string{"./configs", "/configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("settings")
	v.SetConfigType("yml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location resolves the quota time zone used for daily resets.
func (c QuotaConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
