package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every runtime setting. Values come from app.env in the
// given path, overridden by environment variables.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`

	// Restaurant operator credentials. The password is stored as a bcrypt
	// hash; plaintext never lives in config.
	RestaurantUser         string `mapstructure:"RESTAURANT_USER"`
	RestaurantPasswordHash string `mapstructure:"RESTAURANT_PASSWORD_HASH"`

	// Shift windowing. Policy is one of calendar_day, calendar_day_grace,
	// night_shift. Timezone is an IANA name, e.g. America/Sao_Paulo.
	ShiftPolicy string `mapstructure:"SHIFT_POLICY"`
	Timezone    string `mapstructure:"TIMEZONE"`

	// Mapping provider.
	ORSAPIKey         string `mapstructure:"ORS_API_KEY"`
	RestaurantAddress string `mapstructure:"RESTAURANT_ADDRESS"`

	// Closing-report email (optional; empty ReportEmail disables it).
	AWSRegion   string `mapstructure:"AWS_REGION"`
	EmailFrom   string `mapstructure:"EMAIL_FROM"`
	ReportEmail string `mapstructure:"REPORT_EMAIL"`
}

// LoadConfig reads app.env from path (if present) and the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	v.SetDefault("SHIFT_POLICY", "night_shift")
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("RESTAURANT_USER", "restaurante")
	v.SetDefault("AWS_REGION", "us-east-1")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; the environment can carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
