package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	JWTAlgorithm    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	MailServer   string
	MailPort     int
	MailUsername string
	MailPassword string
	MailFrom     string

	HTTPAddress      string
	BaseURL          string
	AllowedOrigins   []string
	AllowCredentials bool
}

var envKeys = []string{
	"DATABASE_URL",
	"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
	"JWT_SECRET", "JWT_ALGORITHM",
	"JWT_ACCESS_EXPIRATION_MINUTES", "JWT_REFRESH_EXPIRATION_MINUTES",
	"MAIL_SERVER", "MAIL_PORT", "MAIL_USERNAME", "MAIL_PASSWORD", "MAIL_FROM",
	"HTTP_ADDRESS", "BASE_URL", "ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("JWT_ACCESS_EXPIRATION_MINUTES", 15)
	v.SetDefault("JWT_REFRESH_EXPIRATION_MINUTES", 7*24*60)
	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("BASE_URL", "http://localhost:8080/")
	v.SetDefault("MAIL_PORT", 587)

	cfg := &Config{
		DatabaseURL:      v.GetString("DATABASE_URL"),
		RedisAddress:     v.GetString("REDIS_ADDRESS"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTAlgorithm:     v.GetString("JWT_ALGORITHM"),
		AccessTokenTTL:   time.Duration(v.GetInt("JWT_ACCESS_EXPIRATION_MINUTES")) * time.Minute,
		RefreshTokenTTL:  time.Duration(v.GetInt("JWT_REFRESH_EXPIRATION_MINUTES")) * time.Minute,
		MailServer:       v.GetString("MAIL_SERVER"),
		MailPort:         v.GetInt("MAIL_PORT"),
		MailUsername:     v.GetString("MAIL_USERNAME"),
		MailPassword:     v.GetString("MAIL_PASSWORD"),
		MailFrom:         v.GetString("MAIL_FROM"),
		HTTPAddress:      v.GetString("HTTP_ADDRESS"),
		BaseURL:          v.GetString("BASE_URL"),
		AllowedOrigins:   v.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials: v.GetBool("ALLOW_CREDENTIALS"),
	}

	for name, val := range map[string]string{
		"DATABASE_URL":  cfg.DatabaseURL,
		"REDIS_ADDRESS": cfg.RedisAddress,
		"JWT_SECRET":    cfg.JWTSecret,
	} {
		if val == "" {
			return nil, fmt.Errorf("required config %s is not set", name)
		}
	}

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token expiration minutes must be positive")
	}

	return cfg, nil
}
