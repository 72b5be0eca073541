package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const DefaultCatAPIURL = "https://api.thecatapi.com/v1/images/search"

type Config struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	BaseURL      string        `mapstructure:"render_external_url"`
	CatAPIURL    string        `mapstructure:"cat_api_url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"`
	RateBurst    int           `mapstructure:"rate_burst"`
	PreviewCols  int           `mapstructure:"preview_cols"`
	PreviewRows  int           `mapstructure:"preview_rows"`
	Caption      string        `mapstructure:"caption"`
	LogLevel     string        `mapstructure:"log_level"`
}

// Load lee la configuración: valores por defecto, luego el archivo (si se
// indica) y por último las variables de entorno, que ganan siempre.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("host", "")
	v.SetDefault("port", 8080)
	v.SetDefault("render_external_url", "")
	v.SetDefault("cat_api_url", DefaultCatAPIURL)
	v.SetDefault("fetch_timeout", 10*time.Second)
	// * El límite por IP es opcional; por defecto cada clic llega a la API
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("rate_burst", 3)
	v.SetDefault("preview_cols", 40)
	v.SetDefault("preview_rows", 20)
	v.SetDefault("caption", "きょうのにゃんこ🐱")
	v.SetDefault("log_level", "info")

	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error leyendo configuración %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error parseando configuración: %w", err)
	}

	if cfg.Port <= 0 {
		return Config{}, fmt.Errorf("puerto inválido: %d", cfg.Port)
	}
	if cfg.PreviewCols <= 0 || cfg.PreviewRows <= 0 {
		return Config{}, fmt.Errorf("tamaño de vista previa inválido: %dx%d", cfg.PreviewCols, cfg.PreviewRows)
	}
	if cfg.CatAPIURL == "" {
		return Config{}, fmt.Errorf("cat_api_url no puede estar vacío")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
