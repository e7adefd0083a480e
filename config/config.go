package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// AIConfig configures the chat-completion and image-generation provider.
// Provider is either "gateway" (OpenAI-compatible chat completions) or "gemini".
type AIConfig struct {
	Provider               string        `mapstructure:"provider"`
	BaseURL                string        `mapstructure:"baseURL"`
	APIKey                 string        `mapstructure:"apiKey"`
	ChatModel              string        `mapstructure:"chatModel"`
	ImageModel             string        `mapstructure:"imageModel"`
	Timeout                time.Duration `mapstructure:"timeout"`
	MaxScreenshotDimension int           `mapstructure:"maxScreenshotDimension"`
}

// WeatherConfig configures the optional weather enrichment. An empty APIKey disables it.
type WeatherConfig struct {
	APIKey   string        `mapstructure:"apiKey"`
	BaseURL  string        `mapstructure:"baseURL"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
}

// ImagesConfig configures per-item image generation.
// MaxConcurrency <= 0 means one in-flight request per item.
type ImagesConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	MaxConcurrency int  `mapstructure:"maxConcurrency"`
}

type JWTConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort     string        `mapstructure:"HTTPPort"`
		Timeout      time.Duration `mapstructure:"HTTPTimeout"`
		PublicURL    string        `mapstructure:"publicURL"`
		RateLimit    int           `mapstructure:"rateLimit"`
		MaxBodyBytes int64         `mapstructure:"maxBodyBytes"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		Redis struct {
			URL string `mapstructure:"url"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	AI            AIConfig      `mapstructure:"ai"`
	Weather       WeatherConfig `mapstructure:"weather"`
	Images        ImagesConfig  `mapstructure:"images"`
	JWT           JWTConfig     `mapstructure:"jwt"`
	Observability struct {
		MetricsPort string `mapstructure:"metricsPort"`
		ServiceName string `mapstructure:"serviceName"`
	} `mapstructure:"observability"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// AI_APIKEY, WEATHER_APIKEY, REPOSITORIES_POSTGRES_HOST, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// REPOSITORIES_POSTGRES_HOST="" turns persistence off.
	v.AllowEmptyEnv(true)

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
