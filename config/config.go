package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	Env         string `mapstructure:"ENV"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// AI completion provider (OpenAI-compatible chat completions).
	AIBaseURL string `mapstructure:"AI_BASE_URL"`
	AIAPIKey  string `mapstructure:"AI_API_KEY"`
	AIModel   string `mapstructure:"AI_MODEL"`

	// Amadeus flight search.
	AmadeusClientID     string `mapstructure:"AMADEUS_CLIENT_ID"`
	AmadeusClientSecret string `mapstructure:"AMADEUS_CLIENT_SECRET"`
	AmadeusEnv          string `mapstructure:"AMADEUS_ENV"`

	// Fallback defaults used when an AI-backed step fails. Owned here so no
	// leaf function carries its own hardcoded default.
	DefaultAirportCode     string `mapstructure:"DEFAULT_AIRPORT_CODE"`
	DefaultDestinationName string `mapstructure:"DEFAULT_DESTINATION_NAME"`
	DefaultDestinationCode string `mapstructure:"DEFAULT_DESTINATION_CODE"`
	DefaultHotelName       string `mapstructure:"DEFAULT_HOTEL_NAME"`

	// Outbound call budget. Each external round-trip gets CallTimeout; the
	// whole search request gets RequestDeadline.
	CallTimeoutSec     int `mapstructure:"CALL_TIMEOUT_SEC"`
	RequestDeadlineSec int `mapstructure:"REQUEST_DEADLINE_SEC"`

	MaxFlightResults int `mapstructure:"MAX_FLIGHT_RESULTS"`
}

var AppConfig Config

// Load reads configuration from an optional config.yaml plus environment
// variables, applying defaults for everything not set.
func Load() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("FRONTEND_URL", "")

	viper.SetDefault("AI_BASE_URL", "https://api.perplexity.ai")
	viper.SetDefault("AI_API_KEY", "")
	viper.SetDefault("AI_MODEL", "sonar")

	viper.SetDefault("AMADEUS_CLIENT_ID", "")
	viper.SetDefault("AMADEUS_CLIENT_SECRET", "")
	viper.SetDefault("AMADEUS_ENV", "test")

	viper.SetDefault("DEFAULT_AIRPORT_CODE", "OTP")
	viper.SetDefault("DEFAULT_DESTINATION_NAME", "Napoli")
	viper.SetDefault("DEFAULT_DESTINATION_CODE", "NAP")
	viper.SetDefault("DEFAULT_HOTEL_NAME", "mid-range hotel")

	viper.SetDefault("CALL_TIMEOUT_SEC", 8)
	viper.SetDefault("REQUEST_DEADLINE_SEC", 45)
	viper.SetDefault("MAX_FLIGHT_RESULTS", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func IsProduction() bool {
	return AppConfig.Env == "production"
}

func (c Config) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSec) * time.Second
}

func (c Config) RequestDeadline() time.Duration {
	return time.Duration(c.RequestDeadlineSec) * time.Second
}
