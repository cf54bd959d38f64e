package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	AllowOrigins      string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	JWTTokenTTL       time.Duration
	AWSRegion         string
	AWSAccessKey      string
	AWSSecretKey      string
	DynamoEndpoint    string
	AccountsTable     string
	GeminiAPIKey      string
	GeminiOCRModel    string
	GeminiScorerModel string
	GeminiEmbedModel  string
	EmbeddingProvider string
	OpenAIAPIKey      string
	OpenAIEmbedModel  string
	UploadMaxMB       int
	HistoryTTL        time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ANSWERLY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Answerly API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("allow.origins", "*")
	v.SetDefault("aws.region", "ap-south-1")
	v.SetDefault("accounts.table", "EduEvalUsers")
	v.SetDefault("jwt.token_ttl", "24h")
	v.SetDefault("gemini.ocr_model", "gemini-2.5-flash")
	v.SetDefault("gemini.scorer_model", "gemini-2.5-flash")
	v.SetDefault("gemini.embed_model", "gemini-embedding-001")
	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("openai.embed_model", "text-embedding-3-small")
	v.SetDefault("upload.max_mb", 10)
	v.SetDefault("history.ttl", "0s")

	tokenTTL, err := time.ParseDuration(v.GetString("jwt.token_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt token ttl: %w", err)
	}

	historyTTL, err := time.ParseDuration(v.GetString("history.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid history ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		AllowOrigins:      v.GetString("allow.origins"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		JWTTokenTTL:       tokenTTL,
		AWSRegion:         v.GetString("aws.region"),
		AWSAccessKey:      v.GetString("aws.access_key"),
		AWSSecretKey:      v.GetString("aws.secret_key"),
		DynamoEndpoint:    v.GetString("dynamo.endpoint"),
		AccountsTable:     v.GetString("accounts.table"),
		GeminiAPIKey:      v.GetString("gemini.api_key"),
		GeminiOCRModel:    v.GetString("gemini.ocr_model"),
		GeminiScorerModel: v.GetString("gemini.scorer_model"),
		GeminiEmbedModel:  v.GetString("gemini.embed_model"),
		EmbeddingProvider: strings.ToLower(v.GetString("embedding.provider")),
		OpenAIAPIKey:      v.GetString("openai.api_key"),
		OpenAIEmbedModel:  v.GetString("openai.embed_model"),
		UploadMaxMB:       v.GetInt("upload.max_mb"),
		HistoryTTL:        historyTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 10
	}

	return cfg, nil
}
