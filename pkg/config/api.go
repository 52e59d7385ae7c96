package config

import "time"

// APIConfig holds runtime configuration for the API service.
type APIConfig struct {
	Environment        string
	LogLevel           string
	Addr               string
	DatabaseURL        string
	MigrationsDir      string
	JWTSecret          string
	TemplateDir        string
	VercelAPIURL       string
	VercelToken        string
	VercelTeamID       string
	AliasDomainSuffix  string
	DeployPollInterval time.Duration
	DeployMaxAttempts  int
	DeployHTTPTimeout  time.Duration
	RateLimitRedisAddr string
	RateLimitRedisPass string
	RateLimitRedisDB   int
}

// LoadAPIConfig constructs an APIConfig from environment variables.
func LoadAPIConfig() APIConfig {
	LoadDotEnv()
	return APIConfig{
		Environment:        GetString("APP_ENV", "development"),
		LogLevel:           GetString("LOG_LEVEL", "info"),
		Addr:               GetString("API_ADDR", ":4000"),
		DatabaseURL:        GetString("DATABASE_URL", "postgres://villetta:villetta@db:5432/villetta?sslmode=disable"),
		MigrationsDir:      GetString("DB_MIGRATIONS_DIR", "db/migrations"),
		JWTSecret:          GetString("JWT_SECRET", "supersecuresecret"),
		TemplateDir:        GetString("TEMPLATE_DIR", "template"),
		VercelAPIURL:       GetString("VERCEL_API_URL", "https://api.vercel.com"),
		VercelToken:        GetString("VERCEL_TOKEN", ""),
		VercelTeamID:       GetString("VERCEL_TEAM_ID", ""),
		AliasDomainSuffix:  GetString("ALIAS_DOMAIN_SUFFIX", ".vercel.app"),
		DeployPollInterval: GetDuration("DEPLOY_POLL_INTERVAL", 5*time.Second),
		DeployMaxAttempts:  GetInt("DEPLOY_POLL_MAX_ATTEMPTS", 60),
		DeployHTTPTimeout:  GetDuration("DEPLOY_HTTP_TIMEOUT", 30*time.Second),
		RateLimitRedisAddr: GetString("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitRedisPass: GetString("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:   GetInt("RATE_LIMIT_REDIS_DB", 0),
	}
}
