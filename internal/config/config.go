package config

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

const defaultJWTSecret = "not-so-secret-now-is-it?"

// S3Config describes an S3-compatible bucket. AccountID alone selects the
// Cloudflare R2 endpoint.
type S3Config struct {
	AccountID       string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	PublicBaseURL   string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type RateLimits struct {
	LoginPerMinute int
	VotePerMinute  int
}

type Config struct {
	Port          string
	Environment   string
	DBDriver      string
	DB_URL        string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	JWTExpires    time.Duration
	BcryptCost    int
	PublicBaseURL string
	UploadDir     string
	RedisURL      string
	VoteRetries   int
	CorsOrigins   []string
	S3            S3Config
	Google        GoogleConfig
	RateLimits    RateLimits

	// EnvFile is the dotenv file Load tried; EnvFileLoaded reports whether
	// it was found.
	EnvFile       string
	EnvFileLoaded bool
}

// Load reads the dotenv file named by ENV_FILE (default .env) and then the
// process environment.
func Load() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	loaded := godotenv.Load(envFile) == nil

	port := getEnv("PORT", "3000")
	return Config{
		Port:          port,
		Environment:   getEnv("ENV", "development"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DB_URL:        getEnv("DB_URL", ""),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "piiquante"),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpires:    envDuration("JWT_EXPIRES", 24*time.Hour),
		BcryptCost:    envInt("BCRYPT_COST", 10),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		UploadDir:     getEnv("UPLOAD_DIR", "images"),
		RedisURL:      getEnv("REDIS_URL", ""),
		VoteRetries:   envInt("VOTE_MAX_RETRIES", 5),
		CorsOrigins:   envList("CORS_ORIGINS", []string{"http://localhost:4200"}),
		S3: S3Config{
			AccountID:       getEnv("S3_ACCOUNT_ID", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "auto"),
			PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:"+port+"/api/auth/google/callback"),
		},
		RateLimits: RateLimits{
			LoginPerMinute: envInt("RL_LOGIN_PER_MIN", 10),
			VotePerMinute:  envInt("RL_VOTE_PER_MIN", 60),
		},
		EnvFile:       envFile,
		EnvFileLoaded: loaded,
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "postgres":
		if c.DB_URL == "" {
			errs = append(errs, errors.New("DB_URL is required for the postgres driver"))
		}
	case "mongo":
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo driver"))
		}
	case "memory":
	default:
		errs = append(errs, errors.New("DB_DRIVER must be postgres, mongo or memory"))
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.JWTExpires <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES must be positive"))
	}
	if c.VoteRetries < 1 {
		errs = append(errs, errors.New("VOTE_MAX_RETRIES must be at least 1"))
	}
	return errors.Join(errs...)
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c Config) CorsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   c.CorsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content", "Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
}
