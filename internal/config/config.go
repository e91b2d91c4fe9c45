package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	URL        string
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
	Migrate    bool
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

type Token struct {
	Secret        string
	Issuer        string
	TTLMonths     int
	BindToAddress bool
}

type Config struct {
	ServerPort      int
	DB              DB
	MinIO           MinIO
	Token           Token
	BcryptCost      int
	MaxUploadSize   int64
	AuthRatePerMin  int
	ShutdownTimeout time.Duration
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 5 * 1024 * 1024
	}
	return size
}

func LoadDB() DB {
	return DB{
		URL:        getEnv("DATABASE_URL", ""),
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "tweetbook"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
		Migrate:    getEnvBool("MIGRATIONS_ENABLED", true),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "profile-images"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", ""),
	}
}

func LoadToken() Token {
	return Token{
		Secret:        getEnv("TOKEN_SECRET", ""),
		Issuer:        getEnv("TOKEN_ISSUER", "TweetBook"),
		TTLMonths:     getEnvAsInt("TOKEN_TTL_MONTHS", 12),
		BindToAddress: getEnvBool("BIND_SESSION_TO_ADDRESS", false),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info(".env file not found, using environment variables")
	}

	return &Config{
		ServerPort:      getEnvAsInt("SERVER_PORT", 8088),
		DB:              LoadDB(),
		MinIO:           LoadMinIO(),
		Token:           LoadToken(),
		BcryptCost:      getEnvAsInt("BCRYPT_COST", 10),
		MaxUploadSize:   parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "5242880")),
		AuthRatePerMin:  getEnvAsInt("AUTH_RATE_PER_MIN", 20),
		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
	}
}

// Validate reports settings without which no token can be issued or verified.
func (c *Config) Validate() error {
	if c.Token.Secret == "" {
		return fmt.Errorf("TOKEN_SECRET is not set")
	}
	if c.Token.TTLMonths <= 0 {
		return fmt.Errorf("TOKEN_TTL_MONTHS must be positive, got %d", c.Token.TTLMonths)
	}
	return nil
}

// DSN returns the postgres connection URL, preferring DATABASE_URL.
func (db DB) DSN() string {
	if db.URL != "" {
		return db.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.DbUSER, db.DbPASSWORD),
		Host:     db.DbHOST + ":" + db.DbPORT,
		Path:     "/" + db.DbNAME,
		RawQuery: "sslmode=" + url.QueryEscape(db.DbSSLMODE),
	}
	return u.String()
}
