package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Firebase    FirebaseConfig
	Environment string `mapstructure:"environment"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig contains unified Redis connection settings.
// Supported modes: single, sentinel, cluster.
type RedisConfig struct {
	// Mode selects the Redis deployment topology. Defaults to "single".
	Mode string `mapstructure:"mode"`

	// Addrs lists Redis addresses (host:port), used for every mode.
	// In single mode the first address wins when the list is non-empty.
	Addrs []string `mapstructure:"addrs"`

	// Addr is the single-mode address, used when Addrs is empty.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName is the sentinel master name (sentinel mode only).
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// JWTConfig contains session token settings. Secret signs every session
// token; tokens are the only session state the server keeps.
type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	ExpirationMinutes int    `mapstructure:"expirationMinutes"`
}

// FirebaseConfig contains the external identity verifier settings. The
// endpoint overrides exist for tests; production leaves them empty.
type FirebaseConfig struct {
	ProjectID        string `mapstructure:"project_id"`
	APIKey           string `mapstructure:"api_key"`
	AccountsEndpoint string `mapstructure:"accounts_endpoint"`
	JWKSEndpoint     string `mapstructure:"jwks_endpoint"`
}

// PostgresConnectionString builds the PostgreSQL connection string.
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// IsProduction reports whether the app runs with production hardening
// (secure cookies, release logging).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from the given file and bound env vars. Env vars
// are bound explicitly so that the mapping stays greppable.
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readTimeout", 10)
	vip.SetDefault("server.writeTimeout", 10)
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("jwt.expirationMinutes", 60)
	vip.SetDefault("environment", "development")

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationMinutes", "JWT_EXPIRATIONMINUTES")

	vip.BindEnv("firebase.project_id", "FIREBASE_PROJECT_ID")
	vip.BindEnv("firebase.api_key", "FIREBASE_API_KEY")
	vip.BindEnv("firebase.accounts_endpoint", "FIREBASE_ACCOUNTS_ENDPOINT")
	vip.BindEnv("firebase.jwks_endpoint", "FIREBASE_JWKS_ENDPOINT")

	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("environment", "APP_ENV")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Config file '%s' not found, relying on env vars and defaults.", configPath)
			} else {
				log.Printf("Warning: failed to read config file '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Loaded configuration ---")
		log.Printf("Environment: %s", cfg.Environment)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Redis Mode: %s", cfg.Redis.Mode)
		log.Printf("JWT Secret Set: %t", cfg.JWT.Secret != "")
		log.Printf("JWT Expiration Minutes: %d", cfg.JWT.ExpirationMinutes)
		log.Printf("Firebase Project: %s", cfg.Firebase.ProjectID)
		log.Printf("Firebase API Key Set: %t", cfg.Firebase.APIKey != "")
		log.Printf("----------------------------")
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if cfg.Firebase.ProjectID == "" || cfg.Firebase.APIKey == "" {
		return nil, fmt.Errorf("firebase configuration (project_id, api_key) is incomplete in config (check FIREBASE_PROJECT_ID, FIREBASE_API_KEY env vars)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.IsProduction() && cfg.Database.Password == "" {
		return nil, fmt.Errorf("database password is required in production (check DATABASE_PASSWORD env var)")
	}

	return &cfg, nil
}
