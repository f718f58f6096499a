package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	App       AppConfig
	Statutory StatutoryConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// StatutoryConfig carries the statutory payroll constants. The PF contribution
// rate is deliberately configurable; the wage ceiling and ESI threshold are
// statutory values that change only when the law does.
type StatutoryConfig struct {
	PFRate            decimal.Decimal // employee and employer side, default 12%
	PFWageCeiling     decimal.Decimal // monthly PF wage ceiling, default 15000
	EPSRate           decimal.Decimal // pension share of employer PF, default 8.33%
	EPSCap            decimal.Decimal // monthly EPS cap, default 1250
	ESIGrossThreshold decimal.Decimal // ESI eligibility cut-off, default 21000
	ESIEmployeeRate   decimal.Decimal // default 0.75%
	ESIEmployerRate   decimal.Decimal // default 3.25%
}

func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "vidyadesk"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION", "24h"),
	}

	statutory, err := loadStatutory()
	if err != nil {
		return nil, err
	}
	config.Statutory = statutory

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadStatutory() (StatutoryConfig, error) {
	s := StatutoryConfig{}

	fields := []struct {
		env      string
		fallback string
		dest     *decimal.Decimal
	}{
		{"PF_RATE_PERCENT", "12", &s.PFRate},
		{"PF_WAGE_CEILING", "15000", &s.PFWageCeiling},
		{"EPS_RATE_PERCENT", "8.33", &s.EPSRate},
		{"EPS_CAP", "1250", &s.EPSCap},
		{"ESI_GROSS_THRESHOLD", "21000", &s.ESIGrossThreshold},
		{"ESI_EMPLOYEE_RATE_PERCENT", "0.75", &s.ESIEmployeeRate},
		{"ESI_EMPLOYER_RATE_PERCENT", "3.25", &s.ESIEmployerRate},
	}

	for _, f := range fields {
		v, err := decimal.NewFromString(getEnv(f.env, f.fallback))
		if err != nil {
			return StatutoryConfig{}, fmt.Errorf("invalid %s: %w", f.env, err)
		}
		*f.dest = v
	}

	return s, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Statutory.PFRate.IsNegative() || c.Statutory.PFRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("PF_RATE_PERCENT must be between 0 and 100")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
