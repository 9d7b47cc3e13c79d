package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB     DBConfig
	Server ServerConfig
	Data   DataConfig
	Seeder SeederConfig
	Log    LogConfig
	Source SourceType
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// SourceType selects where gazetteer rows are read from
type SourceType string

const (
	SourceFile SourceType = "file"
	SourceDB   SourceType = "db"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DataConfig points at the gazetteer and country reference files
type DataConfig struct {
	GazetteerPath string
	CountriesPath string
}

// SeederConfig holds settings for data import
type SeederConfig struct {
	BatchSize int
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// SQLite in-memory database
		if c.Name != "" && c.Name != "geosuggest" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	}
	// PostgreSQL connection string
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// UsesDB reports whether suggestions are served from the database
func (c *Config) UsesDB() bool {
	return c.Source == SourceDB
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	source := SourceType(getEnv("SOURCE_TYPE", string(SourceFile)))
	if source != SourceFile && source != SourceDB {
		return nil, fmt.Errorf("unknown SOURCE_TYPE %q", source)
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "geosuggest"),
			Password: getEnv("DB_PASSWORD", "geosuggest_password"),
			Name:     getEnv("DB_NAME", "geosuggest"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Data: DataConfig{
			GazetteerPath: getEnv("GAZETTEER_PATH", "data/cities500.txt"),
			CountriesPath: getEnv("COUNTRIES_PATH", "data/countries.txt"),
		},
		Seeder: SeederConfig{
			BatchSize: getEnvAsInt("SEEDER_BATCH_SIZE", 10000),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Source: source,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
