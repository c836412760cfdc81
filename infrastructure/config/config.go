package config

import (
	"fmt"
	"os"

	"medscore-backend/domain/score"
	"medscore-backend/domain/traversal"
)

// StoreBackend selects the persistence backend for definitions and
// parameter snapshots.
type StoreBackend string

const (
	// StoreFile keeps definitions and snapshots on the local filesystem
	StoreFile StoreBackend = "file"
	// StoreDynamoDB keeps them in a single DynamoDB table
	StoreDynamoDB StoreBackend = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Content configuration
	CatalogDir string
	DataDir    string
	// CatalogWatch reloads the catalog when files under CatalogDir change.
	// File backend only.
	CatalogWatch bool

	// Storage configuration
	StoreBackend  StoreBackend
	AWSRegion     string
	DynamoDBTable string

	// Evaluation policies
	EdgePolicy      traversal.EdgePolicy
	ScreeningPolicy score.ScreeningPolicy

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Logging and features
	LogLevel   string
	EnableCORS bool

	// Lambda configuration
	IsLambda bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		CatalogDir:   getEnv("CATALOG_DIR", "./catalog"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		CatalogWatch: getEnvBool("CATALOG_WATCH", false),

		StoreBackend:  StoreBackend(getEnv("STORE_BACKEND", string(StoreFile))),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("DYNAMODB_TABLE", "medscore"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "medscore-backend"),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),

		IsLambda: getEnvBool("IS_LAMBDA", false) || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",
	}

	edgePolicy, err := traversal.ParseEdgePolicy(os.Getenv("EDGE_POLICY"))
	if err != nil {
		return nil, err
	}
	cfg.EdgePolicy = edgePolicy

	screeningPolicy, err := score.ParseScreeningPolicy(os.Getenv("SCREENING_POLICY"))
	if err != nil {
		return nil, err
	}
	cfg.ScreeningPolicy = screeningPolicy

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreFile, StoreDynamoDB:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.StoreBackend == StoreDynamoDB && c.DynamoDBTable == "" {
		return fmt.Errorf("DYNAMODB_TABLE is required with the dynamodb backend")
	}
	if c.CatalogWatch && c.StoreBackend != StoreFile {
		return fmt.Errorf("CATALOG_WATCH requires the file backend")
	}

	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
