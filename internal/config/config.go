package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"riskblock/pkg/validate"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// AppDiscoveryCredentials is the API key pair scoped to App Discovery reports.
type AppDiscoveryCredentials struct {
	Key    string `env:"UMBRELLA_APP_DISCOVERY_API_KEY"    name:"UMBRELLA_APP_DISCOVERY_API_KEY"    validate:"required" yaml:"key"`    //nolint: lll
	Secret string `env:"UMBRELLA_APP_DISCOVERY_API_SECRET" name:"UMBRELLA_APP_DISCOVERY_API_SECRET" validate:"required" yaml:"secret"` //nolint: lll
}

// PoliciesCredentials is the API key pair scoped to destination list policies.
type PoliciesCredentials struct {
	Key    string `env:"UMBRELLA_POLICIES_API_KEY"    name:"UMBRELLA_POLICIES_API_KEY"    validate:"required" yaml:"key"`
	Secret string `env:"UMBRELLA_POLICIES_API_SECRET" name:"UMBRELLA_POLICIES_API_SECRET" validate:"required" yaml:"secret"` //nolint: lll
}

// Config represents the application configuration structure.
// Every field can be set from the environment; the yaml file is optional.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set.
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// Umbrella contains API endpoint and credential settings
	Umbrella struct {
		// BaseURL is the Umbrella API root
		BaseURL string `env:"UMBRELLA_BASE_URL" env-default:"https://api.umbrella.com" yaml:"baseUrl"`
		// HTTPTimeout bounds every single API request
		HTTPTimeout time.Duration `env:"UMBRELLA_HTTP_TIMEOUT" env-default:"1m" yaml:"httpTimeout"`

		AppDiscovery AppDiscoveryCredentials `yaml:"appDiscovery"`
		Policies     PoliciesCredentials     `yaml:"policies"`
	} `yaml:"umbrella"`

	// Discovery contains App Discovery paging and pacing settings
	Discovery struct {
		// PageLimit is the number of applications requested per page
		PageLimit int `env:"DISCOVERY_PAGE_LIMIT" env-default:"100" yaml:"pageLimit"`
		// DetailDelay is the pause between application detail requests
		DetailDelay time.Duration `env:"DISCOVERY_DETAIL_DELAY" env-default:"100ms" yaml:"detailDelay"`
		// OutputDir is where discovery files are written and push files are read
		OutputDir string `env:"DISCOVERY_OUTPUT_DIR" env-default:"." yaml:"outputDir"`
	} `yaml:"discovery"`

	// Destinations contains destination list upload settings
	Destinations struct {
		// BatchSize is the number of destinations per add request
		BatchSize int `env:"DESTINATIONS_BATCH_SIZE" env-default:"500" yaml:"batchSize"`
		// RequestDelay is the pause between batches and between individual submissions
		RequestDelay time.Duration `env:"DESTINATIONS_REQUEST_DELAY" env-default:"200ms" yaml:"requestDelay"`
		// Access is the access type of created lists
		Access string `env:"DESTINATIONS_ACCESS" env-default:"block" yaml:"access"`
		// BundleTypeID is the bundle type of created lists
		BundleTypeID int `env:"DESTINATIONS_BUNDLE_TYPE_ID" env-default:"1" yaml:"bundleTypeId"`
	} `yaml:"destinations"`

	// Database contains the optional run history database settings
	Database struct {
		// Enabled turns on run history in PostgreSQL; otherwise history is kept in memory
		Enabled bool `env:"DATABASE_ENABLED" env-default:"false" yaml:"enabled"`
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"riskblock" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"4" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"1" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Metrics contains the optional metrics export settings
	Metrics struct {
		// Addr enables the ops server (/metrics, /healthz, /debug/pprof) when set, e.g. ":9090"
		Addr string `env:"METRICS_ADDR" yaml:"addr"`
		// Path is where metrics are served on the ops server
		Path string `env:"METRICS_PATH" env-default:"/metrics" yaml:"path"`
		// PushGatewayURL pushes metrics at the end of a run when set
		PushGatewayURL string `env:"METRICS_PUSHGATEWAY_URL" yaml:"pushGatewayUrl"`
		// JobName is the Pushgateway job label
		JobName string `env:"METRICS_JOB_NAME" env-default:"riskblock" yaml:"jobName"`
		// Textfile writes metrics in text format to this path at the end of a run when set
		Textfile string `env:"METRICS_TEXTFILE" yaml:"textfile"`
	} `yaml:"metrics"`

	// GracefulShutdownTimeout is the maximum duration to wait for the ops server to stop
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Validate reports which App Discovery credentials are missing.
func (c AppDiscoveryCredentials) Validate() error {
	return validate.Struct(c) //nolint: wrapcheck
}

// Validate reports which Policies credentials are missing.
func (c PoliciesCredentials) Validate() error {
	return validate.Struct(c) //nolint: wrapcheck
}

// Load reads .env (when present) into the process environment, then fills
// Config from the yaml file at configPath and the environment. A missing
// yaml file is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	var cfg Config
	if _, err := os.Stat(configPath); configPath != "" && err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from env: %w", err)
	}

	return &cfg, nil
}
