package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/environment"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type (
	// AppConfig contains full configuration of the service.
	AppConfig struct {
		Env environment.Env `long:"env" env:"ENV" description:"Environment application is running in" default:"local"`

		Logger   Logger   `group:"Logger options" namespace:"logger" env-namespace:"LOGGER"`
		Storage  Storage  `group:"Storage options" namespace:"storage" env-namespace:"STORAGE"`
		Postgres Postgres `group:"PostgreSQL option" namespace:"postgres" env-namespace:"POSTGRES"`
		SQLite   SQLite   `group:"SQLite options" namespace:"sqlite" env-namespace:"SQLITE"`
		HTTP     Server   `group:"HTTP server options" namespace:"http" env-namespace:"HTTP"`
		Tickers  Tickers  `group:"Tickers options" namespace:"tickers" env-namespace:"TICKER"`
		Nginx    Nginx    `group:"Nginx options" namespace:"nginx" env-namespace:"NGINX"`
		Certs    Certs    `group:"Certificate storage options" namespace:"certs" env-namespace:"CERTS"`
		Cloud    Cloud    `group:"Cloud CA options" namespace:"cloud" env-namespace:"CLOUD"`
		Probe    Probe    `group:"TLS probe options" namespace:"probe" env-namespace:"PROBE"`
	}

	// Tickers struct of time duration tickers.
	Tickers struct {
		CertRefresh time.Duration `long:"cert_refresh_duration" env:"CERT_REFRESH" description:"Period of the certificate working-set refresh" default:"1m"`
		CloudSync   time.Duration `long:"cloud_sync_duration" env:"CLOUD_SYNC" description:"Period of the cloud certificate status sync" default:"5m"`
		Probe       time.Duration `long:"probe_duration" env:"PROBE" description:"Period of the live TLS probe of rules" default:"1h"`
	}

	// Logger contains logger configuration.
	Logger struct {
		Level string `long:"level" env:"LEVEL" description:"Log level to use; environment-base level is used when empty"`
	}

	// Server contains server configuration, regardless
	// of the server type http.
	Server struct {
		Host string `long:"host" env:"HOST" description:"Host to listen on, default is empty (all interfaces)"`
		Port int    `long:"port" env:"PORT" description:"Port to listen on" default:"8080"`
	}

	// Storage selects the persistence backend.
	Storage struct {
		Driver string `long:"driver" env:"DRIVER" description:"Storage backend" choice:"postgres" choice:"sqlite" default:"sqlite"` //nolint:staticcheck
	}

	// Postgres contains postgres configuration.
	Postgres struct {
		MainDBConnectionString string        `long:"maindb_connection_string" env:"MAINDB_CONNECTION_STRING" description:"PGX connection string to the mainDB"` //nolint:lll
		Timeout                time.Duration `long:"timeout" env:"TIMEOUT" description:"Timeout for queries" default:"1s"`
		ConnectTimeout         time.Duration `long:"connect_timeout" env:"CONNECT_TIMEOUT" description:"How long to keep retrying the initial connection" default:"30s"`
	}

	// SQLite contains embedded database configuration.
	SQLite struct {
		Path string `long:"path" env:"PATH" description:"Database file" default:"data/proxy-admin.db"`
	}

	// Nginx contains reverse proxy configuration output options.
	Nginx struct {
		Binary    string `long:"binary" env:"BINARY" description:"Path to the nginx binary" default:"/usr/sbin/nginx"`
		ConfigDir string `long:"config_dir" env:"CONFIG_DIR" description:"Directory rendered server blocks are written to" default:"/etc/nginx/conf.d"`
		Reload    bool   `long:"reload" env:"RELOAD" description:"Test and reload nginx after every change"`
		Resolver  string `long:"resolver" env:"RESOLVER" description:"DNS resolver for locations that choose their upstream per request"`
	}

	// Certs contains certificate material storage configuration.
	Certs struct {
		Dir string `long:"dir" env:"DIR" description:"Directory certificate and key files are stored in" default:"./certs"`
	}

	// Cloud contains the cloud certificate authority configuration.
	Cloud struct {
		SecretID  string `long:"secret_id" env:"SECRET_ID" description:"Cloud API secret id; cloud certificates are disabled when empty"`
		SecretKey string `long:"secret_key" env:"SECRET_KEY" description:"Cloud API secret key"`
		Region    string `long:"region" env:"REGION" description:"Cloud API region" default:"ap-beijing"`
		Endpoint  string `long:"endpoint" env:"ENDPOINT" description:"Cloud SSL API endpoint" default:"ssl.tencentcloudapi.com"`
	}

	// Probe contains live TLS probe configuration.
	Probe struct {
		Enabled bool          `long:"enabled" env:"ENABLED" description:"Periodically probe the certificate served for every TLS rule"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" description:"Timeout of a single probe" default:"5s"`
	}
)

// ErrHelp is returned when --help flag is
// used and application should not launch.
var ErrHelp = errors.New("help")

// New reads flags and envs and returns AppConfig
// that corresponds to the values read.
func New() (*AppConfig, error) {
	return parse(nil)
}

func parse(args []string) (*AppConfig, error) {
	var config AppConfig
	parser := flags.NewParser(&config, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *AppConfig) validate() error {
	if c.Storage.Driver == DriverPostgres && c.Postgres.MainDBConnectionString == "" {
		return errors.New("postgres storage requires --postgres.maindb_connection_string")
	}
	return nil
}

// CloudEnabled reports whether cloud certificate operations are configured.
func (c *Cloud) CloudEnabled() bool {
	return c.SecretID != "" && c.SecretKey != ""
}
