package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/internal/postgres"
	"github.com/nebulanet/panel/modules/subscription/audit"
	"github.com/nebulanet/panel/modules/subscription/usecase"
	"github.com/nebulanet/panel/pkg/alertclient"
	"github.com/nebulanet/panel/pkg/logger"
	"github.com/nebulanet/panel/pkg/logger/slogx"
	"github.com/nebulanet/panel/pkg/middleware/requestcontext"
	"github.com/nebulanet/panel/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServer{
			Port: 8080,
		},
	}
)

type Config struct {
	Logger       logger.Config      `mapstructure:"logger"`
	HTTPServer   HTTPServer         `mapstructure:"http_server"`
	Postgres     postgres.Config    `mapstructure:"postgres"`
	Subscription usecase.Config     `mapstructure:"subscription"`
	Alert        alertclient.Config `mapstructure:"alert"`
	AuditExport  audit.Config       `mapstructure:"audit_export"`
	APIOnly      bool               `mapstructure:"api_only"`
}

type HTTPServer struct {
	Port      int                               `mapstructure:"port"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
}

// Parse loads the configuration from the given config file, falling back to
// `./config.yaml` and environment variables.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))
	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
	})

	return *config
}

// Load returns the previously parsed configuration.
func Load() Config {
	return *config
}

// BindPFlag overrides a configuration key with a command-line flag.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("failed to bind flag to config", slogx.Error(err), slogx.String("key", key))
	}
}
