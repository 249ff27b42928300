package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		viper.SetEnvPrefix("sonometre_server")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.SetConfigName("server")
		viper.AddConfigPath("config")
		viper.AddConfigPath("/config")
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		viper.SetDefault("general.sensor_count", 5)
		viper.SetDefault("http.addr", ":3000")
		configInstance = AppConfig{
			General: GeneralConfig{
				LogLevel:    viper.GetString("general.log_level"),
				SensorCount: viper.GetInt("general.sensor_count"),
			},
			HTTP: HTTPConfig{
				Addr:           viper.GetString("http.addr"),
				AllowedOrigins: viper.GetStringSlice("http.allowed_origins"),
			},
			MQTTClient: MQTTClientConfig{
				Broker:   viper.GetString("mqtt_client.broker"),
				ClientID: viper.GetString("mqtt_client.client_id"),
				Username: viper.GetString("mqtt_client.username"),
				Password: viper.GetString("mqtt_client.password"),
			},
			Postgresql: PostgresqlConfig{
				URL: viper.GetString("database.url"),
				DSN: viper.GetString("database.dsn"),
			},
			Refresh: RefreshConfig{
				Schedule: viper.GetString("refresh.schedule"),
			},
		}
	})

	return configInstance
}

type AppConfig struct {
	General    GeneralConfig
	HTTP       HTTPConfig
	MQTTClient MQTTClientConfig
	Postgresql PostgresqlConfig
	Refresh    RefreshConfig
}

type GeneralConfig struct {
	LogLevel string
	// SensorCount is the fixed number of sondes the installation runs with.
	SensorCount int
}

type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
}

type MQTTClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

type PostgresqlConfig struct {
	URL string
	DSN string
}

type RefreshConfig struct {
	// Schedule is a standard cron expression; empty disables the
	// periodic snapshot push.
	Schedule string
}
