package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Simulator SimulatorConfig
	MQTT      MQTTConfig
	Notify    NotifyConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ShutdownTimeout time.Duration
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second per client IP, 0 disables limiting
	GeneralBurst int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type SimulatorConfig struct {
	Enabled      bool          // always-on background simulation
	Interval     time.Duration // background tick
	DemoInterval time.Duration // demo mode tick
	Seed         int64         // 0 seeds from the clock
	SeedFleet    bool          // provision the demo fleet at startup
}

type MQTTConfig struct {
	Enabled        bool
	Broker         string
	ClientID       string
	Username       string
	Password       string
	TelemetryTopic string
	QoS            int
	KeepAlive      int
	ConnectTimeout int
}

type NotifyConfig struct {
	BufferSize    int
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string
	KafkaEnabled  bool
	KafkaBrokers  []string
	KafkaTopic    string
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "30s")

	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 50)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 100)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,OPTIONS")
	viper.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,X-Request-ID")
	viper.SetDefault("CORS_EXPOSED_HEADERS", "X-Request-ID")
	viper.SetDefault("CORS_MAX_AGE", 43200)

	viper.SetDefault("SIMULATOR_ENABLED", true)
	viper.SetDefault("SIMULATOR_INTERVAL", "5s")
	viper.SetDefault("SIMULATOR_DEMO_INTERVAL", "3s")
	viper.SetDefault("SIMULATOR_SEED", 0)
	viper.SetDefault("SIMULATOR_SEED_FLEET", true)

	viper.SetDefault("MQTT_ENABLED", false)
	viper.SetDefault("MQTT_BROKER", "tcp://localhost:1883")
	viper.SetDefault("MQTT_CLIENT_ID", "coldchain-monitor")
	viper.SetDefault("MQTT_TELEMETRY_TOPIC", "coldchain/telemetry")
	viper.SetDefault("MQTT_QOS", 1)
	viper.SetDefault("MQTT_KEEP_ALIVE", 30)
	viper.SetDefault("MQTT_CONNECT_TIMEOUT", 10)

	viper.SetDefault("NOTIFY_BUFFER_SIZE", 64)
	viper.SetDefault("NOTIFY_REDIS_ENABLED", false)
	viper.SetDefault("NOTIFY_REDIS_ADDR", "localhost:6379")
	viper.SetDefault("NOTIFY_REDIS_DB", 0)
	viper.SetDefault("NOTIFY_REDIS_CHANNEL", "coldchain:events")
	viper.SetDefault("NOTIFY_KAFKA_ENABLED", false)
	viper.SetDefault("NOTIFY_KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("NOTIFY_KAFKA_TOPIC", "coldchain-events")
}

func Load() (*Config, error) {
	setDefaults()

	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			Host:            viper.GetString("SERVER_HOST"),
			Environment:     viper.GetString("ENVIRONMENT"),
			ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   list("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   list("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   list("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   list("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
		Simulator: SimulatorConfig{
			Enabled:      viper.GetBool("SIMULATOR_ENABLED"),
			Interval:     viper.GetDuration("SIMULATOR_INTERVAL"),
			DemoInterval: viper.GetDuration("SIMULATOR_DEMO_INTERVAL"),
			Seed:         viper.GetInt64("SIMULATOR_SEED"),
			SeedFleet:    viper.GetBool("SIMULATOR_SEED_FLEET"),
		},
		MQTT: MQTTConfig{
			Enabled:        viper.GetBool("MQTT_ENABLED"),
			Broker:         viper.GetString("MQTT_BROKER"),
			ClientID:       viper.GetString("MQTT_CLIENT_ID"),
			Username:       viper.GetString("MQTT_USERNAME"),
			Password:       viper.GetString("MQTT_PASSWORD"),
			TelemetryTopic: viper.GetString("MQTT_TELEMETRY_TOPIC"),
			QoS:            viper.GetInt("MQTT_QOS"),
			KeepAlive:      viper.GetInt("MQTT_KEEP_ALIVE"),
			ConnectTimeout: viper.GetInt("MQTT_CONNECT_TIMEOUT"),
		},
		Notify: NotifyConfig{
			BufferSize:    viper.GetInt("NOTIFY_BUFFER_SIZE"),
			RedisEnabled:  viper.GetBool("NOTIFY_REDIS_ENABLED"),
			RedisAddr:     viper.GetString("NOTIFY_REDIS_ADDR"),
			RedisPassword: viper.GetString("NOTIFY_REDIS_PASSWORD"),
			RedisDB:       viper.GetInt("NOTIFY_REDIS_DB"),
			RedisChannel:  viper.GetString("NOTIFY_REDIS_CHANNEL"),
			KafkaEnabled:  viper.GetBool("NOTIFY_KAFKA_ENABLED"),
			KafkaBrokers:  list("NOTIFY_KAFKA_BROKERS"),
			KafkaTopic:    viper.GetString("NOTIFY_KAFKA_TOPIC"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// list reads a comma-separated value; env vars arrive as one string.
func list(key string) []string {
	var out []string
	for _, raw := range viper.GetStringSlice(key) {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Simulator.Enabled && c.Simulator.Interval <= 0 {
		return fmt.Errorf("SIMULATOR_INTERVAL must be positive, got %s", c.Simulator.Interval)
	}
	if c.Simulator.DemoInterval <= 0 {
		return fmt.Errorf("SIMULATOR_DEMO_INTERVAL must be positive, got %s", c.Simulator.DemoInterval)
	}
	if c.MQTT.Enabled && (c.MQTT.Broker == "" || c.MQTT.TelemetryTopic == "") {
		return errors.New("MQTT_BROKER and MQTT_TELEMETRY_TOPIC are required when MQTT is enabled")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	if c.Notify.KafkaEnabled && (len(c.Notify.KafkaBrokers) == 0 || c.Notify.KafkaTopic == "") {
		return errors.New("NOTIFY_KAFKA_BROKERS and NOTIFY_KAFKA_TOPIC are required when Kafka is enabled")
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}
