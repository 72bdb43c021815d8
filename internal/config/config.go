package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Sink selection values.
const (
	SinkStdout = "stdout"
	SinkKafka  = "kafka"
	SinkMQTT   = "mqtt"
)

// minPollInterval is the fastest cadence the WeatherLink Live interface
// supports for continuous requests.
const minPollInterval = 10 * time.Second

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Device.
	Host         string
	PollInterval time.Duration
	FetchTimeout time.Duration
	RetryBackoff time.Duration
	StationID    string

	// Snapshot sink.
	Sink         string
	KafkaBrokers []string
	KafkaTopic   string

	MQTTBroker      string
	MQTTPort        int
	MQTTClientID    string
	MQTTTopicPrefix string

	// Ops.
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A local .env file is honored when present. Invalid settings
// are errors, not log lines: the poll loop runs forever, so a bad interval
// or missing host must stop startup rather than be clamped or ignored.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	pollInterval, err := parseEnvDuration("WLL_POLL_INTERVAL", 10*time.Second)
	if err != nil {
		return nil, err
	}
	if pollInterval < minPollInterval {
		return nil, fmt.Errorf("WLL_POLL_INTERVAL must be %s or greater (device rate limit), got %s",
			minPollInterval, pollInterval)
	}

	fetchTimeout, err := parseEnvDuration("WLL_FETCH_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	retryBackoff, err := parseEnvDuration("WLL_RETRY_BACKOFF", 2*time.Second)
	if err != nil {
		return nil, err
	}

	mqttPort, err := parseEnvInt("MQTT_PORT", 1883)
	if err != nil {
		return nil, err
	}

	host := sharedcfg.EnvOrDefault("WLL_HOST", "")

	cfg := &Config{
		Host:         host,
		PollInterval: pollInterval,
		FetchTimeout: fetchTimeout,
		RetryBackoff: retryBackoff,
		StationID:    sharedcfg.EnvOrDefault("STATION_ID", host),

		Sink:         sharedcfg.EnvOrDefault("SINK", SinkStdout),
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weather-snapshots"),

		MQTTBroker:      sharedcfg.EnvOrDefault("MQTT_BROKER", ""),
		MQTTPort:        mqttPort,
		MQTTClientID:    sharedcfg.EnvOrDefault("MQTT_CLIENT_ID", "wll-collector"),
		MQTTTopicPrefix: sharedcfg.EnvOrDefault("MQTT_TOPIC_PREFIX", "stations"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.Host == "" {
		return nil, errors.New("WLL_HOST is required (hostname or IP of the WeatherLink Live device)")
	}

	switch cfg.Sink {
	case SinkStdout:
	case SinkKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when SINK=kafka")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when SINK=kafka")
		}
	case SinkMQTT:
		if cfg.MQTTBroker == "" {
			return nil, errors.New("MQTT_BROKER is required when SINK=mqtt")
		}
	default:
		return nil, fmt.Errorf("invalid SINK %q (want stdout, kafka, or mqtt)", cfg.Sink)
	}

	return cfg, nil
}

func parseEnvDuration(key string, def time.Duration) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(key, def.String())
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseEnvInt(key string, def int) (int, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.Itoa(def))
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
