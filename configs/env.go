package configs

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ModePublisher  = "publisher"
	ModeSubscriber = "subscriber"

	BusAMQP  = "amqp"
	BusSQS   = "sqs"
	BusRedis = "redis"
	BusMQTT  = "mqtt"

	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

//go:embed application.yml
var defaultProperties []byte

var envPattern = regexp.MustCompile(`^\$\{([^:}]+)(?::([^}]*))?}$`)

type ServerConfig struct {
	Port        string
	ContextPath string
}

type PublisherConfig struct {
	Interval          time.Duration
	FailFast          bool
	TargetsPath       string
	ProbeTimeout      time.Duration
	ManagementTimeout time.Duration
}

type RabbitMQConfig struct {
	Host           string
	Port           int
	TLSPort        int
	ManagementPort int
	User           string
	Password       string
	VHost          string
	Exchange       string
	Queue          string
	RoutingKey     string
	TLS            bool
	CACertPath     string
}

// EffectiveRoutingKey falls back to the queue name when no routing key is configured.
func (c RabbitMQConfig) EffectiveRoutingKey() string {
	if c.RoutingKey != "" {
		return c.RoutingKey
	}
	return c.Queue
}

// URL builds the AMQP connection URL, switching scheme and port when TLS is enabled.
func (c RabbitMQConfig) URL() string {
	scheme, port := "amqp", c.Port
	if c.TLS {
		scheme, port = "amqps", c.TLSPort
	}
	vhost := c.VHost
	if vhost == "/" {
		vhost = ""
	}
	u := url.URL{
		Scheme:  scheme,
		User:    url.UserPassword(c.User, c.Password),
		Host:    fmt.Sprintf("%s:%d", c.Host, port),
		Path:    "/" + vhost,
		RawPath: "/" + url.PathEscape(vhost),
	}
	return u.String()
}

// ManagementURL is the base URL of the broker management API.
func (c RabbitMQConfig) ManagementURL() string {
	scheme := "http"
	if c.TLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d/api", scheme, c.Host, c.ManagementPort)
}

type RedisConfig struct {
	Host     string
	Port     int
	Database int
	Password string
}

type PostgresConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

// DSN returns the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode, c.Schema)
}

type StoreConfig struct {
	Driver   string
	Postgres PostgresConfig
}

type SQSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// HeartbeatReaderConfig holds the minute thresholds used to arbitrate between
// the ok and not_ok keys of a component.
type HeartbeatReaderConfig struct {
	OkAfterFailedMinutes int
	NotOkAfterOkMinutes  int
}

type EnvConfig struct {
	ApplicationName string
	Mode            string
	LogLevel        string
	BusDriver       string
	Server          ServerConfig
	Publisher       PublisherConfig
	RabbitMQ        RabbitMQConfig
	Redis           RedisConfig
	Store           StoreConfig
	SQS             SQSConfig
	MQTT            MQTTConfig
	Heartbeat       HeartbeatReaderConfig
}

// Load builds the process configuration from application.yml, resolving
// ${ENV:default} placeholders against the environment. PROPERTIES_FILE_PATH
// replaces the embedded properties file.
func Load() (*EnvConfig, error) {
	content := defaultProperties
	if path, ok := os.LookupEnv("PROPERTIES_FILE_PATH"); ok && path != "" {
		fileContent, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read properties file %s: %w", path, err)
		}
		content = fileContent
	}
	return LoadFrom(content)
}

// LoadFrom builds the configuration from the given YAML properties.
func LoadFrom(content []byte) (*EnvConfig, error) {
	v := viper.New()
	v.SetConfigType("yml")
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to parse properties: %w", err)
	}

	resolved := make(map[string]any)
	parsePropertiesMap("", v.AllSettings(), resolved)
	for key, value := range resolved {
		v.Set(key, value)
	}

	config := &EnvConfig{
		ApplicationName: v.GetString("app.name"),
		Mode:            strings.ToLower(v.GetString("app.mode")),
		LogLevel:        v.GetString("app.log-level"),
		BusDriver:       strings.ToLower(v.GetString("bus.driver")),
		Server: ServerConfig{
			Port:        v.GetString("app.server.port"),
			ContextPath: v.GetString("app.server.context-path"),
		},
		Publisher: PublisherConfig{
			Interval:          seconds(v, "publisher.interval-seconds"),
			FailFast:          v.GetBool("publisher.fail-fast"),
			TargetsPath:       v.GetString("publisher.targets-path"),
			ProbeTimeout:      seconds(v, "publisher.probe-timeout-seconds"),
			ManagementTimeout: seconds(v, "publisher.management-timeout-seconds"),
		},
		RabbitMQ: RabbitMQConfig{
			Host:           v.GetString("rabbitmq.host"),
			Port:           v.GetInt("rabbitmq.port"),
			TLSPort:        v.GetInt("rabbitmq.tls-port"),
			ManagementPort: v.GetInt("rabbitmq.management-port"),
			User:           v.GetString("rabbitmq.user"),
			Password:       v.GetString("rabbitmq.password"),
			VHost:          v.GetString("rabbitmq.vhost"),
			Exchange:       v.GetString("rabbitmq.exchange"),
			Queue:          v.GetString("rabbitmq.queue"),
			RoutingKey:     v.GetString("rabbitmq.routing-key"),
			TLS:            v.GetBool("rabbitmq.tls"),
			CACertPath:     v.GetString("rabbitmq.ca-cert-path"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Database: v.GetInt("redis.db"),
			Password: v.GetString("redis.password"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
			Postgres: PostgresConfig{
				Host:     v.GetString("store.postgres.host"),
				Port:     v.GetInt("store.postgres.port"),
				Username: v.GetString("store.postgres.username"),
				Password: v.GetString("store.postgres.password"),
				Database: v.GetString("store.postgres.database"),
				Schema:   v.GetString("store.postgres.schema"),
				SSLMode:  v.GetString("store.postgres.ssl-mode"),
			},
		},
		SQS: SQSConfig{
			Region:          v.GetString("sqs.region"),
			Endpoint:        v.GetString("sqs.endpoint"),
			AccessKeyID:     v.GetString("sqs.access-key-id"),
			SecretAccessKey: v.GetString("sqs.secret-access-key"),
		},
		MQTT: MQTTConfig{
			Broker:   v.GetString("mqtt.broker"),
			ClientID: v.GetString("mqtt.client-id"),
			Username: v.GetString("mqtt.username"),
			Password: v.GetString("mqtt.password"),
			QoS:      byte(v.GetUint("mqtt.qos")),
		},
		Heartbeat: HeartbeatReaderConfig{
			OkAfterFailedMinutes: v.GetInt("heartbeat.ok-after-failed-minutes"),
			NotOkAfterOkMinutes:  v.GetInt("heartbeat.not-ok-after-ok-minutes"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings every mode depends on.
func (c *EnvConfig) Validate() error {
	var missing []string

	switch c.Mode {
	case ModePublisher, ModeSubscriber:
	default:
		return fmt.Errorf("unknown HEARTBEAT_MODE %q, expected %q or %q", c.Mode, ModePublisher, ModeSubscriber)
	}

	switch c.BusDriver {
	case BusAMQP:
		if c.RabbitMQ.Exchange == "" {
			missing = append(missing, "RABBITMQ_EXCHANGE")
		}
		if c.RabbitMQ.Queue == "" {
			missing = append(missing, "RABBITMQ_QUEUE")
		}
	case BusSQS, BusRedis, BusMQTT:
	default:
		return fmt.Errorf("unknown BUS_DRIVER %q", c.BusDriver)
	}

	if c.RabbitMQ.EffectiveRoutingKey() == "" {
		missing = append(missing, "RABBITMQ_ROUTING_KEY")
	}

	switch c.Store.Driver {
	case StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Mode == ModePublisher && c.Publisher.Interval <= 0 {
		return errors.New("PUBLISH_INTERVAL must be greater than 0")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing configuration(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

func seconds(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Second
}

// parsePropertiesMap flattens the YAML tree into dotted keys, resolving placeholders.
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			result[fullKey] = v
		}
	}
}

// resolveEnvVariable replaces a ${ENV:default} placeholder with the environment
// value, or the default when the variable is unset. Plain values pass through.
func resolveEnvVariable(value string) string {
	matches := envPattern.FindStringSubmatch(value)
	if matches == nil {
		return value
	}
	if envValue, exists := os.LookupEnv(matches[1]); exists {
		return envValue
	}
	return matches[2]
}
