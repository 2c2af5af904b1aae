package rabbitmq

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	amqp "github.com/rabbitmq/amqp091-go"

	"go-heartbeat/configs"
)

// Dial opens the broker connection, over TLS when enabled.
func Dial(config configs.RabbitMQConfig) (*amqp.Connection, error) {
	if !config.TLS {
		return amqp.Dial(config.URL())
	}

	tlsConfig, err := TLSConfig(config.CACertPath)
	if err != nil {
		return nil, err
	}
	return amqp.DialTLS(config.URL(), tlsConfig)
}

// TLSConfig trusts the CA at caCertPath, or the system pool when empty.
func TLSConfig(caCertPath string) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if caCertPath == "" {
		return tlsConfig, nil
	}

	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to add CA certificate %s to pool", caCertPath)
	}
	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}
