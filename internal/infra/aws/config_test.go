package aws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-heartbeat/configs"
)

func TestLoadConfig_StaticCredentials(t *testing.T) {
	config, err := LoadConfig(context.Background(), configs.SQSConfig{
		Region:          "eu-north-1",
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-north-1", config.Region)

	credentials, err := config.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", credentials.AccessKeyID)
	assert.Equal(t, "secret", credentials.SecretAccessKey)
}

func TestNewSqsClient_EndpointOverride(t *testing.T) {
	config, err := LoadConfig(context.Background(), configs.SQSConfig{Region: "us-east-1", AccessKeyID: "a", SecretAccessKey: "b"})
	require.NoError(t, err)

	client := NewSqsClient(config, "http://localhost:4566")
	assert.Equal(t, "http://localhost:4566", *client.Options().BaseEndpoint)
}
