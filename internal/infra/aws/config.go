package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"go-heartbeat/configs"
)

// LoadConfig builds the AWS configuration. Static credentials are used when
// both keys are set; otherwise the default credential chain applies.
func LoadConfig(ctx context.Context, config configs.SQSConfig) (aws.Config, error) {
	var options []func(*awsconfig.LoadOptions) error

	if config.Region != "" {
		options = append(options, awsconfig.WithRegion(config.Region))
	}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, "")))
	}

	return awsconfig.LoadDefaultConfig(ctx, options...)
}
