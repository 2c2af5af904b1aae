package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// NewSqsClient creates a SQS client. A non-empty endpoint (LocalStack)
// overrides the resolved service endpoint.
func NewSqsClient(config aws.Config, endpoint string) *sqs.Client {
	return sqs.NewFromConfig(config, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
