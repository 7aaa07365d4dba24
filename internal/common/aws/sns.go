// internal/common/aws/sns.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClient publishes analysis notifications. Credentials come from the
// default AWS chain (env, shared config, instance role).
type SNSClient struct {
	client *sns.Client
	region string
}

func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config for region %s: %w", region, err)
	}
	return &SNSClient{client: sns.NewFromConfig(cfg), region: region}, nil
}

func (s *SNSClient) Region() string { return s.region }

func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, input)
}
