package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoConfig describes how to reach the account table.
type DynamoConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the AWS endpoint, for local stacks.
	Endpoint string
}

// ConnectDynamo builds a DynamoDB client from the supplied configuration.
// Static credentials are optional; the default provider chain is used when
// they are absent.
func ConnectDynamo(ctx context.Context, conf DynamoConfig) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Region),
	}

	if conf.AccessKey != "" && conf.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
	})

	return client, nil
}
