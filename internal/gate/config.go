// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// LoadConfig builds an AWS config scoped to the credential's region.
// Static keys are used when both are set; otherwise the default chain applies.
// Retries are disabled: a check is a single attempt.
func LoadConfig(ctx context.Context, cred Credential) (aws.Config, error) {
	if cred.Region == "" {
		return aws.Config{}, ErrMissingRegion
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cred.Region),
		config.WithRetryMaxAttempts(1),
	}
	if cred.AccessKey != "" && cred.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cred.AccessKey, cred.SecretKey, cred.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cred.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(cred.Endpoint)
	}

	return cfg, nil
}
