// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/elasticsearchservice"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// RDSAPI is the subset of the RDS client used by the gate.
type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
	DescribeOptionGroups(ctx context.Context, params *rds.DescribeOptionGroupsInput, optFns ...func(*rds.Options)) (*rds.DescribeOptionGroupsOutput, error)
	DescribeDBParameterGroups(ctx context.Context, params *rds.DescribeDBParameterGroupsInput, optFns ...func(*rds.Options)) (*rds.DescribeDBParameterGroupsOutput, error)
	DescribeDBSubnetGroups(ctx context.Context, params *rds.DescribeDBSubnetGroupsInput, optFns ...func(*rds.Options)) (*rds.DescribeDBSubnetGroupsOutput, error)
}

// S3API is the subset of the S3 client used by the gate.
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// DynamoDBAPI is the subset of the DynamoDB client used by the gate.
type DynamoDBAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// IAMAPI is the subset of the IAM client used by the gate.
type IAMAPI interface {
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
}

// ElasticsearchAPI is the subset of the Elasticsearch Service client used by the gate.
type ElasticsearchAPI interface {
	DescribeElasticsearchDomains(ctx context.Context, params *elasticsearchservice.DescribeElasticsearchDomainsInput, optFns ...func(*elasticsearchservice.Options)) (*elasticsearchservice.DescribeElasticsearchDomainsOutput, error)
}

// LogsAPI is the subset of the CloudWatch Logs client used by the gate.
type LogsAPI interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	DescribeResourcePolicies(ctx context.Context, params *cloudwatchlogs.DescribeResourcePoliciesInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeResourcePoliciesOutput, error)
}

// Clients holds one client per service. A fresh set is opened for every check.
type Clients struct {
	RDS           RDSAPI
	S3            S3API
	DynamoDB      DynamoDBAPI
	IAM           IAMAPI
	Elasticsearch ElasticsearchAPI
	Logs          LogsAPI
}

// NewClients creates SDK clients from an AWS config. Client construction
// does not touch the network.
func NewClients(cfg aws.Config) *Clients {
	// Custom endpoints (LocalStack) need path-style bucket addressing.
	usePathStyle := cfg.BaseEndpoint != nil && *cfg.BaseEndpoint != ""

	return &Clients{
		RDS: rds.NewFromConfig(cfg),
		S3: s3.NewFromConfig(cfg, func(o *s3.Options) {
			if usePathStyle {
				o.UsePathStyle = true
			}
		}),
		DynamoDB:      dynamodb.NewFromConfig(cfg),
		IAM:           iam.NewFromConfig(cfg),
		Elasticsearch: elasticsearchservice.NewFromConfig(cfg),
		Logs:          cloudwatchlogs.NewFromConfig(cfg),
	}
}
